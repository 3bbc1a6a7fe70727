package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockAnalyzerDeterministic(t *testing.T) {
	analyzer := &MockAnalyzer{}
	first, err := analyzer.AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "JFK", "LAX")
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}
	second, err := analyzer.AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "JFK", "LAX")
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}
	if first != second {
		t.Fatal("mock pricing must be deterministic")
	}
}

func TestMockAnalyzerRanges(t *testing.T) {
	analyzer := &MockAnalyzer{}
	for _, flight := range []string{"AA100", "BA42", "UA9999", "DL1"} {
		result, err := analyzer.AnalyzeRisk(context.Background(), flight, "2026-09-01", "", "")
		if err != nil {
			t.Fatalf("AnalyzeRisk(%s): %v", flight, err)
		}
		if result.Premium < 10 || result.Premium >= 50 {
			t.Fatalf("premium %v outside [10, 50)", result.Premium)
		}
		if result.RiskScore < 0 || result.RiskScore > 1 {
			t.Fatalf("risk score %v outside [0, 1]", result.RiskScore)
		}
		if result.DelayProbability < 0 || result.DelayProbability > 1 {
			t.Fatalf("delay probability %v outside [0, 1]", result.DelayProbability)
		}
		if result.DelayThresholdMinutes != DefaultDelayThresholdMinutes {
			t.Fatalf("threshold = %d", result.DelayThresholdMinutes)
		}
		if result.PayoutMultiplier != DefaultPayoutMultiplier {
			t.Fatalf("multiplier = %v", result.PayoutMultiplier)
		}
	}
}

func TestParseContentProseWrapped(t *testing.T) {
	content := `Here is my analysis:
{"premium": 25.5, "risk_score": 0.35, "delay_probability": 0.28, "delay_threshold_minutes": 45, "payout_multiplier": 2.0, "reasoning": "High congestion route."}
Let me know if you need anything else.`

	result, err := parseContent(content)
	if err != nil {
		t.Fatalf("parseContent: %v", err)
	}
	if result.Premium != 25.5 || result.DelayThresholdMinutes != 45 || result.PayoutMultiplier != 2.0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseContentAppliesDefaults(t *testing.T) {
	result, err := parseContent(`{"premium": 12, "risk_score": 0.2, "delay_probability": 0.1}`)
	if err != nil {
		t.Fatalf("parseContent: %v", err)
	}
	if result.DelayThresholdMinutes != DefaultDelayThresholdMinutes {
		t.Fatalf("threshold = %d, want default", result.DelayThresholdMinutes)
	}
	if result.PayoutMultiplier != DefaultPayoutMultiplier {
		t.Fatalf("multiplier = %v, want default", result.PayoutMultiplier)
	}
}

func TestParseContentRejectsNonJSON(t *testing.T) {
	if _, err := parseContent("I cannot price this flight."); err == nil {
		t.Fatal("expected error for reply without JSON")
	}
}

func TestLLMAnalyzer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: `{"premium": 30, "risk_score": 0.4, "delay_probability": 0.3, "delay_threshold_minutes": 30, "payout_multiplier": 1.5, "reasoning": "ok"}`}},
			},
		})
	}))
	defer server.Close()

	analyzer := &LLMAnalyzer{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}
	result, err := analyzer.AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "JFK", "LAX")
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}
	if result.Premium != 30 {
		t.Fatalf("premium = %v, want 30", result.Premium)
	}
}

func TestLLMAnalyzerFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	analyzer := &LLMAnalyzer{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Client:   server.Client(),
		Fallback: &MockAnalyzer{},
	}
	result, err := analyzer.AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "", "")
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}
	want, _ := (&MockAnalyzer{}).AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "", "")
	if result != want {
		t.Fatal("expected the deterministic fallback result")
	}
}

func TestLLMAnalyzerNoKeyNoFallback(t *testing.T) {
	analyzer := &LLMAnalyzer{}
	if _, err := analyzer.AnalyzeRisk(context.Background(), "AA100", "2026-09-01", "", ""); err == nil {
		t.Fatal("expected error without key or fallback")
	}
}
