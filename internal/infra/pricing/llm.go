package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"flarecover/internal/domain"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	defaultBaseURL = "https://api.openai.com/v1"
)

// LLMAnalyzer prices flight risk with a chat-completion model. Transport and
// parse failures fall back to the deterministic analyzer so quoting stays
// available when the model is not; the fallback result still passes the same
// range validation downstream.
type LLMAnalyzer struct {
	APIKey   string
	Model    string
	BaseURL  string
	Client   *http.Client
	Fallback domain.RiskAnalyzer
	Logger   *slog.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type pricingPayload struct {
	Premium               float64 `json:"premium"`
	RiskScore             float64 `json:"risk_score"`
	DelayProbability      float64 `json:"delay_probability"`
	DelayThresholdMinutes int     `json:"delay_threshold_minutes"`
	PayoutMultiplier      float64 `json:"payout_multiplier"`
	Reasoning             string  `json:"reasoning"`
}

func (a *LLMAnalyzer) AnalyzeRisk(ctx context.Context, flightNumber, flightDate, departureAirport, arrivalAirport string) (domain.PricingResult, error) {
	result, err := a.analyze(ctx, flightNumber, flightDate, departureAirport, arrivalAirport)
	if err != nil {
		if a.Fallback == nil {
			return domain.PricingResult{}, err
		}
		if a.Logger != nil {
			a.Logger.Warn("llm pricing failed, using deterministic fallback", "flight", flightNumber, "error", err)
		}
		return a.Fallback.AnalyzeRisk(ctx, flightNumber, flightDate, departureAirport, arrivalAirport)
	}
	return result, nil
}

func (a *LLMAnalyzer) analyze(ctx context.Context, flightNumber, flightDate, departureAirport, arrivalAirport string) (domain.PricingResult, error) {
	if a.APIKey == "" {
		return domain.PricingResult{}, errors.New("api key not configured")
	}
	body, err := json.Marshal(chatRequest{
		Model:       a.model(),
		Temperature: 0.3,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(flightNumber, flightDate, departureAirport, arrivalAirport)},
		},
	})
	if err != nil {
		return domain.PricingResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL()+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.PricingResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.client().Do(req)
	if err != nil {
		return domain.PricingResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.PricingResult{}, fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.PricingResult{}, err
	}
	if len(parsed.Choices) == 0 {
		return domain.PricingResult{}, errors.New("chat completion returned no choices")
	}
	return parseContent(parsed.Choices[0].Message.Content)
}

// parseContent extracts the JSON object from the model reply; models
// occasionally wrap it in prose.
func parseContent(content string) (domain.PricingResult, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return domain.PricingResult{}, errors.New("no JSON object in model reply")
	}
	payload := pricingPayload{
		DelayThresholdMinutes: DefaultDelayThresholdMinutes,
		PayoutMultiplier:      DefaultPayoutMultiplier,
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return domain.PricingResult{}, fmt.Errorf("parse model reply: %w", err)
	}
	return domain.PricingResult{
		Premium:               payload.Premium,
		RiskScore:             payload.RiskScore,
		DelayProbability:      payload.DelayProbability,
		DelayThresholdMinutes: payload.DelayThresholdMinutes,
		PayoutMultiplier:      payload.PayoutMultiplier,
		Rationale:             payload.Reasoning,
	}, nil
}

func buildPrompt(flightNumber, flightDate, departureAirport, arrivalAirport string) string {
	if departureAirport == "" {
		departureAirport = "Unknown"
	}
	if arrivalAirport == "" {
		arrivalAirport = "Unknown"
	}
	baseDelayRate := float64(hashMod(flightNumber, 40)) / 100
	return fmt.Sprintf(`You are an expert aviation risk analyst for a flight delay insurance dApp on Flare Network.

Analyze the following flight and calculate an appropriate insurance premium in FLR.

Flight Details:
- Flight Number: %s
- Date: %s
- Departure: %s
- Arrival: %s

Historical Data Context:
- Average delay rate: %.0f%%
- Typical delay duration: 15-45 minutes

Respond ONLY with valid JSON in this format:
{"premium": 25.5, "risk_score": 0.35, "delay_probability": 0.28, "delay_threshold_minutes": 30, "payout_multiplier": 1.5, "reasoning": "Route has moderate delay history."}`,
		flightNumber, flightDate, departureAirport, arrivalAirport, baseDelayRate*100)
}

func (a *LLMAnalyzer) model() string {
	if a.Model != "" {
		return a.Model
	}
	return defaultModel
}

func (a *LLMAnalyzer) baseURL() string {
	if a.BaseURL != "" {
		return strings.TrimSuffix(a.BaseURL, "/")
	}
	return defaultBaseURL
}

func (a *LLMAnalyzer) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}
