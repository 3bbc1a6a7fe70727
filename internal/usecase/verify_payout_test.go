package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

type stubStatusProvider struct {
	status domain.FlightStatus
	err    error
	calls  int
}

func (s *stubStatusProvider) GetFlightStatus(ctx context.Context, flightNumber, flightDate string) (domain.FlightStatus, error) {
	s.calls++
	return s.status, s.err
}

type mapStatusCache struct {
	entries map[string]domain.FlightStatus
}

func newMapStatusCache() *mapStatusCache {
	return &mapStatusCache{entries: make(map[string]domain.FlightStatus)}
}

func (c *mapStatusCache) Get(ctx context.Context, key string) (*domain.FlightStatus, bool, error) {
	status, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &status, true, nil
}

func (c *mapStatusCache) Put(ctx context.Context, key string, value domain.FlightStatus, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}

func delayedStatus(delay int) domain.FlightStatus {
	return domain.FlightStatus{
		FlightNumber:          "AA100",
		DepartureDelayMinutes: delay,
		ArrivalDelayMinutes:   delay,
		Status:                "delayed",
		DataSource:            "mock",
	}
}

func TestVerifyPayout(t *testing.T) {
	provider := &stubStatusProvider{status: delayedStatus(45)}
	uc := &PayoutVerifier{Status: provider, Cache: newMapStatusCache(), Engine: &PayoutEngine{}}

	receipt, err := uc.Execute(context.Background(), VerifyPayoutRequest{
		FlightNumber:      "AA100",
		FlightDate:        "2026-09-01",
		ThresholdMinutes:  30,
		PremiumMinorUnits: uint256.NewInt(10),
		PayoutMultiplier:  1.5,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !receipt.Condition.ConditionMet {
		t.Fatal("expected condition met for a 45 minute delay")
	}
	if receipt.Condition.DelayMinutes != 45 {
		t.Fatalf("DelayMinutes = %d, want 45", receipt.Condition.DelayMinutes)
	}
	if receipt.Status.DataSource != "mock" {
		t.Fatalf("DataSource = %s", receipt.Status.DataSource)
	}
}

func TestVerifyPayoutUsesCache(t *testing.T) {
	provider := &stubStatusProvider{status: delayedStatus(45)}
	uc := &PayoutVerifier{Status: provider, Cache: newMapStatusCache(), Engine: &PayoutEngine{}}

	req := VerifyPayoutRequest{
		FlightNumber:      "AA100",
		FlightDate:        "2026-09-01",
		ThresholdMinutes:  30,
		PremiumMinorUnits: uint256.NewInt(10),
		PayoutMultiplier:  1.5,
	}
	for i := 0; i < 3; i++ {
		if _, err := uc.Execute(context.Background(), req); err != nil {
			t.Fatalf("Execute %d: %v", i, err)
		}
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1", provider.calls)
	}
}

func TestVerifyPayoutWrapsProviderError(t *testing.T) {
	provider := &stubStatusProvider{err: errors.New("timeout")}
	uc := &PayoutVerifier{Status: provider, Engine: &PayoutEngine{}}

	_, err := uc.Execute(context.Background(), VerifyPayoutRequest{
		FlightNumber:      "AA100",
		FlightDate:        "2026-09-01",
		ThresholdMinutes:  30,
		PremiumMinorUnits: uint256.NewInt(10),
		PayoutMultiplier:  1.5,
	})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestVerifyPayoutRejectsBadFlight(t *testing.T) {
	uc := &PayoutVerifier{Status: &stubStatusProvider{}, Engine: &PayoutEngine{}}
	_, err := uc.Execute(context.Background(), VerifyPayoutRequest{
		FlightNumber:     "!!",
		FlightDate:       "2026-09-01",
		ThresholdMinutes: 30,
		PayoutMultiplier: 1.5,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
