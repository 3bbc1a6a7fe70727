package pricing

import (
	"context"
	"fmt"
	"hash/fnv"

	"flarecover/internal/domain"
)

const (
	DefaultDelayThresholdMinutes = 30
	DefaultPayoutMultiplier      = 1.5
)

// MockAnalyzer produces deterministic pricing derived from the flight number
// and date. It serves as the configured analyzer when no model key is set and
// as the fallback when the networked analyzer fails.
type MockAnalyzer struct{}

func (m *MockAnalyzer) AnalyzeRisk(ctx context.Context, flightNumber, flightDate, departureAirport, arrivalAirport string) (domain.PricingResult, error) {
	premium := 10.0 + float64(hashMod(flightNumber, 40))
	delayProbability := 0.2 + float64(hashMod(flightNumber, 30))/100
	riskScore := delayProbability + float64(hashMod(flightDate, 20))/100
	if riskScore > 1 {
		riskScore = 1
	}
	return domain.PricingResult{
		Premium:               premium,
		RiskScore:             riskScore,
		DelayProbability:      delayProbability,
		DelayThresholdMinutes: DefaultDelayThresholdMinutes,
		PayoutMultiplier:      DefaultPayoutMultiplier,
		Rationale:             fmt.Sprintf("Deterministic analysis: flight %s shows %.0f%% delay probability. Premium derived from historical route patterns.", flightNumber, delayProbability*100),
	}, nil
}

func hashMod(value string, mod uint32) uint32 {
	h := fnv.New32a()
	h.Write([]byte(value))
	return h.Sum32() % mod
}
