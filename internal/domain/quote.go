package domain

import (
	"context"

	"github.com/holiman/uint256"
)

// SigningDomain is the EIP-712 domain context. It is built once at process
// start and never mutated afterwards.
type SigningDomain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract string
}

// PricingResult is the output of the risk/pricing collaborator. Premium is a
// major-unit (FLR) decimal; everything else passes through to the quote
// unchanged.
type PricingResult struct {
	Premium               float64
	RiskScore             float64
	DelayProbability      float64
	DelayThresholdMinutes int
	PayoutMultiplier      float64
	Rationale             string
}

// Quote is the signed artifact returned to the caller. It is never mutated
// after signing and never persisted by this service.
type Quote struct {
	HolderAddress         string
	FlightID              string
	PremiumMinorUnits     *uint256.Int
	Deadline              int64
	RiskScore             float64
	DelayProbability      float64
	DelayThresholdMinutes int
	PayoutMultiplier      float64
	Rationale             string
	Signature             string
}

// RiskAnalyzer is the capability boundary for the pricing collaborator.
// Implementations may be networked (LLM) or deterministic.
type RiskAnalyzer interface {
	AnalyzeRisk(ctx context.Context, flightNumber, flightDate, departureAirport, arrivalAirport string) (PricingResult, error)
}
