package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"flarecover/internal/domain"
	cryptoinfra "flarecover/internal/infra/crypto"
)

const DefaultDeadlineHours = 24

var flightNumberPattern = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}[A-Z]?$`)

type IssueQuoteRequest struct {
	HolderAddress    string
	FlightNumber     string
	FlightDate       string
	DepartureAirport string
	ArrivalAirport   string
	DeadlineHours    int
}

// QuoteIssuer orchestrates one quote-creation request: price the risk,
// convert the premium, derive the identifier, sign. Any collaborator failure
// propagates unchanged; a partial quote is never returned.
type QuoteIssuer struct {
	Pricing domain.RiskAnalyzer
	Signer  *cryptoinfra.Signer
	Clock   Clock
}

func (uc *QuoteIssuer) Execute(ctx context.Context, req IssueQuoteRequest) (*domain.Quote, error) {
	holder, err := cryptoinfra.ChecksumAddress(req.HolderAddress)
	if err != nil {
		return nil, err
	}
	if err := validateFlight(req.FlightNumber, req.FlightDate); err != nil {
		return nil, err
	}

	pricing, err := uc.Pricing.AnalyzeRisk(ctx, req.FlightNumber, req.FlightDate, req.DepartureAirport, req.ArrivalAirport)
	if err != nil {
		return nil, err
	}
	if err := validatePricing(pricing); err != nil {
		return nil, err
	}

	premiumMinor, err := cryptoinfra.ToMinorUnits(pricing.Premium)
	if err != nil {
		return nil, err
	}
	flightID, err := cryptoinfra.DeriveFlightID(req.FlightNumber, req.FlightDate, holder)
	if err != nil {
		return nil, err
	}

	hours := req.DeadlineHours
	if hours <= 0 {
		hours = DefaultDeadlineHours
	}
	deadline := uc.now().Unix() + int64(hours)*3600

	signature, err := uc.Signer.Sign(holder, flightID, premiumMinor, deadline)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		HolderAddress:         holder,
		FlightID:              flightID,
		PremiumMinorUnits:     premiumMinor,
		Deadline:              deadline,
		RiskScore:             pricing.RiskScore,
		DelayProbability:      pricing.DelayProbability,
		DelayThresholdMinutes: pricing.DelayThresholdMinutes,
		PayoutMultiplier:      pricing.PayoutMultiplier,
		Rationale:             pricing.Rationale,
		Signature:             signature,
	}, nil
}

func (uc *QuoteIssuer) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock()
	}
	return time.Now().UTC()
}

func validateFlight(number, date string) error {
	if !flightNumberPattern.MatchString(number) {
		return fmt.Errorf("%w: malformed flight number %q", domain.ErrInvalidInput, number)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: flight date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return nil
}

// validatePricing fails fast on collaborator output outside its declared
// ranges; a malformed pricing record must never reach the signer.
func validatePricing(p domain.PricingResult) error {
	if p.RiskScore < 0 || p.RiskScore > 1 {
		return fmt.Errorf("%w: risk score %v outside [0,1]", domain.ErrInvalidInput, p.RiskScore)
	}
	if p.DelayProbability < 0 || p.DelayProbability > 1 {
		return fmt.Errorf("%w: delay probability %v outside [0,1]", domain.ErrInvalidInput, p.DelayProbability)
	}
	if p.DelayThresholdMinutes <= 0 {
		return fmt.Errorf("%w: delay threshold must be positive", domain.ErrInvalidInput)
	}
	if p.PayoutMultiplier < 1 {
		return fmt.Errorf("%w: payout multiplier %v below 1.0", domain.ErrInvalidInput, p.PayoutMultiplier)
	}
	return nil
}
