package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

type VerifyPayoutRequest struct {
	FlightNumber      string
	FlightDate        string
	ThresholdMinutes  int
	PremiumMinorUnits *uint256.Int
	PayoutMultiplier  float64
}

type VerifyPayoutReceipt struct {
	Condition domain.PayoutCondition
	Status    domain.FlightStatus
}

// PayoutVerifier resolves observed flight status (cache first, then the
// provider) and evaluates the payout condition against it.
type PayoutVerifier struct {
	Status   domain.FlightStatusProvider
	Cache    StatusCache
	Engine   *PayoutEngine
	CacheTTL time.Duration
}

func (uc *PayoutVerifier) Execute(ctx context.Context, req VerifyPayoutRequest) (*VerifyPayoutReceipt, error) {
	if err := validateFlight(req.FlightNumber, req.FlightDate); err != nil {
		return nil, err
	}

	status, err := uc.lookupStatus(ctx, req.FlightNumber, req.FlightDate)
	if err != nil {
		return nil, err
	}

	engine := uc.Engine
	if engine == nil {
		engine = &PayoutEngine{}
	}
	condition, err := engine.Evaluate(PayoutInput{
		DepartureDelayMinutes: status.DepartureDelayMinutes,
		ArrivalDelayMinutes:   status.ArrivalDelayMinutes,
		ThresholdMinutes:      req.ThresholdMinutes,
		PremiumMinorUnits:     req.PremiumMinorUnits,
		PayoutMultiplier:      req.PayoutMultiplier,
		FlightStatus:          status.Status,
	})
	if err != nil {
		return nil, err
	}

	return &VerifyPayoutReceipt{Condition: condition, Status: status}, nil
}

func (uc *PayoutVerifier) lookupStatus(ctx context.Context, flightNumber, flightDate string) (domain.FlightStatus, error) {
	key := flightNumber + ":" + flightDate
	if uc.Cache != nil {
		if cached, ok, err := uc.Cache.Get(ctx, key); err == nil && ok {
			return *cached, nil
		}
	}
	status, err := uc.Status.GetFlightStatus(ctx, flightNumber, flightDate)
	if err != nil {
		return domain.FlightStatus{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if uc.Cache != nil {
		_ = uc.Cache.Put(ctx, key, status, uc.CacheTTL)
	}
	return status, nil
}
