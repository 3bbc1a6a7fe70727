package usecase

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

type PayoutInput struct {
	DepartureDelayMinutes int
	ArrivalDelayMinutes   int
	ThresholdMinutes      int
	PremiumMinorUnits     *uint256.Int
	PayoutMultiplier      float64
	FlightStatus          string
}

// PayoutEngine decides whether a quote's payout condition is satisfied.
// Evaluation is pure and consults no state beyond its input.
type PayoutEngine struct{}

func (e *PayoutEngine) Evaluate(input PayoutInput) (domain.PayoutCondition, error) {
	if input.DepartureDelayMinutes < 0 || input.ArrivalDelayMinutes < 0 {
		return domain.PayoutCondition{}, fmt.Errorf("%w: delay minutes must not be negative", domain.ErrInvalidInput)
	}
	if input.ThresholdMinutes <= 0 {
		return domain.PayoutCondition{}, fmt.Errorf("%w: threshold must be positive", domain.ErrInvalidInput)
	}
	if math.IsNaN(input.PayoutMultiplier) || math.IsInf(input.PayoutMultiplier, 0) || input.PayoutMultiplier < 1 {
		return domain.PayoutCondition{}, fmt.Errorf("%w: payout multiplier %v below 1.0", domain.ErrInvalidInput, input.PayoutMultiplier)
	}

	observed := input.DepartureDelayMinutes
	if input.ArrivalDelayMinutes > observed {
		observed = input.ArrivalDelayMinutes
	}
	// Equality counts: a delay exactly at the threshold pays out.
	met := observed >= input.ThresholdMinutes

	payout := new(uint256.Int)
	if met {
		scaled, err := scalePremium(input.PremiumMinorUnits, input.PayoutMultiplier)
		if err != nil {
			return domain.PayoutCondition{}, err
		}
		payout = scaled
	}

	return domain.PayoutCondition{
		ThresholdMinutes: input.ThresholdMinutes,
		DelayMinutes:     observed,
		ConditionMet:     met,
		PayoutAmount:     payout,
		FlightStatus:     input.FlightStatus,
	}, nil
}

// scalePremium multiplies minor units by the payout multiplier and truncates
// the result to integer minor units.
func scalePremium(premium *uint256.Int, multiplier float64) (*uint256.Int, error) {
	if premium == nil {
		return new(uint256.Int), nil
	}
	product := new(big.Float).SetPrec(256).SetInt(premium.ToBig())
	product.Mul(product, new(big.Float).SetPrec(256).SetFloat64(multiplier))
	truncated, _ := product.Int(nil)
	out, overflow := uint256.FromBig(truncated)
	if overflow {
		return nil, fmt.Errorf("%w: payout exceeds uint256 range", domain.ErrInvalidAmount)
	}
	return out, nil
}
