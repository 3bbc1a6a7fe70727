package domain

import "github.com/holiman/uint256"

// PayoutCondition is the result of evaluating a quote's payout rule against
// observed delay data. Derived fresh on every verification call.
type PayoutCondition struct {
	ThresholdMinutes int
	DelayMinutes     int
	ConditionMet     bool
	PayoutAmount     *uint256.Int
	FlightStatus     string
}
