package relief

import "math"

// FeeTier charges FeeCents for any amount strictly below UpToCents
type FeeTier struct {
	UpToCents int64 `json:"upToCents"`
	FeeCents  int64 `json:"feeCents"`
}

// feeSchedule is ordered and ends at MaxInt64 so the lookup has no gaps
var feeSchedule = []FeeTier{
	{UpToCents: 5000, FeeCents: 199},
	{UpToCents: 15000, FeeCents: 299},
	{UpToCents: 50000, FeeCents: 499},
	{UpToCents: math.MaxInt64, FeeCents: 799},
}

// ConnectionFee is charged to both the requester and the helper once a match
// is accepted. Negative amounts fall into the cheapest tier.
func ConnectionFee(amountCents int64) int64 {
	for _, tier := range feeSchedule {
		if amountCents < tier.UpToCents {
			return tier.FeeCents
		}
	}
	return feeSchedule[len(feeSchedule)-1].FeeCents
}

func FeeSchedule() []FeeTier {
	schedule := make([]FeeTier, len(feeSchedule))
	copy(schedule, feeSchedule)
	return schedule
}
