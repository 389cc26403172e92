package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Allocation is one weighted recipient of a Distribute call.
type Allocation struct {
	ID     string
	Weight float64
}

// Share is the amount Distribute assigned to one allocation.
type Share struct {
	ID     string `json:"id"`
	Amount Cents  `json:"amount"`
}

// Distribute splits total proportionally to the allocation weights.
// See DistributeCents.
func Distribute(total string, allocs []Allocation) ([]Share, error) {
	c, err := ToCents(total)
	if err != nil {
		return nil, err
	}
	return DistributeCents(c, allocs)
}

// DistributeCents splits total proportionally to the allocation weights.
// Each share is rounded to the cent and the last share takes the residual,
// so the shares always sum to total exactly. A share never exceeds what is
// left of total, so no share has the opposite sign of total.
func DistributeCents(total Cents, allocs []Allocation) ([]Share, error) {
	if len(allocs) == 0 {
		return []Share{}, nil
	}

	weightSum := decimal.Zero
	for _, a := range allocs {
		if math.IsNaN(a.Weight) || math.IsInf(a.Weight, 0) || a.Weight <= 0 {
			return nil, newError("Distribute", a.ID, ErrInvalidWeight)
		}
		weightSum = weightSum.Add(decimal.NewFromFloat(a.Weight))
	}

	shares := make([]Share, len(allocs))
	totalDec := decimal.NewFromInt(int64(total))
	var assigned Cents
	last := len(allocs) - 1
	for i, a := range allocs[:last] {
		amount := totalDec.Mul(decimal.NewFromFloat(a.Weight)).Div(weightSum).Round(0)
		c := clampShare(Cents(amount.IntPart()), total-assigned)
		shares[i] = Share{ID: a.ID, Amount: c}
		assigned += c
	}
	shares[last] = Share{ID: allocs[last].ID, Amount: total - assigned}
	return shares, nil
}

// clampShare limits c to the range between zero and left.
func clampShare(c, left Cents) Cents {
	if left >= 0 {
		return max(0, min(c, left))
	}
	return min(0, max(c, left))
}
