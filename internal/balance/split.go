package balance

import (
	"fmt"
	"math"
)

// ShareInput describes one participant's requested share of an expense.
// Which field matters depends on the split method: Amount for EXACT,
// Percent for PERCENTAGE, Shares for SHARES. EQUAL ignores all three.
type ShareInput struct {
	UserID  string
	Amount  float64
	Percent float64
	Shares  int64
}

// Allocation is one participant's final monetary share.
type Allocation struct {
	UserID string
	Amount float64
}

// Allocate derives the per-participant amounts for an expense so that the
// allocations always sum to total (within Epsilon).
//
//   - EQUAL: total divided evenly; the last participant absorbs the cent
//     remainder so the sum stays exact.
//   - EXACT: amounts taken as given; their sum must match total.
//   - PERCENTAGE: amount = total * percent/100; percents must sum to 100.
//   - SHARES: amount = total * shares/totalShares.
func Allocate(method string, total float64, inputs []ShareInput) ([]Allocation, error) {
	if total <= 0 {
		return nil, fmt.Errorf("total must be positive, got %v", total)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.UserID == "" {
			return nil, fmt.Errorf("participant user id is required")
		}
		if seen[in.UserID] {
			return nil, fmt.Errorf("duplicate participant: %s", in.UserID)
		}
		seen[in.UserID] = true
	}

	switch method {
	case "EQUAL":
		return allocateEqual(total, inputs), nil
	case "EXACT":
		return allocateExact(total, inputs)
	case "PERCENTAGE":
		return allocatePercentage(total, inputs)
	case "SHARES":
		return allocateShares(total, inputs)
	default:
		return nil, fmt.Errorf("unknown split method: %q", method)
	}
}

func allocateEqual(total float64, inputs []ShareInput) []Allocation {
	share := roundCents(total / float64(len(inputs)))

	allocations := make([]Allocation, len(inputs))
	remaining := total
	for i, in := range inputs {
		amount := share
		if i == len(inputs)-1 {
			amount = roundCents(remaining)
		}
		allocations[i] = Allocation{UserID: in.UserID, Amount: amount}
		remaining -= amount
	}
	return allocations
}

func allocateExact(total float64, inputs []ShareInput) ([]Allocation, error) {
	allocations := make([]Allocation, len(inputs))
	sum := 0.0
	for i, in := range inputs {
		if in.Amount < 0 {
			return nil, fmt.Errorf("amount for %s must not be negative", in.UserID)
		}
		allocations[i] = Allocation{UserID: in.UserID, Amount: in.Amount}
		sum += in.Amount
	}
	if math.Abs(sum-total) >= Epsilon {
		return nil, fmt.Errorf("split amounts sum to %v, expected %v", sum, total)
	}
	return allocations, nil
}

func allocatePercentage(total float64, inputs []ShareInput) ([]Allocation, error) {
	percentSum := 0.0
	for _, in := range inputs {
		if in.Percent < 0 {
			return nil, fmt.Errorf("percent for %s must not be negative", in.UserID)
		}
		percentSum += in.Percent
	}
	if math.Abs(percentSum-100) >= Epsilon {
		return nil, fmt.Errorf("percents sum to %v, expected 100", percentSum)
	}

	allocations := make([]Allocation, len(inputs))
	remaining := total
	for i, in := range inputs {
		amount := roundCents(total * in.Percent / 100)
		if i == len(inputs)-1 {
			amount = roundCents(remaining)
		}
		allocations[i] = Allocation{UserID: in.UserID, Amount: amount}
		remaining -= amount
	}
	return allocations, nil
}

func allocateShares(total float64, inputs []ShareInput) ([]Allocation, error) {
	var totalShares int64
	for _, in := range inputs {
		if in.Shares <= 0 {
			return nil, fmt.Errorf("shares for %s must be positive", in.UserID)
		}
		totalShares += in.Shares
	}

	allocations := make([]Allocation, len(inputs))
	remaining := total
	for i, in := range inputs {
		amount := roundCents(total * float64(in.Shares) / float64(totalShares))
		if i == len(inputs)-1 {
			amount = roundCents(remaining)
		}
		allocations[i] = Allocation{UserID: in.UserID, Amount: amount}
		remaining -= amount
	}
	return allocations, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
