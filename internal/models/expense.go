package models

import "fmt"

// SplitMethod determines how an expense's total was divided into splits.
// The balance engine never inspects it; it only matters at creation time.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "EQUAL"
	SplitExact      SplitMethod = "EXACT"
	SplitPercentage SplitMethod = "PERCENTAGE"
	SplitShares     SplitMethod = "SHARES"
)

// ParseSplitMethod validates a split method string.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch m := SplitMethod(s); m {
	case SplitEqual, SplitExact, SplitPercentage, SplitShares:
		return m, nil
	default:
		return "", fmt.Errorf("unknown split method: %q", s)
	}
}

// Expense represents one shared payment. Expenses are immutable once
// created; the splits are created together with the expense in one
// transaction and always sum to Total.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label (e.g., "Dinner").
	Description string `json:"description"`

	// Total is the full amount paid, in Currency units.
	Total float64 `json:"total"`

	// Currency is the ISO currency code of the expense.
	Currency string `json:"currency"`

	// SplitMethod records how the splits were derived.
	SplitMethod SplitMethod `json:"splitMethod"`

	// GroupID is the owning group. Nil means a personal expense that
	// belongs to no group.
	GroupID *string `json:"groupId"`

	// PaidByID is the user who fronted the money.
	PaidByID string `json:"paidById"`

	// CreatedByID is the user who recorded the expense.
	CreatedByID string `json:"createdById"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`

	// Splits holds one row per participant.
	Splits []Split `json:"splits"`

	// PaidBy is the payer's public details, populated on reads.
	PaidBy *UserRef `json:"paidBy,omitempty"`
}

// Split represents a single user's share of one expense.
type Split struct {
	ExpenseID string `json:"expenseId,omitempty"`
	UserID    string `json:"userId"`

	// Amount is the monetary value this user is responsible for,
	// in the expense's currency.
	Amount float64 `json:"amount"`

	// Percent is set for PERCENTAGE splits (0-100).
	Percent *float64 `json:"percent,omitempty"`

	// Shares is set for SHARES splits (weight, >= 1).
	Shares *int64 `json:"shares,omitempty"`
}
