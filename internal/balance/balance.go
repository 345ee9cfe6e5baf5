// Package balance derives pairwise debt balances from expense records.
//
// The functions here are pure: they take plain data, hold no state and do
// no I/O, so they can be called concurrently (once per request) without
// coordination. Callers fetch expenses from storage, convert them to the
// minimal input types below and serialize the returned maps.
package balance

import "math"

// Epsilon is the threshold below which an accumulated net balance is
// considered settled. Repeated float additions of currency amounts leave
// representation noise; anything under a cent is treated as zero.
const Epsilon = 0.01

// Split is one user's share of an expense.
type Split struct {
	UserID string
	Amount float64
}

// Expense carries the minimal information needed for balance computation:
// who paid, and who owes what share.
type Expense struct {
	PaidByID string
	Splits   []Split
}

// ForGroup computes all pairwise balances for one group's expenses.
//
// The result maps debtor -> creditor -> amount: result[a][b] > 0 means a
// owes b that amount, and the mirrored entry result[b][a] holds the exact
// negation. A split belonging to the payer creates no debt and is skipped,
// so users who never participate in any split are absent from the result.
//
// No near-zero pruning happens at this scope; the mirror entries must stay
// exact negations of each other.
func ForGroup(expenses []Expense) map[string]map[string]float64 {
	balances := make(map[string]map[string]float64)

	add := func(from, to string, amount float64) {
		if balances[from] == nil {
			balances[from] = make(map[string]float64)
		}
		balances[from][to] += amount
	}

	for _, expense := range expenses {
		payer := expense.PaidByID
		for _, split := range expense.Splits {
			if split.UserID == payer {
				continue
			}
			add(split.UserID, payer, split.Amount)
			add(payer, split.UserID, -split.Amount)
		}
	}

	return balances
}

// ForUser computes one user's net position against every counterpart.
//
// The result maps counterpart -> amount where a positive amount means the
// counterpart owes userID. Both directions feed the same entry: shares of
// others covered by userID add to the counterpart's entry, shares of
// userID covered by someone else subtract from it. After accumulating
// across all expenses, entries with |amount| < Epsilon are dropped, so
// pairs that netted out disappear from the result.
//
// The caller is responsible for scoping the expense list (one group or
// everything); the function consumes whatever it is given.
func ForUser(userID string, expenses []Expense) map[string]float64 {
	balances := make(map[string]float64)

	for _, expense := range expenses {
		payer := expense.PaidByID
		for _, split := range expense.Splits {
			if split.UserID == userID && payer != userID {
				balances[payer] -= split.Amount
			}
			if payer == userID && split.UserID != userID {
				balances[split.UserID] += split.Amount
			}
		}
	}

	for id, amount := range balances {
		if math.Abs(amount) < Epsilon {
			delete(balances, id)
		}
	}

	return balances
}
