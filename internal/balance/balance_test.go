package balance

import (
	"math"
	"testing"
)

func TestForGroup(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		want     map[string]map[string]float64
	}{
		{
			name:     "empty expense list",
			expenses: nil,
			want:     map[string]map[string]float64{},
		},
		{
			name: "one expense split between payer and one other",
			expenses: []Expense{
				{
					PaidByID: "u1",
					Splits: []Split{
						{UserID: "u1", Amount: 50},
						{UserID: "u2", Amount: 50},
					},
				},
			},
			want: map[string]map[string]float64{
				"u1": {"u2": -50},
				"u2": {"u1": 50},
			},
		},
		{
			name: "payer not among the splits",
			expenses: []Expense{
				{
					PaidByID: "u1",
					Splits: []Split{
						{UserID: "u2", Amount: 30},
						{UserID: "u3", Amount: 70},
					},
				},
			},
			want: map[string]map[string]float64{
				"u1": {"u2": -30, "u3": -70},
				"u2": {"u1": 30},
				"u3": {"u1": 70},
			},
		},
		{
			name: "multiple expenses accumulate per pair",
			expenses: []Expense{
				{
					PaidByID: "u1",
					Splits:   []Split{{UserID: "u2", Amount: 50}},
				},
				{
					PaidByID: "u1",
					Splits:   []Split{{UserID: "u2", Amount: 25}},
				},
				{
					PaidByID: "u2",
					Splits:   []Split{{UserID: "u1", Amount: 10}},
				},
			},
			want: map[string]map[string]float64{
				"u1": {"u2": -65},
				"u2": {"u1": 65},
			},
		},
		{
			name: "payer-only splits create no entries",
			expenses: []Expense{
				{
					PaidByID: "u1",
					Splits:   []Split{{UserID: "u1", Amount: 100}},
				},
			},
			want: map[string]map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForGroup(tt.expenses)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d users, want %d: %v", len(got), len(tt.want), got)
			}
			for user, wantRow := range tt.want {
				gotRow, ok := got[user]
				if !ok {
					t.Fatalf("missing user %s in result", user)
				}
				if len(gotRow) != len(wantRow) {
					t.Fatalf("user %s: got %d counterparts, want %d", user, len(gotRow), len(wantRow))
				}
				for counterpart, want := range wantRow {
					if math.Abs(gotRow[counterpart]-want) > 1e-9 {
						t.Errorf("balances[%s][%s] = %v, want %v", user, counterpart, gotRow[counterpart], want)
					}
				}
			}
		})
	}
}

// Every pair present in the group result must hold exact mirrored amounts:
// money is conserved, balances[x][y] == -balances[y][x].
func TestForGroup_Antisymmetry(t *testing.T) {
	expenses := []Expense{
		{PaidByID: "u1", Splits: []Split{{UserID: "u1", Amount: 20.10}, {UserID: "u2", Amount: 39.95}, {UserID: "u3", Amount: 39.95}}},
		{PaidByID: "u2", Splits: []Split{{UserID: "u1", Amount: 12.34}, {UserID: "u3", Amount: 7.66}}},
		{PaidByID: "u3", Splits: []Split{{UserID: "u2", Amount: 0.03}}},
	}

	balances := ForGroup(expenses)
	for x, row := range balances {
		for y, amount := range row {
			mirror, ok := balances[y][x]
			if !ok {
				t.Fatalf("missing mirror entry for [%s][%s]", y, x)
			}
			if amount != -mirror {
				t.Errorf("balances[%s][%s] = %v, mirror = %v, want exact negation", x, y, amount, mirror)
			}
		}
	}
}

func TestForGroup_NonParticipantAbsent(t *testing.T) {
	expenses := []Expense{
		{PaidByID: "u1", Splits: []Split{{UserID: "u2", Amount: 10}}},
	}

	balances := ForGroup(expenses)
	if _, ok := balances["u3"]; ok {
		t.Error("u3 has no splits and must not appear in the result")
	}
}

func TestForUser(t *testing.T) {
	dinner := Expense{
		PaidByID: "u1",
		Splits: []Split{
			{UserID: "u1", Amount: 50},
			{UserID: "u2", Amount: 50},
		},
	}

	tests := []struct {
		name     string
		userID   string
		expenses []Expense
		want     map[string]float64
	}{
		{
			name:     "empty expense list",
			userID:   "u1",
			expenses: nil,
			want:     map[string]float64{},
		},
		{
			name:     "payer is owed the unsettled share",
			userID:   "u1",
			expenses: []Expense{dinner},
			want:     map[string]float64{"u2": 50},
		},
		{
			name:     "debtor owes the payer",
			userID:   "u2",
			expenses: []Expense{dinner},
			want:     map[string]float64{"u1": -50},
		},
		{
			name:   "uninvolved user gets an empty result",
			userID: "u9",
			expenses: []Expense{
				dinner,
				{PaidByID: "u2", Splits: []Split{{UserID: "u3", Amount: 12}}},
			},
			want: map[string]float64{},
		},
		{
			name:   "reciprocal expenses net to zero and are pruned",
			userID: "u1",
			expenses: []Expense{
				{PaidByID: "u1", Splits: []Split{{UserID: "u1", Amount: 50}, {UserID: "u2", Amount: 50}}},
				{PaidByID: "u2", Splits: []Split{{UserID: "u1", Amount: 50}, {UserID: "u2", Amount: 50}}},
			},
			want: map[string]float64{},
		},
		{
			name:   "multiple expenses accumulate before pruning",
			userID: "u1",
			expenses: []Expense{
				{PaidByID: "u1", Splits: []Split{{UserID: "u2", Amount: 30}}},
				{PaidByID: "u1", Splits: []Split{{UserID: "u2", Amount: 20}}},
				{PaidByID: "u2", Splits: []Split{{UserID: "u1", Amount: 15}}},
			},
			want: map[string]float64{"u2": 35},
		},
		{
			name:   "personal expense of another user is ignored",
			userID: "u1",
			expenses: []Expense{
				{PaidByID: "u2", Splits: []Split{{UserID: "u2", Amount: 99}}},
			},
			want: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForUser(tt.userID, tt.expenses)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %v", len(got), len(tt.want), got)
			}
			for counterpart, want := range tt.want {
				if math.Abs(got[counterpart]-want) > 1e-9 {
					t.Errorf("balances[%s] = %v, want %v", counterpart, got[counterpart], want)
				}
			}
		})
	}
}

// Balances that accumulate to a sub-cent residue must be pruned even though
// the intermediate partial sums were non-zero.
func TestForUser_EpsilonPruning(t *testing.T) {
	expenses := []Expense{
		{PaidByID: "u1", Splits: []Split{{UserID: "u2", Amount: 10.005}}},
		{PaidByID: "u2", Splits: []Split{{UserID: "u1", Amount: 10.00}}},
	}

	got := ForUser("u1", expenses)
	if _, ok := got["u2"]; ok {
		t.Errorf("residue below epsilon must be pruned, got %v", got)
	}
}
