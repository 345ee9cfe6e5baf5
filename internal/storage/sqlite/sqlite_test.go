package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HuongLanTo/split-money/internal/models"
	"github.com/HuongLanTo/split-money/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitmoney-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, name, email string) *models.User {
	t.Helper()
	user := models.NewUser(name, email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "Alice", "alice@example.com")

	t.Run("GetUserByEmail returns the user", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != alice.ID || got.Name != "Alice" {
			t.Errorf("got %+v, want Alice", got)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("GetUserByID returns the user", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got == nil || got.Email != "alice@example.com" {
			t.Errorf("got %+v, want alice@example.com", got)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("Alice2", "alice@example.com", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique constraint error, got nil")
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "Alice", "alice@example.com")
	bob := createTestUser(t, store, "Bob", "bob@example.com")

	group := &models.Group{Name: "Roommates"}
	if err := store.CreateGroup(ctx, group, alice.ID); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Fatal("expected group ID to be generated")
	}
	if group.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	t.Run("creator becomes the first member", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 1 {
			t.Fatalf("got %d members, want 1", len(got.Members))
		}
		member := got.Members[0]
		if member.UserID != alice.ID || member.Name != "Alice" || member.Email != "alice@example.com" {
			t.Errorf("unexpected member: %+v", member)
		}
		if member.JoinedAt == 0 {
			t.Error("expected JoinedAt to be set")
		}
	})

	t.Run("GetGroup fails for unknown id", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "missing"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("membership lifecycle", func(t *testing.T) {
		isMember, err := store.IsGroupMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("IsGroupMember failed: %v", err)
		}
		if isMember {
			t.Fatal("bob must not be a member yet")
		}

		member, err := store.AddGroupMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if member.JoinedAt == 0 {
			t.Error("expected JoinedAt to be set")
		}

		// unique per (group, user)
		if _, err := store.AddGroupMember(ctx, group.ID, bob.ID); err == nil {
			t.Error("expected duplicate membership error, got nil")
		}

		isMember, err = store.IsGroupMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("IsGroupMember failed: %v", err)
		}
		if !isMember {
			t.Fatal("bob must be a member now")
		}

		if err := store.RemoveGroupMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, bob.ID); err == nil {
			t.Error("expected error removing a non-member, got nil")
		}
	})

	t.Run("ListGroupsByUser returns only the user's groups", func(t *testing.T) {
		other := &models.Group{Name: "Bob's trip"}
		if err := store.CreateGroup(ctx, other, bob.ID); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("got %+v, want only %s", groups, group.ID)
		}
		if len(groups[0].Members) == 0 {
			t.Error("expected members to be loaded")
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "Alice", "alice@example.com")
	bob := createTestUser(t, store, "Bob", "bob@example.com")

	group := &models.Group{Name: "Roommates"}
	if err := store.CreateGroup(ctx, group, alice.ID); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := store.AddGroupMember(ctx, group.ID, bob.ID); err != nil {
		t.Fatalf("AddGroupMember failed: %v", err)
	}

	newExpense := func(description string, total float64, groupID *string, createdAt int64) *models.Expense {
		return &models.Expense{
			Description: description,
			Total:       total,
			Currency:    "USD",
			SplitMethod: models.SplitEqual,
			GroupID:     groupID,
			PaidByID:    alice.ID,
			CreatedByID: alice.ID,
			CreatedAt:   createdAt,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: total / 2},
				{UserID: bob.ID, Amount: total / 2},
			},
		}
	}

	groceries := newExpense("Groceries", 40, &group.ID, 100)
	dinner := newExpense("Dinner", 60, &group.ID, 200)
	personal := newExpense("Haircut", 30, nil, 300)
	personal.Splits = []models.Split{{UserID: alice.ID, Amount: 30}}

	for _, e := range []*models.Expense{groceries, dinner, personal} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense(%s) failed: %v", e.Description, err)
		}
		if e.ID == "" {
			t.Fatalf("expected expense ID to be generated for %s", e.Description)
		}
	}

	t.Run("ListGroupExpenses excludes personal expenses", func(t *testing.T) {
		expenses, total, err := store.ListGroupExpenses(ctx, group.ID, storage.ListOptions{Limit: 10})
		if err != nil {
			t.Fatalf("ListGroupExpenses failed: %v", err)
		}
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		if len(expenses) != 2 {
			t.Fatalf("got %d expenses, want 2", len(expenses))
		}
		for _, e := range expenses {
			if e.Description == "Haircut" {
				t.Error("personal expense must not appear in group listing")
			}
			if len(e.Splits) != 2 {
				t.Errorf("%s: got %d splits, want 2", e.Description, len(e.Splits))
			}
			if e.PaidBy == nil || e.PaidBy.Name != "Alice" {
				t.Errorf("%s: payer not joined in: %+v", e.Description, e.PaidBy)
			}
		}
	})

	t.Run("sorting and pagination", func(t *testing.T) {
		expenses, _, err := store.ListGroupExpenses(ctx, group.ID, storage.ListOptions{
			Limit:     1,
			SortField: storage.SortByTotal,
			SortOrder: storage.SortAsc,
		})
		if err != nil {
			t.Fatalf("ListGroupExpenses failed: %v", err)
		}
		if len(expenses) != 1 || expenses[0].Description != "Groceries" {
			t.Errorf("got %+v, want the cheapest expense only", expenses)
		}

		expenses, _, err = store.ListGroupExpenses(ctx, group.ID, storage.ListOptions{
			Offset:    1,
			Limit:     1,
			SortField: storage.SortByTotal,
			SortOrder: storage.SortAsc,
		})
		if err != nil {
			t.Fatalf("ListGroupExpenses failed: %v", err)
		}
		if len(expenses) != 1 || expenses[0].Description != "Dinner" {
			t.Errorf("got %+v, want the second page", expenses)
		}
	})

	t.Run("ListUserExpenses includes personal expenses, newest first", func(t *testing.T) {
		expenses, err := store.ListUserExpenses(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListUserExpenses failed: %v", err)
		}
		if len(expenses) != 3 {
			t.Fatalf("got %d expenses, want 3", len(expenses))
		}
		if expenses[0].Description != "Haircut" {
			t.Errorf("first expense = %s, want the newest (Haircut)", expenses[0].Description)
		}
		if expenses[0].GroupID != nil {
			t.Error("personal expense must have a nil group id")
		}
	})

	t.Run("ListUserExpenses for a non-participant is empty", func(t *testing.T) {
		carol := createTestUser(t, store, "Carol", "carol@example.com")
		expenses, err := store.ListUserExpenses(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListUserExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("got %d expenses, want 0", len(expenses))
		}
	})

	t.Run("ListExpenses scoped to a group", func(t *testing.T) {
		expenses, err := store.ListExpenses(ctx, &group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Errorf("got %d expenses, want 2", len(expenses))
		}
	})

	t.Run("ListExpenses unscoped returns everything", func(t *testing.T) {
		expenses, err := store.ListExpenses(ctx, nil)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 3 {
			t.Errorf("got %d expenses, want 3", len(expenses))
		}
	})

	t.Run("split metadata round trip", func(t *testing.T) {
		percent := 60.0
		shares := int64(3)
		e := &models.Expense{
			Description: "Weighted",
			Total:       50,
			Currency:    "USD",
			SplitMethod: models.SplitPercentage,
			GroupID:     &group.ID,
			PaidByID:    alice.ID,
			CreatedByID: alice.ID,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: 30, Percent: &percent},
				{UserID: bob.ID, Amount: 20, Shares: &shares},
			},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx, &group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		var got *models.Expense
		for i := range expenses {
			if expenses[i].ID == e.ID {
				got = &expenses[i]
			}
		}
		if got == nil {
			t.Fatal("created expense not found in listing")
		}
		for _, split := range got.Splits {
			switch split.UserID {
			case alice.ID:
				if split.Percent == nil || *split.Percent != 60.0 {
					t.Errorf("alice percent = %v, want 60", split.Percent)
				}
			case bob.ID:
				if split.Shares == nil || *split.Shares != 3 {
					t.Errorf("bob shares = %v, want 3", split.Shares)
				}
			}
		}
	})
}
