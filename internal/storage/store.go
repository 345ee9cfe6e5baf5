// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/HuongLanTo/split-money/internal/models"
)

// SortField enumerates the expense columns a listing may be ordered by.
// Keeping this a closed set (instead of an arbitrary column name from the
// request) is what makes the sort parameter safe to pass through.
type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByTotal       SortField = "total"
	SortByDescription SortField = "description"
)

// SortOrder is the listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls pagination and ordering of expense listings.
type ListOptions struct {
	Offset    int
	Limit     int
	SortField SortField
	SortOrder SortOrder
}

// Store defines the interface for split-money's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails on duplicate email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group and makes creatorID its first
	// member, in one transaction. Populates group.ID and group.CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group, creatorID string) error

	// GetGroup retrieves a group with its members (user details joined).
	// Returns an error if the group is not found.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves every group the user is a member of,
	// members included.
	ListGroupsByUser(ctx context.Context, userID string) ([]models.Group, error)

	// IsGroupMember reports whether the user belongs to the group.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)

	// AddGroupMember creates a membership. Fails if it already exists.
	AddGroupMember(ctx context.Context, groupID, userID string) (*models.Member, error)

	// RemoveGroupMember deletes a membership.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// CreateExpense persists an expense together with all of its splits
	// in one transaction. Populates expense.ID and expense.CreatedAt.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListGroupExpenses retrieves one page of a group's expenses (splits
	// and payer included) plus the total count for pagination.
	ListGroupExpenses(ctx context.Context, groupID string, opts ListOptions) ([]models.Expense, int, error)

	// ListUserExpenses retrieves every expense in which the user holds a
	// split, across all groups and personal expenses, newest first.
	ListUserExpenses(ctx context.Context, userID string) ([]models.Expense, error)

	// ListExpenses retrieves the balance-computation input set: all
	// expenses of one group when groupID is non-nil, otherwise every
	// expense in the store. Splits and payer included.
	ListExpenses(ctx context.Context, groupID *string) ([]models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
