package service

import (
	"log/slog"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/HuongLanTo/split-money/internal/balance"
	"github.com/HuongLanTo/split-money/internal/middleware"
	"github.com/HuongLanTo/split-money/internal/models"
	"github.com/HuongLanTo/split-money/internal/storage"
)

// ExpenseService handles expense recording, listing and balance queries.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

type splitInput struct {
	UserID  string   `json:"userId" validate:"required"`
	Amount  float64  `json:"amount" validate:"gte=0"`
	Percent *float64 `json:"percent,omitempty"`
	Shares  *int64   `json:"shares,omitempty"`
}

type createExpenseRequest struct {
	Description string       `json:"description" validate:"required"`
	Total       float64      `json:"total" validate:"required,gt=0"`
	Currency    string       `json:"currency" validate:"required,len=3"`
	SplitMethod string       `json:"splitMethod" validate:"required"`
	GroupID     *string      `json:"groupId"`
	PaidByID    string       `json:"paidById" validate:"required"`
	Splits      []splitInput `json:"splits" validate:"required,min=1,dive"`
}

// CreateExpense records a new expense with its splits.
//
// The final per-user amounts are derived server-side from the split method,
// so a stored expense's splits always sum to its total.
func (s *ExpenseService) CreateExpense(c *fiber.Ctx) error {
	createdByID := middleware.UserID(c)

	var req createExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	method, err := models.ParseSplitMethod(req.SplitMethod)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.GroupID != nil {
		isMember, err := s.store.IsGroupMember(c.Context(), *req.GroupID, createdByID)
		if err != nil {
			slog.Error("CreateExpense membership check failed", "group_id", *req.GroupID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !isMember {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "The user doesn't have permission to create an expense in the group.",
			})
		}
	}

	inputs := make([]balance.ShareInput, len(req.Splits))
	for i, split := range req.Splits {
		inputs[i] = balance.ShareInput{UserID: split.UserID, Amount: split.Amount}
		if split.Percent != nil {
			inputs[i].Percent = *split.Percent
		}
		if split.Shares != nil {
			inputs[i].Shares = *split.Shares
		}
	}

	allocations, err := balance.Allocate(string(method), req.Total, inputs)
	if err != nil {
		slog.Warn("CreateExpense allocation failed", "method", method, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	splits := make([]models.Split, len(allocations))
	for i, allocation := range allocations {
		splits[i] = models.Split{
			UserID:  allocation.UserID,
			Amount:  allocation.Amount,
			Percent: req.Splits[i].Percent,
			Shares:  req.Splits[i].Shares,
		}
	}

	expense := &models.Expense{
		Description: req.Description,
		Total:       req.Total,
		Currency:    req.Currency,
		SplitMethod: method,
		GroupID:     req.GroupID,
		PaidByID:    req.PaidByID,
		CreatedByID: createdByID,
		Splits:      splits,
	}

	if err := s.store.CreateExpense(c.Context(), expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.ExpensesCreated.WithLabelValues(string(method)).Inc()
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"total", expense.Total,
		"split_method", method,
		"splits_count", len(splits),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Expense created successfully.",
		"expense": expense,
	})
}

// ListGroupExpenses retrieves one page of a group's expenses.
func (s *ExpenseService) ListGroupExpenses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	groupID := c.Params("groupId")

	isMember, err := s.store.IsGroupMember(c.Context(), groupID, userID)
	if err != nil {
		slog.Error("ListGroupExpenses membership check failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !isMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "The user doesn't have permission to see the expenses in the group.",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 10
	}

	opts := storage.ListOptions{
		Offset:    (page - 1) * limit,
		Limit:     limit,
		SortField: parseSortField(c.Query("sortField")),
		SortOrder: parseSortOrder(c.Query("sortOrder")),
	}

	expenses, total, err := s.store.ListGroupExpenses(c.Context(), groupID, opts)
	if err != nil {
		slog.Error("ListGroupExpenses failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"expenses": expenses,
		"pagination": fiber.Map{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GroupBalances computes the pairwise balance matrix for one group.
func (s *ExpenseService) GroupBalances(c *fiber.Ctx) error {
	groupID := c.Params("groupId")

	expenses, err := s.store.ListExpenses(c.Context(), &groupID)
	if err != nil {
		slog.Error("GroupBalances failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	balances := balance.ForGroup(toBalanceExpenses(expenses))
	middleware.BalancesComputed.WithLabelValues("group").Inc()

	slog.Debug("Group balances computed",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"users_count", len(balances),
	)

	return c.Status(fiber.StatusOK).JSON(balances)
}

// MyExpenses retrieves every expense the caller participates in.
func (s *ExpenseService) MyExpenses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	expenses, err := s.store.ListUserExpenses(c.Context(), userID)
	if err != nil {
		slog.Error("MyExpenses failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	return c.Status(fiber.StatusOK).JSON(expenses)
}

// MyBalances computes the caller's net position against every counterpart,
// optionally scoped to one group via the groupId query parameter.
func (s *ExpenseService) MyBalances(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var groupID *string
	if q := c.Query("groupId"); q != "" {
		groupID = &q
	}

	expenses, err := s.store.ListExpenses(c.Context(), groupID)
	if err != nil {
		slog.Error("MyBalances failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	balances := balance.ForUser(userID, toBalanceExpenses(expenses))
	middleware.BalancesComputed.WithLabelValues("user").Inc()

	return c.Status(fiber.StatusOK).JSON(balances)
}

// toBalanceExpenses converts stored expenses to the engine's input type.
func toBalanceExpenses(expenses []models.Expense) []balance.Expense {
	out := make([]balance.Expense, len(expenses))
	for i, expense := range expenses {
		splits := make([]balance.Split, len(expense.Splits))
		for j, split := range expense.Splits {
			splits[j] = balance.Split{UserID: split.UserID, Amount: split.Amount}
		}
		out[i] = balance.Expense{PaidByID: expense.PaidByID, Splits: splits}
	}
	return out
}

func parseSortField(s string) storage.SortField {
	switch storage.SortField(s) {
	case storage.SortByTotal:
		return storage.SortByTotal
	case storage.SortByDescription:
		return storage.SortByDescription
	default:
		return storage.SortByCreatedAt
	}
}

func parseSortOrder(s string) storage.SortOrder {
	if storage.SortOrder(s) == storage.SortAsc {
		return storage.SortAsc
	}
	return storage.SortDesc
}
