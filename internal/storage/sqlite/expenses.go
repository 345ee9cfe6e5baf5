package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HuongLanTo/split-money/internal/models"
	"github.com/HuongLanTo/split-money/internal/storage"
)

const expenseColumns = `e.id, e.description, e.total, e.currency, e.split_method,
	e.group_id, e.paid_by_id, e.created_by_id, e.created_at,
	u.id, u.name, u.email`

// CreateExpense persists an expense and all of its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, total, currency, split_method, group_id, paid_by_id, created_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Total, expense.Currency,
		string(expense.SplitMethod), expense.GroupID, expense.PaidByID,
		expense.CreatedByID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (expense_id, user_id, amount, percent, shares)
			 VALUES (?, ?, ?, ?, ?)`,
			split.ExpenseID, split.UserID, split.Amount, split.Percent, split.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGroupExpenses retrieves one page of a group's expenses plus the total count.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string, opts storage.ListOptions) ([]models.Expense, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM expenses WHERE group_id = ?",
		groupID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM expenses e
		 JOIN users u ON u.id = e.paid_by_id
		 WHERE e.group_id = ?
		 ORDER BY %s %s
		 LIMIT ? OFFSET ?`,
		expenseColumns, sortColumn(opts.SortField), sortDirection(opts.SortOrder),
	)

	expenses, err := s.queryExpenses(ctx, query, groupID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListUserExpenses retrieves every expense in which the user holds a split,
// newest first.
func (s *SQLiteStore) ListUserExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM expenses e
		 JOIN users u ON u.id = e.paid_by_id
		 WHERE e.id IN (SELECT expense_id FROM splits WHERE user_id = ?)
		 ORDER BY e.created_at DESC`,
		expenseColumns,
	)
	return s.queryExpenses(ctx, query, userID)
}

// ListExpenses retrieves all expenses of one group, or every expense in the
// store when groupID is nil.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID *string) ([]models.Expense, error) {
	if groupID != nil {
		query := fmt.Sprintf(
			`SELECT %s FROM expenses e
			 JOIN users u ON u.id = e.paid_by_id
			 WHERE e.group_id = ?
			 ORDER BY e.created_at DESC`,
			expenseColumns,
		)
		return s.queryExpenses(ctx, query, *groupID)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM expenses e
		 JOIN users u ON u.id = e.paid_by_id
		 ORDER BY e.created_at DESC`,
		expenseColumns,
	)
	return s.queryExpenses(ctx, query)
}

// queryExpenses runs an expense query (payer joined in) and loads the splits
// for every returned row.
func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var payer models.UserRef
		var method string
		if err := rows.Scan(
			&e.ID, &e.Description, &e.Total, &e.Currency, &method,
			&e.GroupID, &e.PaidByID, &e.CreatedByID, &e.CreatedAt,
			&payer.ID, &payer.Name, &payer.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitMethod = models.SplitMethod(method)
		e.PaidBy = &payer
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		splits, err := s.listSplits(ctx, expenses[i].ID)
		if err != nil {
			return nil, err
		}
		expenses[i].Splits = splits
	}
	return expenses, nil
}

// listSplits loads the split rows of one expense.
func (s *SQLiteStore) listSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount, percent, shares
		 FROM splits WHERE expense_id = ? ORDER BY user_id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ExpenseID, &split.UserID, &split.Amount, &split.Percent, &split.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// sortColumn maps the constrained sort field enum onto a column name.
// Unknown values fall back to created_at; the enum means no request string
// ever reaches the query text directly.
func sortColumn(field storage.SortField) string {
	switch field {
	case storage.SortByTotal:
		return "e.total"
	case storage.SortByDescription:
		return "e.description"
	default:
		return "e.created_at"
	}
}

func sortDirection(order storage.SortOrder) string {
	if order == storage.SortAsc {
		return "ASC"
	}
	return "DESC"
}
