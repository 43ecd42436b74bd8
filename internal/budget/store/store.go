package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var period string

	if err := s.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &period,
		&b.StartDate, &b.EndDate, &b.Amount, &b.Description, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Period = budget.Period(period)

	return &b, nil
}

const selectBudgetColumns = `
	b.id, b.user_id, b.category_id, c.name, b.period,
	b.start_date, b.end_date, b.amount, b.description, b.created_at, b.updated_at
`

const fromBudgets = `
	FROM budgets b
	JOIN categories c ON b.category_id = c.id
`

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + fromBudgets + `WHERE b.id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func where(filter budget.ListFilter) (string, []any) {
	conds := []string{"b.user_id = $1"}
	args := []any{filter.UserID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("b.category_id = $%d", len(args)))
	}

	if filter.ActiveOn != nil {
		args = append(args, *filter.ActiveOn)
		conds = append(conds, fmt.Sprintf("b.start_date <= $%[1]d AND b.end_date >= $%[1]d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListBudgets(ctx context.Context, filter budget.ListFilter) ([]*budget.Budget, error) {
	clause, args := where(filter)
	query := `SELECT ` + selectBudgetColumns + fromBudgets + clause + ` ORDER BY b.created_at DESC, b.id`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var out []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return out, nil
}

func (s *Store) CountBudgets(ctx context.Context, filter budget.ListFilter) (int, error) {
	clause, args := where(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets b`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting budgets: %w", err)
	}

	return n, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) Windows(ctx context.Context, userID, categoryID uuid.UUID) ([]budget.Existing, error) {
	return windows(ctx, s.db, userID, categoryID)
}

func windows(ctx context.Context, q querier, userID, categoryID uuid.UUID) ([]budget.Existing, error) {
	query := `
		SELECT id, start_date, end_date
		FROM budgets
		WHERE user_id = $1 AND category_id = $2
		ORDER BY start_date
	`

	rows, err := q.QueryContext(ctx, query, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing budget windows: %w", err)
	}
	defer rows.Close()

	var out []budget.Existing

	for rows.Next() {
		var e budget.Existing
		if err := rows.Scan(&e.ID, &e.Window.Start, &e.Window.End); err != nil {
			return nil, fmt.Errorf("scanning budget window: %w", err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (s *Store) DailySpending(ctx context.Context, userID, categoryID uuid.UUID, w budget.Window) ([]budget.DailySpend, error) {
	query := `
		SELECT date, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense'
		  AND date >= $3 AND date <= $4
		GROUP BY date
		ORDER BY date
	`

	rows, err := s.db.QueryContext(ctx, query, userID, categoryID, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("loading daily spending: %w", err)
	}
	defer rows.Close()

	var out []budget.DailySpend

	for rows.Next() {
		var d budget.DailySpend
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, fmt.Errorf("scanning daily spending: %w", err)
		}

		out = append(out, d)
	}

	return out, rows.Err()
}

// writeLockKey serializes budget writes per (user, category).
func writeLockKey(userID, categoryID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("budget"))
	h.Write([]byte{0})
	h.Write(userID[:])
	h.Write(categoryID[:])

	return int64(h.Sum64())
}

type writeTx struct {
	tx *sql.Tx
}

func (s *Store) BeginWrite(ctx context.Context, userID, categoryID uuid.UUID) (budget.WriteTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning budget tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", writeLockKey(userID, categoryID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring budget lock: %w", err)
	}

	return &writeTx{tx: dbTx}, nil
}

func (w *writeTx) Commit() error   { return w.tx.Commit() }
func (w *writeTx) Rollback() error { return w.tx.Rollback() }

func (w *writeTx) Windows(ctx context.Context, userID, categoryID uuid.UUID) ([]budget.Existing, error) {
	return windows(ctx, w.tx, userID, categoryID)
}

func (w *writeTx) CreateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		WITH inserted AS (
			INSERT INTO budgets (user_id, category_id, period, start_date, end_date, amount, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, created_at, category_id
		)
		SELECT inserted.id, inserted.created_at, c.name
		FROM inserted JOIN categories c ON c.id = inserted.category_id
	`

	err := w.tx.QueryRowContext(ctx, query,
		b.UserID, b.CategoryID, b.Period, b.StartDate, b.EndDate, b.Amount, b.Description,
	).Scan(&b.ID, &b.CreatedAt, &b.CategoryName)
	if err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (w *writeTx) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets bu
		SET category_id = $1, period = $2, start_date = $3, end_date = $4,
		    amount = $5, description = $6, updated_at = NOW()
		FROM categories c
		WHERE bu.id = $7 AND c.id = $1
		RETURNING bu.updated_at, c.name
	`

	err := w.tx.QueryRowContext(ctx, query,
		b.CategoryID, b.Period, b.StartDate, b.EndDate, b.Amount, b.Description, b.ID,
	).Scan(&b.UpdatedAt, &b.CategoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget.ErrNotFound
		}

		return fmt.Errorf("updating budget: %w", err)
	}

	return nil
}
