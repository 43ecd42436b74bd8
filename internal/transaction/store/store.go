package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a row laid out as selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &tx.CategoryName, &typeStr, &tx.Amount,
		&tx.Date, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.category_id, c.name, t.type, t.amount,
	t.date, t.description, t.created_at, t.updated_at
`

const fromTransactions = `
	FROM transactions t
	JOIN categories c ON t.category_id = c.id
`

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return insert(ctx, s.db, tx)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryRower, tx *transaction.Transaction) error {
	query := `
		WITH inserted AS (
			INSERT INTO transactions (user_id, category_id, type, amount, date, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at, category_id
		)
		SELECT inserted.id, inserted.created_at, c.name
		FROM inserted JOIN categories c ON c.id = inserted.category_id
	`

	err := q.QueryRowContext(ctx, query,
		tx.UserID,
		tx.CategoryID,
		tx.Type,
		tx.Amount,
		tx.Date,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.CategoryName)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// where renders the filter as a WHERE clause with positional args.
func where(filter transaction.ListFilter) (string, []any) {
	conds := []string{"t.user_id = $1"}
	args := []any{filter.UserID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CategoryID != nil {
		add("t.category_id = $%d", *filter.CategoryID)
	}

	if filter.Type != nil {
		add("t.type = $%d", *filter.Type)
	}

	if filter.StartDate != nil {
		add("t.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("t.date <= $%d", *filter.EndDate)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	clause, args := where(filter)
	query := `SELECT ` + selectTransactionColumns + fromTransactions + clause +
		" ORDER BY t.date DESC, t.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.ListFilter) (int, error) {
	clause, args := where(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return n, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions t
		SET category_id = $1, type = $2, amount = $3, date = $4, description = $5, updated_at = NOW()
		FROM categories c
		WHERE t.id = $6 AND c.id = $1
		RETURNING t.updated_at, c.name
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.CategoryID,
		tx.Type,
		tx.Amount,
		tx.Date,
		tx.Description,
		tx.ID,
	).Scan(&tx.UpdatedAt, &tx.CategoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) SummaryRows(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]transaction.SummaryRow, error) {
	query := `
		SELECT c.name, t.type, SUM(t.amount), COUNT(*)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		GROUP BY c.name, t.type
	`

	rows, err := s.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarizing transactions: %w", err)
	}
	defer rows.Close()

	var out []transaction.SummaryRow

	for rows.Next() {
		var r transaction.SummaryRow

		var typeStr string
		if err := rows.Scan(&r.Category, &typeStr, &r.Total, &r.Count); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}

		r.Type = transaction.Type(typeStr)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}

	return out, nil
}

// importLockKey scopes the import lock to one user so concurrent imports of
// the same statement cannot both pass duplicate detection.
func importLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(userID[:])

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date        string
		Amount      string
		Type        transaction.Type
		Description string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:        p.Date.Format(time.DateOnly),
			Amount:      p.Amount.StringFixed(2),
			Type:        p.Type,
			Description: p.Description,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Date:        tx.Date.Format(time.DateOnly),
			Amount:      tx.Amount.StringFixed(2),
			Type:        tx.Type,
			Description: tx.Description,
		}
		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, itx.tx, tx); err != nil {
			return err
		}
	}

	return nil
}
