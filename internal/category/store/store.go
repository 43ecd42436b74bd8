package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
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

// Expected column order: see selectCategoryColumns.
func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var typ sql.NullString

	if err := s.Scan(
		&c.ID, &c.UserID, &c.Name, &typ, &c.Color, &c.Icon, &c.Description,
		&c.CreatedAt, &c.UpdatedAt, &c.TransactionsCount, &c.BudgetsCount,
	); err != nil {
		return nil, err
	}

	if typ.Valid {
		t := category.Type(typ.String)
		c.Type = &t
	}

	return &c, nil
}

const selectCategoryColumns = `
	c.id, c.user_id, c.name, c.type, c.color, c.icon, c.description, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM transactions t WHERE t.category_id = c.id) AS transactions_count,
	(SELECT COUNT(*) FROM budgets b WHERE b.category_id = c.id) AS budgets_count
`

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Type, c.Color, c.Icon, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories c WHERE c.id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories c
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (s *Store) CountCategories(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}

	return n, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, color = $3, icon = $4, description = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name, c.Type, c.Color, c.Icon, c.Description, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category.ErrNotFound
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return category.ErrInUse
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	return nil
}

func (s *Store) Statistics(ctx context.Context, userID uuid.UUID) ([]*category.Statistic, error) {
	query := `
		SELECT c.id, c.name, COUNT(t.id), COALESCE(SUM(t.amount), 0)
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("category statistics: %w", err)
	}
	defer rows.Close()

	var out []*category.Statistic

	for rows.Next() {
		var st category.Statistic
		if err := rows.Scan(&st.ID, &st.Name, &st.TransactionCount, &st.TotalAmount); err != nil {
			return nil, fmt.Errorf("scanning statistic: %w", err)
		}

		out = append(out, &st)
	}

	return out, rows.Err()
}
