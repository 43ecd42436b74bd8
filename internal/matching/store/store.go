package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_rules
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var categoryID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, userID, description).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &categoryID, nil
}

func (s *Store) CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	query := `
		INSERT INTO category_rules (user_id, raw_pattern, category_id, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, userID, pattern, categoryID); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
