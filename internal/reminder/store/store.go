package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
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

func scanReminder(s scanner) (*reminder.Reminder, error) {
	var r reminder.Reminder

	if err := s.Scan(
		&r.ID, &r.UserID, &r.CategoryID, &r.CategoryName, &r.TransactionID,
		&r.Title, &r.Description, &r.DueDate, &r.IsCompleted, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &r, nil
}

const selectReminderColumns = `
	r.id, r.user_id, r.category_id, c.name, r.transaction_id,
	r.title, r.description, r.due_date, r.is_completed, r.created_at, r.updated_at
`

const fromReminders = `
	FROM reminders r
	JOIN categories c ON r.category_id = c.id
`

func (s *Store) CreateReminder(ctx context.Context, r *reminder.Reminder) error {
	query := `
		WITH inserted AS (
			INSERT INTO reminders (user_id, category_id, transaction_id, title, description, due_date, is_completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, created_at, category_id
		)
		SELECT inserted.id, inserted.created_at, c.name
		FROM inserted JOIN categories c ON c.id = inserted.category_id
	`

	err := s.db.QueryRowContext(ctx, query,
		r.UserID, r.CategoryID, r.TransactionID, r.Title, r.Description, r.DueDate, r.IsCompleted,
	).Scan(&r.ID, &r.CreatedAt, &r.CategoryName)
	if err != nil {
		return fmt.Errorf("creating reminder: %w", err)
	}

	return nil
}

func (s *Store) GetReminder(ctx context.Context, id uuid.UUID) (*reminder.Reminder, error) {
	query := `SELECT ` + selectReminderColumns + fromReminders + `WHERE r.id = $1`

	r, err := scanReminder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reminder.ErrNotFound
		}

		return nil, fmt.Errorf("getting reminder: %w", err)
	}

	return r, nil
}

func (s *Store) UpdateReminder(ctx context.Context, r *reminder.Reminder) error {
	query := `
		UPDATE reminders re
		SET category_id = $1, transaction_id = $2, title = $3, description = $4,
		    due_date = $5, is_completed = $6, updated_at = NOW()
		FROM categories c
		WHERE re.id = $7 AND c.id = $1
		RETURNING re.updated_at, c.name
	`

	err := s.db.QueryRowContext(ctx, query,
		r.CategoryID, r.TransactionID, r.Title, r.Description, r.DueDate, r.IsCompleted, r.ID,
	).Scan(&r.UpdatedAt, &r.CategoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reminder.ErrNotFound
		}

		return fmt.Errorf("updating reminder: %w", err)
	}

	return nil
}

func (s *Store) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return reminder.ErrNotFound
	}

	return nil
}

func where(filter reminder.ListFilter) (string, []any) {
	conds := []string{"r.user_id = $1"}
	args := []any{filter.UserID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.IsCompleted != nil {
		add("r.is_completed = $%d", *filter.IsCompleted)
	}

	if filter.StartDate != nil && filter.EndDate != nil {
		add("r.due_date >= $%d", *filter.StartDate)
		add("r.due_date <= $%d", *filter.EndDate)
	}

	if filter.DueFrom != nil {
		add("r.due_date >= $%d AND NOT r.is_completed", *filter.DueFrom)
	}

	if filter.CategoryID != nil {
		add("r.category_id = $%d", *filter.CategoryID)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListReminders(ctx context.Context, filter reminder.ListFilter) ([]*reminder.Reminder, error) {
	clause, args := where(filter)
	query := `SELECT ` + selectReminderColumns + fromReminders + clause + ` ORDER BY r.due_date ASC, r.id`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	var out []*reminder.Reminder

	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reminders: %w", err)
	}

	return out, nil
}

func (s *Store) CountReminders(ctx context.Context, filter reminder.ListFilter) (int, error) {
	clause, args := where(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reminders r`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reminders: %w", err)
	}

	return n, nil
}
