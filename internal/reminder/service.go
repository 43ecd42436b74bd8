package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reminder
type Repository interface {
	CreateReminder(ctx context.Context, r *Reminder) error
	GetReminder(ctx context.Context, id uuid.UUID) (*Reminder, error)
	UpdateReminder(ctx context.Context, r *Reminder) error
	DeleteReminder(ctx context.Context, id uuid.UUID) error

	ListReminders(ctx context.Context, filter ListFilter) ([]*Reminder, error)
	CountReminders(ctx context.Context, filter ListFilter) (int, error)
}

// CategoryChecker validates category references.
type CategoryChecker interface {
	EnsureOwned(ctx context.Context, userID, categoryID uuid.UUID) error
}

// TransactionChecker validates transaction references.
type TransactionChecker interface {
	EnsureOwned(ctx context.Context, userID, transactionID uuid.UUID) error
}

type Service struct {
	repo         Repository
	categories   CategoryChecker
	transactions TransactionChecker
	now          func() time.Time
}

func NewService(repo Repository, categories CategoryChecker, transactions TransactionChecker) *Service {
	return &Service{
		repo:         repo,
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for due date checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	CategoryID    uuid.UUID
	TransactionID *uuid.UUID
	Title         string
	Description   string
	DueDate       time.Time
}

// UpdateParams lists the mutable fields. Nil fields are left unchanged.
type UpdateParams struct {
	CategoryID    *uuid.UUID
	TransactionID *uuid.UUID
	Title         *string
	Description   *string
	DueDate       *time.Time
	IsCompleted   *bool
}

// ListFilter narrows a listing. The date range applies only when both ends are set.
type ListFilter struct {
	UserID      uuid.UUID
	CategoryID  *uuid.UUID
	IsCompleted *bool
	StartDate   *time.Time
	EndDate     *time.Time
	// DueFrom keeps incomplete reminders due at or after the instant.
	DueFrom *time.Time

	Limit  int
	Offset int
}

// Create stores a new, incomplete reminder due no earlier than today.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Reminder, error) {
	if params.DueDate.Before(startOfDay(s.now())) {
		return nil, ErrDueInPast
	}

	if err := s.categories.EnsureOwned(ctx, userID, params.CategoryID); err != nil {
		return nil, err
	}

	if params.TransactionID != nil {
		if err := s.transactions.EnsureOwned(ctx, userID, *params.TransactionID); err != nil {
			return nil, err
		}
	}

	r := &Reminder{
		UserID:        userID,
		CategoryID:    params.CategoryID,
		TransactionID: params.TransactionID,
		Title:         params.Title,
		Description:   params.Description,
		DueDate:       params.DueDate,
		IsCompleted:   false,
	}
	if err := s.repo.CreateReminder(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Reminder, error) {
	r, err := s.repo.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.UserID != userID {
		return nil, ErrForbidden
	}

	return r, nil
}

// List returns one page of reminders ordered by due date.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, p paging.Params) (*paging.Result[*Reminder], error) {
	filter.UserID = userID
	filter.Limit = p.Limit()
	filter.Offset = p.Offset()

	if filter.StartDate == nil || filter.EndDate == nil {
		filter.StartDate, filter.EndDate = nil, nil
	}

	items, err := s.repo.ListReminders(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountReminders(ctx, filter)
	if err != nil {
		return nil, err
	}

	return paging.NewResult(items, p, total), nil
}

// Upcoming returns the next incomplete reminders due from now.
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID) ([]*Reminder, error) {
	now := s.now()

	return s.repo.ListReminders(ctx, ListFilter{
		UserID:  userID,
		DueFrom: &now,
		Limit:   UpcomingLimit,
	})
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Reminder, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.CategoryID != nil && *params.CategoryID != r.CategoryID {
		if err := s.categories.EnsureOwned(ctx, userID, *params.CategoryID); err != nil {
			return nil, err
		}

		r.CategoryID = *params.CategoryID
	}

	if params.TransactionID != nil {
		if err := s.transactions.EnsureOwned(ctx, userID, *params.TransactionID); err != nil {
			return nil, err
		}

		r.TransactionID = params.TransactionID
	}

	if params.Title != nil {
		r.Title = *params.Title
	}

	if params.Description != nil {
		r.Description = *params.Description
	}

	if params.DueDate != nil {
		r.DueDate = *params.DueDate
	}

	if params.IsCompleted != nil {
		r.IsCompleted = *params.IsCompleted
	}

	if err := s.repo.UpdateReminder(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Complete marks the reminder done. Completing twice leaves it completed.
func (s *Service) Complete(ctx context.Context, userID, id uuid.UUID) (*Reminder, error) {
	completed := true

	return s.Update(ctx, userID, id, UpdateParams{IsCompleted: &completed})
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteReminder(ctx, id)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
