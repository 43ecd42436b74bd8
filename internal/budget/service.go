package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context, filter ListFilter) ([]*Budget, error)
	CountBudgets(ctx context.Context, filter ListFilter) (int, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	Windows(ctx context.Context, userID, categoryID uuid.UUID) ([]Existing, error)
	DailySpending(ctx context.Context, userID, categoryID uuid.UUID, w Window) ([]DailySpend, error)

	// BeginWrite opens a transaction holding the write lock of (userID, categoryID).
	BeginWrite(ctx context.Context, userID, categoryID uuid.UUID) (WriteTx, error)
}

type WriteTx interface {
	Windows(ctx context.Context, userID, categoryID uuid.UUID) ([]Existing, error)
	CreateBudget(ctx context.Context, b *Budget) error
	UpdateBudget(ctx context.Context, b *Budget) error
	Commit() error
	Rollback() error
}

// CategoryChecker validates category references.
type CategoryChecker interface {
	EnsureOwned(ctx context.Context, userID, categoryID uuid.UUID) error
}

type Service struct {
	repo       Repository
	categories CategoryChecker
}

func NewService(repo Repository, categories CategoryChecker) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateParams struct {
	CategoryID  uuid.UUID
	Period      Period
	StartDate   time.Time
	EndDate     time.Time
	Amount      decimal.Decimal
	Description string
}

// UpdateParams lists the mutable fields. Nil fields are left unchanged.
type UpdateParams struct {
	CategoryID  *uuid.UUID
	Period      *Period
	StartDate   *time.Time
	EndDate     *time.Time
	Amount      *decimal.Decimal
	Description *string
}

type ListFilter struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	// ActiveOn keeps budgets whose window contains the date.
	ActiveOn *time.Time

	Limit  int
	Offset int
}

// Tracked is a budget with its current spending.
type Tracked struct {
	*Budget
	Progress Progress
}

// HasOverlap reports whether any budget of (userID, categoryID), other than
// excludeID, shares a day with w.
func (s *Service) HasOverlap(ctx context.Context, userID, categoryID uuid.UUID, w Window, excludeID *uuid.UUID) (bool, error) {
	existing, err := s.repo.Windows(ctx, userID, categoryID)
	if err != nil {
		return false, fmt.Errorf("loading budget windows: %w", err)
	}

	return overlaps(existing, w, excludeID), nil
}

func overlaps(existing []Existing, w Window, excludeID *uuid.UUID) bool {
	for _, e := range existing {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}

		if e.Window.Overlaps(w) {
			return true
		}
	}

	return false
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Budget, error) {
	if params.Period == "" {
		params.Period = PeriodMonthly
	}

	b := &Budget{
		UserID:      userID,
		CategoryID:  params.CategoryID,
		Period:      params.Period,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Amount:      params.Amount,
		Description: params.Description,
	}
	if err := validate(b); err != nil {
		return nil, err
	}

	if err := s.categories.EnsureOwned(ctx, userID, b.CategoryID); err != nil {
		return nil, err
	}

	err := s.write(ctx, b, nil, func(wtx WriteTx) error {
		return wtx.CreateBudget(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Budget, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.CategoryID != nil && *params.CategoryID != b.CategoryID {
		if err := s.categories.EnsureOwned(ctx, userID, *params.CategoryID); err != nil {
			return nil, err
		}

		b.CategoryID = *params.CategoryID
	}

	if params.Period != nil {
		b.Period = *params.Period
	}

	if params.StartDate != nil {
		b.StartDate = *params.StartDate
	}

	if params.EndDate != nil {
		b.EndDate = *params.EndDate
	}

	if params.Amount != nil {
		b.Amount = *params.Amount
	}

	if params.Description != nil {
		b.Description = *params.Description
	}

	if err := validate(b); err != nil {
		return nil, err
	}

	err = s.write(ctx, b, &b.ID, func(wtx WriteTx) error {
		return wtx.UpdateBudget(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// write runs the overlap check and fn under the (user, category) lock.
func (s *Service) write(ctx context.Context, b *Budget, excludeID *uuid.UUID, fn func(WriteTx) error) error {
	wtx, err := s.repo.BeginWrite(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return fmt.Errorf("begin budget write: %w", err)
	}
	defer wtx.Rollback()

	existing, err := wtx.Windows(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return fmt.Errorf("loading budget windows: %w", err)
	}

	if overlaps(existing, b.Window(), excludeID) {
		return ErrOverlap
	}

	if err := fn(wtx); err != nil {
		return err
	}

	if err := wtx.Commit(); err != nil {
		return fmt.Errorf("commit budget write: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrForbidden
	}

	return b, nil
}

// Show returns the budget with its spending recomputed from transactions.
func (s *Service) Show(ctx context.Context, userID, id uuid.UUID) (*Tracked, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.track(ctx, b)
}

// Progress recomputes the spending of b. Nothing is cached.
func (s *Service) Progress(ctx context.Context, b *Budget) (Progress, error) {
	daily, err := s.repo.DailySpending(ctx, b.UserID, b.CategoryID, b.Window())
	if err != nil {
		return Progress{}, fmt.Errorf("loading spending of budget %s: %w", b.ID, err)
	}

	return ComputeProgress(b.Amount, daily), nil
}

func (s *Service) track(ctx context.Context, b *Budget) (*Tracked, error) {
	p, err := s.Progress(ctx, b)
	if err != nil {
		return nil, err
	}

	return &Tracked{Budget: b, Progress: p}, nil
}

// List returns one page of budgets, newest first, each with its progress.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, p paging.Params) (*paging.Result[*Tracked], error) {
	filter.UserID = userID
	filter.Limit = p.Limit()
	filter.Offset = p.Offset()

	budgets, err := s.repo.ListBudgets(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountBudgets(ctx, filter)
	if err != nil {
		return nil, err
	}

	tracked := make([]*Tracked, 0, len(budgets))
	for _, b := range budgets {
		t, err := s.track(ctx, b)
		if err != nil {
			return nil, err
		}

		tracked = append(tracked, t)
	}

	return paging.NewResult(tracked, p, total), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteBudget(ctx, id)
}

func validate(b *Budget) error {
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}

	if !b.EndDate.After(b.StartDate) {
		return ErrInvalidWindow
	}

	if b.Amount.IsNegative() {
		return ErrNegative
	}

	return nil
}
