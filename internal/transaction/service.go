package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	CountTransactions(ctx context.Context, filter ListFilter) (int, error)
	SummaryRows(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]SummaryRow, error)

	BeginImport(ctx context.Context, userID uuid.UUID) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
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
	Type        Type
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// UpdateParams lists the mutable fields. Nil fields are left unchanged.
type UpdateParams struct {
	CategoryID  *uuid.UUID
	Type        *Type
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
}

// ListFilter narrows a listing. UserID is always set by the service.
type ListFilter struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Type       *Type
	StartDate  *time.Time
	EndDate    *time.Time

	// Limit 0 returns every match.
	Limit  int
	Offset int
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := validate(params.Type, params.Amount); err != nil {
		return nil, err
	}

	if err := s.categories.EnsureOwned(ctx, userID, params.CategoryID); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:      userID,
		CategoryID:  params.CategoryID,
		Type:        params.Type,
		Amount:      params.Amount,
		Date:        params.Date,
		Description: params.Description,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.UserID != userID {
		return nil, ErrForbidden
	}

	return tx, nil
}

// EnsureOwned checks that id names a transaction of userID, reporting failures
// as a validation error on transaction_id.
func (s *Service) EnsureOwned(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.Get(ctx, userID, id)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return InvalidReference()
	}

	return err
}

// List returns one page of the user's transactions, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, p paging.Params) (*paging.Result[*Transaction], error) {
	filter.UserID = userID
	filter.Limit = p.Limit()
	filter.Offset = p.Offset()

	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return paging.NewResult(txs, p, total), nil
}

// ListAll returns every transaction matching filter.
func (s *Service) ListAll(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	filter.UserID = userID
	filter.Limit = 0
	filter.Offset = 0

	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.CategoryID != nil && *params.CategoryID != tx.CategoryID {
		if err := s.categories.EnsureOwned(ctx, userID, *params.CategoryID); err != nil {
			return nil, err
		}

		tx.CategoryID = *params.CategoryID
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if err := validate(tx.Type, tx.Amount); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteTransaction(ctx, id)
}

// Summarize totals the user's transactions dated within [start, end].
func (s *Service) Summarize(ctx context.Context, userID uuid.UUID, start, end time.Time) (*Summary, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	rows, err := s.repo.SummaryRows(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("summary rows: %w", err)
	}

	return Aggregate(rows), nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

func keyOf(date time.Time, amount decimal.Decimal, typ Type, description string) dupKey {
	return dupKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount.StringFixed(2),
		Type:        typ,
		Description: description,
	}
}

// ImportBatch inserts params unless any of them already exists for the user.
// On conflict nothing is written and the result lists the conflicting pairs.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if err := s.checkBatch(ctx, userID, params); err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginImport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.Description)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.Description)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(userID, newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch inserts params without duplicate detection, used once the
// caller has resolved the conflicts reported by ImportBatch.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	if err := s.checkBatch(ctx, userID, params); err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginImport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(userID, params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func (s *Service) checkBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) error {
	seen := make(map[uuid.UUID]struct{})

	for _, p := range params {
		if err := validate(p.Type, p.Amount); err != nil {
			return err
		}

		if _, ok := seen[p.CategoryID]; ok {
			continue
		}

		if err := s.categories.EnsureOwned(ctx, userID, p.CategoryID); err != nil {
			return err
		}

		seen[p.CategoryID] = struct{}{}
	}

	return nil
}

func validate(typ Type, amount decimal.Decimal) error {
	if !typ.Valid() {
		return ErrInvalidType
	}

	if amount.IsNegative() {
		return ErrNegative
	}

	return nil
}

func paramsToTransactions(userID uuid.UUID, params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			UserID:      userID,
			CategoryID:  p.CategoryID,
			Type:        p.Type,
			Amount:      p.Amount,
			Date:        p.Date,
			Description: p.Description,
		}
	}

	return txs
}
