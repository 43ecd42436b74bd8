package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Category, error)
	CountCategories(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Statistics(ctx context.Context, userID uuid.UUID) ([]*Statistic, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Type        *Type
	Color       *string
	Icon        *string
	Description *string
}

// UpdateParams lists the mutable fields. Nil fields are left unchanged.
type UpdateParams struct {
	Name        *string
	Type        *Type
	Color       *string
	Icon        *string
	Description *string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Category, error) {
	c := &Category{
		UserID:      userID,
		Name:        params.Name,
		Type:        params.Type,
		Color:       params.Color,
		Icon:        params.Icon,
		Description: params.Description,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Get returns the category with its usage counts, or ErrForbidden when it
// belongs to another user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID != userID {
		return nil, ErrForbidden
	}

	return c, nil
}

// EnsureOwned checks that id names a category of userID, reporting failures as
// a validation error on category_id.
func (s *Service) EnsureOwned(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.Get(ctx, userID, id)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return InvalidReference()
	}

	return err
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, p paging.Params) (*paging.Result[*Category], error) {
	items, err := s.repo.ListCategories(ctx, userID, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	return paging.NewResult(items, p, total), nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Category, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = *params.Name
	}

	if params.Type != nil {
		c.Type = params.Type
	}

	if params.Color != nil {
		c.Color = params.Color
	}

	if params.Icon != nil {
		c.Icon = params.Icon
	}

	if params.Description != nil {
		c.Description = params.Description
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// CanDelete reports whether the category has no transactions and no budgets.
func (s *Service) CanDelete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return false, err
	}

	return canDelete(c), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if !canDelete(c) {
		return ErrInUse
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}

	return nil
}

func (s *Service) Statistics(ctx context.Context, userID uuid.UUID) ([]*Statistic, error) {
	return s.repo.Statistics(ctx, userID)
}

func canDelete(c *Category) bool {
	return c.TransactionsCount == 0 && c.BudgetsCount == 0
}
