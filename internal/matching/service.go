// Package matching learns which category a bank description belongs to.
package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error)
	CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error
}

// CategoryChecker validates category references.
type CategoryChecker interface {
	EnsureOwned(ctx context.Context, userID, categoryID uuid.UUID) error
}

var ErrEmptyPattern = apperr.Invalid("raw_pattern", "The raw pattern field is required.")

type Service struct {
	repo       Repository
	categories CategoryChecker
}

func NewService(repo Repository, categories CategoryChecker) *Service {
	return &Service{repo: repo, categories: categories}
}

// Suggest returns the category of the longest rule pattern contained in
// description, or nil when no rule matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
	return s.repo.FindMatch(ctx, userID, description)
}

// Learn remembers that descriptions containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ErrEmptyPattern
	}

	if err := s.categories.EnsureOwned(ctx, userID, categoryID); err != nil {
		return err
	}

	return s.repo.CreateRule(ctx, userID, pattern, categoryID)
}
