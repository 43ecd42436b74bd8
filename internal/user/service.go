package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	RevokeToken(ctx context.Context, tokenID, userID uuid.UUID, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) (bool, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	email := normalizeEmail(params.Email)

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := s.hasher.Check(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, normalizeEmail(email))
}

// Logout revokes the token until its natural expiry.
func (s *Service) Logout(ctx context.Context, userID, tokenID uuid.UUID, expiresAt time.Time) error {
	return s.repo.RevokeToken(ctx, tokenID, userID, expiresAt)
}

func (s *Service) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	return s.repo.IsTokenRevoked(ctx, tokenID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
