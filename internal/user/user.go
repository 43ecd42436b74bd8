package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

// User is an account owning categories, transactions, budgets and reminders.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

var (
	ErrNotFound           = apperr.NotFound("user not found")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrEmailTaken         = apperr.Invalid("email", "The email has already been taken.")
)
