package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense entry of a user.
type Transaction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CategoryID   uuid.UUID
	CategoryName string // Loaded via JOIN
	Type         Type
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

var (
	ErrNotFound     = apperr.NotFound("Transaction not found")
	ErrForbidden    = apperr.Forbidden("Unauthorized access")
	ErrInvalidRange = apperr.Invalid("end_date", "The end date must be a date after or equal to start date.")
	ErrNegative     = apperr.Invalid("amount", "The amount must be at least 0.")
	ErrInvalidType  = apperr.Invalid("type", "The selected type is invalid.")
)

// InvalidReference is returned to other domains when a referenced transaction
// is missing or belongs to another user.
func InvalidReference() *apperr.ValidationError {
	return apperr.Invalid("transaction_id", "The selected transaction id is invalid.")
}
