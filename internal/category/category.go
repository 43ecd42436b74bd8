package category

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

// Type restricts a category to income or expense entries. A nil type accepts both.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Type        *Type
	Color       *string
	Icon        *string
	Description *string

	// Loaded via subqueries.
	TransactionsCount int
	BudgetsCount      int

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Statistic is the per-category usage summary.
type Statistic struct {
	ID               uuid.UUID
	Name             string
	TransactionCount int
	TotalAmount      decimal.Decimal
}

var (
	ErrNotFound  = apperr.NotFound("Category not found")
	ErrForbidden = apperr.Forbidden("Unauthorized access")
	ErrInUse     = apperr.Rule("Cannot delete category with associated transactions or budgets")
)

// InvalidReference is returned to other domains when a referenced category is
// missing or belongs to another user.
func InvalidReference() *apperr.ValidationError {
	return apperr.Invalid("category_id", "The selected category id is invalid.")
}
