package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

// Period is a label for the budget cadence. The window itself is always
// StartDate..EndDate.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}

	return false
}

type Budget struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CategoryID   uuid.UUID
	CategoryName string // Loaded via JOIN
	Period       Period
	StartDate    time.Time
	EndDate      time.Time
	Amount       decimal.Decimal
	Description  string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (b *Budget) Window() Window {
	return Window{Start: b.StartDate, End: b.EndDate}
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether w and o share at least one day.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !w.End.Before(o.Start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Existing is the window of a stored budget.
type Existing struct {
	ID     uuid.UUID
	Window Window
}

var (
	ErrNotFound      = apperr.NotFound("Budget not found")
	ErrForbidden     = apperr.Forbidden("Unauthorized access")
	ErrOverlap       = apperr.Rule("A budget already exists for this category during the specified period")
	ErrInvalidWindow = apperr.Invalid("end_date", "The end date must be a date after start date.")
	ErrNegative      = apperr.Invalid("amount", "The amount must be at least 0.")
	ErrInvalidPeriod = apperr.Invalid("period", "The selected period is invalid.")
)
