package reminder

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

type Reminder struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CategoryID    uuid.UUID
	CategoryName  string // Loaded via JOIN
	TransactionID *uuid.UUID
	Title         string
	Description   string
	DueDate       time.Time
	IsCompleted   bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// UpcomingLimit caps the upcoming reminders feed.
const UpcomingLimit = 10

var (
	ErrNotFound  = apperr.NotFound("Reminder not found")
	ErrForbidden = apperr.Forbidden("Unauthorized access")
	ErrDueInPast = apperr.Invalid("due_date", "The due date must be a date after or equal to today.")
)
