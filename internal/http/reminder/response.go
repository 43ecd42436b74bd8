package reminder

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
)

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type reminderResponse struct {
	ID            uuid.UUID   `json:"id"`
	CategoryID    uuid.UUID   `json:"category_id"`
	Category      categoryRef `json:"category"`
	TransactionID *uuid.UUID  `json:"transaction_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DueDate       time.Time   `json:"due_date"`
	IsCompleted   bool        `json:"is_completed"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at"`
}

func toResponse(r *reminder.Reminder) reminderResponse {
	return reminderResponse{
		ID:            r.ID,
		CategoryID:    r.CategoryID,
		Category:      categoryRef{ID: r.CategoryID, Name: r.CategoryName},
		TransactionID: r.TransactionID,
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       r.DueDate,
		IsCompleted:   r.IsCompleted,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toResponseList(rs []*reminder.Reminder) []reminderResponse {
	resp := make([]reminderResponse, len(rs))
	for i, r := range rs {
		resp[i] = toResponse(r)
	}

	return resp
}
