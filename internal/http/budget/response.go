package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
)

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type budgetResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Category    categoryRef     `json:"category"`
	Period      budget.Period   `json:"period"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`

	// Set only when progress was computed.
	Spent     *decimal.Decimal `json:"spent,omitempty"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`
	Progress  *decimal.Decimal `json:"progress,omitempty"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		Category:    categoryRef{ID: b.CategoryID, Name: b.CategoryName},
		Period:      b.Period,
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		Amount:      b.Amount,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toTrackedResponse(t *budget.Tracked) budgetResponse {
	resp := toResponse(t.Budget)
	resp.Spent = &t.Progress.Spent
	resp.Remaining = &t.Progress.Remaining
	resp.Progress = &t.Progress.Percent

	return resp
}

type dailyResponse struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type showResponse struct {
	Budget        budgetResponse  `json:"budget"`
	DailySpending []dailyResponse `json:"daily_spending"`
}

func toShowResponse(t *budget.Tracked) showResponse {
	daily := make([]dailyResponse, len(t.Progress.Daily))
	for i, d := range t.Progress.Daily {
		daily[i] = dailyResponse{Date: d.Date.Format(time.DateOnly), Total: d.Total}
	}

	return showResponse{
		Budget:        toTrackedResponse(t),
		DailySpending: daily,
	}
}
