package category

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
)

type categoryResponse struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	Type              *category.Type `json:"type"`
	Color             *string        `json:"color"`
	Icon              *string        `json:"icon"`
	Description       *string        `json:"description"`
	TransactionsCount int            `json:"transactions_count"`
	BudgetsCount      int            `json:"budgets_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         *time.Time     `json:"updated_at"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:                c.ID,
		Name:              c.Name,
		Type:              c.Type,
		Color:             c.Color,
		Icon:              c.Icon,
		Description:       c.Description,
		TransactionsCount: c.TransactionsCount,
		BudgetsCount:      c.BudgetsCount,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

type statisticResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

func toStatistics(stats []*category.Statistic) []statisticResponse {
	resp := make([]statisticResponse, len(stats))
	for i, s := range stats {
		resp[i] = statisticResponse{
			ID:               s.ID,
			Name:             s.Name,
			TransactionCount: s.TransactionCount,
			TotalAmount:      s.TotalAmount,
		}
	}

	return resp
}
