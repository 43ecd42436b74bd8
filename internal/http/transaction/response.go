package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Category    categoryRef      `json:"category"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		CategoryID:  tx.CategoryID,
		Category:    categoryRef{ID: tx.CategoryID, Name: tx.CategoryName},
		Type:        tx.Type,
		Amount:      tx.Amount,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

type categoryTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type summaryResponse struct {
	TotalIncome  decimal.Decimal          `json:"total_income"`
	TotalExpense decimal.Decimal          `json:"total_expense"`
	ByCategory   map[string]categoryTotal `json:"by_category"`
}

func toSummary(s *transaction.Summary) summaryResponse {
	by := make(map[string]categoryTotal, len(s.ByCategory))
	for name, ct := range s.ByCategory {
		by[name] = categoryTotal{Total: ct.Total, Count: ct.Count}
	}

	return summaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		ByCategory:   by,
	}
}
