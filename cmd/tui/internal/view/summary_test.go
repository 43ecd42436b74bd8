package view

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

func TestRenderSummary(t *testing.T) {
	s := &transaction.Summary{
		TotalIncome:  decimal.RequireFromString("1500"),
		TotalExpense: decimal.RequireFromString("200.5"),
		ByCategory: map[string]transaction.CategoryTotal{
			"Food":   {Total: decimal.RequireFromString("200.5"), Count: 2},
			"Salary": {Total: decimal.RequireFromString("1500"), Count: 1},
		},
	}

	got := renderSummary(date(2024, 1, 1), date(2024, 1, 31), s)

	assert.Contains(t, got, "2024-01-01 → 2024-01-31")
	assert.Contains(t, got, "Net:     1299.50")
	assert.Less(t, strings.Index(got, "Salary"), strings.Index(got, "Food"), "largest category first")
}

func TestRenderSummary_Empty(t *testing.T) {
	got := renderSummary(date(2024, 1, 1), date(2024, 1, 31), &transaction.Summary{
		ByCategory: map[string]transaction.CategoryTotal{},
	})

	assert.Contains(t, got, "No transactions in this period.")
}
