package transaction

import (
	"github.com/shopspring/decimal"
)

// SummaryRow is one (category, type) group of a period.
type SummaryRow struct {
	Category string
	Type     Type
	Total    decimal.Decimal
	Count    int
}

type CategoryTotal struct {
	Total decimal.Decimal
	Count int
}

// Summary aggregates the transactions of a period.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	// ByCategory pools income and expense amounts under the category name.
	ByCategory map[string]CategoryTotal
}

// Aggregate folds grouped rows into a Summary. Categories sharing a name are merged.
func Aggregate(rows []SummaryRow) *Summary {
	s := &Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ByCategory:   make(map[string]CategoryTotal),
	}

	for _, r := range rows {
		switch r.Type {
		case TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(r.Total)
		case TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(r.Total)
		}

		ct := s.ByCategory[r.Category]
		ct.Total = ct.Total.Add(r.Total)
		ct.Count += r.Count
		s.ByCategory[r.Category] = ct
	}

	return s
}
