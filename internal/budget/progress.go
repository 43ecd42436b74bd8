package budget

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DailySpend is the expense total of one day.
type DailySpend struct {
	Date  time.Time
	Total decimal.Decimal
}

type Progress struct {
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Percent is capped at 100 and rounded to two decimals.
	Percent decimal.Decimal
	Daily   []DailySpend
}

// ComputeProgress derives spending figures for a budget of amount from the
// per-day expense totals within its window. Entries sharing a date are merged
// and the breakdown is returned in ascending date order.
func ComputeProgress(amount decimal.Decimal, daily []DailySpend) Progress {
	byDay := make(map[string]int, len(daily))
	merged := make([]DailySpend, 0, len(daily))
	spent := decimal.Zero

	for _, d := range daily {
		spent = spent.Add(d.Total)

		key := d.Date.Format(time.DateOnly)
		if i, ok := byDay[key]; ok {
			merged[i].Total = merged[i].Total.Add(d.Total)
			continue
		}

		byDay[key] = len(merged)
		merged = append(merged, d)
	}

	slices.SortFunc(merged, func(a, b DailySpend) int {
		return a.Date.Compare(b.Date)
	})

	remaining := amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := decimal.Zero
	if !amount.IsZero() {
		percent = decimal.Min(hundred, spent.Div(amount).Mul(hundred).Round(2))
	}

	return Progress{
		Spent:     spent,
		Remaining: remaining,
		Percent:   percent,
		Daily:     merged,
	}
}
