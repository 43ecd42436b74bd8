package budget_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		daily         []budget.DailySpend
		wantSpent     string
		wantRemaining string
		wantPercent   string
		wantDays      int
	}{
		{
			name:   "PartiallySpent",
			amount: "500",
			daily: []budget.DailySpend{
				{Date: day(2024, 1, 3), Total: dec("100")},
				{Date: day(2024, 1, 10), Total: dec("250")},
			},
			wantSpent:     "350",
			wantRemaining: "150",
			wantPercent:   "70",
			wantDays:      2,
		},
		{
			name:          "Overspent",
			amount:        "100",
			daily:         []budget.DailySpend{{Date: day(2024, 1, 3), Total: dec("300")}},
			wantSpent:     "300",
			wantRemaining: "0",
			wantPercent:   "100",
			wantDays:      1,
		},
		{
			name:          "ZeroAmount",
			amount:        "0",
			daily:         []budget.DailySpend{{Date: day(2024, 1, 3), Total: dec("12.5")}},
			wantSpent:     "12.5",
			wantRemaining: "0",
			wantPercent:   "0",
			wantDays:      1,
		},
		{
			name:          "NothingSpent",
			amount:        "80",
			wantSpent:     "0",
			wantRemaining: "80",
			wantPercent:   "0",
		},
		{
			name:   "Rounding",
			amount: "300",
			daily: []budget.DailySpend{
				{Date: day(2024, 1, 3), Total: dec("100")},
			},
			wantSpent:     "100",
			wantRemaining: "200",
			wantPercent:   "33.33",
			wantDays:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budget.ComputeProgress(dec(tt.amount), tt.daily)

			assert.True(t, dec(tt.wantSpent).Equal(got.Spent), "spent %s", got.Spent)
			assert.True(t, dec(tt.wantRemaining).Equal(got.Remaining), "remaining %s", got.Remaining)
			assert.True(t, dec(tt.wantPercent).Equal(got.Percent), "percent %s", got.Percent)
			assert.Len(t, got.Daily, tt.wantDays)
		})
	}
}

func TestComputeProgress_DailyOrder(t *testing.T) {
	got := budget.ComputeProgress(dec("1000"), []budget.DailySpend{
		{Date: day(2024, 1, 20), Total: dec("5")},
		{Date: day(2024, 1, 2), Total: dec("7")},
		{Date: day(2024, 1, 20), Total: dec("3")},
	})

	require.Len(t, got.Daily, 2)
	assert.Equal(t, day(2024, 1, 2), got.Daily[0].Date)
	assert.Equal(t, day(2024, 1, 20), got.Daily[1].Date)
	assert.True(t, dec("8").Equal(got.Daily[1].Total))
	assert.True(t, dec("15").Equal(got.Spent))
}

func TestComputeProgress_Idempotent(t *testing.T) {
	daily := []budget.DailySpend{
		{Date: day(2024, 1, 5), Total: dec("40")},
		{Date: day(2024, 1, 1), Total: dec("60")},
	}

	first := budget.ComputeProgress(dec("250"), daily)
	second := budget.ComputeProgress(dec("250"), daily)

	assert.Equal(t, first, second)
	assert.Equal(t, day(2024, 1, 5), daily[0].Date, "input must not be reordered")
}

func TestWindow_Overlaps(t *testing.T) {
	jan := budget.Window{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	tests := []struct {
		name  string
		other budget.Window
		want  bool
	}{
		{name: "Partial", other: budget.Window{Start: day(2024, 1, 15), End: day(2024, 2, 15)}, want: true},
		{name: "Adjacent", other: budget.Window{Start: day(2024, 2, 1), End: day(2024, 2, 28)}, want: false},
		{name: "SharedBoundary", other: budget.Window{Start: day(2024, 1, 31), End: day(2024, 2, 10)}, want: true},
		{name: "Contained", other: budget.Window{Start: day(2024, 1, 10), End: day(2024, 1, 12)}, want: true},
		{name: "Containing", other: budget.Window{Start: day(2023, 12, 1), End: day(2024, 3, 1)}, want: true},
		{name: "Before", other: budget.Window{Start: day(2023, 11, 1), End: day(2023, 12, 31)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jan.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(jan))
		})
	}
}
