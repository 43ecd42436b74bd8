package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSigned prefixes the amount with the direction of the transaction.
func FormatSigned(t transaction.Type, d decimal.Decimal) string {
	if t == transaction.TypeExpense {
		return expenseStyle.Render("-" + FormatAmount(d))
	}

	return incomeStyle.Render("+" + FormatAmount(d))
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}

	return nil
}

// categoryOptions loads the user's categories as select options.
func categoryOptions(svc *category.Service, userID uuid.UUID) ([]huh.Option[uuid.UUID], error) {
	ctx, cancel := DbCtx()
	defer cancel()

	page, err := svc.List(ctx, userID, paging.Params{Page: 1, PerPage: 100})
	if err != nil {
		return nil, err
	}

	opts := make([]huh.Option[uuid.UUID], 0, len(page.Data))
	for _, c := range page.Data {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return opts, nil
}
