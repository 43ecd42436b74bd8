package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// txDraft holds the form bindings. It lives behind a pointer so the bindings
// survive the model being copied between updates.
type txDraft struct {
	Type        transaction.Type
	CategoryID  uuid.UUID
	Amount      string
	Date        string
	Description string
}

// txForm creates a transaction, or edits one when id is set.
type txForm struct {
	id    *uuid.UUID
	draft *txDraft
	form  *huh.Form
}

func newTxForm(tx *transaction.Transaction, categories []huh.Option[uuid.UUID]) *txForm {
	d := &txDraft{
		Type:       transaction.TypeExpense,
		CategoryID: categories[0].Value,
		Date:       FormatDate(time.Now()),
	}

	f := &txForm{draft: d}
	title := "New Transaction"

	if tx != nil {
		f.id = &tx.ID
		d.Type = tx.Type
		d.CategoryID = tx.CategoryID
		d.Amount = FormatAmount(tx.Amount)
		d.Date = FormatDate(tx.Date)
		d.Description = tx.Description
		title = "Edit Transaction"
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&d.Type),
			huh.NewSelect[uuid.UUID]().
				Title("Category").
				Options(categories...).
				Value(&d.CategoryID),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&d.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&d.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Description").
				Value(&d.Description).
				Validate(func(s string) error {
					if len(s) > 255 {
						return fmt.Errorf("at most 255 characters")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	return f
}

func (f *txForm) Init() tea.Cmd {
	return f.form.Init()
}

func (f *txForm) Update(msg tea.Msg) tea.Cmd {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	return cmd
}

func (f *txForm) Completed() bool {
	return f.form.State == huh.StateCompleted
}

func (f *txForm) View() string {
	return f.form.View()
}

func (f *txForm) values() (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.draft.Amount))
	if err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("invalid amount: %w", err)
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.draft.Date))
	if err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("invalid date: %w", err)
	}

	return amount, date, nil
}

func (f *txForm) createParams() (transaction.CreateParams, error) {
	amount, date, err := f.values()
	if err != nil {
		return transaction.CreateParams{}, err
	}

	return transaction.CreateParams{
		CategoryID:  f.draft.CategoryID,
		Type:        f.draft.Type,
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(f.draft.Description),
	}, nil
}

func (f *txForm) updateParams() (transaction.UpdateParams, error) {
	amount, date, err := f.values()
	if err != nil {
		return transaction.UpdateParams{}, err
	}

	description := strings.TrimSpace(f.draft.Description)

	return transaction.UpdateParams{
		CategoryID:  &f.draft.CategoryID,
		Type:        &f.draft.Type,
		Amount:      &amount,
		Date:        &date,
		Description: &description,
	}, nil
}
