package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	"github.com/MrJamesThe3rd/pennywise/internal/category"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// Services bundles the domain services the screens talk to.
type Services struct {
	Users        *user.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Budgets      *budget.Service
	Reminders    *reminder.Service
	Rules        *matching.Service
	Import       *importer.Service
	Export       *export.Service
}

// Session identifies the signed-in user. Every screen scopes its queries to it.
type Session struct {
	UserID uuid.UUID
	Name   string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
