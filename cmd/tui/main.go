package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pennywise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/pennywise/internal/budget/store"
	"github.com/MrJamesThe3rd/pennywise/internal/category"
	categoryStore "github.com/MrJamesThe3rd/pennywise/internal/category/store"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pennywise/internal/matching/store"
	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
	reminderStore "github.com/MrJamesThe3rd/pennywise/internal/reminder/store"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
	userStore "github.com/MrJamesThe3rd/pennywise/internal/user/store"
)

type View int

const (
	ViewLogin View = iota
	ViewMenu
	ViewTransactions
	ViewBudgets
	ViewSummary
	ViewReminders
	ViewCategories
	ViewImport
	ViewExport
)

type model struct {
	svc     view.Services
	session view.Session

	currentView View
	screen      view.View
	loginView   view.LoginModel
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	categorySvc := category.NewService(categoryStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), categorySvc)
	matchSvc := matching.NewService(matchingStore.New(db), categorySvc)

	svc := view.Services{
		Users:        user.NewService(userStore.New(db), auth.NewHasher(cfg.Auth.BcryptCost)),
		Categories:   categorySvc,
		Transactions: txSvc,
		Budgets:      budget.NewService(budgetStore.New(db), categorySvc),
		Reminders:    reminder.NewService(reminderStore.New(db), categorySvc, txSvc),
		Rules:        matchSvc,
		Import:       importer.NewService(matchSvc, txSvc),
		Export:       export.NewService(txSvc),
	}

	return model{
		svc:         svc,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(svc.Users),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

// open builds a fresh screen so every visit reloads its data.
func (m model) open(v View) (model, tea.Cmd) {
	switch v {
	case ViewTransactions:
		m.screen = view.NewListModel(m.svc, m.session)
	case ViewBudgets:
		m.screen = view.NewBudgetsModel(m.svc, m.session)
	case ViewSummary:
		m.screen = view.NewSummaryModel(m.svc, m.session)
	case ViewReminders:
		m.screen = view.NewRemindersModel(m.svc, m.session)
	case ViewCategories:
		m.screen = view.NewCategoriesModel(m.svc, m.session)
	case ViewImport:
		m.screen = view.NewImportModel(m.svc, m.session)
	case ViewExport:
		m.screen = view.NewExportModel(m.svc, m.session)
	default:
		return m, nil
	}

	m.currentView = v

	return m, m.screen.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(ViewTransactions)
			case "2":
				return m.open(ViewBudgets)
			case "3":
				return m.open(ViewSummary)
			case "4":
				return m.open(ViewReminders)
			case "5":
				return m.open(ViewCategories)
			case "6":
				return m.open(ViewImport)
			case "7":
				return m.open(ViewExport)
			}

			return m, nil
		}
	case view.LoggedInMsg:
		m.session = msg.Session
		m.currentView = ViewMenu
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		newModel, cmd := m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
		return m, cmd
	case ViewMenu:
		return m, nil
	}

	newModel, cmd := m.screen.Update(msg)
	m.screen = newModel.(view.View)

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Pennywise, signed in as %s\n\n", m.session.Name) +
				"1. Transactions\n" +
				"2. Budgets\n" +
				"3. Summary\n" +
				"4. Reminders\n" +
				"5. Categories\n" +
				"6. Import Statement\n" +
				"7. Export Transactions\n\n" +
				"q. Quit",
		)
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.screen.Title() + " · " + m.screen.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, m.screen.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
