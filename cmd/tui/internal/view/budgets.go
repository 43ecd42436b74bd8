package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

// BudgetsModel shows the budgets active today with their spending progress.
type BudgetsModel struct {
	CommonModel
	svc     Services
	session Session

	bar     progress.Model
	items   []*budget.Tracked
	cursor  int
	detail  bool
	loading bool
	err     error
}

func NewBudgetsModel(svc Services, session Session) BudgetsModel {
	return BudgetsModel{
		svc:     svc,
		session: session,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		loading: true,
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }
func (m BudgetsModel) ShortHelp() string {
	if m.detail {
		return "Esc: back to list"
	}

	return "Esc: back | ↑/↓: move | Enter: daily spending | r: refresh"
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-60, 10), 40)
		return m, nil

	case tea.KeyMsg:
		if m.detail {
			if msg.Type == tea.KeyEsc {
				m.detail = false
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.items) > 0 {
				m.detail = true
			}
		}
	}

	return m, nil
}

func (m BudgetsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.loading:
		return style.Render("Loading budgets...")
	case m.err != nil:
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case len(m.items) == 0:
		return style.Render("No budgets are active today.\n\n(Esc to go back)")
	case m.detail:
		return style.Render(m.viewDetail(m.items[m.cursor]))
	}

	var b strings.Builder
	b.WriteString("Active Budgets\n\n")

	for i, t := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %-18s %s %6s%%  %s / %s\n",
			cursor,
			t.CategoryName,
			m.bar.ViewAs(t.Progress.Percent.InexactFloat64()/100),
			t.Progress.Percent.StringFixed(2),
			FormatAmount(t.Progress.Spent),
			FormatAmount(t.Amount),
		)
	}

	return style.Render(b.String())
}

func (m BudgetsModel) viewDetail(t *budget.Tracked) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s) %s → %s\n\n", t.CategoryName, t.Period, FormatDate(t.StartDate), FormatDate(t.EndDate))
	fmt.Fprintf(&b, "Budget:    %s\n", FormatAmount(t.Amount))
	fmt.Fprintf(&b, "Spent:     %s\n", FormatAmount(t.Progress.Spent))
	fmt.Fprintf(&b, "Remaining: %s\n\n", FormatAmount(t.Progress.Remaining))
	b.WriteString(m.bar.ViewAs(t.Progress.Percent.InexactFloat64()/100) + "\n\n")

	if len(t.Progress.Daily) == 0 {
		b.WriteString("No spending yet.\n")
		return b.String()
	}

	b.WriteString("Daily spending:\n")
	for _, d := range t.Progress.Daily {
		fmt.Fprintf(&b, "  %s  %10s\n", FormatDate(d.Date), FormatAmount(d.Total))
	}

	return b.String()
}

type budgetsLoadedMsg struct {
	items []*budget.Tracked
	err   error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		page, err := m.svc.Budgets.List(ctx, m.session.UserID,
			budget.ListFilter{ActiveOn: &today}, paging.Params{Page: 1, PerPage: 100})
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}

		return budgetsLoadedMsg{items: page.Data}
	}
}
