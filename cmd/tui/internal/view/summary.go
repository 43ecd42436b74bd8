package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type summaryState int

const (
	summaryStateTimeframe summaryState = iota
	summaryStateLoading
	summaryStateResult
)

// SummaryModel totals income and expenses over a chosen timeframe.
type SummaryModel struct {
	CommonModel
	svc     Services
	session Session

	state           summaryState
	timeframePicker TimeframePicker

	start, end time.Time
	summary    *transaction.Summary
	err        error
}

func NewSummaryModel(svc Services, session Session) SummaryModel {
	return SummaryModel{
		svc:             svc,
		session:         session,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
	}
}

func (m SummaryModel) Title() string { return "Summary" }
func (m SummaryModel) ShortHelp() string {
	if m.state == summaryStateResult {
		return "Esc: pick another timeframe"
	}

	return "Esc: back | Enter: select"
}

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.start, m.end = msg.Start, msg.End
		m.state = summaryStateLoading
		return m, m.loadCmd()

	case summaryLoadedMsg:
		m.state = summaryStateResult
		m.summary, m.err = msg.summary, msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			switch {
			case m.state == summaryStateResult:
				m.state = summaryStateTimeframe
				m.timeframePicker.Reset()
				return m, nil
			case m.state == summaryStateTimeframe && m.timeframePicker.IsSelecting():
				return m, Back
			}
		}
	}

	if m.state != summaryStateTimeframe {
		return m, nil
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m SummaryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case summaryStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case summaryStateLoading:
		return style.Render("Summing transactions...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return style.Render(renderSummary(m.start, m.end, m.summary))
}

func renderSummary(start, end time.Time, s *transaction.Summary) string {
	var b strings.Builder

	if start.IsZero() {
		fmt.Fprintf(&b, "All time until %s\n\n", FormatDate(end))
	} else {
		fmt.Fprintf(&b, "%s → %s\n\n", FormatDate(start), FormatDate(end))
	}

	net := s.TotalIncome.Sub(s.TotalExpense)
	fmt.Fprintf(&b, "Income:  %s\n", incomeStyle.Render(FormatAmount(s.TotalIncome)))
	fmt.Fprintf(&b, "Expense: %s\n", expenseStyle.Render(FormatAmount(s.TotalExpense)))
	fmt.Fprintf(&b, "Net:     %s\n", FormatAmount(net))

	if len(s.ByCategory) == 0 {
		b.WriteString("\nNo transactions in this period.\n")
		return b.String()
	}

	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, c string) int {
		return s.ByCategory[c].Total.Cmp(s.ByCategory[a].Total)
	})

	b.WriteString("\nBy category:\n")
	for _, name := range names {
		ct := s.ByCategory[name]
		fmt.Fprintf(&b, "  %-20s %12s  (%d)\n", name, FormatAmount(ct.Total), ct.Count)
	}

	return b.String()
}

type summaryLoadedMsg struct {
	summary *transaction.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	start, end := m.start, m.end

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.svc.Transactions.Summarize(ctx, m.session.UserID, start, end)
		return summaryLoadedMsg{summary: s, err: err}
	}
}
