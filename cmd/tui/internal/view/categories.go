package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
)

type categoriesState int

const (
	categoriesStateBrowse categoriesState = iota
	categoriesStateNew
	categoriesStateRule
)

type categoryDraft struct {
	Name    string
	Type    string
	Color   string
	Pattern string
}

// CategoriesModel shows per-category totals and manages categories and their
// matching rules.
type CategoriesModel struct {
	CommonModel
	svc     Services
	session Session

	state categoriesState
	table table.Model
	stats []*category.Statistic

	draft *categoryDraft
	form  *huh.Form

	loading bool
	status  string
	err     error
}

func NewCategoriesModel(svc Services, session Session) CategoriesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 24},
			{Title: "Transactions", Width: 14},
			{Title: "Total", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return CategoriesModel{svc: svc, session: session, table: t, loading: true}
}

func (m CategoriesModel) Title() string { return "Categories" }
func (m CategoriesModel) ShortHelp() string {
	if m.state != categoriesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | p: add rule pattern | x: delete | r: refresh"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		m.stats, m.err = msg.stats, msg.err
		m.refreshTable()
		return m, nil

	case categorySavedMsg:
		m.state = categoriesStateBrowse
		m.form, m.draft = nil, nil
		m.table.Focus()
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		return m, m.loadCmd()
	}

	if m.state != categoriesStateBrowse {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.openNewForm()
		case "p":
			if m.selected() != nil {
				return m.openRuleForm()
			}
			return m, nil
		case "x":
			if s := m.selected(); s != nil {
				return m, m.deleteCmd(s)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m CategoriesModel) selected() *category.Statistic {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.stats) {
		return nil
	}

	return m.stats[idx]
}

func (m CategoriesModel) openNewForm() (tea.Model, tea.Cmd) {
	m.draft = &categoryDraft{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.draft.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Any", ""),
					huh.NewOption("Expense", string(category.TypeExpense)),
					huh.NewOption("Income", string(category.TypeIncome)),
				).
				Value(&m.draft.Type),
			huh.NewInput().
				Title("Color").
				Placeholder("#4CAF50").
				Value(&m.draft.Color),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = categoriesStateNew
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) openRuleForm() (tea.Model, tea.Cmd) {
	m.draft = &categoryDraft{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pattern for " + m.selected().Name).
				Description("Imported rows whose description contains this text get the category.").
				Value(&m.draft.Pattern),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = categoriesStateRule
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = categoriesStateBrowse
		m.form, m.draft = nil, nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == categoriesStateRule {
		return m, m.learnCmd(m.selected(), m.draft.Pattern)
	}

	return m, m.createCmd(*m.draft)
}

func (m CategoriesModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Loading categories...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return style.Render(content)
}

func (m *CategoriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.stats))
	for _, s := range m.stats {
		rows = append(rows, table.Row{s.Name, fmt.Sprint(s.TransactionCount), FormatAmount(s.TotalAmount)})
	}
	m.table.SetRows(rows)
}

type categoriesLoadedMsg struct {
	stats []*category.Statistic
	err   error
}

type categorySavedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.svc.Categories.Statistics(ctx, m.session.UserID)
		return categoriesLoadedMsg{stats: stats, err: err}
	}
}

func (m CategoriesModel) createCmd(d categoryDraft) tea.Cmd {
	params := category.CreateParams{Name: strings.TrimSpace(d.Name)}
	if d.Type != "" {
		typ := category.Type(d.Type)
		params.Type = &typ
	}
	if c := strings.TrimSpace(d.Color); c != "" {
		params.Color = &c
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.svc.Categories.Create(ctx, m.session.UserID, params)
		if err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: fmt.Sprintf("Created %q.", c.Name)}
	}
}

func (m CategoriesModel) learnCmd(s *category.Statistic, pattern string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Rules.Learn(ctx, m.session.UserID, pattern, s.ID); err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: fmt.Sprintf("Rows matching %q will go to %s.", strings.TrimSpace(pattern), s.Name)}
	}
}

func (m CategoriesModel) deleteCmd(s *category.Statistic) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Categories.Delete(ctx, m.session.UserID, s.ID); err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: fmt.Sprintf("Deleted %q.", s.Name)}
	}
}
