package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/paging"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const listPerPage = 20

type listState int

const (
	listStateBrowse listState = iota
	listStateForm
	listStateConfirmDelete
)

type ListModel struct {
	CommonModel
	svc     Services
	session Session

	state listState
	table table.Model
	page  *paging.Result[*transaction.Transaction]
	form  *txForm

	typeFilterIdx int
	dateFilterIdx int
	pageNum       int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(svc Services, session Session) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		svc:     svc,
		session: session,
		table:   t,
		pageNum: 1,
		loading: true,
	}
}

func (m ListModel) Title() string { return "Transactions" }
func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateForm:
		return "Navigate form | Esc: cancel"
	case listStateConfirmDelete:
		return "y: delete | any other key: keep"
	}

	return "Esc: back | n: new | e: edit | x: delete | t: type | d: date | ←/→: page | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateForm:
		return m.updateForm(msg)
	case listStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "n":
			return m.openForm(nil)
		case "e":
			if tx := m.selected(); tx != nil {
				return m.openForm(tx)
			}
			return m, nil
		case "x":
			if m.selected() != nil {
				m.state = listStateConfirmDelete
			}
			return m, nil
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.pageNum = 1
			m.applyFilter(time.Now())
			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.pageNum = 1
			m.applyFilter(time.Now())
			return m, m.loadTxsCmd()
		case "right", "l":
			if m.page != nil && m.pageNum < m.page.LastPage {
				m.pageNum++
				return m, m.loadTxsCmd()
			}
			return m, nil
		case "left", "h":
			if m.pageNum > 1 {
				m.pageNum--
				return m, m.loadTxsCmd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) openForm(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	opts, err := categoryOptions(m.svc.Categories, m.session.UserID)
	if err != nil {
		m.status = fmt.Sprintf("Error loading categories: %v", err)
		return m, nil
	}

	if len(opts) == 0 {
		m.status = "Create a category first."
		return m, nil
	}

	m.form = newTxForm(tx, opts)
	m.state = listStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	cmd := m.form.Update(msg)
	if !m.form.Completed() {
		return m, cmd
	}

	return m, m.saveCmd(m.form)
}

func (m ListModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = listStateBrowse
	if keyMsg.String() != "y" {
		return m, nil
	}

	return m, m.deleteCmd(m.selected())
}

func (m ListModel) selected() *transaction.Transaction {
	if m.page == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.page.Data) {
		return nil
	}

	return m.page.Data[idx]
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Income", "Expense"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s | Page %d/%d (%d total)",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
		m.page.CurrentPage, m.page.LastPage, m.page.Total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateForm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == listStateConfirmDelete {
		if tx := m.selected(); tx != nil {
			content += "\n" + errorStyle.Render(fmt.Sprintf("Delete %q from %s? (y/N)", tx.Description, FormatDate(tx.Date)))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyFilter(now time.Time) {
	switch m.typeFilterIdx {
	case 1:
		typ := transaction.TypeIncome
		m.filter.Type = &typ
	case 2:
		typ := transaction.TypeExpense
		m.filter.Type = &typ
	default:
		m.filter.Type = nil
	}

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.page.Data))
	for _, tx := range m.page.Data {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			FormatSigned(tx.Type, tx.Amount),
			tx.CategoryName,
			tx.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	page *paging.Result[*transaction.Transaction]
	err  error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter
	p := paging.Params{Page: m.pageNum, PerPage: listPerPage}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.svc.Transactions.List(ctx, m.session.UserID, filter, p)
		return loadListMsg{page: page, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd(f *txForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if f.id == nil {
			params, err := f.createParams()
			if err != nil {
				return listSaveMsg{err: err}
			}

			if _, err := m.svc.Transactions.Create(ctx, m.session.UserID, params); err != nil {
				return listSaveMsg{err: err}
			}

			return listSaveMsg{status: "Transaction created."}
		}

		params, err := f.updateParams()
		if err != nil {
			return listSaveMsg{err: err}
		}

		if _, err := m.svc.Transactions.Update(ctx, m.session.UserID, *f.id, params); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Transaction updated."}
	}
}

func (m ListModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Transactions.Delete(ctx, m.session.UserID, tx.ID); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Transaction deleted."}
	}
}
