package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
)

type reminderDraft struct {
	Title       string
	CategoryID  uuid.UUID
	DueDate     string
	Description string
}

// RemindersModel lists upcoming reminders and lets the user complete or add them.
type RemindersModel struct {
	CommonModel
	svc     Services
	session Session

	items  []*reminder.Reminder
	cursor int

	draft *reminderDraft
	form  *huh.Form

	loading bool
	status  string
	err     error
}

func NewRemindersModel(svc Services, session Session) RemindersModel {
	return RemindersModel{svc: svc, session: session, loading: true}
}

func (m RemindersModel) Title() string { return "Upcoming Reminders" }
func (m RemindersModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | ↑/↓: move | c: complete | n: new | r: refresh"
}

func (m RemindersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RemindersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case remindersLoadedMsg:
		m.loading = false
		m.items, m.err = msg.items, msg.err
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case reminderSavedMsg:
		m.form, m.draft = nil, nil
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		return m, m.loadCmd()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
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
	case "c":
		if m.cursor < len(m.items) {
			return m, m.completeCmd(m.items[m.cursor])
		}
	case "n":
		return m.openForm()
	}

	return m, nil
}

func (m RemindersModel) openForm() (tea.Model, tea.Cmd) {
	opts, err := categoryOptions(m.svc.Categories, m.session.UserID)
	if err != nil {
		m.status = fmt.Sprintf("Error loading categories: %v", err)
		return m, nil
	}

	if len(opts) == 0 {
		m.status = "Create a category first."
		return m, nil
	}

	m.draft = &reminderDraft{
		CategoryID: opts[0].Value,
		DueDate:    FormatDate(time.Now().AddDate(0, 0, 1)),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.draft.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[uuid.UUID]().
				Title("Category").
				Options(opts...).
				Value(&m.draft.CategoryID),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.draft.DueDate).
				Validate(validateDate),
			huh.NewText().
				Title("Description").
				Value(&m.draft.Description),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m RemindersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form, m.draft = nil, nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(*m.draft)
}

func (m RemindersModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.form != nil {
		return style.Render("New Reminder\n\n" + m.form.View())
	}

	if m.loading {
		return style.Render("Loading reminders...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n")
	}

	if len(m.items) == 0 {
		b.WriteString("Nothing due. Press n to add a reminder.")
		return style.Render(b.String())
	}

	for i, r := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s  %-30s %s\n", cursor, FormatDate(r.DueDate), r.Title, dueIn(r.DueDate, time.Now()))
	}

	return style.Render(b.String())
}

// dueIn describes how far away a due date is in whole days.
func dueIn(due, now time.Time) string {
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, due.Location())
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days <= 0:
		return activeStyle("today")
	case days == 1:
		return "tomorrow"
	}

	return fmt.Sprintf("in %d days", days)
}

type remindersLoadedMsg struct {
	items []*reminder.Reminder
	err   error
}

type reminderSavedMsg struct {
	status string
	err    error
}

func (m RemindersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.svc.Reminders.Upcoming(ctx, m.session.UserID)
		return remindersLoadedMsg{items: items, err: err}
	}
}

func (m RemindersModel) completeCmd(r *reminder.Reminder) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Reminders.Complete(ctx, m.session.UserID, r.ID); err != nil {
			return reminderSavedMsg{err: err}
		}

		return reminderSavedMsg{status: fmt.Sprintf("Completed %q.", r.Title)}
	}
}

func (m RemindersModel) createCmd(d reminderDraft) tea.Cmd {
	return func() tea.Msg {
		due, err := time.Parse(time.DateOnly, d.DueDate)
		if err != nil {
			return reminderSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.svc.Reminders.Create(ctx, m.session.UserID, reminder.CreateParams{
			CategoryID:  d.CategoryID,
			Title:       strings.TrimSpace(d.Title),
			Description: strings.TrimSpace(d.Description),
			DueDate:     due,
		})
		if err != nil {
			return reminderSavedMsg{err: err}
		}

		return reminderSavedMsg{status: "Reminder created."}
	}
}
