package view

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/user"
)

// LoggedInMsg is emitted once the credentials check out.
type LoggedInMsg struct {
	Session Session
}

type credentials struct {
	Email    string
	Password string
}

type LoginModel struct {
	CommonModel
	users *user.Service

	creds *credentials
	form  *huh.Form
	err   error
}

func NewLoginModel(users *user.Service) LoginModel {
	m := LoginModel{users: users, creds: &credentials{}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string     { return "Sign In" }
func (m LoginModel) ShortHelp() string { return "Enter: next | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.creds.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a valid email")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.creds.Password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		if res.err != nil {
			m.err = res.err
			m.creds.Password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg {
			return LoggedInMsg{Session: Session{UserID: res.user.ID, Name: res.user.Name}}
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.loginCmd()
}

func (m LoginModel) View() string {
	content := "Pennywise\n\n" + m.form.View()
	if m.err != nil {
		content += "\n" + errorStyle.Render(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loginResultMsg struct {
	user *user.User
	err  error
}

func (m LoginModel) loginCmd() tea.Cmd {
	email, password := m.creds.Email, m.creds.Password

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := m.users.Authenticate(ctx, email, password)
		return loginResultMsg{user: u, err: err}
	}
}
