package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"missionctl/internal/services"
	"missionctl/internal/theme"
	"missionctl/internal/version"
)

// LoginForm collects credentials and runs the login attempt
type LoginForm struct {
	form           *huh.Form
	sessionService *services.SessionService
	spinner        spinner.Model
	submitting     bool
	username       string
	password       string
	errorText      string
	width          int
}

// NewLoginForm creates the login form
func NewLoginForm(sessionService *services.SessionService) *LoginForm {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	lf := &LoginForm{
		sessionService: sessionService,
		spinner:        s,
	}
	lf.form = lf.newForm()
	return lf
}

func (lf *LoginForm) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login").
				Value(&lf.username).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("login required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&lf.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password required")
					}
					return nil
				}),
		),
	)
}

// Init starts the form
func (lf *LoginForm) Init() tea.Cmd {
	return lf.form.Init()
}

// SetError displays a failure under the form and re-arms it for another
// attempt
func (lf *LoginForm) SetError(err error) {
	lf.submitting = false
	lf.errorText = err.Error()
	lf.password = ""
	lf.form = lf.newForm()
}

// SetWidth updates the render width
func (lf *LoginForm) SetWidth(width int) {
	lf.width = width
}

// Update drives the form; when it completes, the login attempt runs as a
// command and resolves to loginDoneMsg
func (lf *LoginForm) Update(msg tea.Msg) tea.Cmd {
	if lf.submitting {
		var cmd tea.Cmd
		lf.spinner, cmd = lf.spinner.Update(msg)
		return cmd
	}

	form, cmd := lf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lf.form = f
	}

	if lf.form.State == huh.StateCompleted {
		lf.submitting = true
		lf.errorText = ""
		username, password := lf.username, lf.password
		svc := lf.sessionService
		submit := func() tea.Msg {
			return loginDoneMsg{err: svc.Login(context.Background(), username, password)}
		}
		return tea.Batch(cmd, lf.spinner.Tick, submit)
	}
	return cmd
}

// View renders the header, the form and any pending error
func (lf *LoginForm) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.AppNameStyle.Render("missionctl"),
		theme.TaglineStyle.Render(version.Tagline),
		"",
	)

	body := lf.form.View()
	if lf.submitting {
		body = lf.spinner.View() + " Signing in..."
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, body)
	if lf.errorText != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out,
			theme.ErrorStyle.Render(formatErrorForDisplay(fmt.Errorf("%s", lf.errorText), lf.width)))
	}
	return out
}
