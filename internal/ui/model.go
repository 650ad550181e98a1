package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
	"missionctl/internal/services"
	"missionctl/internal/theme"
	"missionctl/internal/version"
)

type uiState int

const (
	stateLoading uiState = iota
	stateLogin
	stateMap
	stateMissions
	stateHelp
)

// Model is the root Bubble Tea model of the dashboard
type Model struct {
	adminService   *services.AdminService
	errorManager   *ErrorManager
	height         int
	keys           KeyMap
	layer          *CanvasLayer
	loginForm      *LoginForm
	mapView        *MapView
	missionList    *MissionList
	previousState  uiState
	sessionService *services.SessionService
	spinner        spinner.Model
	state          uiState
	tracker        *services.TrackerService
	width          int
}

// missionsLoadedMsg carries one page of the mission list
type missionsLoadedMsg struct {
	page *ports.Paged[domain.Mission]
	err  error
}

// NewModel wires the dashboard components
func NewModel(
	sessionService *services.SessionService,
	adminService *services.AdminService,
	tracker *services.TrackerService,
	layer *CanvasLayer,
	pollInterval time.Duration,
	errorClearDelay time.Duration,
) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	keys := NewKeyMap()

	return &Model{
		adminService:   adminService,
		errorManager:   NewErrorManager(errorClearDelay),
		keys:           keys,
		layer:          layer,
		loginForm:      NewLoginForm(sessionService),
		mapView:        NewMapView(tracker, layer, keys, pollInterval),
		missionList:    NewMissionList(),
		sessionService: sessionService,
		spinner:        s,
		state:          stateLoading,
		tracker:        tracker,
	}
}

func (m *Model) Init() tea.Cmd {
	svc := m.sessionService
	startup := func() tea.Msg {
		return sessionRestoredMsg{err: svc.Startup(context.Background())}
	}
	return tea.Batch(m.spinner.Tick, startup)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapView.SetSize(msg.Width-2, msg.Height-4)
		m.missionList.SetSize(msg.Width-2, msg.Height-6)
		m.loginForm.SetWidth(msg.Width - 2)
		return m, nil

	case clearErrorMsg:
		m.errorManager.ClearError()
		return m, nil

	case sessionRestoredMsg:
		return m.handleSessionRestored(msg)

	case loginDoneMsg:
		if msg.err != nil {
			m.loginForm.SetError(msg.err)
			return m, m.loginForm.Init()
		}
		return m.enterDashboard()

	case loggedOutMsg:
		return m.enterLogin(nil)

	case sessionExpiredMsg:
		m.mapView.Stop()
		return m.enterLogin(fmt.Errorf("session expired, please sign in again"))

	case missionsLoadedMsg:
		if msg.err != nil {
			m.errorManager.SetError(msg.err)
			return m, m.errorManager.ClearAfterDelay()
		}
		m.missionList.SetMissions(msg.page.Items)
		return m, nil

	case pollTickMsg, snapshotMsg:
		cmd := m.mapView.Update(msg)
		if snap, ok := msg.(snapshotMsg); ok {
			// Tracking stopping because the session died means re-login
			if snap.err != nil && !m.sessionService.Authenticated() && m.state != stateLogin {
				return m.enterLogin(fmt.Errorf("session expired, please sign in again"))
			}
		}
		return m, cmd
	}

	switch m.state {
	case stateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stateLogin:
		return m, m.loginForm.Update(msg)
	case stateHelp:
		return m.updateHelp(msg)
	case stateMap, stateMissions:
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *Model) handleSessionRestored(msg sessionRestoredMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logging.Logger.Warn("Session restoration failed", "error", msg.err)
		return m.enterLogin(msg.err)
	}
	if m.sessionService.Authenticated() {
		return m.enterDashboard()
	}
	return m.enterLogin(nil)
}

func (m *Model) enterLogin(err error) (tea.Model, tea.Cmd) {
	m.mapView.Stop()
	m.state = stateLogin
	m.loginForm = NewLoginForm(m.sessionService)
	m.loginForm.SetWidth(m.width - 2)
	if err != nil {
		m.loginForm.SetError(err)
	}
	return m, m.loginForm.Init()
}

// enterDashboard opens the richest view the user's capabilities allow
func (m *Model) enterDashboard() (tea.Model, tea.Cmd) {
	if m.tracker.Allowed() {
		m.state = stateMap
		return m, m.mapView.Start()
	}
	m.state = stateMissions
	return m, m.loadMissionsCmd()
}

func (m *Model) loadMissionsCmd() tea.Cmd {
	svc := m.adminService
	return func() tea.Msg {
		page, err := svc.ListMissions(context.Background(), ports.Page{Page: 1, Size: 50})
		return missionsLoadedMsg{page: page, err: err}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	svc := m.sessionService
	return func() tea.Msg {
		svc.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (m *Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.mapView.Stop()
			return m, tea.Quit

		case key.Matches(keyMsg, m.keys.Help):
			m.previousState = m.state
			m.state = stateHelp
			return m, nil

		case key.Matches(keyMsg, m.keys.Logout):
			m.mapView.Stop()
			return m, m.logoutCmd()

		case key.Matches(keyMsg, m.keys.Map):
			if !m.tracker.Allowed() {
				m.errorManager.SetError(fmt.Errorf("your role has no access to the live map"))
				return m, m.errorManager.ClearAfterDelay()
			}
			m.state = stateMap
			if !m.mapView.Running() {
				return m, m.mapView.Start()
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Missions):
			m.state = stateMissions
			return m, m.loadMissionsCmd()

		case key.Matches(keyMsg, m.keys.Refresh):
			if m.state == stateMap && m.mapView.Running() {
				return m, m.mapView.fetchSnapshotCmd()
			}
			return m, m.loadMissionsCmd()

		case key.Matches(keyMsg, m.keys.Filter):
			if m.state == stateMissions {
				m.missionList.CycleStatusFilter()
			}
			return m, nil
		}
	}

	switch m.state {
	case stateMap:
		return m, m.mapView.Update(msg)
	case stateMissions:
		return m, m.missionList.Update(msg)
	}
	return m, nil
}

func (m *Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "?":
			m.state = m.previousState
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var body string
	switch m.state {
	case stateLoading:
		body = m.spinner.View() + " Restoring session..."
	case stateLogin:
		body = m.loginForm.View()
	case stateMap:
		body = m.mapView.View()
	case stateMissions:
		body = m.missionList.View()
	case stateHelp:
		body = m.renderHelp()
	}

	sections := []string{body}
	if m.errorManager.HasError() {
		sections = append(sections,
			theme.ErrorStyle.Render(formatErrorForDisplay(m.errorManager.GetError(), m.width)))
	}
	if m.state == stateMap || m.state == stateMissions {
		sections = append(sections, m.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderFooter() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		parts = append(parts,
			theme.HelpShortcutStyle.Render(binding.Help().Key)+
				theme.HelpLabelStyle.Render(" "+binding.Help().Desc))
	}
	footer := strings.Join(parts, theme.HelpLabelStyle.Render("  ·  "))
	if user := m.sessionService.Current().User; user != nil {
		footer += theme.HelpLabelStyle.Render("   ·   ") +
			theme.SubtitleStyle.Render(user.Login)
	}
	return theme.HelpStyle.Render(footer)
}

func (m *Model) renderHelp() string {
	rows := []struct {
		binding key.Binding
	}{
		{m.keys.Map}, {m.keys.Missions}, {m.keys.Filter},
		{m.keys.Refresh}, {m.keys.Logout}, {m.keys.Help}, {m.keys.Quit},
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("missionctl " + version.Version))
	b.WriteString("\n")
	for _, row := range rows {
		help := row.binding.Help()
		b.WriteString(theme.HelpShortcutStyle.Render(fmt.Sprintf("%-10s", help.Key)))
		b.WriteString(theme.HelpLabelStyle.Render(help.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.MutedStyle.Render("esc to go back"))
	return b.String()
}
