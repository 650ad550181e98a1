package server

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"

	"missionctl/internal/adapters/api"
	"missionctl/internal/adapters/storage"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
	"missionctl/internal/services"
	"missionctl/internal/ui"
)

const errorClearDelay = 10 * time.Second

// sessionModel wraps ui.Model to log out and clean up when the remote
// session ends
type sessionModel struct {
	*ui.Model
	sessionID      string
	startTime      time.Time
	sessionService *services.SessionService
}

func (s *sessionModel) Init() tea.Cmd {
	return s.Model.Init()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.QuitMsg); ok {
		duration := time.Since(s.startTime)

		// Remote credentials are ephemeral: drop them with the connection
		s.sessionService.Logout(context.Background())

		logging.Logger.Info("SSH session ended",
			"session_id", s.sessionID,
			"duration", duration.String())
	}

	updatedModel, cmd := s.Model.Update(msg)
	if m, ok := updatedModel.(*ui.Model); ok {
		s.Model = m
	}
	return s, cmd
}

func (s *sessionModel) View() string {
	return s.Model.View()
}

// teaHandler creates a per-connection container and dashboard model
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	// Per-session container: nothing here is shared between connections
	tokens := storage.NewMemoryTokenStore()
	creds := storage.NewEphemeralCredentialStore()
	client := api.NewClient(s.apiBaseURL, tokens)

	sessionService := services.NewSessionService(
		api.NewAuthClient(client), tokens, creds, client.Transport())

	layer := ui.NewCanvasLayer()
	tracker := services.NewTrackerService(api.NewMapClient(client), sessionService, layer)
	tracker.SetFilter(ports.MapFilter{Statut: s.settings.MapStatusFilter()})
	adminService := services.NewAdminService(api.NewAdminClient(client), sessionService)

	pollInterval := time.Duration(s.settings.PollInterval()) * time.Second
	model := ui.NewModel(sessionService, adminService, tracker, layer, pollInterval, errorClearDelay)

	wrappedModel := &sessionModel{
		Model:          model,
		sessionID:      sessionID,
		startTime:      time.Now(),
		sessionService: sessionService,
	}

	return wrappedModel, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}
