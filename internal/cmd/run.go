package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"missionctl/internal/logging"
	"missionctl/internal/ports"
	"missionctl/internal/services"
	"missionctl/internal/ui"
)

// RunCmd starts the dashboard TUI
type RunCmd struct {
	ErrorClearDelay int `help:"Seconds before error messages auto-clear" default:"10"`
	PollInterval    int `help:"Seconds between live map refreshes" default:"10"`
}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	if r.PollInterval == 10 {
		if settings := cli.Settings(); settings != nil {
			r.PollInterval = settings.PollInterval()
		}
	}
	if r.PollInterval < 1 {
		r.PollInterval = 1
	}

	logging.Logger.Info("Starting missionctl dashboard",
		"api_url", cli.APIURL, "poll_interval_seconds", r.PollInterval)

	layer := ui.NewCanvasLayer()
	tracker := services.NewTrackerService(cli.Container.MapAPI, cli.Container.SessionService, layer)
	if settings := cli.Settings(); settings != nil {
		tracker.SetFilter(ports.MapFilter{Statut: settings.MapStatusFilter()})
	}

	model := ui.NewModel(
		cli.Container.SessionService,
		cli.Container.AdminService,
		tracker,
		layer,
		time.Duration(r.PollInterval)*time.Second,
		time.Duration(r.ErrorClearDelay)*time.Second,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// An unrecoverable authorization failure anywhere in the stack drops
	// the dashboard back to the login screen
	cli.Container.SessionService.SetSessionExpiredFunc(func() {
		p.Send(ui.SessionExpired())
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
