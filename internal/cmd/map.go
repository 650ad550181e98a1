package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
	"missionctl/internal/services"
	"missionctl/internal/ui"
)

// MapCmd opens the live tracking map directly, skipping the mission list.
// It fails fast when the stored session cannot see the map.
type MapCmd struct {
	PollInterval int `help:"Seconds between live map refreshes" default:"10"`
}

// Run executes the map command
func (m *MapCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}
	if !cli.Container.SessionService.HasPermission(domain.PermCarteRead) {
		return fmt.Errorf("current user cannot view the live map (missing %s)", domain.PermCarteRead)
	}

	if m.PollInterval == 10 {
		if settings := cli.Settings(); settings != nil {
			m.PollInterval = settings.PollInterval()
		}
	}
	if m.PollInterval < 1 {
		m.PollInterval = 1
	}

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
		time.Duration(m.PollInterval)*time.Second,
		10*time.Second,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	cli.Container.SessionService.SetSessionExpiredFunc(func() {
		p.Send(ui.SessionExpired())
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run map view: %w", err)
	}
	return nil
}
