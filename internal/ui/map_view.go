package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
	"missionctl/internal/services"
	"missionctl/internal/theme"
)

const (
	markerGlyph         = "●"
	selectedMarkerGlyph = "◉"
	boundsPaddingDeg    = 0.5
)

// MapView renders the live mission map. It owns the poll loop: exactly one
// outstanding tick, the next one scheduled only after the current snapshot
// arrived, surviving transient fetch failures and stopping on teardown or
// permission loss.
type MapView struct {
	tracker      *services.TrackerService
	layer        *CanvasLayer
	keys         KeyMap
	pollInterval time.Duration

	width    int
	height   int
	snapshot *ports.MapSnapshot
	selected int
	running  bool
	lastErr  error
}

// NewMapView creates the map component bound to the tracker and its layer
func NewMapView(tracker *services.TrackerService, layer *CanvasLayer, keys KeyMap, pollInterval time.Duration) *MapView {
	return &MapView{
		tracker:      tracker,
		layer:        layer,
		keys:         keys,
		pollInterval: pollInterval,
		selected:     -1,
	}
}

// Start begins the poll loop with an immediate fetch
func (v *MapView) Start() tea.Cmd {
	v.running = true
	return v.fetchSnapshotCmd()
}

// Stop tears the tracker down: the pending tick becomes a no-op, every
// marker is released and the canvas cleared
func (v *MapView) Stop() {
	v.running = false
	v.tracker.Teardown()
	v.layer.Close()
	v.snapshot = nil
	v.selected = -1
}

// Running reports whether the poll loop is active
func (v *MapView) Running() bool {
	return v.running
}

// SetSize updates the render area
func (v *MapView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// pollCmd waits one interval then fires pollTickMsg
func (v *MapView) pollCmd() tea.Cmd {
	return tea.Tick(v.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (v *MapView) fetchSnapshotCmd() tea.Cmd {
	tracker := v.tracker
	return func() tea.Msg {
		snapshot, err := tracker.Poll(context.Background())
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

// Update handles poll loop and navigation messages
func (v *MapView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pollTickMsg:
		if !v.running {
			// Tick from a stopped loop, let it die
			return nil
		}
		return v.fetchSnapshotCmd()

	case snapshotMsg:
		if !v.running {
			return nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, services.ErrTrackingDisabled) {
				logging.Logger.Info("Tracking no longer permitted, stopping poll loop")
				v.Stop()
				v.lastErr = msg.err
				return nil
			}
			// Transient failure: keep the previous snapshot and the loop
			logging.Logger.Warn("Snapshot fetch failed, keeping previous markers", "error", msg.err)
			v.lastErr = msg.err
			return v.pollCmd()
		}
		v.lastErr = nil
		v.snapshot = msg.snapshot
		v.clampSelection()
		return v.pollCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j", "tab":
			v.moveSelection(1)
		case "up", "k", "shift+tab":
			v.moveSelection(-1)
		}
	}
	return nil
}

func (v *MapView) missions() []domain.Mission {
	if v.snapshot == nil {
		return nil
	}
	missions := make([]domain.Mission, len(v.snapshot.Missions))
	copy(missions, v.snapshot.Missions)
	sort.Slice(missions, func(i, j int) bool { return missions[i].ID < missions[j].ID })
	return missions
}

func (v *MapView) moveSelection(delta int) {
	n := 0
	if v.snapshot != nil {
		n = len(v.snapshot.Missions)
	}
	if n == 0 {
		v.selected = -1
		return
	}
	v.selected = ((v.selected+delta)%n + n) % n
}

func (v *MapView) clampSelection() {
	n := 0
	if v.snapshot != nil {
		n = len(v.snapshot.Missions)
	}
	if v.selected >= n {
		v.selected = n - 1
	}
}

// SelectedMission returns the mission under the cursor, nil when none
func (v *MapView) SelectedMission() *domain.Mission {
	missions := v.missions()
	if v.selected < 0 || v.selected >= len(missions) {
		return nil
	}
	m := missions[v.selected]
	return &m
}

// View renders the canvas, the stats line and the selected mission detail
func (v *MapView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if !v.running {
		return theme.MutedStyle.Render("Live tracking is stopped.")
	}
	if v.snapshot == nil {
		return theme.MutedStyle.Render("Waiting for first snapshot...")
	}

	canvasHeight := v.height - 8
	if canvasHeight < 5 {
		canvasHeight = 5
	}

	var b strings.Builder
	b.WriteString(v.renderCanvas(v.width, canvasHeight))
	b.WriteString("\n")
	b.WriteString(v.renderStatsLine())
	b.WriteString("\n")
	b.WriteString(v.renderDetail())
	return b.String()
}

// bounds returns the geographic window: the backend's bounds when
// provided, otherwise the bounding box of the markers, otherwise a small
// window around the fallback position.
func (v *MapView) bounds() domain.Bounds {
	if v.snapshot.Bounds != nil {
		return padBounds(*v.snapshot.Bounds)
	}
	views := v.layer.Snapshot()
	points := make([]domain.LatLng, 0, len(views))
	for _, mv := range views {
		points = append(points, mv.Pos)
	}
	if b, ok := domain.BoundsOf(points); ok {
		return padBounds(b)
	}
	return padBounds(domain.Bounds{
		North: domain.FallbackPosition.Lat,
		South: domain.FallbackPosition.Lat,
		East:  domain.FallbackPosition.Lng,
		West:  domain.FallbackPosition.Lng,
	})
}

// padBounds widens the window so single points and thin clusters stay away
// from the canvas edges
func padBounds(b domain.Bounds) domain.Bounds {
	b.North += boundsPaddingDeg
	b.South -= boundsPaddingDeg
	b.East += boundsPaddingDeg
	b.West -= boundsPaddingDeg
	return b
}

// project maps a coordinate into canvas cells
func project(p domain.LatLng, b domain.Bounds, width, height int) (x, y int) {
	lngSpan := b.East - b.West
	latSpan := b.North - b.South
	x = int(float64(width-1) * (p.Lng - b.West) / lngSpan)
	y = int(float64(height-1) * (b.North - p.Lat) / latSpan)
	if x < 0 {
		x = 0
	}
	if x > width-1 {
		x = width - 1
	}
	if y < 0 {
		y = 0
	}
	if y > height-1 {
		y = height - 1
	}
	return x, y
}

func (v *MapView) renderCanvas(width, height int) string {
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	bounds := v.bounds()
	selected := v.SelectedMission()

	for _, mv := range v.layer.Snapshot() {
		x, y := project(mv.Pos, bounds, width, height)
		glyph := markerGlyph
		if selected != nil && mv.MissionID == selected.ID {
			glyph = selectedMarkerGlyph
		}
		grid[y][x] = theme.StatusStyle(mv.Statut).Render(glyph)
	}

	lines := make([]string, height)
	for y := range grid {
		lines[y] = strings.Join(grid[y], "")
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorMuted)
	return frame.Render(strings.Join(lines, "\n"))
}

func (v *MapView) renderStatsLine() string {
	s := v.snapshot
	parts := []string{
		fmt.Sprintf("%d missions", s.TotalMissions),
		theme.StatusStyle(domain.StatusInProgress).Render(fmt.Sprintf("%d en cours", s.MissionsActives)),
		theme.StatusStyle(domain.StatusCompleted).Render(fmt.Sprintf("%d terminées", s.MissionsTerminees)),
		theme.AnomalyStyle.Render(fmt.Sprintf("%d avec anomalies", s.MissionsAvecAnomalies)),
	}
	line := theme.NormalStyle.Render(strings.Join(parts, "  ·  "))
	if v.lastErr != nil {
		line += "  " + theme.MutedStyle.Render("(last refresh failed)")
	}
	return line
}

func (v *MapView) renderDetail() string {
	m := v.SelectedMission()
	if m == nil {
		return theme.MutedStyle.Render("↑/↓ to select a mission")
	}

	var b strings.Builder
	b.WriteString(theme.ValueStyle.Render(m.Objet))
	b.WriteString("  ")
	b.WriteString(theme.StatusStyle(m.Statut).Render(string(m.Statut)))
	if m.HasAnomalies() {
		b.WriteString("  ")
		b.WriteString(theme.AnomalyStyle.Render(fmt.Sprintf("⚠ %d anomalies", len(m.Anomalies))))
	}
	b.WriteString("\n")

	pos := m.DisplayPosition()
	b.WriteString(theme.LabelStyle.Render("position "))
	b.WriteString(theme.NormalStyle.Render(fmt.Sprintf("%.4f, %.4f", pos.Lat, pos.Lng)))

	if len(m.TrajetPoints) > 1 {
		stats := domain.ComputeTrajectoryStats(m.TrajetPoints)
		b.WriteString(theme.LabelStyle.Render("   trajet "))
		b.WriteString(theme.NormalStyle.Render(fmt.Sprintf(
			"%.1f km, %d min, moy %.0f km/h, max %.0f km/h",
			stats.DistanceKm, stats.DurationMinutes, stats.AvgSpeedKmh, stats.MaxSpeedKmh)))
	}

	if m.DirecteurNom != "" {
		b.WriteString("\n")
		b.WriteString(theme.LabelStyle.Render("directeur "))
		b.WriteString(theme.NormalStyle.Render(fmt.Sprintf("%s %s", m.DirecteurPrenom, m.DirecteurNom)))
		if m.DirectionNom != "" {
			b.WriteString(theme.MutedStyle.Render(" · " + m.DirectionNom))
		}
	}
	if m.VehiculeImmatriculation != nil {
		b.WriteString(theme.LabelStyle.Render("   véhicule "))
		b.WriteString(theme.NormalStyle.Render(*m.VehiculeImmatriculation))
	}
	return b.String()
}
