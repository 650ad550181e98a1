package ui

import (
	"sort"
	"sync"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// MarkerView is the render-side snapshot of one marker
type MarkerView struct {
	MissionID int
	Pos       domain.LatLng
	Statut    domain.MissionStatus
	Label     string
}

// CanvasLayer is the terminal implementation of ports.MarkerLayer: markers
// are cells in an in-memory registry that the map view projects onto the
// screen. A released handle disappears from the registry immediately.
type CanvasLayer struct {
	mu      sync.Mutex
	markers map[int]*canvasMarker
}

var _ ports.MarkerLayer = (*CanvasLayer)(nil)

// NewCanvasLayer creates an empty marker layer
func NewCanvasLayer() *CanvasLayer {
	return &CanvasLayer{markers: make(map[int]*canvasMarker)}
}

// CreateMarker adds a marker for the mission and returns its handle
func (l *CanvasLayer) CreateMarker(missionID int, pos domain.LatLng, statut domain.MissionStatus, label string) ports.MarkerHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := &canvasMarker{
		layer: l,
		view:  MarkerView{MissionID: missionID, Pos: pos, Statut: statut, Label: label},
	}
	l.markers[missionID] = m
	return m
}

// Close drops every marker
func (l *CanvasLayer) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = make(map[int]*canvasMarker)
}

// Snapshot returns the current markers ordered by mission id for stable
// rendering
func (l *CanvasLayer) Snapshot() []MarkerView {
	l.mu.Lock()
	defer l.mu.Unlock()
	views := make([]MarkerView, 0, len(l.markers))
	for _, m := range l.markers {
		views = append(views, m.view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].MissionID < views[j].MissionID })
	return views
}

// Count returns the number of live markers
func (l *CanvasLayer) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.markers)
}

type canvasMarker struct {
	layer *CanvasLayer
	view  MarkerView
}

func (m *canvasMarker) Update(pos domain.LatLng, statut domain.MissionStatus, label string) {
	m.layer.mu.Lock()
	defer m.layer.mu.Unlock()
	m.view.Pos = pos
	m.view.Statut = statut
	m.view.Label = label
}

// Release removes the marker from the layer. Releasing twice is a no-op.
func (m *canvasMarker) Release() {
	m.layer.mu.Lock()
	defer m.layer.mu.Unlock()
	if current, ok := m.layer.markers[m.view.MissionID]; ok && current == m {
		delete(m.layer.markers, m.view.MissionID)
	}
}
