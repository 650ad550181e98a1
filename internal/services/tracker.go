package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

// ErrTrackingDisabled is returned by Poll when the session no longer
// satisfies the tracking gate. The tracker has already torn down its
// markers when this is returned.
var ErrTrackingDisabled = errors.New("live tracking unavailable for this session")

// sessionState is the slice of the session service the tracker reads
type sessionState interface {
	Ready() bool
	Authenticated() bool
	HasPermission(perm string) bool
}

// trackedMarker pairs a layer handle with the last state pushed to it, so
// reconciliation only touches markers that actually changed
type trackedMarker struct {
	handle ports.MarkerHandle
	pos    domain.LatLng
	statut domain.MissionStatus
	label  string
}

// TrackerService drives live mission tracking: each poll fetches the full
// mission snapshot and reconciles the marker registry against it. Marker
// handles are created, updated and released only here.
type TrackerService struct {
	mapAPI  ports.MapAPI
	session sessionState
	layer   ports.MarkerLayer

	mu         sync.Mutex
	markers    map[int]*trackedMarker
	generation uint64
	filter     ports.MapFilter
}

// NewTrackerService creates a tracker bound to a marker layer
func NewTrackerService(mapAPI ports.MapAPI, session sessionState, layer ports.MarkerLayer) *TrackerService {
	return &TrackerService{
		mapAPI:  mapAPI,
		session: session,
		layer:   layer,
		markers: make(map[int]*trackedMarker),
	}
}

// Allowed reports whether tracking may run: the session must be restored,
// authenticated and hold the map capability
func (t *TrackerService) Allowed() bool {
	return t.session.Ready() &&
		t.session.Authenticated() &&
		t.session.HasPermission(domain.PermCarteRead)
}

// SetFilter replaces the snapshot filter used by subsequent polls
func (t *TrackerService) SetFilter(filter ports.MapFilter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = filter
}

// Filter returns the current snapshot filter
func (t *TrackerService) Filter() ports.MapFilter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// Poll fetches the current mission snapshot and reconciles the markers.
// When the gate condition fails it tears down all markers and returns
// ErrTrackingDisabled. A snapshot that lands after Teardown is discarded
// without touching the registry.
func (t *TrackerService) Poll(ctx context.Context) (*ports.MapSnapshot, error) {
	if !t.Allowed() {
		t.Teardown()
		return nil, ErrTrackingDisabled
	}

	t.mu.Lock()
	gen := t.generation
	filter := t.filter
	t.mu.Unlock()

	snapshot, err := t.mapAPI.Missions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mission snapshot: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generation != gen {
		logging.Logger.Debug("Discarding snapshot from torn-down tracker")
		return snapshot, nil
	}
	t.reconcile(snapshot.Missions)
	return snapshot, nil
}

// reconcile diffs the registry against the snapshot: new missions get a
// marker, changed missions get an update, vanished missions release their
// handle. Untouched markers are left alone. Caller holds t.mu.
func (t *TrackerService) reconcile(missions []domain.Mission) {
	seen := make(map[int]struct{}, len(missions))
	for i := range missions {
		m := &missions[i]
		seen[m.ID] = struct{}{}

		pos := m.DisplayPosition()
		label := m.Objet

		if tracked, ok := t.markers[m.ID]; ok {
			if tracked.pos != pos || tracked.statut != m.Statut || tracked.label != label {
				tracked.handle.Update(pos, m.Statut, label)
				tracked.pos = pos
				tracked.statut = m.Statut
				tracked.label = label
			}
			continue
		}

		handle := t.layer.CreateMarker(m.ID, pos, m.Statut, label)
		t.markers[m.ID] = &trackedMarker{
			handle: handle,
			pos:    pos,
			statut: m.Statut,
			label:  label,
		}
	}

	for id, tracked := range t.markers {
		if _, ok := seen[id]; !ok {
			tracked.handle.Release()
			delete(t.markers, id)
		}
	}
}

// Teardown releases every marker and invalidates in-flight polls. It is
// idempotent and safe to call from any state.
func (t *TrackerService) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	for id, tracked := range t.markers {
		tracked.handle.Release()
		delete(t.markers, id)
	}
}

// MarkerCount returns the number of live markers
func (t *TrackerService) MarkerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.markers)
}
