package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

type fakeSessionState struct {
	ready bool
	auth  bool
	perms map[string]bool
}

func (f *fakeSessionState) Ready() bool         { return f.ready }
func (f *fakeSessionState) Authenticated() bool { return f.auth }
func (f *fakeSessionState) HasPermission(perm string) bool {
	return f.perms[perm]
}

func allowedSession() *fakeSessionState {
	return &fakeSessionState{
		ready: true,
		auth:  true,
		perms: map[string]bool{domain.PermCarteRead: true},
	}
}

type fakeHandle struct {
	missionID int
	updates   int
	released  bool
	lastPos   domain.LatLng
}

func (h *fakeHandle) Update(pos domain.LatLng, statut domain.MissionStatus, label string) {
	h.updates++
	h.lastPos = pos
}

func (h *fakeHandle) Release() { h.released = true }

type fakeLayer struct {
	handles map[int]*fakeHandle
	creates int
}

func newFakeLayer() *fakeLayer {
	return &fakeLayer{handles: make(map[int]*fakeHandle)}
}

func (l *fakeLayer) CreateMarker(missionID int, pos domain.LatLng, statut domain.MissionStatus, label string) ports.MarkerHandle {
	l.creates++
	h := &fakeHandle{missionID: missionID, lastPos: pos}
	l.handles[missionID] = h
	return h
}

func (l *fakeLayer) Close() {}

type fakeMapAPI struct {
	snapshot   *ports.MapSnapshot
	err        error
	onMissions func()
}

func (f *fakeMapAPI) Missions(ctx context.Context, filter ports.MapFilter) (*ports.MapSnapshot, error) {
	if f.onMissions != nil {
		f.onMissions()
	}
	return f.snapshot, f.err
}

func missionAt(id int, lat, lng float64) domain.Mission {
	return domain.Mission{
		ID:     id,
		Objet:  "Inspection",
		Statut: domain.StatusInProgress,
		TrajetPoints: []domain.TrackPoint{
			{ID: 1, Latitude: lat, Longitude: lng},
		},
	}
}

func snapshotOf(missions ...domain.Mission) *ports.MapSnapshot {
	return &ports.MapSnapshot{Missions: missions, TotalMissions: len(missions)}
}

func TestPollCreatesMarkersForSnapshot(t *testing.T) {
	layer := newFakeLayer()
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(missionAt(1, 33.5, -7.6), missionAt(2, 34.0, -6.8))}
	tracker := NewTrackerService(mapAPI, allowedSession(), layer)

	snapshot, err := tracker.Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalMissions)
	assert.Equal(t, 2, tracker.MarkerCount())
	assert.Equal(t, 2, layer.creates)
}

func TestPollReconcilesDiffOnly(t *testing.T) {
	layer := newFakeLayer()
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(missionAt(1, 33.5, -7.6), missionAt(2, 34.0, -6.8))}
	tracker := NewTrackerService(mapAPI, allowedSession(), layer)
	_, err := tracker.Poll(context.Background())
	require.NoError(t, err)

	// Mission 1 vanishes, mission 2 moves, mission 3 appears
	mapAPI.snapshot = snapshotOf(missionAt(2, 34.1, -6.7), missionAt(3, 35.0, -5.0))
	_, err = tracker.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, tracker.MarkerCount())
	assert.True(t, layer.handles[1].released)
	assert.False(t, layer.handles[2].released)
	assert.Equal(t, 1, layer.handles[2].updates)
	assert.Equal(t, domain.LatLng{Lat: 34.1, Lng: -6.7}, layer.handles[2].lastPos)
	assert.NotNil(t, layer.handles[3])
	assert.Equal(t, 3, layer.creates)
}

func TestPollSkipsUpdateWhenNothingChanged(t *testing.T) {
	layer := newFakeLayer()
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(missionAt(1, 33.5, -7.6))}
	tracker := NewTrackerService(mapAPI, allowedSession(), layer)
	_, err := tracker.Poll(context.Background())
	require.NoError(t, err)

	_, err = tracker.Poll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, layer.handles[1].updates)
	assert.Equal(t, 1, layer.creates)
}

func TestPollMarksMissionsWithoutPositionAtFallback(t *testing.T) {
	layer := newFakeLayer()
	bare := domain.Mission{ID: 9, Objet: "Sans trace", Statut: domain.StatusCreated}
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(bare)}
	tracker := NewTrackerService(mapAPI, allowedSession(), layer)

	_, err := tracker.Poll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, layer.handles[9])
	assert.Equal(t, domain.FallbackPosition, layer.handles[9].lastPos)
}

func TestPollDeniedWithoutMapPermission(t *testing.T) {
	layer := newFakeLayer()
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(missionAt(1, 33.5, -7.6))}
	session := allowedSession()
	tracker := NewTrackerService(mapAPI, session, layer)
	_, err := tracker.Poll(context.Background())
	require.NoError(t, err)

	// Permission lost between polls: markers must be torn down
	session.perms[domain.PermCarteRead] = false
	_, err = tracker.Poll(context.Background())

	assert.ErrorIs(t, err, ErrTrackingDisabled)
	assert.Zero(t, tracker.MarkerCount())
	assert.True(t, layer.handles[1].released)
}

func TestSnapshotAfterTeardownIsDiscarded(t *testing.T) {
	layer := newFakeLayer()
	tracker := NewTrackerService(nil, allowedSession(), layer)
	mapAPI := &fakeMapAPI{
		snapshot: snapshotOf(missionAt(1, 33.5, -7.6)),
		// Teardown races the in-flight fetch
		onMissions: func() { tracker.Teardown() },
	}
	tracker.mapAPI = mapAPI

	snapshot, err := tracker.Poll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Zero(t, tracker.MarkerCount())
	assert.Zero(t, layer.creates)
}

func TestTeardownReleasesAllMarkers(t *testing.T) {
	layer := newFakeLayer()
	mapAPI := &fakeMapAPI{snapshot: snapshotOf(missionAt(1, 33.5, -7.6), missionAt(2, 34.0, -6.8))}
	tracker := NewTrackerService(mapAPI, allowedSession(), layer)
	_, err := tracker.Poll(context.Background())
	require.NoError(t, err)

	tracker.Teardown()
	tracker.Teardown()

	assert.Zero(t, tracker.MarkerCount())
	for _, h := range layer.handles {
		assert.True(t, h.released)
	}
}
