package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

func TestNormalizeWaypointsGenuineArray(t *testing.T) {
	raw := json.RawMessage(`[{"nom": "Rabat", "lat": 34.02, "lng": -6.84}]`)

	waypoints := normalizeWaypoints(raw, 1)
	require.Len(t, waypoints, 1)
	assert.Equal(t, "Rabat", waypoints[0].Nom)
	assert.InDelta(t, 34.02, waypoints[0].Lat, 1e-9)
	assert.InDelta(t, -6.84, waypoints[0].Lng, 1e-9)
}

func TestNormalizeWaypointsDoubleEncodedString(t *testing.T) {
	raw := json.RawMessage(`"[{\"nom\": \"Fes\", \"lat\": 34.03, \"lng\": -5.0}]"`)

	waypoints := normalizeWaypoints(raw, 1)
	require.Len(t, waypoints, 1)
	assert.Equal(t, "Fes", waypoints[0].Nom)
}

func TestNormalizeWaypointsStringCoordinates(t *testing.T) {
	raw := json.RawMessage(`[{"nom": "Oujda", "lat": "34.68", "lng": "-1.91"}]`)

	waypoints := normalizeWaypoints(raw, 1)
	require.Len(t, waypoints, 1)
	assert.InDelta(t, 34.68, waypoints[0].Lat, 1e-9)
	assert.InDelta(t, -1.91, waypoints[0].Lng, 1e-9)
}

func TestNormalizeWaypointsMalformedDegradesToEmpty(t *testing.T) {
	assert.Nil(t, normalizeWaypoints(json.RawMessage(`"not json at all"`), 1))
	assert.Nil(t, normalizeWaypoints(json.RawMessage(`{"lat": 1}`), 1))
	assert.Nil(t, normalizeWaypoints(json.RawMessage(`null`), 1))
	assert.Nil(t, normalizeWaypoints(nil, 1))
}

func TestNormalizeWaypointsUnparseableCoordinateBecomesInvalid(t *testing.T) {
	raw := json.RawMessage(`[{"nom": "X", "lat": "abc", "lng": -5.0}]`)

	waypoints := normalizeWaypoints(raw, 1)
	require.Len(t, waypoints, 1)
	assert.True(t, math.IsNaN(waypoints[0].Lat))
	assert.False(t, domain.LatLng{Lat: waypoints[0].Lat, Lng: waypoints[0].Lng}.Valid())
}

func TestNormalizeTrackPointsDoubleEncodedString(t *testing.T) {
	raw := json.RawMessage(`"[{\"id\": 5, \"timestamp\": \"2026-03-01T10:00:00Z\", \"latitude\": 33.57, \"longitude\": -7.59, \"vitesse\": 42.5}]"`)

	points := normalizeTrackPoints(raw, 1)
	require.Len(t, points, 1)
	assert.Equal(t, 5, points[0].ID)
	assert.InDelta(t, 33.57, points[0].Latitude, 1e-9)
	assert.InDelta(t, 42.5, points[0].Vitesse, 1e-9)
}

func TestNormalizeTrackPointsMalformedDegradesToEmpty(t *testing.T) {
	assert.Nil(t, normalizeTrackPoints(json.RawMessage(`"[{broken"`), 1))
	assert.Nil(t, normalizeTrackPoints(json.RawMessage(`null`), 1))
}

func TestMissionsSnapshotAndFilters(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/map/missions", r.URL.Path)
		query = r.URL.Query()
		w.Write([]byte(`{
			"missions": [
				{
					"id": 1,
					"objet": "Inspection agence Tanger",
					"statut": "EN_COURS",
					"trajet_points": "[{\"id\": 1, \"latitude\": 35.77, \"longitude\": -5.80, \"vitesse\": 0}]",
					"directeur_nom": "Alami",
					"directeur_prenom": "Karim",
					"direction_nom": "DSI"
				},
				{
					"id": 2,
					"objet": "Audit",
					"statut": "CREEE",
					"trajet_predefini": "not parseable {",
					"anomalies": [{"id": 9, "type": "retard", "description": "late start"}]
				}
			],
			"bounds": {"nord": 36.0, "sud": 30.0, "est": -1.0, "ouest": -10.0},
			"total_missions": 2,
			"missions_actives": 1,
			"missions_terminees": 0,
			"missions_avec_anomalies": 1
		}`))
	}))
	defer server.Close()

	directionID := 3
	anomalies := true
	snapshot, err := NewMapClient(newTestClient(server)).Missions(context.Background(), ports.MapFilter{
		Statut:        []domain.MissionStatus{domain.StatusInProgress, domain.StatusCreated},
		DirectionID:   &directionID,
		AvecAnomalies: &anomalies,
		Limit:         100,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"EN_COURS", "CREEE"}, query["statut"])
	assert.Equal(t, []string{"3"}, query["direction_id"])
	assert.Equal(t, []string{"true"}, query["avec_anomalies"])
	assert.Equal(t, []string{"100"}, query["limit"])

	require.Len(t, snapshot.Missions, 2)
	assert.Equal(t, 2, snapshot.TotalMissions)
	assert.Equal(t, 1, snapshot.MissionsActives)
	assert.Equal(t, 1, snapshot.MissionsAvecAnomalies)
	require.NotNil(t, snapshot.Bounds)
	assert.InDelta(t, 36.0, snapshot.Bounds.North, 1e-9)
	assert.InDelta(t, -10.0, snapshot.Bounds.West, 1e-9)

	// First mission: observed trajectory arrived double-encoded
	first := snapshot.Missions[0]
	require.Len(t, first.TrajetPoints, 1)
	pos := first.DisplayPosition()
	assert.InDelta(t, 35.77, pos.Lat, 1e-9)

	// Second mission: malformed trajectory degrades to empty, position
	// falls back, the snapshot itself still succeeds
	second := snapshot.Missions[1]
	assert.Empty(t, second.TrajetPredefini)
	assert.Equal(t, domain.FallbackPosition, second.DisplayPosition())
	assert.True(t, second.HasAnomalies())
}

func TestMissionsEmptySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"missions": [], "bounds": null, "total_missions": 0}`))
	}))
	defer server.Close()

	snapshot, err := NewMapClient(newTestClient(server)).Missions(context.Background(), ports.MapFilter{})
	require.NoError(t, err)
	assert.Empty(t, snapshot.Missions)
	assert.Nil(t, snapshot.Bounds)
}
