package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/domain"
)

func TestCanvasLayerCreateAndSnapshot(t *testing.T) {
	layer := NewCanvasLayer()

	layer.CreateMarker(2, domain.LatLng{Lat: 34, Lng: -6}, domain.StatusInProgress, "B")
	layer.CreateMarker(1, domain.LatLng{Lat: 33, Lng: -7}, domain.StatusCreated, "A")

	views := layer.Snapshot()
	require.Len(t, views, 2)
	// Ordered by mission id
	assert.Equal(t, 1, views[0].MissionID)
	assert.Equal(t, 2, views[1].MissionID)
	assert.Equal(t, "A", views[0].Label)
}

func TestCanvasMarkerUpdate(t *testing.T) {
	layer := NewCanvasLayer()
	handle := layer.CreateMarker(1, domain.LatLng{Lat: 33, Lng: -7}, domain.StatusCreated, "A")

	handle.Update(domain.LatLng{Lat: 34.5, Lng: -6.5}, domain.StatusInProgress, "A'")

	views := layer.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, domain.LatLng{Lat: 34.5, Lng: -6.5}, views[0].Pos)
	assert.Equal(t, domain.StatusInProgress, views[0].Statut)
	assert.Equal(t, "A'", views[0].Label)
}

func TestCanvasMarkerReleaseIsIdempotent(t *testing.T) {
	layer := NewCanvasLayer()
	handle := layer.CreateMarker(1, domain.LatLng{Lat: 33, Lng: -7}, domain.StatusCreated, "A")

	handle.Release()
	handle.Release()

	assert.Zero(t, layer.Count())
}

func TestReleaseDoesNotRemoveReplacementMarker(t *testing.T) {
	layer := NewCanvasLayer()
	old := layer.CreateMarker(1, domain.LatLng{Lat: 33, Lng: -7}, domain.StatusCreated, "old")
	layer.CreateMarker(1, domain.LatLng{Lat: 34, Lng: -6}, domain.StatusInProgress, "new")

	// Releasing a superseded handle must not drop the replacement
	old.Release()

	views := layer.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, "new", views[0].Label)
}

func TestCanvasLayerClose(t *testing.T) {
	layer := NewCanvasLayer()
	layer.CreateMarker(1, domain.LatLng{Lat: 33, Lng: -7}, domain.StatusCreated, "A")
	layer.CreateMarker(2, domain.LatLng{Lat: 34, Lng: -6}, domain.StatusInProgress, "B")

	layer.Close()

	assert.Zero(t, layer.Count())
}
