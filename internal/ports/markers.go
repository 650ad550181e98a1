package ports

import "missionctl/internal/domain"

// MarkerHandle is an on-map visual resource owned by a MarkerLayer.
// Release must free the underlying layer resource; a released handle must
// not be reused.
type MarkerHandle interface {
	Update(pos domain.LatLng, statut domain.MissionStatus, label string)
	Release()
}

// MarkerLayer creates marker resources for the map view. Only the tracker's
// reconciliation step may create or remove markers.
type MarkerLayer interface {
	CreateMarker(missionID int, pos domain.LatLng, statut domain.MissionStatus, label string) MarkerHandle
	Close()
}
