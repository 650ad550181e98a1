package domain

import (
	"math"
	"time"
)

// MissionStatus is the mission lifecycle state as stored by the backend
type MissionStatus string

const (
	StatusCreated    MissionStatus = "CREEE"
	StatusInProgress MissionStatus = "EN_COURS"
	StatusCompleted  MissionStatus = "TERMINEE"
	StatusCanceled   MissionStatus = "ANNULEE"
	StatusSuspended  MissionStatus = "SUSPENDUE"
)

// KnownStatuses lists every mission status the client understands
var KnownStatuses = []MissionStatus{
	StatusCreated, StatusInProgress, StatusCompleted, StatusCanceled, StatusSuspended,
}

// LatLng is a geographic coordinate pair
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether both coordinates are finite numbers
func (p LatLng) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// FallbackPosition is the geographic centre of the operating region
// (Morocco), used when a mission has no usable trajectory point.
var FallbackPosition = LatLng{Lat: 31.7917, Lng: -7.0926}

// Waypoint is a named point of the predefined trajectory. The predefined
// trajectory is supplied at mission creation and never mutated afterwards.
type Waypoint struct {
	Nom string
	Lat float64
	Lng float64
}

// TrackPoint is a timestamped GPS sample of the observed trajectory. The
// observed trajectory is append-only from the client's perspective.
type TrackPoint struct {
	ID        int
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Vitesse   float64
}

// Position returns the sample's coordinate pair
func (tp TrackPoint) Position() LatLng {
	return LatLng{Lat: tp.Latitude, Lng: tp.Longitude}
}

// Anomaly is a backend-detected irregularity attached to a mission
type Anomaly struct {
	ID            int
	Type          string
	Description   string
	DateDetection time.Time
}

// CollaboratorRef is a collaborator assigned to a mission
type CollaboratorRef struct {
	ID        int
	Nom       string
	Matricule string
}

// Mission is the map read projection of a backend mission
type Mission struct {
	ID             int
	Objet          string
	Statut         MissionStatus
	DateDebut      time.Time
	DateFin        time.Time
	MoyenTransport string

	TrajetPredefini []Waypoint
	TrajetPoints    []TrackPoint
	Anomalies       []Anomaly
	Collaborateurs  []CollaboratorRef

	DirecteurNom            string
	DirecteurPrenom         string
	DirectionNom            string
	VehiculeImmatriculation *string
	VehiculeMarque          *string
	VehiculeModele          *string
}

// DisplayPosition derives the single coordinate at which the mission is
// shown on the map, depending on its lifecycle state:
//
//   - CREEE: first predefined waypoint, else first observed point
//   - every other state: last observed point
//
// A candidate that fails numeric validation counts as absent and the
// derivation falls through to the next source, ending at FallbackPosition.
func (m *Mission) DisplayPosition() LatLng {
	if m.Statut == StatusCreated {
		if len(m.TrajetPredefini) > 0 {
			wp := m.TrajetPredefini[0]
			if p := (LatLng{Lat: wp.Lat, Lng: wp.Lng}); p.Valid() {
				return p
			}
		}
		if len(m.TrajetPoints) > 0 {
			if p := m.TrajetPoints[0].Position(); p.Valid() {
				return p
			}
		}
		return FallbackPosition
	}

	if len(m.TrajetPoints) > 0 {
		if p := m.TrajetPoints[len(m.TrajetPoints)-1].Position(); p.Valid() {
			return p
		}
	}
	return FallbackPosition
}

// HasAnomalies reports whether any anomaly records are attached
func (m *Mission) HasAnomalies() bool {
	return len(m.Anomalies) > 0
}
