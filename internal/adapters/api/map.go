package api

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"time"

	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

// MapClient implements ports.MapAPI against /api/map
type MapClient struct {
	client *Client
}

var _ ports.MapAPI = (*MapClient)(nil)

// NewMapClient creates the live tracking API adapter
func NewMapClient(client *Client) *MapClient {
	return &MapClient{client: client}
}

// flexFloat tolerates numbers arriving as JSON strings. A value that
// cannot be coerced decodes to NaN so it fails coordinate validation
// downstream instead of silently becoming zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			*f = flexFloat(parsed)
			return nil
		}
	}
	*f = flexFloat(math.NaN())
	return nil
}

type waypointDTO struct {
	Nom string    `json:"nom"`
	Lat flexFloat `json:"lat"`
	Lng flexFloat `json:"lng"`
}

type trackPointDTO struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  flexFloat `json:"latitude"`
	Longitude flexFloat `json:"longitude"`
	Vitesse   flexFloat `json:"vitesse"`
}

type collaborateurDTO struct {
	ID        int    `json:"id"`
	Nom       string `json:"nom"`
	Matricule string `json:"matricule"`
}

type anomalieDTO struct {
	ID            int       `json:"id"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	DateDetection time.Time `json:"dateDetection"`
}

type missionMapDTO struct {
	ID             int       `json:"id"`
	Objet          string    `json:"objet"`
	Statut         string    `json:"statut"`
	DateDebut      time.Time `json:"dateDebut"`
	DateFin        time.Time `json:"dateFin"`
	MoyenTransport string    `json:"moyenTransport"`

	// Both trajectory fields may arrive double-encoded as JSON strings;
	// they are normalized with fallback-to-empty.
	TrajetPredefini json.RawMessage `json:"trajet_predefini"`
	TrajetPoints    json.RawMessage `json:"trajet_points"`

	DirecteurNom            string             `json:"directeur_nom"`
	DirecteurPrenom         string             `json:"directeur_prenom"`
	DirectionNom            string             `json:"direction_nom"`
	VehiculeImmatriculation *string            `json:"vehicule_immatriculation"`
	VehiculeMarque          *string            `json:"vehicule_marque"`
	VehiculeModele          *string            `json:"vehicule_modele"`
	Collaborateurs          []collaborateurDTO `json:"collaborateurs"`
	Anomalies               []anomalieDTO      `json:"anomalies"`
}

type boundsDTO struct {
	Nord  float64 `json:"nord"`
	Sud   float64 `json:"sud"`
	Est   float64 `json:"est"`
	Ouest float64 `json:"ouest"`
}

type missionMapResponse struct {
	Missions              []missionMapDTO `json:"missions"`
	Bounds                *boundsDTO      `json:"bounds"`
	TotalMissions         int             `json:"total_missions"`
	MissionsActives       int             `json:"missions_actives"`
	MissionsTerminees     int             `json:"missions_terminees"`
	MissionsAvecAnomalies int             `json:"missions_avec_anomalies"`
}

// Missions fetches the full mission snapshot for map display. One
// malformed mission never aborts the snapshot: its trajectory degrades to
// empty and the mission keeps its fallback position.
func (m *MapClient) Missions(ctx context.Context, filter ports.MapFilter) (*ports.MapSnapshot, error) {
	query := url.Values{}
	for _, statut := range filter.Statut {
		query.Add("statut", string(statut))
	}
	if filter.DirectionID != nil {
		query.Set("direction_id", strconv.Itoa(*filter.DirectionID))
	}
	if filter.AvecAnomalies != nil {
		query.Set("avec_anomalies", strconv.FormatBool(*filter.AvecAnomalies))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp missionMapResponse
	if err := m.client.get(ctx, "/api/map/missions", query, &resp); err != nil {
		return nil, err
	}

	snapshot := &ports.MapSnapshot{
		Missions:              make([]domain.Mission, 0, len(resp.Missions)),
		TotalMissions:         resp.TotalMissions,
		MissionsActives:       resp.MissionsActives,
		MissionsTerminees:     resp.MissionsTerminees,
		MissionsAvecAnomalies: resp.MissionsAvecAnomalies,
	}
	if resp.Bounds != nil {
		snapshot.Bounds = &domain.Bounds{
			North: resp.Bounds.Nord,
			South: resp.Bounds.Sud,
			East:  resp.Bounds.Est,
			West:  resp.Bounds.Ouest,
		}
	}
	for _, dto := range resp.Missions {
		snapshot.Missions = append(snapshot.Missions, toMission(dto))
	}
	return snapshot, nil
}

func toMission(dto missionMapDTO) domain.Mission {
	mission := domain.Mission{
		ID:                      dto.ID,
		Objet:                   dto.Objet,
		Statut:                  domain.MissionStatus(dto.Statut),
		DateDebut:               dto.DateDebut,
		DateFin:                 dto.DateFin,
		MoyenTransport:          dto.MoyenTransport,
		TrajetPredefini:         normalizeWaypoints(dto.TrajetPredefini, dto.ID),
		TrajetPoints:            normalizeTrackPoints(dto.TrajetPoints, dto.ID),
		DirecteurNom:            dto.DirecteurNom,
		DirecteurPrenom:         dto.DirecteurPrenom,
		DirectionNom:            dto.DirectionNom,
		VehiculeImmatriculation: dto.VehiculeImmatriculation,
		VehiculeMarque:          dto.VehiculeMarque,
		VehiculeModele:          dto.VehiculeModele,
	}
	for _, c := range dto.Collaborateurs {
		mission.Collaborateurs = append(mission.Collaborateurs, domain.CollaboratorRef{
			ID: c.ID, Nom: c.Nom, Matricule: c.Matricule,
		})
	}
	for _, a := range dto.Anomalies {
		mission.Anomalies = append(mission.Anomalies, domain.Anomaly{
			ID: a.ID, Type: a.Type, Description: a.Description, DateDetection: a.DateDetection,
		})
	}
	return mission
}

// unwrapEncoded peels one level of JSON string encoding: `"[{...}]"`
// becomes `[{...}]`. Returns the input unchanged when it is not a string.
func unwrapEncoded(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return json.RawMessage(s)
	}
	return raw
}

// normalizeWaypoints parses a predefined trajectory that may arrive as a
// genuine array or as a JSON-encoded string. Malformed input degrades to
// an empty sequence and is logged, never propagated.
func normalizeWaypoints(raw json.RawMessage, missionID int) []domain.Waypoint {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var dtos []waypointDTO
	if err := json.Unmarshal(unwrapEncoded(raw), &dtos); err != nil {
		logging.Logger.Warn("Malformed predefined trajectory, using empty",
			"mission_id", missionID, "error", err)
		return nil
	}
	waypoints := make([]domain.Waypoint, 0, len(dtos))
	for _, dto := range dtos {
		waypoints = append(waypoints, domain.Waypoint{
			Nom: dto.Nom,
			Lat: float64(dto.Lat),
			Lng: float64(dto.Lng),
		})
	}
	return waypoints
}

// normalizeTrackPoints parses the observed trajectory with the same
// tolerance as normalizeWaypoints
func normalizeTrackPoints(raw json.RawMessage, missionID int) []domain.TrackPoint {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var dtos []trackPointDTO
	if err := json.Unmarshal(unwrapEncoded(raw), &dtos); err != nil {
		logging.Logger.Warn("Malformed observed trajectory, using empty",
			"mission_id", missionID, "error", err)
		return nil
	}
	points := make([]domain.TrackPoint, 0, len(dtos))
	for _, dto := range dtos {
		points = append(points, domain.TrackPoint{
			ID:        dto.ID,
			Timestamp: dto.Timestamp,
			Latitude:  float64(dto.Latitude),
			Longitude: float64(dto.Longitude),
			Vitesse:   float64(dto.Vitesse),
		})
	}
	return points
}
