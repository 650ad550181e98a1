package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// AdminClient implements ports.AdminAPI against the backend's CRUD routes
type AdminClient struct {
	client *Client
}

var _ ports.AdminAPI = (*AdminClient)(nil)

// NewAdminClient creates the CRUD API adapter
func NewAdminClient(client *Client) *AdminClient {
	return &AdminClient{client: client}
}

// missionDTO is the CRUD projection of a mission; the trajectory fields
// get the same normalization as the map projection
type missionDTO struct {
	ID              int             `json:"id"`
	Objet           string          `json:"objet"`
	Statut          string          `json:"statut"`
	DateDebut       time.Time       `json:"dateDebut"`
	DateFin         time.Time       `json:"dateFin"`
	MoyenTransport  string          `json:"moyenTransport"`
	TrajetPredefini json.RawMessage `json:"trajet_predefini"`
}

func (dto missionDTO) toDomain() domain.Mission {
	return domain.Mission{
		ID:              dto.ID,
		Objet:           dto.Objet,
		Statut:          domain.MissionStatus(dto.Statut),
		DateDebut:       dto.DateDebut,
		DateFin:         dto.DateFin,
		MoyenTransport:  dto.MoyenTransport,
		TrajetPredefini: normalizeWaypoints(dto.TrajetPredefini, dto.ID),
	}
}

func (a *AdminClient) ListMissions(ctx context.Context, page ports.Page) (*ports.Paged[domain.Mission], error) {
	envelope, err := getPaged[missionDTO](ctx, a.client, "/missions/", page)
	if err != nil {
		return nil, err
	}
	result := &ports.Paged[domain.Mission]{Total: envelope.Total, Pages: envelope.Pages}
	for _, dto := range envelope.Items {
		result.Items = append(result.Items, dto.toDomain())
	}
	return result, nil
}

func (a *AdminClient) CreateMission(ctx context.Context, input ports.MissionInput) (*domain.Mission, error) {
	var dto missionDTO
	if err := a.client.post(ctx, "/missions/", input, &dto); err != nil {
		return nil, err
	}
	mission := dto.toDomain()
	return &mission, nil
}

func (a *AdminClient) UpdateMission(ctx context.Context, id int, input ports.MissionInput) (*domain.Mission, error) {
	var dto missionDTO
	if err := a.client.put(ctx, fmt.Sprintf("/missions/%d", id), input, &dto); err != nil {
		return nil, err
	}
	mission := dto.toDomain()
	return &mission, nil
}

func (a *AdminClient) DeleteMission(ctx context.Context, id int) error {
	return a.client.delete(ctx, fmt.Sprintf("/missions/%d", id))
}

func (a *AdminClient) ListDirections(ctx context.Context, page ports.Page) (*ports.Paged[domain.Direction], error) {
	envelope, err := getPaged[domain.Direction](ctx, a.client, "/admin/directions", page)
	if err != nil {
		return nil, err
	}
	return &ports.Paged[domain.Direction]{Items: envelope.Items, Total: envelope.Total, Pages: envelope.Pages}, nil
}

func (a *AdminClient) CreateDirection(ctx context.Context, input ports.DirectionInput) (*domain.Direction, error) {
	var direction domain.Direction
	if err := a.client.post(ctx, "/admin/directions", input, &direction); err != nil {
		return nil, err
	}
	return &direction, nil
}

func (a *AdminClient) UpdateDirection(ctx context.Context, id int, input ports.DirectionInput) (*domain.Direction, error) {
	var direction domain.Direction
	if err := a.client.put(ctx, fmt.Sprintf("/admin/directions/%d", id), input, &direction); err != nil {
		return nil, err
	}
	return &direction, nil
}

func (a *AdminClient) DeleteDirection(ctx context.Context, id int) error {
	return a.client.delete(ctx, fmt.Sprintf("/admin/directions/%d", id))
}

func (a *AdminClient) ListDirecteurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Directeur], error) {
	envelope, err := getPaged[domain.Directeur](ctx, a.client, "/admin/directeurs", page)
	if err != nil {
		return nil, err
	}
	return &ports.Paged[domain.Directeur]{Items: envelope.Items, Total: envelope.Total, Pages: envelope.Pages}, nil
}

func (a *AdminClient) CreateDirecteur(ctx context.Context, input ports.DirecteurInput) (*domain.Directeur, error) {
	var directeur domain.Directeur
	if err := a.client.post(ctx, "/admin/directeurs", input, &directeur); err != nil {
		return nil, err
	}
	return &directeur, nil
}

func (a *AdminClient) UpdateDirecteur(ctx context.Context, id int, input ports.DirecteurInput) (*domain.Directeur, error) {
	var directeur domain.Directeur
	if err := a.client.put(ctx, fmt.Sprintf("/admin/directeurs/%d", id), input, &directeur); err != nil {
		return nil, err
	}
	return &directeur, nil
}

func (a *AdminClient) DeleteDirecteur(ctx context.Context, id int) error {
	return a.client.delete(ctx, fmt.Sprintf("/admin/directeurs/%d", id))
}

func (a *AdminClient) ListUtilisateurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Utilisateur], error) {
	envelope, err := getPaged[domain.Utilisateur](ctx, a.client, "/admin/utilisateurs", page)
	if err != nil {
		return nil, err
	}
	return &ports.Paged[domain.Utilisateur]{Items: envelope.Items, Total: envelope.Total, Pages: envelope.Pages}, nil
}

func (a *AdminClient) CreateUtilisateur(ctx context.Context, input ports.UtilisateurInput) (*domain.Utilisateur, error) {
	var user domain.Utilisateur
	if err := a.client.post(ctx, "/admin/utilisateurs", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AdminClient) UpdateUtilisateur(ctx context.Context, id int, input ports.UtilisateurInput) (*domain.Utilisateur, error) {
	var user domain.Utilisateur
	if err := a.client.put(ctx, fmt.Sprintf("/admin/utilisateurs/%d", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AdminClient) DeleteUtilisateur(ctx context.Context, id int) error {
	return a.client.delete(ctx, fmt.Sprintf("/admin/utilisateurs/%d", id))
}

func (a *AdminClient) ListCollaborateurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Collaborateur], error) {
	envelope, err := getPaged[domain.Collaborateur](ctx, a.client, "/collaborateur/", page)
	if err != nil {
		return nil, err
	}
	return &ports.Paged[domain.Collaborateur]{Items: envelope.Items, Total: envelope.Total, Pages: envelope.Pages}, nil
}

func (a *AdminClient) ListAffectations(ctx context.Context, missionID int) ([]domain.Affectation, error) {
	var affectations []domain.Affectation
	path := fmt.Sprintf("/missions/%d/affectations/", missionID)
	if err := a.client.get(ctx, path, nil, &affectations); err != nil {
		return nil, err
	}
	return affectations, nil
}

func (a *AdminClient) AssignCollaborateur(ctx context.Context, missionID int, input ports.AffectationInput) (*domain.Affectation, error) {
	var affectation domain.Affectation
	path := fmt.Sprintf("/missions/%d/assign_collaborators/", missionID)
	if err := a.client.post(ctx, path, input, &affectation); err != nil {
		return nil, err
	}
	return &affectation, nil
}

func (a *AdminClient) RemoveAffectation(ctx context.Context, missionID, affectationID int) error {
	return a.client.delete(ctx, fmt.Sprintf("/missions/%d/affectations/%d", missionID, affectationID))
}
