package ports

import (
	"context"

	"missionctl/internal/domain"
)

// LoginResult is the token pair and identity returned by login and refresh
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         *domain.UserInfo
}

// AuthAPI is the backend authentication boundary
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	ValidateToken(ctx context.Context) (bool, error)
	Me(ctx context.Context) (*domain.UserInfo, error)
	Permissions(ctx context.Context) ([]string, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// MapFilter narrows the mission snapshot returned for map display
type MapFilter struct {
	Statut        []domain.MissionStatus
	DirectionID   *int
	AvecAnomalies *bool
	Limit         int
}

// MapSnapshot is the full current mission state for the map, fetched
// wholesale on each poll tick
type MapSnapshot struct {
	Missions              []domain.Mission
	Bounds                *domain.Bounds
	TotalMissions         int
	MissionsActives       int
	MissionsTerminees     int
	MissionsAvecAnomalies int
}

// MapAPI is the live tracking boundary
type MapAPI interface {
	Missions(ctx context.Context, filter MapFilter) (*MapSnapshot, error)
}

// Page is a pagination request
type Page struct {
	Page int
	Size int
}

// Paged is the backend's {items, total, pages} list envelope
type Paged[T any] struct {
	Items []T
	Total int
	Pages int
}

// MissionInput is the payload for mission create and update
type MissionInput struct {
	Objet           string             `json:"objet"`
	DateDebut       string             `json:"dateDebut,omitempty"`
	DateFin         string             `json:"dateFin,omitempty"`
	MoyenTransport  string             `json:"moyenTransport,omitempty"`
	VehiculeID      *int               `json:"vehicule_id,omitempty"`
	DirecteurID     int                `json:"directeur_id,omitempty"`
	Statut          string             `json:"statut,omitempty"`
	TrajetPredefini []domain.Waypoint  `json:"trajet_predefini,omitempty"`
}

// DirectionInput is the payload for direction create and update
type DirectionInput struct {
	Nom         string `json:"nom"`
	Description string `json:"description,omitempty"`
}

// DirecteurInput is the payload for directeur create and update
type DirecteurInput struct {
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	DirectionID int    `json:"direction_id"`
	Login       string `json:"login,omitempty"`
	Password    string `json:"password,omitempty"`
}

// UtilisateurInput is the payload for user create and update
type UtilisateurInput struct {
	Login    string `json:"login"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// AffectationInput assigns a collaborator to a mission
type AffectationInput struct {
	CollaborateurID int `json:"collaborateur_id"`
	NbJours         int `json:"nb_jours"`
	NbNuits         int `json:"nb_nuits"`
}

// AdminAPI is the CRUD boundary for the administrative resources
type AdminAPI interface {
	ListMissions(ctx context.Context, page Page) (*Paged[domain.Mission], error)
	CreateMission(ctx context.Context, input MissionInput) (*domain.Mission, error)
	UpdateMission(ctx context.Context, id int, input MissionInput) (*domain.Mission, error)
	DeleteMission(ctx context.Context, id int) error

	ListDirections(ctx context.Context, page Page) (*Paged[domain.Direction], error)
	CreateDirection(ctx context.Context, input DirectionInput) (*domain.Direction, error)
	UpdateDirection(ctx context.Context, id int, input DirectionInput) (*domain.Direction, error)
	DeleteDirection(ctx context.Context, id int) error

	ListDirecteurs(ctx context.Context, page Page) (*Paged[domain.Directeur], error)
	CreateDirecteur(ctx context.Context, input DirecteurInput) (*domain.Directeur, error)
	UpdateDirecteur(ctx context.Context, id int, input DirecteurInput) (*domain.Directeur, error)
	DeleteDirecteur(ctx context.Context, id int) error

	ListUtilisateurs(ctx context.Context, page Page) (*Paged[domain.Utilisateur], error)
	CreateUtilisateur(ctx context.Context, input UtilisateurInput) (*domain.Utilisateur, error)
	UpdateUtilisateur(ctx context.Context, id int, input UtilisateurInput) (*domain.Utilisateur, error)
	DeleteUtilisateur(ctx context.Context, id int) error

	ListCollaborateurs(ctx context.Context, page Page) (*Paged[domain.Collaborateur], error)
	ListAffectations(ctx context.Context, missionID int) ([]domain.Affectation, error)
	AssignCollaborateur(ctx context.Context, missionID int, input AffectationInput) (*domain.Affectation, error)
	RemoveAffectation(ctx context.Context, missionID, affectationID int) error
}
