package services

import (
	"context"
	"fmt"

	"missionctl/internal/adapters/api"
	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// AdminService wraps the CRUD boundary with client-side capability checks:
// an operation the user is not allowed to perform fails with ErrForbidden
// before any request leaves the process. The backend enforces the same
// rules; the local check only exists to fail fast.
type AdminService struct {
	api     ports.AdminAPI
	session sessionState
}

// NewAdminService creates the gated CRUD service
func NewAdminService(adminAPI ports.AdminAPI, session sessionState) *AdminService {
	return &AdminService{api: adminAPI, session: session}
}

func (a *AdminService) guard(perm string) error {
	if !a.session.HasPermission(perm) {
		return fmt.Errorf("%w: requires %s", api.ErrForbidden, perm)
	}
	return nil
}

func (a *AdminService) ListMissions(ctx context.Context, page ports.Page) (*ports.Paged[domain.Mission], error) {
	if err := a.guard(domain.PermMissionRead); err != nil {
		return nil, err
	}
	return a.api.ListMissions(ctx, page)
}

func (a *AdminService) CreateMission(ctx context.Context, input ports.MissionInput) (*domain.Mission, error) {
	if err := a.guard(domain.PermMissionCreate); err != nil {
		return nil, err
	}
	return a.api.CreateMission(ctx, input)
}

func (a *AdminService) UpdateMission(ctx context.Context, id int, input ports.MissionInput) (*domain.Mission, error) {
	if err := a.guard(domain.PermMissionUpdate); err != nil {
		return nil, err
	}
	return a.api.UpdateMission(ctx, id, input)
}

func (a *AdminService) DeleteMission(ctx context.Context, id int) error {
	if err := a.guard(domain.PermMissionDelete); err != nil {
		return err
	}
	return a.api.DeleteMission(ctx, id)
}

func (a *AdminService) ListDirections(ctx context.Context, page ports.Page) (*ports.Paged[domain.Direction], error) {
	if err := a.guard(domain.PermDirectionRead); err != nil {
		return nil, err
	}
	return a.api.ListDirections(ctx, page)
}

func (a *AdminService) CreateDirection(ctx context.Context, input ports.DirectionInput) (*domain.Direction, error) {
	if err := a.guard(domain.PermDirectionCreate); err != nil {
		return nil, err
	}
	return a.api.CreateDirection(ctx, input)
}

func (a *AdminService) UpdateDirection(ctx context.Context, id int, input ports.DirectionInput) (*domain.Direction, error) {
	if err := a.guard(domain.PermDirectionUpdate); err != nil {
		return nil, err
	}
	return a.api.UpdateDirection(ctx, id, input)
}

func (a *AdminService) DeleteDirection(ctx context.Context, id int) error {
	if err := a.guard(domain.PermDirectionDelete); err != nil {
		return err
	}
	return a.api.DeleteDirection(ctx, id)
}

func (a *AdminService) ListDirecteurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Directeur], error) {
	if err := a.guard(domain.PermDirecteurRead); err != nil {
		return nil, err
	}
	return a.api.ListDirecteurs(ctx, page)
}

func (a *AdminService) CreateDirecteur(ctx context.Context, input ports.DirecteurInput) (*domain.Directeur, error) {
	if err := a.guard(domain.PermDirecteurCreate); err != nil {
		return nil, err
	}
	return a.api.CreateDirecteur(ctx, input)
}

func (a *AdminService) UpdateDirecteur(ctx context.Context, id int, input ports.DirecteurInput) (*domain.Directeur, error) {
	if err := a.guard(domain.PermDirecteurUpdate); err != nil {
		return nil, err
	}
	return a.api.UpdateDirecteur(ctx, id, input)
}

func (a *AdminService) DeleteDirecteur(ctx context.Context, id int) error {
	if err := a.guard(domain.PermDirecteurDelete); err != nil {
		return err
	}
	return a.api.DeleteDirecteur(ctx, id)
}

func (a *AdminService) ListUtilisateurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Utilisateur], error) {
	if err := a.guard(domain.PermUserRead); err != nil {
		return nil, err
	}
	return a.api.ListUtilisateurs(ctx, page)
}

func (a *AdminService) CreateUtilisateur(ctx context.Context, input ports.UtilisateurInput) (*domain.Utilisateur, error) {
	if err := a.guard(domain.PermUserCreate); err != nil {
		return nil, err
	}
	return a.api.CreateUtilisateur(ctx, input)
}

func (a *AdminService) UpdateUtilisateur(ctx context.Context, id int, input ports.UtilisateurInput) (*domain.Utilisateur, error) {
	if err := a.guard(domain.PermUserUpdate); err != nil {
		return nil, err
	}
	return a.api.UpdateUtilisateur(ctx, id, input)
}

func (a *AdminService) DeleteUtilisateur(ctx context.Context, id int) error {
	if err := a.guard(domain.PermUserDelete); err != nil {
		return err
	}
	return a.api.DeleteUtilisateur(ctx, id)
}

func (a *AdminService) ListCollaborateurs(ctx context.Context, page ports.Page) (*ports.Paged[domain.Collaborateur], error) {
	if err := a.guard(domain.PermCollabMission); err != nil {
		return nil, err
	}
	return a.api.ListCollaborateurs(ctx, page)
}

func (a *AdminService) ListAffectations(ctx context.Context, missionID int) ([]domain.Affectation, error) {
	if err := a.guard(domain.PermCollabMission); err != nil {
		return nil, err
	}
	return a.api.ListAffectations(ctx, missionID)
}

func (a *AdminService) AssignCollaborateur(ctx context.Context, missionID int, input ports.AffectationInput) (*domain.Affectation, error) {
	if err := a.guard(domain.PermMissionUpdate); err != nil {
		return nil, err
	}
	return a.api.AssignCollaborateur(ctx, missionID, input)
}

func (a *AdminService) RemoveAffectation(ctx context.Context, missionID, affectationID int) error {
	if err := a.guard(domain.PermMissionUpdate); err != nil {
		return err
	}
	return a.api.RemoveAffectation(ctx, missionID, affectationID)
}
