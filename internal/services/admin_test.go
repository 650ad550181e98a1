package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/adapters/api"
	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

type fakeAdminAPI struct {
	ports.AdminAPI
	listCalls   int
	deleteCalls int
}

func (f *fakeAdminAPI) ListMissions(ctx context.Context, page ports.Page) (*ports.Paged[domain.Mission], error) {
	f.listCalls++
	return &ports.Paged[domain.Mission]{Total: 1, Items: []domain.Mission{{ID: 1}}}, nil
}

func (f *fakeAdminAPI) DeleteMission(ctx context.Context, id int) error {
	f.deleteCalls++
	return nil
}

func TestAdminDeniesBeforeRequest(t *testing.T) {
	backend := &fakeAdminAPI{}
	session := &fakeSessionState{ready: true, auth: true, perms: map[string]bool{
		domain.PermMissionRead: true,
	}}
	svc := NewAdminService(backend, session)

	err := svc.DeleteMission(context.Background(), 1)

	assert.ErrorIs(t, err, api.ErrForbidden)
	assert.Zero(t, backend.deleteCalls)
}

func TestAdminAllowsWithCapability(t *testing.T) {
	backend := &fakeAdminAPI{}
	session := &fakeSessionState{ready: true, auth: true, perms: map[string]bool{
		domain.PermMissionRead:   true,
		domain.PermMissionDelete: true,
	}}
	svc := NewAdminService(backend, session)

	page, err := svc.ListMissions(context.Background(), ports.Page{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, svc.DeleteMission(context.Background(), 1))
	assert.Equal(t, 1, backend.deleteCalls)
}
