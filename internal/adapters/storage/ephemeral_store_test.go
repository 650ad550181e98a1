package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/domain"
)

func TestEphemeralStoreRoundTrip(t *testing.T) {
	store := NewEphemeralCredentialStore()
	ctx := context.Background()

	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	require.NoError(t, store.Save(ctx, "rt-ssh", &domain.UserInfo{ID: 7, Login: "remote"}))

	token, user, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rt-ssh", token)
	require.NotNil(t, user)
	assert.Equal(t, "remote", user.Login)

	require.NoError(t, store.Clear(ctx))
	token, user, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
