package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/adapters/api"
	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

type fakeAuth struct {
	loginResult   *ports.LoginResult
	loginErr      error
	refreshResult *ports.LoginResult
	refreshErr    error
	refreshCalls  int
	valid         bool
	validateErr   error
	me            *domain.UserInfo
	meErr         error
	perms         []string
	permsErr      error
	logoutErr     error
	logoutCalls   int
	onLogin       func()
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if f.onLogin != nil {
		f.onLogin()
	}
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	f.refreshCalls++
	return f.refreshResult, f.refreshErr
}

func (f *fakeAuth) ValidateToken(ctx context.Context) (bool, error) {
	return f.valid, f.validateErr
}

func (f *fakeAuth) Me(ctx context.Context) (*domain.UserInfo, error) {
	return f.me, f.meErr
}

func (f *fakeAuth) Permissions(ctx context.Context) ([]string, error) {
	return f.perms, f.permsErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuth) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return nil
}

type fakeTokens struct {
	token string
}

func (f *fakeTokens) AccessToken() string         { return f.token }
func (f *fakeTokens) SetAccessToken(token string) { f.token = token }
func (f *fakeTokens) ClearAccessToken()           { f.token = "" }

type fakeCredStore struct {
	refreshToken string
	user         *domain.UserInfo
	loadErr      error
	clearCalls   int
}

func (f *fakeCredStore) Save(ctx context.Context, refreshToken string, user *domain.UserInfo) error {
	f.refreshToken = refreshToken
	f.user = user
	return nil
}

func (f *fakeCredStore) Load(ctx context.Context) (string, *domain.UserInfo, error) {
	return f.refreshToken, f.user, f.loadErr
}

func (f *fakeCredStore) Clear(ctx context.Context) error {
	f.clearCalls++
	f.refreshToken = ""
	f.user = nil
	return nil
}

func (f *fakeCredStore) Close() error { return nil }

type fakeGate struct {
	refresh   func(ctx context.Context) bool
	onExpired func()
}

func (f *fakeGate) SetRefreshFunc(refresh func(ctx context.Context) bool) { f.refresh = refresh }
func (f *fakeGate) SetSessionExpiredFunc(onExpired func())                { f.onExpired = onExpired }

func testUser() *domain.UserInfo {
	return &domain.UserInfo{ID: 7, Login: "admin", Role: "ADMIN"}
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStartupWithoutCredentialsIsReadyUnauthenticated(t *testing.T) {
	auth := &fakeAuth{}
	svc := NewSessionService(auth, &fakeTokens{}, &fakeCredStore{}, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.True(t, svc.Ready())
	assert.False(t, svc.Authenticated())
}

func TestStartupRestoresSessionViaRefresh(t *testing.T) {
	auth := &fakeAuth{
		refreshResult: &ports.LoginResult{
			AccessToken:  "new-access",
			RefreshToken: "stored-refresh",
			User:         testUser(),
		},
		me:    testUser(),
		perms: []string{domain.PermCarteRead, domain.PermMissionRead},
	}
	tokens := &fakeTokens{}
	creds := &fakeCredStore{refreshToken: "stored-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "new-access", tokens.AccessToken())
	assert.True(t, svc.HasPermission(domain.PermCarteRead))
	assert.False(t, svc.HasPermission(domain.PermMissionDelete))
}

func TestStartupValidAccessTokenSkipsRefresh(t *testing.T) {
	auth := &fakeAuth{
		valid: true,
		me:    testUser(),
		perms: []string{domain.PermMissionRead},
	}
	tokens := &fakeTokens{token: signedToken(t, time.Now().Add(time.Hour))}
	creds := &fakeCredStore{refreshToken: "stored-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.True(t, svc.Authenticated())
	assert.Zero(t, auth.refreshCalls)
}

func TestStartupExpiredAccessTokenGoesThroughRefresh(t *testing.T) {
	auth := &fakeAuth{
		refreshResult: &ports.LoginResult{
			AccessToken:  "new-access",
			RefreshToken: "stored-refresh",
			User:         testUser(),
		},
		me:    testUser(),
		perms: []string{domain.PermMissionRead},
	}
	tokens := &fakeTokens{token: signedToken(t, time.Now().Add(-time.Hour))}
	creds := &fakeCredStore{refreshToken: "stored-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, auth.refreshCalls)
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "new-access", tokens.AccessToken())
}

func TestStartupRejectedRefreshClearsBothTiers(t *testing.T) {
	auth := &fakeAuth{refreshErr: api.ErrCredentials}
	tokens := &fakeTokens{token: signedToken(t, time.Now().Add(-time.Hour))}
	creds := &fakeCredStore{refreshToken: "dead-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.True(t, svc.Ready())
	assert.False(t, svc.Authenticated())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, creds.refreshToken)
	assert.NotZero(t, creds.clearCalls)
}

func TestStartupValidationErrorFallsBackToRefresh(t *testing.T) {
	auth := &fakeAuth{
		validateErr: &api.TransientError{Err: errors.New("timeout")},
		refreshResult: &ports.LoginResult{
			AccessToken:  "new-access",
			RefreshToken: "stored-refresh",
			User:         testUser(),
		},
		me:    testUser(),
		perms: []string{domain.PermCarteRead},
	}
	tokens := &fakeTokens{token: signedToken(t, time.Now().Add(time.Hour))}
	creds := &fakeCredStore{refreshToken: "stored-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, auth.refreshCalls)
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "new-access", tokens.AccessToken())
}

func TestStartupTransientRefreshFailureLogsOut(t *testing.T) {
	auth := &fakeAuth{refreshErr: &api.TransientError{Err: errors.New("timeout")}}
	tokens := &fakeTokens{token: signedToken(t, time.Now().Add(-time.Hour))}
	creds := &fakeCredStore{refreshToken: "stored-refresh", user: testUser()}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Startup(context.Background())

	require.NoError(t, err)
	assert.True(t, svc.Ready())
	assert.False(t, svc.Authenticated())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, creds.refreshToken)
	assert.NotZero(t, creds.clearCalls)
}

func TestLoginStoresBothTiers(t *testing.T) {
	auth := &fakeAuth{
		loginResult: &ports.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         testUser(),
		},
		perms: []string{domain.PermMissionRead},
	}
	tokens := &fakeTokens{}
	creds := &fakeCredStore{}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})

	err := svc.Login(context.Background(), "admin", "secret")

	require.NoError(t, err)
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "access", tokens.AccessToken())
	assert.Equal(t, "refresh", creds.refreshToken)
	assert.True(t, svc.HasPermission(domain.PermMissionRead))
}

func TestLoginBadCredentials(t *testing.T) {
	auth := &fakeAuth{loginErr: api.ErrCredentials}
	svc := NewSessionService(auth, &fakeTokens{}, &fakeCredStore{}, &fakeGate{})

	err := svc.Login(context.Background(), "admin", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrCredentials)
	assert.False(t, svc.Authenticated())
}

func TestLoginDegradesOnPermissionFetchFailure(t *testing.T) {
	auth := &fakeAuth{
		loginResult: &ports.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         testUser(),
		},
		permsErr: errors.New("boom"),
	}
	svc := NewSessionService(auth, &fakeTokens{}, &fakeCredStore{}, &fakeGate{})

	err := svc.Login(context.Background(), "admin", "secret")

	require.NoError(t, err)
	assert.True(t, svc.Authenticated())
	assert.False(t, svc.HasPermission(domain.PermMissionRead))
}

func TestHasPermissionFalseBeforeReady(t *testing.T) {
	svc := NewSessionService(&fakeAuth{}, &fakeTokens{}, &fakeCredStore{}, &fakeGate{})

	assert.False(t, svc.HasPermission(domain.PermMissionRead))
}

func TestLogoutClearsEverythingEvenWhenBackendFails(t *testing.T) {
	auth := &fakeAuth{
		loginResult: &ports.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         testUser(),
		},
		logoutErr: errors.New("backend down"),
	}
	tokens := &fakeTokens{}
	creds := &fakeCredStore{}
	svc := NewSessionService(auth, tokens, creds, &fakeGate{})
	require.NoError(t, svc.Login(context.Background(), "admin", "secret"))

	svc.Logout(context.Background())

	assert.False(t, svc.Authenticated())
	assert.True(t, svc.Ready())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, creds.refreshToken)
	assert.Equal(t, 1, auth.logoutCalls)
}

func TestLogoutIsIdempotent(t *testing.T) {
	tokens := &fakeTokens{}
	creds := &fakeCredStore{}
	svc := NewSessionService(&fakeAuth{}, tokens, creds, &fakeGate{})

	svc.Logout(context.Background())
	svc.Logout(context.Background())

	assert.False(t, svc.Authenticated())
	assert.Equal(t, 2, creds.clearCalls)
}

func TestRefreshTransientFailureKeepsCredentials(t *testing.T) {
	auth := &fakeAuth{refreshErr: &api.TransientError{Err: errors.New("timeout")}}
	creds := &fakeCredStore{refreshToken: "refresh", user: testUser()}
	svc := NewSessionService(auth, &fakeTokens{}, creds, &fakeGate{})

	ok := svc.RefreshAccessToken(context.Background())

	assert.False(t, ok)
	assert.Equal(t, "refresh", creds.refreshToken)
	assert.Zero(t, creds.clearCalls)
}

func TestNewAttemptRevokesReadinessWhileLoading(t *testing.T) {
	auth := &fakeAuth{
		loginResult: &ports.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         testUser(),
		},
		perms: []string{domain.PermMissionRead},
	}
	svc := NewSessionService(auth, &fakeTokens{}, &fakeCredStore{}, &fakeGate{})
	require.NoError(t, svc.Login(context.Background(), "admin", "secret"))
	require.True(t, svc.Ready())

	// Snapshot the published state while the second attempt is in flight
	var observed domain.Session
	auth.onLogin = func() { observed = svc.Current() }
	require.NoError(t, svc.Login(context.Background(), "admin", "secret"))

	assert.True(t, observed.Loading)
	assert.False(t, observed.Ready)
	assert.Nil(t, observed.User)
	assert.True(t, svc.Ready())
	assert.True(t, svc.Authenticated())
}

func TestSessionExpiredCallbackClearsAndNotifies(t *testing.T) {
	gate := &fakeGate{}
	tokens := &fakeTokens{token: "stale"}
	creds := &fakeCredStore{refreshToken: "refresh", user: testUser()}
	svc := NewSessionService(&fakeAuth{}, tokens, creds, gate)

	notified := false
	svc.SetSessionExpiredFunc(func() { notified = true })

	require.NotNil(t, gate.onExpired)
	gate.onExpired()

	assert.True(t, notified)
	assert.False(t, svc.Authenticated())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, creds.refreshToken)
}

func TestTokenExpired(t *testing.T) {
	assert.False(t, tokenExpired(signedToken(t, time.Now().Add(time.Hour))))
	assert.True(t, tokenExpired(signedToken(t, time.Now().Add(-time.Minute))))
	// Inside the skew window counts as expired
	assert.True(t, tokenExpired(signedToken(t, time.Now().Add(5*time.Second))))
	assert.True(t, tokenExpired("not-a-jwt"))
}
