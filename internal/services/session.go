package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"missionctl/internal/adapters/api"
	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

// expirySkew widens the local expiry check so a token about to expire is
// refreshed before it gets rejected remotely
const expirySkew = 30 * time.Second

// CredentialGate is the outbound request gate the session service drives:
// it receives the refresh operation and the expiry notification. Only the
// session service may register these.
type CredentialGate interface {
	SetRefreshFunc(refresh func(ctx context.Context) bool)
	SetSessionExpiredFunc(onExpired func())
}

// SessionService owns the authentication lifecycle: startup restoration,
// login, logout, silent refresh and permission checks. All reads of the
// session state go through it.
type SessionService struct {
	auth   ports.AuthAPI
	tokens ports.AccessTokenStore
	creds  ports.CredentialStore

	mu      sync.RWMutex
	session domain.Session

	expiredMu sync.Mutex
	onExpired func()
}

// NewSessionService creates a new SessionService and registers its refresh
// and expiry hooks with the gate
func NewSessionService(
	auth ports.AuthAPI,
	tokens ports.AccessTokenStore,
	creds ports.CredentialStore,
	gate CredentialGate,
) *SessionService {
	s := &SessionService{
		auth:   auth,
		tokens: tokens,
		creds:  creds,
	}
	if gate != nil {
		gate.SetRefreshFunc(s.RefreshAccessToken)
		gate.SetSessionExpiredFunc(s.handleSessionExpired)
	}
	return s
}

// SetSessionExpiredFunc registers the UI callback invoked when the session
// expires mid-use. The credentials are already cleared when it runs.
func (s *SessionService) SetSessionExpiredFunc(fn func()) {
	s.expiredMu.Lock()
	defer s.expiredMu.Unlock()
	s.onExpired = fn
}

// Current returns a copy of the session state
func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Ready reports whether startup restoration has finished
func (s *SessionService) Ready() bool {
	return s.Current().Ready
}

// Authenticated reports whether a user is signed in
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// HasPermission reports whether the current user holds the exact
// capability string. It is false until the session is ready, and false for
// any permission when the permission fetch degraded to an empty set.
func (s *SessionService) HasPermission(perm string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Ready || !s.session.Authenticated() {
		return false
	}
	return s.session.Permissions.Has(perm)
}

// Startup restores the session from the stored credentials. It never
// returns an authentication failure as an error: a dead session simply
// becomes a ready, unauthenticated state.
func (s *SessionService) Startup(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	refreshToken, storedUser, err := s.creds.Load(ctx)
	if err != nil {
		s.setReady(nil, nil)
		return fmt.Errorf("failed to load stored credentials: %w", err)
	}

	accessToken := s.tokens.AccessToken()
	if accessToken == "" && refreshToken == "" {
		logging.Logger.Info("No stored credentials, starting unauthenticated")
		s.setReady(nil, nil)
		return nil
	}

	if accessToken != "" && !tokenExpired(accessToken) {
		valid, err := s.auth.ValidateToken(ctx)
		switch {
		case err != nil:
			// An unanswerable validation counts the same as a rejected
			// token: the refresh attempt decides the session's fate
			logging.Logger.Warn("Token validation failed, trying refresh", "error", err)
		case valid:
			return s.populateIdentity(ctx, storedUser)
		default:
			logging.Logger.Info("Access token rejected by backend, trying refresh")
		}
	} else if accessToken != "" {
		logging.Logger.Debug("Access token expired locally, trying refresh")
	}

	if !s.RefreshAccessToken(ctx) {
		// The restore chain failed; no stored credential may outlive it
		s.Logout(ctx)
		return nil
	}
	return s.populateIdentity(ctx, storedUser)
}

// Login exchanges credentials for a session. A permission fetch failure
// degrades to an authenticated session with no permissions rather than
// failing the login.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, api.ErrCredentials) {
			return fmt.Errorf("%w: invalid username or password", api.ErrCredentials)
		}
		return err
	}

	s.tokens.SetAccessToken(result.AccessToken)
	if err := s.creds.Save(ctx, result.RefreshToken, result.User); err != nil {
		logging.Logger.Warn("Failed to persist refresh token, session will not survive restart", "error", err)
	}

	perms, err := s.auth.Permissions(ctx)
	if err != nil {
		logging.Logger.Warn("Failed to fetch permissions, continuing without", "error", err)
		perms = nil
	}

	s.setReady(result.User, domain.NewPermissionSet(perms))
	logging.Logger.Info("Login succeeded", "login", result.User.Login, "role", result.User.Role)
	return nil
}

// Logout clears both credential tiers and resets the session. It never
// fails: the backend call is best-effort and local clearing is idempotent.
func (s *SessionService) Logout(ctx context.Context) {
	if s.tokens.AccessToken() != "" {
		if err := s.auth.Logout(ctx); err != nil {
			logging.Logger.Debug("Backend logout failed, clearing locally anyway", "error", err)
		}
	}
	s.clearCredentials(ctx)
	s.setReady(nil, nil)
	logging.Logger.Info("Logged out")
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token. It reports success; on a rejected refresh token it clears both
// credential tiers so no half-dead session remains.
func (s *SessionService) RefreshAccessToken(ctx context.Context) bool {
	refreshToken, _, err := s.creds.Load(ctx)
	if err != nil {
		logging.Logger.Error("Failed to load refresh token", "error", err)
		return false
	}
	if refreshToken == "" {
		return false
	}

	result, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, api.ErrCredentials) {
			logging.Logger.Info("Refresh token rejected, clearing session")
			s.clearCredentials(ctx)
			return false
		}
		// Transient failure: keep the credentials for a later attempt
		logging.Logger.Warn("Token refresh failed", "error", err)
		return false
	}

	s.tokens.SetAccessToken(result.AccessToken)
	if err := s.creds.Save(ctx, result.RefreshToken, result.User); err != nil {
		logging.Logger.Warn("Failed to persist refreshed credentials", "error", err)
	}
	logging.Logger.Debug("Access token refreshed")
	return true
}

// ChangePassword updates the current user's password
func (s *SessionService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.auth.ChangePassword(ctx, currentPassword, newPassword)
}

// populateIdentity fetches the identity and permissions concurrently and
// publishes the session in a single update, never half-populated. The
// stored identity backs a failed identity fetch.
func (s *SessionService) populateIdentity(ctx context.Context, storedUser *domain.UserInfo) error {
	var (
		user  *domain.UserInfo
		perms []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.auth.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		perms, err = s.auth.Permissions(gctx)
		if err != nil {
			logging.Logger.Warn("Failed to fetch permissions, continuing without", "error", err)
			perms = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if storedUser == nil {
			s.setReady(nil, nil)
			return fmt.Errorf("failed to fetch identity: %w", err)
		}
		logging.Logger.Warn("Failed to fetch identity, using stored copy", "error", err)
		user = storedUser
	}

	s.setReady(user, domain.NewPermissionSet(perms))
	logging.Logger.Info("Session restored", "login", user.Login, "role", user.Role)
	return nil
}

// handleSessionExpired runs when a request is still unauthorized after its
// retry: the session is unrecoverable, so both tiers are cleared and the
// UI callback fires.
func (s *SessionService) handleSessionExpired() {
	logging.Logger.Info("Session expired, clearing credentials")
	s.clearCredentials(context.Background())
	s.setReady(nil, nil)

	s.expiredMu.Lock()
	onExpired := s.onExpired
	s.expiredMu.Unlock()
	if onExpired != nil {
		onExpired()
	}
}

// clearCredentials clears both tiers together; they are never cleared
// independently
func (s *SessionService) clearCredentials(ctx context.Context) {
	s.tokens.ClearAccessToken()
	if err := s.creds.Clear(ctx); err != nil {
		logging.Logger.Error("Failed to clear stored credentials", "error", err)
	}
}

// setLoading marks an authentication attempt in flight. Beginning an
// attempt also revokes readiness and the previous cycle's identity in the
// same critical section, so no reader pairs loading=true with stale state.
func (s *SessionService) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Loading = loading
	if loading {
		s.session.Ready = false
		s.session.User = nil
		s.session.Permissions = nil
	}
}

// setReady publishes user and permissions together with the ready flag
func (s *SessionService) setReady(user *domain.UserInfo, perms domain.PermissionSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.User = user
	s.session.Permissions = perms
	s.session.Ready = true
}

// tokenExpired decodes the expiry claim without verifying the signature;
// verification is the backend's job. An unparseable token counts as
// expired so it goes through the refresh path.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Now().Add(expirySkew).After(exp.Time)
}
