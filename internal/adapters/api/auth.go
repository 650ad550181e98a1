package api

import (
	"context"
	"errors"
	"fmt"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// AuthClient implements ports.AuthAPI against the backend's /auth routes
type AuthClient struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthClient)(nil)

// NewAuthClient creates the authentication API adapter
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	UserInfo     domain.UserInfo `json:"user_info"`
}

type tokenValidationResponse struct {
	Valid bool `json:"valid"`
}

type permissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login exchanges credentials for a token pair. A 401 here means bad
// credentials, never an expired session.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := a.client.post(withoutRetry(ctx), "/auth/login", loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, asCredentialError(err)
	}
	return toLoginResult(&resp), nil
}

// Refresh exchanges the durable refresh token for a fresh pair. A 401 here
// means the refresh token itself was rejected.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := a.client.post(withoutRetry(ctx), "/auth/refresh", refreshRequest{
		RefreshToken: refreshToken,
	}, &resp)
	if err != nil {
		return nil, asCredentialError(err)
	}
	return toLoginResult(&resp), nil
}

// ValidateToken asks the backend whether the current access token is
// valid. An unauthorized response means "invalid", not an error.
func (a *AuthClient) ValidateToken(ctx context.Context) (bool, error) {
	var resp tokenValidationResponse
	err := a.client.get(withoutRetry(ctx), "/auth/validate-token", nil, &resp)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrForbidden) {
			return false, nil
		}
		return false, err
	}
	return resp.Valid, nil
}

// Me fetches the authenticated user's identity
func (a *AuthClient) Me(ctx context.Context) (*domain.UserInfo, error) {
	var user domain.UserInfo
	if err := a.client.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Permissions fetches the capability strings for the current user's role
func (a *AuthClient) Permissions(ctx context.Context) ([]string, error) {
	var resp permissionsResponse
	if err := a.client.get(ctx, "/auth/permissions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// Logout notifies the backend. Callers treat failure as best-effort.
func (a *AuthClient) Logout(ctx context.Context) error {
	return a.client.post(withoutRetry(ctx), "/auth/logout", nil, nil)
}

// ChangePassword updates the current user's password
func (a *AuthClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return a.client.post(ctx, "/auth/change-password", changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}

func toLoginResult(resp *loginResponse) *ports.LoginResult {
	user := resp.UserInfo
	return &ports.LoginResult{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         &user,
	}
}

// asCredentialError reinterprets an unauthorized response on the login and
// refresh routes as a credential failure
func asCredentialError(err error) error {
	if errors.Is(err, ErrSessionExpired) {
		return fmt.Errorf("%w: %s", ErrCredentials, err.Error())
	}
	return err
}
