package ports

import (
	"context"

	"missionctl/internal/domain"
)

// AccessTokenStore is the volatile storage tier. The access token lives in
// process memory only and is treated as a single mutable cell: writers
// fully overwrite it, readers always see the latest written value.
type AccessTokenStore interface {
	AccessToken() string
	SetAccessToken(token string)
	ClearAccessToken()
}

// CredentialStore is the durable storage tier holding the refresh token and
// the last known user identity. It is cleared together with the volatile
// tier on logout or unrecoverable refresh failure, never independently.
type CredentialStore interface {
	Save(ctx context.Context, refreshToken string, user *domain.UserInfo) error
	Load(ctx context.Context) (refreshToken string, user *domain.UserInfo, err error)
	Clear(ctx context.Context) error
	Close() error
}
