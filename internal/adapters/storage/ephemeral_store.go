package storage

import (
	"context"
	"sync"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// EphemeralCredentialStore keeps the refresh token in process memory only.
// It backs remote dashboard sessions, where persisting another user's
// refresh token to the host's database would leak credentials between
// connections.
type EphemeralCredentialStore struct {
	mu           sync.Mutex
	refreshToken string
	user         *domain.UserInfo
}

var _ ports.CredentialStore = (*EphemeralCredentialStore)(nil)

// NewEphemeralCredentialStore creates an empty in-memory credential store
func NewEphemeralCredentialStore() *EphemeralCredentialStore {
	return &EphemeralCredentialStore{}
}

func (s *EphemeralCredentialStore) Save(ctx context.Context, refreshToken string, user *domain.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = refreshToken
	s.user = user
	return nil
}

func (s *EphemeralCredentialStore) Load(ctx context.Context) (string, *domain.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken, s.user, nil
}

func (s *EphemeralCredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = ""
	s.user = nil
	return nil
}

func (s *EphemeralCredentialStore) Close() error { return nil }
