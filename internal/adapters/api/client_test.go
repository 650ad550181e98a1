package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/ports"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(server.URL, &memTokens{})
}

func TestClientMapsUnauthorizedToSessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newTestClient(server).get(context.Background(), "/auth/me", nil, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Contains(t, err.Error(), "token expired")
}

func TestClientMapsForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Permissions insuffisantes"}`, http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestClient(server).delete(context.Background(), "/missions/7")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestClientMapsOtherStatusesToStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Mission introuvable"}`, http.StatusNotFound)
	}))
	defer server.Close()

	err := newTestClient(server).get(context.Background(), "/missions/99", nil, &struct{}{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Mission introuvable", statusErr.Detail)
}

func TestClientWrapsNetworkFailureAsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	err := newTestClient(server).get(context.Background(), "/auth/me", nil, &struct{}{})
	require.Error(t, err)

	var transient *TransientError
	assert.ErrorAs(t, err, &transient)
	assert.NotErrorIs(t, err, ErrSessionExpired)
}

func TestClientSetsRequestHeaders(t *testing.T) {
	var requestID, accept, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		accept = r.Header.Get("Accept")
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(server).post(context.Background(), "/auth/login",
		map[string]string{"username": "u"}, &struct{}{})
	require.NoError(t, err)

	assert.NotEmpty(t, requestID)
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "application/json", contentType)
}

func TestGetPagedSendsPaginationQuery(t *testing.T) {
	var page, size string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page = r.URL.Query().Get("page")
		size = r.URL.Query().Get("size")
		w.Write([]byte(`{"items": [1, 2, 3], "total": 9, "page": 2, "size": 3, "pages": 3}`))
	}))
	defer server.Close()

	envelope, err := getPaged[int](context.Background(), newTestClient(server),
		"/missions/", ports.Page{Page: 2, Size: 3})
	require.NoError(t, err)

	assert.Equal(t, "2", page)
	assert.Equal(t, "3", size)
	assert.Equal(t, []int{1, 2, 3}, envelope.Items)
	assert.Equal(t, 9, envelope.Total)
	assert.Equal(t, 3, envelope.Pages)
}

func TestValidateTokenTreatsUnauthorizedAsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	valid, err := NewAuthClient(newTestClient(server)).ValidateToken(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestLoginMapsUnauthorizedToCredentialError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Identifiants invalides"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewAuthClient(newTestClient(server)).Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentials)
	assert.False(t, errors.Is(err, ErrSessionExpired))
}

func TestRefreshMapsUnauthorizedToCredentialError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "refresh token revoked"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewAuthClient(newTestClient(server)).Refresh(context.Background(), "rt-revoked")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentials)
}
