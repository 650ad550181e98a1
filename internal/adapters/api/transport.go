package api

import (
	"context"
	"net/http"
	"sync"

	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

type contextKey int

// noRetryKey marks requests that must not go through the refresh-and-retry
// path: login, refresh and token validation interpret 401 themselves.
const noRetryKey contextKey = iota

// withoutRetry returns a context whose request bypasses the 401 gate
func withoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey, true)
}

// Transport is the outbound request gate: it attaches the bearer token
// before send and, on a 401, refreshes the access token once and resubmits
// the original request exactly once. The retry decision is tracked in a
// local variable per logical request, never stamped on the request object.
type Transport struct {
	base   http.RoundTripper
	tokens ports.AccessTokenStore

	mu        sync.Mutex
	refresh   func(ctx context.Context) bool
	onExpired func()
}

// NewTransport wraps base (http.DefaultTransport when nil) with the
// credential gate backed by the given volatile token store.
func NewTransport(base http.RoundTripper, tokens ports.AccessTokenStore) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, tokens: tokens}
}

// SetRefreshFunc registers the session manager's refresh operation. Only
// the session manager may refresh credentials; until it registers, a 401
// passes through unmodified.
func (t *Transport) SetRefreshFunc(refresh func(ctx context.Context) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh = refresh
}

// SetSessionExpiredFunc registers the callback invoked when a request is
// still unauthorized after its single retry
func (t *Transport) SetSessionExpiredFunc(onExpired func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExpired = onExpired
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tokenUsed := t.tokens.AccessToken()
	attachBearer(req, tokenUsed)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if skip, _ := req.Context().Value(noRetryKey).(bool); skip {
		return resp, nil
	}

	// Retried at most once per logical request: this code path can only
	// run for the original submission because the retry below is issued
	// directly against the base transport.
	if !t.refreshToken(req.Context(), tokenUsed) {
		t.sessionExpired()
		return resp, nil
	}

	retry, ok := cloneForRetry(req)
	if !ok {
		logging.Logger.Warn("Cannot replay request body, skipping retry",
			"method", req.Method, "url", req.URL.Path)
		return resp, nil
	}
	resp.Body.Close()

	attachBearer(retry, t.tokens.AccessToken())
	resp, err = t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.sessionExpired()
	}
	return resp, nil
}

// refreshToken runs the registered refresh under the transport lock so
// concurrent 401s trigger exactly one refresh attempt. A caller whose
// token was already replaced while it waited skips the extra refresh.
func (t *Transport) refreshToken(ctx context.Context, tokenUsed string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.refresh == nil {
		return false
	}
	if current := t.tokens.AccessToken(); current != "" && current != tokenUsed {
		// Another request already refreshed while we waited for the lock
		return true
	}

	logging.Logger.Debug("Access token rejected, attempting refresh")
	return t.refresh(ctx)
}

func (t *Transport) sessionExpired() {
	t.mu.Lock()
	onExpired := t.onExpired
	t.mu.Unlock()
	if onExpired != nil {
		onExpired()
	}
}

func attachBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Del("Authorization")
	}
}

// cloneForRetry duplicates the request with a rewound body. Requests whose
// body cannot be replayed are not retried.
func cloneForRetry(req *http.Request) (*http.Request, bool) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone.Body = body
	return clone, true
}
