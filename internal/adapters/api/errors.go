package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors forming the client's error taxonomy. View code matches on
// these with errors.Is and never inspects transport shapes directly.
var (
	// ErrCredentials: bad username/password, or refresh token rejected.
	// Results in a full session clear.
	ErrCredentials = errors.New("invalid credentials")

	// ErrSessionExpired: 401 on an authenticated request after the single
	// retry already failed. Session-fatal.
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden: 403, or a local permission check failing before the
	// request was sent. The user stays authenticated.
	ErrForbidden = errors.New("access forbidden")
)

// TransientError wraps a network-level failure (timeout, refused
// connection, DNS). Retryable; does not clear session state.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// StatusError is a non-401/403 backend error with its flattened detail
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return e.Detail
}

// errorBody is the backend's error envelope. Detail may be a plain string,
// a validation error array, or an object.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// validationItem is one entry of a structured validation detail array
type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// flattenDetail reduces any backend detail shape to one human-readable
// string. Unrecognized shapes degrade to the raw JSON text.
func flattenDetail(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if loc := locPath(item.Loc); loc != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", loc, item.Msg))
			} else {
				parts = append(parts, item.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}

	var obj map[string]any
	if err := json.Unmarshal(body.Detail, &obj); err == nil && len(obj) > 0 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(obj))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, obj[k]))
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(body.Detail))
}

// locPath renders a validation error location like "body.nom", skipping
// the leading "body"/"query" segment when it is the only context
func locPath(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, seg := range loc {
		parts = append(parts, fmt.Sprintf("%v", seg))
	}
	return strings.Join(parts, ".")
}
