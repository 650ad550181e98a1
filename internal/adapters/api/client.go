package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

const defaultTimeout = 30 * time.Second

// Client is the REST dispatcher every backend call goes through. All
// requests pass the Transport credential gate; all error bodies are
// flattened to a single human-readable message before reaching callers.
type Client struct {
	baseURL   string
	http      *http.Client
	transport *Transport
}

// NewClient creates a Client for the given backend base URL, routing all
// traffic through the credential gate backed by the volatile token store.
func NewClient(baseURL string, tokens ports.AccessTokenStore) *Client {
	transport := NewTransport(nil, tokens)
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		http: &http.Client{
			Transport: transport,
			Timeout:   defaultTimeout,
		},
	}
}

// Transport exposes the gate so the session manager can register its
// refresh and expiry hooks
func (c *Client) Transport() *Transport {
	return c.transport
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do executes one request: JSON in, JSON out, correlation ID attached,
// errors normalized into the package taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Logger.Warn("Request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	logging.Logger.Debug("Request completed",
		"method", method, "path", path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"request_id", requestID)

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP error status onto the package taxonomy,
// carrying the flattened backend detail as context
func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	detail := flattenDetail(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrSessionExpired, detail)
		}
		return ErrSessionExpired
	case http.StatusForbidden:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrForbidden, detail)
		}
		return ErrForbidden
	default:
		return &StatusError{StatusCode: resp.StatusCode, Detail: detail}
	}
}

// pagedEnvelope is the backend's {items, total, pages} list shape
type pagedEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// getPaged fetches one page of a paginated collection
func getPaged[T any](ctx context.Context, c *Client, path string, page ports.Page) (*pagedEnvelope[T], error) {
	query := url.Values{}
	if page.Page > 0 {
		query.Set("page", strconv.Itoa(page.Page))
	}
	if page.Size > 0 {
		query.Set("size", strconv.Itoa(page.Size))
	}
	var envelope pagedEnvelope[T]
	if err := c.get(ctx, path, query, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
