// Package api is the REST client the view layer drives. The transport
// is deliberately thin: bearer auth from the cache, a fixed per-request
// timeout, readable errors, and `data` envelope unwrapping. Anything
// shape-related belongs to internal/normalize.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/config"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

var apiBaseRe = regexp.MustCompile(`/api(/v\d+)?$`)

// Client talks to the backend REST API.
type Client struct {
	base            string
	httpClient      *http.Client
	store           cache.Store
	media           normalize.Resolver
	log             *logger.Logger
	feedPageSize    int
	commentPageSize int
}

// New creates a client from configuration. The store supplies the
// bearer token; it is read on every request so a login that happens
// after construction is picked up.
func New(cfg config.APIConfig, store cache.Store, log *logger.Logger) *Client {
	return &Client{
		base:            buildBase(cfg.BaseURL),
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		store:           store,
		media:           normalize.NewResolver(cfg.BaseURL),
		log:             log.WithComponent("api-client"),
		feedPageSize:    cfg.FeedPageSize,
		commentPageSize: cfg.CommentPageSize,
	}
}

// buildBase normalizes the configured base URL: trailing slashes are
// dropped and /api/v1 is appended unless the URL already carries a
// versioned API path.
func buildBase(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if apiBaseRe.MatchString(base) {
		return base
	}
	return base + "/api/v1"
}

// Media exposes the resolver derived from the configured base URL.
func (c *Client) Media() normalize.Resolver { return c.media }

// FeedPageSize returns the configured feed per_page value.
func (c *Client) FeedPageSize() int { return c.feedPageSize }

type request struct {
	method string
	path   string
	body   any
	authed bool
}

// do performs one round trip and decodes the JSON response. Transport
// failures come back as *domain.NetworkError, non-2xx responses as
// *domain.APIError with the server's message when it sent one.
func (c *Client) do(ctx context.Context, req request) (any, error) {
	url := req.path
	if !strings.HasPrefix(url, "http") {
		if !strings.HasPrefix(url, "/") {
			url = "/" + url
		}
		url = c.base + url
	}

	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authed {
		token, err := c.Token(ctx)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("request failed", "method", req.method, "url", url, "error", err)
		return nil, &domain.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: err}
	}

	var payload any
	if len(raw) > 0 {
		// Non-JSON bodies are only interesting for error reporting.
		_ = json.Unmarshal(raw, &payload)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(payload, raw)
		c.log.Warn("server rejected request",
			"method", req.method, "url", url, "status", resp.StatusCode)
		return nil, domain.NewAPIError(resp.StatusCode, msg, string(raw))
	}

	return payload, nil
}

// errorMessage prefers the server's message/error field, then a prefix
// of the raw body.
func errorMessage(payload any, raw []byte) string {
	if m, ok := payload.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			return s
		}
		if s, ok := m["error"].(string); ok && s != "" {
			return s
		}
	}
	body := strings.TrimSpace(string(raw))
	if len(body) > 200 {
		body = body[:200]
	}
	return body
}

// getMap runs an authed GET and unwraps the {data: {...}} envelope when
// present.
func (c *Client) getMap(ctx context.Context, path string) (map[string]any, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true})
	if err != nil {
		return nil, err
	}
	return unwrapObject(payload), nil
}

// unwrapObject digs a response object out of the optional data envelope.
func unwrapObject(payload any) map[string]any {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := m["data"].(map[string]any); ok {
		return inner
	}
	return m
}

// unwrapList digs a response list out of either a bare array or the
// data envelope.
func unwrapList(payload any) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		if arr, ok := v["data"].([]any); ok {
			return arr
		}
	}
	return nil
}
