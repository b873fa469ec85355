// Package zotero is the Zotero Web API v3 client behind reference.Client.
package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"citedeck/internal/config"
	"citedeck/internal/logging"
	"citedeck/internal/reference"
)

const (
	defaultBaseURL = "https://api.zotero.org"
	apiVersion     = "3"

	requestTimeout = 15 * time.Second
	maxRetries     = 2
	retryBackoff   = 500 * time.Millisecond

	searchLimit = 25
)

// Client talks to one Zotero library. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	prefix  string
	httpc   *http.Client
	logger  *zap.Logger
}

var _ reference.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a local
// server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New builds a client for the library the credentials name.
func New(creds config.Credentials, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Nop()
	}

	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  creds.APIKey,
		prefix:  libraryPrefix(creds),
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func libraryPrefix(creds config.Credentials) string {
	if creds.LibraryType == config.LibraryGroup {
		return "groups/" + creds.LibraryID
	}

	return "users/" + creds.LibraryID
}

// Search queries the library's items by title, creator, and year.
func (c *Client) Search(ctx context.Context, query string) ([]reference.Item, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", searchLimit))

	body, err := c.get(ctx, "/items", q)
	if err != nil {
		return nil, &reference.SourceError{Op: "search", Err: err}
	}

	var raw []apiItem

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &reference.SourceError{Op: "search", Err: fmt.Errorf("decode response: %w", err)}
	}

	items := make([]reference.Item, 0, len(raw))

	for _, r := range raw {
		items = append(items, r.toItem())
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(items)))

	return items, nil
}

// Get fetches one item by key.
func (c *Client) Get(ctx context.Context, key string) (reference.Item, error) {
	body, err := c.get(ctx, "/items/"+url.PathEscape(key), nil)
	if err != nil {
		return reference.Item{}, &reference.SourceError{Op: "get", Key: key, Err: err}
	}

	var raw apiItem

	if err := json.Unmarshal(body, &raw); err != nil {
		return reference.Item{}, &reference.SourceError{Op: "get", Key: key, Err: fmt.Errorf("decode response: %w", err)}
	}

	return raw.toItem(), nil
}

// get performs one GET with auth headers, retrying transient upstream
// failures. Client errors (4xx) never retry.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + "/" + c.prefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}

			c.logger.Debug("retrying request",
				zap.String("path", path),
				zap.Int("attempt", attempt))
		}

		body, retry, err := c.doOnce(ctx, u)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !retry {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, u string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}

	req.Header.Set("Zotero-API-Key", c.apiKey)
	req.Header.Set("Zotero-API-Version", apiVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Network-level failures are worth one more try.
		return nil, true, err
	}

	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read response: %w", err)
		}

		return data, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, reference.ErrNotFound
	case isTransient(resp.StatusCode):
		return nil, true, fmt.Errorf("upstream status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func isTransient(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
