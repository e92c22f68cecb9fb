// Package azdo is a thin REST client for the fixed set of Azure DevOps
// endpoints exposed as tools: projects, pipelines, builds, work items
// (WIQL, CRUD, comments), boards, and iterations.
//
// Each wrapper issues exactly one HTTP request. There is no caching and
// no shared mutable state between calls; a Client is safe for concurrent
// use.
package azdo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAPIVersion is the api-version query parameter sent with
	// every request unless overridden in ClientConfig.
	DefaultAPIVersion = "7.1"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// retryMaxAttempts is the total attempt budget for idempotent GETs.
	retryMaxAttempts = 3
	// retryBackoffStep is multiplied by the attempt number between retries.
	retryBackoffStep = 250 * time.Millisecond

	bodyExcerptLimit = 2048
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// OrganizationURL is the org base, e.g. https://dev.azure.com/contoso.
	OrganizationURL string
	// PAT is the personal access token used as the basic-auth password.
	PAT string
	// APIVersion overrides DefaultAPIVersion when set.
	APIVersion string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
	// Logger receives wire-level debug logging. Defaults to slog.Default().
	Logger *slog.Logger
	// OnRetry is invoked before each transient-failure retry.
	OnRetry func(method string, statusCode, attempt int)
}

// Client issues authenticated requests against one Azure DevOps
// organization.
type Client struct {
	baseURL    string
	pat        string
	apiVersion string
	client     *http.Client
	logger     *slog.Logger
	onRetry    func(method string, statusCode, attempt int)
}

// NewClient validates the configuration and returns a ready Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.OrganizationURL) == "" {
		return nil, fmt.Errorf("azdo: organization URL is required")
	}
	if strings.TrimSpace(cfg.PAT) == "" {
		return nil, fmt.Errorf("azdo: personal access token is required")
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	onRetry := cfg.OnRetry
	if onRetry == nil {
		onRetry = func(string, int, int) {}
	}

	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.OrganizationURL), "/"),
		pat:        cfg.PAT,
		apiVersion: apiVersion,
		client:     httpClient,
		logger:     logger,
		onRetry:    onRetry,
	}, nil
}

// BaseURL returns the normalized organization URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a GET and decodes the JSON response into out. GETs are the
// only requests eligible for the transient-failure retry loop.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, "", out)
}

// postJSON issues a POST with an application/json body.
func (c *Client) postJSON(ctx context.Context, path string, params url.Values, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("azdo: encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, params, encoded, "application/json", out)
}

// postPatchDocument issues a POST carrying a JSON-patch document
// (work item create uses POST with the patch media type).
func (c *Client) postPatchDocument(ctx context.Context, path string, params url.Values, doc PatchDocument, out any) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("azdo: encode patch document: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, params, encoded, "application/json-patch+json", out)
}

// patchDocument issues a PATCH carrying a JSON-patch document.
func (c *Client) patchDocument(ctx context.Context, path string, params url.Values, doc PatchDocument, out any) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("azdo: encode patch document: %w", err)
	}
	return c.do(ctx, http.MethodPatch, path, params, encoded, "application/json-patch+json", out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, contentType string, out any) error {
	if params == nil {
		params = url.Values{}
	}
	// Callers may pin a preview api-version; otherwise the client default.
	if params.Get("api-version") == "" {
		params.Set("api-version", c.apiVersion)
	}
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + params.Encode()

	maxAttempts := 1
	if method == http.MethodGet {
		maxAttempts = retryMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		respBody, err := c.roundTrip(ctx, method, fullURL, body, contentType)
		if err == nil {
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("azdo: decode %s %s response: %w", method, fullURL, err)
			}
			return nil
		}

		lastErr = err
		reqErr, ok := requestErrorFrom(err)
		if !ok || !reqErr.Retryable() || attempt == maxAttempts {
			return err
		}

		c.logger.Debug("retrying request",
			slog.String("method", method),
			slog.String("url", fullURL),
			slog.Int("status", reqErr.StatusCode),
			slog.Int("attempt", attempt),
		)
		c.onRetry(method, reqErr.StatusCode, attempt)

		timer := time.NewTimer(retryBackoffStep * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// roundTrip performs one HTTP exchange and returns the body on 2xx, a
// *RequestError on any other status.
func (c *Client) roundTrip(ctx context.Context, method, fullURL string, body []byte, contentType string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("azdo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Basic "+basicAuthToken(c.pat))

	c.logger.Debug("request", slog.String("method", method), slog.String("url", fullURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azdo: %s %s: %w", method, fullURL, err)
	}
	respBody, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("azdo: read %s %s response: %w", method, fullURL, readErr)
	}

	c.logger.Debug("response",
		slog.String("method", method),
		slog.String("url", fullURL),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return respBody, nil
	}
	return nil, &RequestError{
		Method:     method,
		URL:        fullURL,
		StatusCode: resp.StatusCode,
		Body:       excerpt(respBody),
	}
}

// basicAuthToken encodes the PAT for basic auth with an empty username.
func basicAuthToken(pat string) string {
	return base64.StdEncoding.EncodeToString([]byte(":" + pat))
}

func excerpt(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) <= bodyExcerptLimit {
		return trimmed
	}
	return trimmed[:bodyExcerptLimit] + "..."
}

// projectPath joins an escaped project segment with an API path.
func projectPath(project, path string) string {
	return url.PathEscape(project) + "/" + strings.TrimLeft(path, "/")
}

// teamPath joins escaped project and team segments with an API path.
// When team is empty the project default team route is used.
func teamPath(project, team, path string) string {
	if strings.TrimSpace(team) == "" {
		return projectPath(project, path)
	}
	return url.PathEscape(project) + "/" + url.PathEscape(team) + "/" + strings.TrimLeft(path, "/")
}
