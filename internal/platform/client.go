// Package platform provides the HTTP client for the telemetry platform's
// legacy (v1) and current (v2) API surfaces. Every call is a single
// blocking request/response round trip: no retries, no caching, no
// connection reuse guarantees beyond the default transport.
package platform

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsatlas/svcmap/internal/secrets"
	"github.com/opsatlas/svcmap/pkg/errors"
)

// DefaultHTTPTimeout bounds each platform request.
const DefaultHTTPTimeout = 30 * time.Second

// Client issues authenticated GET requests against the platform APIs.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL string
}

// New creates a client for the platform site named in the credentials.
func New(creds secrets.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    &KeyPairAuth{APIKey: creds.APIKey, AppKey: creds.AppKey},
		baseURL: "https://api." + creds.Site,
	}
}

// NewWithBaseURL creates a client against an explicit base URL. Used by
// tests to point at a local server.
func NewWithBaseURL(baseURL string, auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		baseURL: baseURL,
	}
}

// Get performs an authenticated GET against path and returns the raw
// response body. Non-2xx responses are returned as API errors with the
// body attached as the message.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+path, err)
	}

	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{Endpoint: path, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapAPI(path, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.APIError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}

// QueryMetrics fetches metric series for the time range via the legacy
// query endpoint.
func (c *Client) QueryMetrics(ctx context.Context, query string, from, to time.Time) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))
	return c.Get(ctx, "/api/v1/query", params)
}

// ListAPMServices fetches the trace-service listing for the time range.
func (c *Client) ListAPMServices(ctx context.Context, from, to time.Time) ([]byte, error) {
	params := url.Values{}
	params.Set("start", strconv.FormatInt(from.Unix(), 10))
	params.Set("end", strconv.FormatInt(to.Unix(), 10))
	return c.Get(ctx, "/api/v1/apm/services", params)
}

// SearchLogs fetches log events matching query within the time range.
func (c *Client) SearchLogs(ctx context.Context, query string, from, to time.Time) ([]byte, error) {
	params := url.Values{}
	params.Set("filter[query]", query)
	params.Set("filter[from]", strconv.FormatInt(from.UnixMilli(), 10))
	params.Set("filter[to]", strconv.FormatInt(to.UnixMilli(), 10))
	return c.Get(ctx, "/api/v2/logs/events", params)
}

// ListServiceDefinitions fetches the simple service-definition listing
// used for reconciliation.
func (c *Client) ListServiceDefinitions(ctx context.Context) ([]byte, error) {
	return c.Get(ctx, "/api/v2/services/definitions", nil)
}

// ListServiceCatalog fetches the richer catalog listing used for
// enrichment.
func (c *Client) ListServiceCatalog(ctx context.Context) ([]byte, error) {
	return c.Get(ctx, "/api/v2/services", nil)
}
