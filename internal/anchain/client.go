// Package anchain provides a minimal client for the AnChain.AI Data API.
package anchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production AnChain.AI Data API host.
const DefaultBaseURL = "https://api.anchainai.com"

// APIKeyHeader carries the caller's API key on every request.
const APIKeyHeader = "X-API-KEY"

// maxErrorBody bounds how much of a failed response is kept for error messages.
const maxErrorBody = 4 << 10

// UserAgent is sent with every request. cmd overrides the version suffix at link time.
var UserAgent = "anchain-mcp/dev"

// Client is a minimal HTTP client for the AnChain.AI Data API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a new client. If httpClient is nil, http.DefaultClient is used;
// per-call deadlines come from the request context.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, HTTP: httpClient}
}

// Request describes one call against the API. Query is sent on the URL; Body,
// when non-nil, is JSON encoded.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Do sends the request and returns the raw JSON payload of a 2xx response.
func (c *Client) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	apiKey := c.apiKey(ctx)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, apiKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("anchain %s %s: %w", r.Method, r.Path, ctxErr)
		}
		return nil, fmt.Errorf("anchain %s %s: %w", r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return decodeJSON(resp)
}

func (c *Client) apiKey(ctx context.Context) string {
	if k := APIKeyFromContext(ctx); k != "" {
		return k
	}
	return c.APIKey
}

// newRequest composes the URL and body for r.
func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	u, err := url.Parse(c.BaseURL + "/" + strings.TrimLeft(r.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decodeJSON reads the response body and checks that it is a single JSON value.
// The bytes are returned untouched so callers can relay them verbatim.
func decodeJSON(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (status %d, %d bytes)", ErrMalformedBody, resp.StatusCode, len(body))
	}
	return json.RawMessage(body), nil
}
