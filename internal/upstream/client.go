package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/config"
	"cmdbmcp/pkg/logging"
)

// DefaultTimeout bounds every upstream request, including reading the body.
const DefaultTimeout = 30 * time.Second

// Client performs authenticated JSON calls against the CMDB/Zeus API.
// A single Client is shared by all invocations; it holds no per-request state.
type Client struct {
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the underlying RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a Client with a DefaultTimeout deadline.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET with query parameters and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, token config.RedactedToken) (interface{}, error) {
	target := rawURL
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, &api.UpstreamTransportError{Method: http.MethodGet, URL: rawURL, Err: err}
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &api.UpstreamTransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	return c.do(req, token)
}

// Post issues a POST with body encoded as JSON and returns the decoded JSON response.
func (c *Client) Post(ctx context.Context, rawURL string, body interface{}, token config.RedactedToken) (interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &api.UpstreamTransportError{Method: http.MethodPost, URL: rawURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token config.RedactedToken) (interface{}, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", token.Value())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Debug("Upstream", "%s %s failed after %s: %v", req.Method, req.URL.Redacted(), time.Since(start), err)
		return nil, &api.UpstreamTransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.UpstreamTransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	logging.Debug("Upstream", "%s %s -> %d (%d bytes, %s)", req.Method, req.URL.Redacted(), resp.StatusCode, len(body), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &api.UpstreamHTTPError{
			Method: req.Method,
			URL:    req.URL.String(),
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	decoded, err := Decode(body)
	if err != nil {
		return nil, &api.UpstreamHTTPError{
			Method: req.Method,
			URL:    req.URL.String(),
			Status: resp.StatusCode,
			Body:   string(body),
			Err:    err,
		}
	}
	return decoded, nil
}

// Decode parses a JSON document keeping numbers as json.Number, so values
// re-encode exactly as received.
func Decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON response: trailing data after document")
	}
	return v, nil
}
