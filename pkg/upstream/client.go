// Package upstream performs the forwarded HTTP request against an
// allowlisted rate API.
package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marketrates/rate-proxy/pkg/logging"
	"github.com/rs/zerolog"
)

// Request describes one forwarded request. Header carries only the names the
// caller has already filtered through the upstream's pass-through allowlist.
type Request struct {
	Domain string
	Method string
	// Path is the remaining request path, without a leading slash.
	Path   string
	Query  url.Values
	Header http.Header
	Body   io.Reader
}

// Response holds the upstream's reply with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Forwarder issues a single HTTP request against the real upstream.
// Implementations perform exactly one attempt; retry policy, if any, belongs
// here rather than in the proxy handler, and the default client does none.
type Forwarder interface {
	Forward(ctx context.Context, req Request) (*Response, error)
}

// Client is the HTTP Forwarder used in production. Upstreams are always
// reached over HTTPS.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an upstream client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logging.NewLogger("upstream"),
	}
}

// Forward issues the request and reads the full response body. Non-2xx
// statuses are not errors; the caller passes them through unchanged. An error
// return means no upstream response exists at all (DNS, connect, timeout).
func (c *Client) Forward(ctx context.Context, req Request) (*Response, error) {
	target := &url.URL{
		Scheme:   "https",
		Host:     req.Domain,
		Path:     "/" + req.Path,
		RawQuery: req.Query.Encode(),
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), req.Body)
	if err != nil {
		return nil, &Error{Domain: req.Domain, Op: "build request", Err: err}
	}

	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	c.logger.Debug().
		Str("domain", req.Domain).
		Str("method", req.Method).
		Str("path", req.Path).
		Msg("Forwarding request upstream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Domain: req.Domain, Op: "forward", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Domain: req.Domain, Op: "read response", Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
