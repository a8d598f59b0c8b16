// Package transport provides the HTTP client used to download rating exports.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with fixed request decoration.
type Client struct {
	http      *http.Client
	decorator Decorator
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a new transport client with the specified decorator.
func New(decorator Decorator, opts ...Option) *Client {
	if decorator == nil {
		decorator = NoHeaders{}
	}
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		decorator: decorator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do performs an HTTP request with the decorator applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.decorator.Apply(req)
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(req)
}

// GetJSON performs a GET request and decodes a JSON body into target.
// source names the remote in returned errors. A request that outlives the
// client timeout or the context deadline returns a TimeoutError.
func (c *Client) GetJSON(ctx context.Context, source, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		if isTimeout(err) {
			return errors.NewTimeoutError("fetch "+source, c.http.Timeout.String(), err)
		}
		return &errors.APIError{
			Source:   source,
			Endpoint: url,
			Message:  err.Error(),
			Err:      err,
		}
	}
	if err := DecodeResponse(resp, source, target); err != nil {
		// the client timeout also covers reading the body
		if isTimeout(err) {
			return errors.NewTimeoutError("fetch "+source, c.http.Timeout.String(), err)
		}
		return err
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, source string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.String()
		}
		return &errors.APIError{
			Source:     source,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source+" response", err)
	}

	return nil
}
