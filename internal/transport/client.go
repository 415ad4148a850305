package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http      *http.Client
	auth      Authenticator
	token     string
	accept    string
	userAgent string
	maxBytes  int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the credential passed to the authenticator.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithAccept sets the Accept header sent with every request.
func WithAccept(accept string) Option {
	return func(c *Client) {
		c.accept = accept
	}
}

// WithMaxBytes limits the size of a downloaded body.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		c.maxBytes = n
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		auth:      auth,
		accept:    "application/json",
		userAgent: constants.UserAgent,
		maxBytes:  constants.MaxArtifactSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	if c.accept != "" {
		req.Header.Set("Accept", c.accept)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		switch {
		case ctx.Err() == context.Canceled:
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, errors.ErrCanceled)
		case ctx.Err() == context.DeadlineExceeded:
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, errors.ErrTimeout)
		}
		return nil, err
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(ctx, req)
}

// Download fetches url and returns the whole body. Redirects are followed;
// any final status other than 200 is an *errors.APIError.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, &errors.APIError{Source: "download", Endpoint: url, Message: err.Error(), Err: err}
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &errors.APIError{
			Source:     "download",
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    string(body),
			RateLimit:  RateLimited(resp),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errors.WrapIO("read", url, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, &errors.APIError{
			Source:   "download",
			Endpoint: url,
			Message:  fmt.Sprintf("artifact exceeds %d bytes", c.maxBytes),
		}
	}

	logging.FromContext(ctx).Debug().
		Str("url", url).
		Int("bytes", len(data)).
		Msg("Downloaded artifact")
	return data, nil
}

func closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
	}
}
