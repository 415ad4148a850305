// Package github lists repository releases through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/manifestsync/internal/transport"
	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// sourceName attributes API errors to this client.
const sourceName = "github"

// lowRateLimit is the remaining quota below which a warning is logged.
const lowRateLimit = 10

// Client implements releases.Fetcher against api.github.com or a compatible host.
type Client struct {
	transport *transport.Client
	baseURL   string
	perPage   int
}

var _ releases.Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithPerPage sets the page size of the single listing request.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= constants.MaxPerPage {
			c.perPage = n
		}
	}
}

// WithTimeout sets the request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		transport.WithTimeout(d)(c.transport)
	}
}

// New creates a client. An empty token sends unauthenticated requests,
// which GitHub limits to 60 per hour.
func New(token string, opts ...Option) *Client {
	c := &Client{
		transport: transport.New(transport.AuthFor(token),
			transport.WithToken(token),
			transport.WithAccept(constants.GitHubAcceptHeader),
		),
		baseURL: constants.GitHubAPIURL,
		perPage: constants.DefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// githubRelease represents the GitHub API release format.
type githubRelease struct {
	TagName   string        `json:"tag_name"`
	Name      string        `json:"name"`
	Draft     bool          `json:"draft"`
	CreatedAt string        `json:"created_at"`
	Assets    []githubAsset `json:"assets"`
}

// githubAsset represents a GitHub release asset.
type githubAsset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// ListReleases implements releases.Fetcher. It issues a single request; the
// releases are returned in the order GitHub lists them.
func (c *Client) ListReleases(ctx context.Context, repository string) ([]releases.Release, error) {
	owner, name, err := releases.ParseRepository(repository)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(name), c.perPage)

	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", endpoint).Msg("Listing releases")

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, &errors.APIError{Source: sourceName, Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	checkRateLimit(ctx, resp)

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, errors.NewNotFoundError("repository", repository)
	}

	var payload []githubRelease
	if err := transport.DecodeResponse(ctx, resp, sourceName, &payload); err != nil {
		return nil, err
	}

	out := make([]releases.Release, 0, len(payload))
	for i, r := range payload {
		rel, err := convertRelease(r)
		if err != nil {
			return nil, errors.NewParseError("json", endpoint, fmt.Sprintf("release %d: %v", i, err), err)
		}
		out = append(out, rel)
	}

	logger.Debug().
		Str("repository", repository).
		Int("releases", len(out)).
		Msg("Listed releases")
	return out, nil
}

func convertRelease(r githubRelease) (releases.Release, error) {
	if r.TagName == "" {
		return releases.Release{}, &errors.ValidationError{Field: "tag_name", Message: "is required"}
	}
	if r.CreatedAt == "" {
		return releases.Release{}, &errors.ValidationError{Field: "created_at", Value: r.TagName, Message: "is required"}
	}
	created, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return releases.Release{}, &errors.ValidationError{Field: "created_at", Value: r.CreatedAt, Message: err.Error()}
	}

	rel := releases.Release{
		Tag:       r.TagName,
		CreatedAt: created.UTC(),
		Assets:    make([]releases.Asset, 0, len(r.Assets)),
	}
	for _, a := range r.Assets {
		rel.Assets = append(rel.Assets, releases.Asset{Name: a.Name, DownloadURL: a.BrowserDownloadURL})
	}
	return rel, nil
}

// checkRateLimit warns when the remaining API quota is running low.
func checkRateLimit(ctx context.Context, resp *http.Response) {
	remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	if err != nil || remaining > lowRateLimit {
		return
	}
	event := logging.FromContext(ctx).Warn().Int("remaining", remaining)
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		event = event.Time("resets_at", time.Unix(reset, 0).UTC())
	}
	event.Msg("GitHub API rate limit low")
}
