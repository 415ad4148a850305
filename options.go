package manifestsync

import (
	"time"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// options holds the capabilities and settings of a Client.
type options struct {
	fetcher    releases.Fetcher
	downloader reconciler.Downloader
	extractor  reconciler.Extractor

	githubToken      string
	githubAPIURL     string
	perPage          int
	httpTimeout      time.Duration
	archiveExtension string
	metadataFile     string
	checksum         string
}

func defaultOptions() *options {
	return &options{
		githubAPIURL:     constants.GitHubAPIURL,
		perPage:          constants.DefaultPerPage,
		httpTimeout:      constants.DefaultHTTPTimeout,
		archiveExtension: constants.DefaultArchiveExtension,
		metadataFile:     constants.DefaultMetadataFile,
		checksum:         constants.DefaultChecksumAlgorithm,
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithFetcher replaces the GitHub release source.
func WithFetcher(fetcher releases.Fetcher) Option {
	return func(o *options) error {
		if fetcher == nil {
			return &errors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
		}
		o.fetcher = fetcher
		return nil
	}
}

// WithDownloader replaces the HTTP artifact downloader.
func WithDownloader(downloader reconciler.Downloader) Option {
	return func(o *options) error {
		if downloader == nil {
			return &errors.ValidationError{Field: "downloader", Message: "cannot be nil"}
		}
		o.downloader = downloader
		return nil
	}
}

// WithExtractor replaces the zip metadata extractor.
func WithExtractor(extractor reconciler.Extractor) Option {
	return func(o *options) error {
		if extractor == nil {
			return &errors.ValidationError{Field: "extractor", Message: "cannot be nil"}
		}
		o.extractor = extractor
		return nil
	}
}

// WithGitHubToken authenticates GitHub API requests.
func WithGitHubToken(token string) Option {
	return func(o *options) error {
		o.githubToken = token
		return nil
	}
}

// WithGitHubAPIURL points the release source at another API host.
func WithGitHubAPIURL(url string) Option {
	return func(o *options) error {
		if url != "" {
			o.githubAPIURL = url
		}
		return nil
	}
}

// WithPerPage sets the page size of the release listing.
func WithPerPage(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxPerPage {
			return &errors.ValidationError{
				Field:   "per_page",
				Value:   n,
				Message: "must be between 1 and 100",
			}
		}
		o.perPage = n
		return nil
	}
}

// WithHTTPTimeout sets the timeout of each network request. Zero disables it.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return &errors.ValidationError{Field: "timeout", Value: d, Message: "must be non-negative"}
		}
		o.httpTimeout = d
		return nil
	}
}

// WithArchiveExtension sets the suffix identifying the release asset to use.
func WithArchiveExtension(extension string) Option {
	return func(o *options) error {
		if extension != "" {
			o.archiveExtension = extension
		}
		return nil
	}
}

// WithMetadataFile sets the archive entry holding plugin metadata.
func WithMetadataFile(name string) Option {
	return func(o *options) error {
		if name != "" {
			o.metadataFile = name
		}
		return nil
	}
}

// WithChecksum selects the checksum algorithm, md5 or sha256.
func WithChecksum(algorithm string) Option {
	return func(o *options) error {
		o.checksum = algorithm
		return nil
	}
}
