// Package manifestsync keeps a plugin manifest in step with the releases its
// source repositories publish.
//
// A sync run reads a mapping of repositories to plugin guids and the current
// manifest, lists the releases of every mapped repository, and folds the new
// ones into the plugin's version list. The manifest is written once, at the
// end of the run.
//
// Example usage:
//
//	client, err := manifestsync.New(
//	    manifestsync.WithGitHubToken(os.Getenv("GITHUB_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Sync(ctx,
//	    sync.WithManifestPath("manifest.json"),
//	    sync.WithReposPath("repos.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package manifestsync

import (
	"context"

	"github.com/agentstation/manifestsync/internal/artifact"
	"github.com/agentstation/manifestsync/internal/sources/github"
	"github.com/agentstation/manifestsync/internal/transport"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	"github.com/agentstation/manifestsync/pkg/releases"
	"github.com/agentstation/manifestsync/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client synchronizes manifests with release sources.
type Client interface {

	// Syncer runs sync passes
	Syncer

	// Validate checks the mapping and manifest without contacting any source
	Validate(ctx context.Context, opts ...sync.Option) error

	// Releases lists the releases of one repository as the sync run sees them
	Releases(ctx context.Context, repository string) ([]releases.Release, error)

	// ArchiveExtension is the suffix that selects a release's artifact
	ArchiveExtension() string
}

// client is the internal implementation of the Client interface.
type client struct {
	options    *options
	fetcher    releases.Fetcher
	reconciler reconciler.Reconciler
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	fetcher := options.fetcher
	if fetcher == nil {
		fetcher = github.New(options.githubToken,
			github.WithBaseURL(options.githubAPIURL),
			github.WithPerPage(options.perPage),
			github.WithTimeout(options.httpTimeout),
		)
	}

	downloader := options.downloader
	if downloader == nil {
		downloader = transport.New(&transport.NoAuth{}, transport.WithTimeout(options.httpTimeout))
	}

	extractor := options.extractor
	if extractor == nil {
		extractor = artifact.NewZipExtractor(options.metadataFile)
	}

	checksum, err := artifact.ParseAlgorithm(options.checksum)
	if err != nil {
		return nil, err
	}

	rec, err := reconciler.New(
		reconciler.WithDownloader(downloader),
		reconciler.WithExtractor(extractor),
		reconciler.WithChecksummer(checksum),
		reconciler.WithArchiveExtension(options.archiveExtension),
	)
	if err != nil {
		return nil, err
	}

	return &client{
		options:    options,
		fetcher:    fetcher,
		reconciler: rec,
	}, nil
}

// Releases lists the releases of repository.
func (c *client) Releases(ctx context.Context, repository string) ([]releases.Release, error) {
	return c.fetcher.ListReleases(ctx, repository)
}

// ArchiveExtension returns the suffix used to select release assets.
func (c *client) ArchiveExtension() string {
	return c.options.archiveExtension
}
