package manifestsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
	"github.com/agentstation/manifestsync/pkg/manifest"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	"github.com/agentstation/manifestsync/pkg/sync"
)

// Syncer runs sync passes.
type Syncer interface {
	// Sync reconciles the manifest with every mapped repository and writes it
	// once. Repository failures do not stop the run; they are returned as a
	// *errors.SyncError together with the result after the manifest is written.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)
}

// Sync implements Syncer.
func (c *client) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	// Step 2: Load inputs and fail before any network call on bad configuration
	m, mapping, err := c.load(options)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("repositories", len(mapping)).
		Int("plugins", len(m.Entries)).
		Bool("dry_run", options.DryRun).
		Msg("Starting sync")

	// Step 3: Reconcile every repository in mapping order
	result := sync.NewResult(runID, options.DryRun)
	result.OutputPath = options.Destination()
	defer result.Finalize()

	var errs error
	for _, mp := range mapping {
		if ctx.Err() != nil {
			break
		}
		rr := c.syncRepository(logging.WithRepository(ctx, mp.Repository), m, mp)
		result.Add(rr)
		if rr.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", mp.Repository, rr.Err))
		}
	}

	// Step 4: An interrupted run writes nothing
	if err := ctx.Err(); err != nil {
		logger.Warn().Err(err).Msg("Sync interrupted, manifest not written")
		if err == context.DeadlineExceeded {
			return result, fmt.Errorf("sync interrupted: %w", errors.ErrTimeout)
		}
		return result, fmt.Errorf("sync interrupted: %w", errors.ErrCanceled)
	}

	// Step 5: Write the manifest once
	if options.DryRun {
		logger.Info().Bool("dry_run", true).Int("added", result.Added()).Msg("Dry run completed - manifest not written")
	} else {
		if err := c.persist(ctx, m, options.Destination()); err != nil {
			return result, err
		}
		result.Written = true
	}

	logger.Info().
		Int("added", result.Added()).
		Int("failed", len(result.Failed())).
		Msg("Sync completed")

	if errs != nil {
		return result, errors.NewSyncError(result.Failed(), errs)
	}
	return result, nil
}

// load reads the mapping and manifest and checks that they agree.
func (c *client) load(options *sync.Options) (*manifest.Manifest, manifest.RepositoryMapping, error) {
	mapping, err := manifest.LoadMapping(options.ReposPath)
	if err != nil {
		return nil, nil, errors.NewConfigError("mapping",
			fmt.Sprintf("cannot load repository mapping %s: %v", options.ReposPath, err), err)
	}
	if options.Repository != "" {
		if mapping, err = mapping.Only(options.Repository); err != nil {
			return nil, nil, err
		}
	}

	m, err := manifest.Load(options.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, errors.WrapResource("validate", "manifest", options.ManifestPath, err)
	}
	if err := m.CheckMapping(mapping); err != nil {
		return nil, nil, err
	}
	return m, mapping, nil
}

// syncRepository lists a repository's releases and folds them into its entry.
func (c *client) syncRepository(ctx context.Context, m *manifest.Manifest, mp manifest.Mapping) *sync.RepositoryResult {
	logger := logging.FromContext(ctx)
	rr := &sync.RepositoryResult{Repository: mp.Repository, GUID: mp.GUID}

	// CheckMapping guarantees the entry exists
	entry, err := m.Entry(mp.GUID)
	if err != nil {
		rr.Err = err
		return rr
	}

	rels, err := c.fetcher.ListReleases(ctx, mp.Repository)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list releases")
		rr.Err = errors.WrapResource("fetch", "releases", mp.Repository, err)
		return rr
	}
	rr.Releases = len(rels)

	rr.Reconcile = c.reconciler.Reconcile(ctx, entry, rels)
	if rr.Reconcile.Err != nil {
		var missing *errors.MissingAssetError
		if errors.As(rr.Reconcile.Err, &missing) {
			missing.Repository = mp.Repository
		}
		rr.Err = rr.Reconcile.Err
	}

	logger.Info().
		Int("releases", rr.Releases).
		Int("added", rr.Count(reconciler.Added)).
		Bool("halted", rr.Reconcile.Halted).
		Msg("Repository reconciled")
	return rr
}
