// Package reconciler merges a repository's releases into the manifest entry
// of the plugin it publishes.
//
// Releases are folded one at a time, in the order supplied. Each release
// yields exactly one Outcome. Releases older than the entry's earliest known
// version, or whose version is already listed, are skipped. The rest have
// their archive downloaded, checksummed and inspected, and the resulting
// record is inserted at the front of the entry's version list. A release
// without an archive asset, or whose download fails, halts the fold; a
// release with unusable metadata is dropped and the fold continues.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/manifestsync/internal/artifact"
	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
	"github.com/agentstation/manifestsync/pkg/manifest"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// Downloader fetches the bytes of a release artifact.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extractor reads plugin metadata from an artifact.
type Extractor interface {
	Extract(data []byte) (*artifact.Metadata, error)
}

// Checksummer computes the digest recorded for an artifact.
type Checksummer interface {
	Sum(data []byte) string
}

// Reconciler merges releases into a manifest entry.
type Reconciler interface {
	// Reconcile folds releases into entry, mutating its version list, and
	// reports one outcome per release it looked at.
	Reconcile(ctx context.Context, entry *manifest.Entry, releases []releases.Release) *Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	downloader  Downloader
	extractor   Extractor
	checksummer Checksummer
	extension   string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		downloader:  options.downloader,
		extractor:   options.extractor,
		checksummer: options.checksummer,
		extension:   options.extension,
	}, nil
}

// NormalizeTag derives a version from a release tag by removing the
// leading "v" prefix, at most twice ("vv1.0" becomes "1.0").
func NormalizeTag(tag string) string {
	for i := 0; i < constants.MaxVersionPrefixes; i++ {
		tag = strings.TrimPrefix(tag, constants.VersionPrefix)
	}
	return tag
}

// floor is the age limit of a run. Without versions every release passes.
type floor struct {
	at  manifest.Timestamp
	set bool
}

func (f floor) admits(rel releases.Release) bool {
	return !f.set || !rel.CreatedAt.Before(f.at.Time)
}

// decision is the result of one fold step.
type decision struct {
	outcome Outcome
	record  *manifest.Version
	halt    bool
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(ctx context.Context, entry *manifest.Entry, rels []releases.Release) *Result {
	ctx = logging.WithPlugin(ctx, entry.GUID)
	logger := logging.FromContext(ctx)

	result := NewResult(entry.GUID)
	defer result.Finalize()

	var f floor
	f.at, f.set = entry.Oldest()

	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			result.Halted = true
			result.Err = err
			break
		}

		d := r.step(ctx, entry, f, rel)
		logOutcome(logger, d.outcome)
		if !result.apply(entry, d) {
			break
		}
	}

	logger.Debug().
		Int("releases", len(rels)).
		Int("added", result.Count(Added)).
		Bool("halted", result.Halted).
		Msg("Reconciled releases")
	return result
}

// step decides what happens to a single release. The entry is only read.
func (r *reconciler) step(ctx context.Context, entry *manifest.Entry, f floor, rel releases.Release) decision {
	out := Outcome{Release: rel.Tag, Version: NormalizeTag(rel.Tag)}

	if !f.admits(rel) {
		out.Status = SkippedTooOld
		return decision{outcome: out}
	}
	if entry.HasVersion(out.Version) {
		out.Status = SkippedDuplicate
		return decision{outcome: out}
	}

	asset, ok := rel.FindAsset(r.extension)
	if !ok {
		out.Status = MissingAsset
		out.Err = &errors.MissingAssetError{Plugin: entry.GUID, Tag: rel.Tag, Extension: r.extension}
		return decision{outcome: out, halt: true}
	}
	out.Asset = asset.Name

	data, err := r.downloader.Download(ctx, asset.DownloadURL)
	if err != nil {
		out.Status = DownloadError
		out.Err = errors.WrapResource("download", "artifact", asset.DownloadURL, err)
		return decision{outcome: out, halt: true}
	}

	checksum := r.checksummer.Sum(data)

	md, err := r.extractor.Extract(data)
	if err != nil {
		out.Status = MetadataError
		out.Err = metadataError(asset, err)
		return decision{outcome: out}
	}
	out.Version = md.Version

	// tag and metadata may disagree; the metadata version is the one stored
	if entry.HasVersion(md.Version) {
		out.Status = SkippedDuplicate
		return decision{outcome: out}
	}

	record := md.Record(asset.DownloadURL, checksum)
	out.Status = Added
	return decision{outcome: out, record: &record}
}

// metadataError attributes an extraction failure to the asset it came from.
func metadataError(asset releases.Asset, err error) error {
	var mdErr *errors.MetadataError
	if errors.As(err, &mdErr) {
		if mdErr.Source == "" {
			mdErr.Source = asset.DownloadURL
		}
		return mdErr
	}
	return &errors.MetadataError{Source: asset.DownloadURL, Err: err}
}

func logOutcome(logger *zerolog.Logger, o Outcome) {
	var event *zerolog.Event
	switch o.Status {
	case Added:
		event = logger.Info()
	case SkippedTooOld, SkippedDuplicate:
		event = logger.Debug()
	default:
		event = logger.Warn().Err(o.Err)
	}
	event.
		Str("release", o.Release).
		Str("version", o.Version).
		Str("status", string(o.Status)).
		Msg("Processed release")
}
