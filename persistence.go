package manifestsync

import (
	"context"

	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
	"github.com/agentstation/manifestsync/pkg/manifest"
	"github.com/agentstation/manifestsync/pkg/sync"
)

// Validate checks the mapping and the manifest without contacting any
// release source: guids and versions must be unique and every mapped guid
// must exist in the manifest.
func (c *client) Validate(ctx context.Context, opts ...sync.Option) error {
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return err
	}
	if _, _, err := c.load(options); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Str("manifest", options.ManifestPath).
		Str("repos", options.ReposPath).
		Msg("Manifest and mapping are valid")
	return nil
}

// persist writes the whole manifest to path.
func (c *client) persist(ctx context.Context, m *manifest.Manifest, path string) error {
	if err := m.Save(path); err != nil {
		return errors.WrapResource("save", "manifest", path, err)
	}
	logging.FromContext(ctx).Info().Str("path", path).Msg("Manifest written")
	return nil
}
