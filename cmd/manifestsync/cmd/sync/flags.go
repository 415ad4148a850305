package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/manifestsync"
	"github.com/agentstation/manifestsync/cmd/application"
	msync "github.com/agentstation/manifestsync/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	Repository       string
	Manifest         string
	Repos            string
	Output           string
	DryRun           bool
	Timeout          time.Duration
	PerPage          int
	MetadataFile     string
	Checksum         string
	ArchiveExtension string

	cmd *cobra.Command
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{cmd: cmd}
	f := cmd.Flags()
	f.StringVar(&flags.Manifest, "manifest", "", "manifest file (default manifest.json)")
	f.StringVar(&flags.Repos, "repos", "", "repository mapping file (default repos.json)")
	f.StringVar(&flags.Output, "output", "", "write the manifest here instead of overwriting --manifest")
	f.BoolVar(&flags.DryRun, "dry-run", false, "reconcile without writing the manifest")
	f.DurationVar(&flags.Timeout, "timeout", 0, "timeout of each network request, 0 disables (default 30s)")
	f.IntVar(&flags.PerPage, "per-page", 0, "releases listed per repository, 1-100 (default 100)")
	f.StringVar(&flags.MetadataFile, "metadata-file", "", "archive entry holding plugin metadata (default meta.json)")
	f.StringVar(&flags.Checksum, "checksum", "", "checksum algorithm: md5, sha256 (default md5)")
	f.StringVar(&flags.ArchiveExtension, "archive-extension", "", "suffix of the release asset to download (default .zip)")
	return flags
}

func (f *Flags) changed(name string) bool {
	return f.cmd != nil && f.cmd.Flags().Changed(name)
}

// ClientOptions returns the client options for explicitly set flags.
func (f *Flags) ClientOptions() []manifestsync.Option {
	var opts []manifestsync.Option
	if f.changed("timeout") {
		opts = append(opts, manifestsync.WithHTTPTimeout(f.Timeout))
	}
	if f.changed("per-page") {
		opts = append(opts, manifestsync.WithPerPage(f.PerPage))
	}
	if f.changed("metadata-file") {
		opts = append(opts, manifestsync.WithMetadataFile(f.MetadataFile))
	}
	if f.changed("checksum") {
		opts = append(opts, manifestsync.WithChecksum(f.Checksum))
	}
	if f.changed("archive-extension") {
		opts = append(opts, manifestsync.WithArchiveExtension(f.ArchiveExtension))
	}
	return opts
}

// SyncOptions builds the run options, falling back to the app configuration.
func (f *Flags) SyncOptions(app application.Application) []msync.Option {
	opts := []msync.Option{
		msync.WithManifestPath(firstNonEmpty(f.Manifest, app.ManifestPath())),
		msync.WithReposPath(firstNonEmpty(f.Repos, app.ReposPath())),
		msync.WithOutputPath(firstNonEmpty(f.Output, app.OutputPath())),
		msync.WithDryRun(f.DryRun),
	}
	if f.Repository != "" {
		opts = append(opts, msync.WithRepository(f.Repository))
	}
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
