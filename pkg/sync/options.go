// Package sync provides options and results for a manifest sync run.
package sync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// Options controls the overall sync orchestration in Client.Sync().
type Options struct {
	// Orchestration control
	DryRun     bool   // Reconcile and report without writing the manifest
	Repository string // Restrict the run to one repository of the mapping

	// Files
	ManifestPath string // Manifest read at the start of the run
	ReposPath    string // Repository to guid mapping
	OutputPath   string // Where to write the manifest (empty means ManifestPath)
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:       false,
		Repository:   "",
		ManifestPath: constants.DefaultManifestPath,
		ReposPath:    constants.DefaultReposPath,
		OutputPath:   "",
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Destination returns the path the manifest is written to.
func (s *Options) Destination() string {
	if s.OutputPath != "" {
		return s.OutputPath
	}
	return s.ManifestPath
}

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.ManifestPath == "" {
		return &errors.ValidationError{
			Field:   "ManifestPath",
			Message: "manifest path is required",
		}
	}
	if s.ReposPath == "" {
		return &errors.ValidationError{
			Field:   "ReposPath",
			Message: "repository mapping path is required",
		}
	}

	if s.Repository != "" {
		if _, _, err := releases.ParseRepository(s.Repository); err != nil {
			return err
		}
	}

	// Validate output path if specified
	if s.OutputPath != "" {
		dir := filepath.Dir(s.OutputPath)
		if dir != "." && dir != "/" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return &errors.ValidationError{
					Field:   "OutputPath",
					Value:   s.OutputPath,
					Message: fmt.Sprintf("output directory '%s' does not exist", dir),
				}
			}
		}
	}

	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithRepository configures syncing for a specific repository only.
func WithRepository(repository string) Option {
	return func(opts *Options) {
		opts.Repository = repository
	}
}

// WithManifestPath configures the manifest to reconcile.
func WithManifestPath(path string) Option {
	return func(opts *Options) {
		if path != "" {
			opts.ManifestPath = path
		}
	}
}

// WithReposPath configures the repository mapping file.
func WithReposPath(path string) Option {
	return func(opts *Options) {
		if path != "" {
			opts.ReposPath = path
		}
	}
}

// WithOutputPath configures the output path for saving.
func WithOutputPath(path string) Option {
	return func(opts *Options) {
		opts.OutputPath = path
	}
}
