// Package app provides the application context and dependency management
// for the manifestsync CLI: configuration, logging and the sync client.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/manifestsync"
	"github.com/agentstation/manifestsync/cmd/application"
	"github.com/agentstation/manifestsync/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App represents the manifestsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// extra client options, applied before per-command ones
	clientOpts []manifestsync.Option

	// default client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client manifestsync.Client
}

// New creates a new App instance with the given version information.
// The configuration is loaded from the environment and the default config
// file locations; --config is honored once flags are parsed.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Quiet reports whether progress output is suppressed.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// ManifestPath returns the configured manifest file.
func (a *App) ManifestPath() string {
	return a.config.ManifestPath
}

// ReposPath returns the configured repository mapping file.
func (a *App) ReposPath() string {
	return a.config.ReposPath
}

// OutputPath returns the configured output file.
func (a *App) OutputPath() string {
	return a.config.OutputPath
}

// Client returns a sync client built from the configuration. Without
// options the same client is returned on every call.
func (a *App) Client(opts ...manifestsync.Option) (manifestsync.Client, error) {
	if len(opts) > 0 {
		return a.newClient(opts...)
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := a.newClient()
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *App) newClient(opts ...manifestsync.Option) (manifestsync.Client, error) {
	all := append(a.configClientOptions(), a.clientOpts...)
	c, err := manifestsync.New(append(all, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	return c, nil
}

// configClientOptions constructs client options from the app configuration.
func (a *App) configClientOptions() []manifestsync.Option {
	opts := []manifestsync.Option{
		manifestsync.WithGitHubAPIURL(a.config.GitHubAPIURL),
		manifestsync.WithHTTPTimeout(a.config.Timeout),
		manifestsync.WithArchiveExtension(a.config.ArchiveExtension),
		manifestsync.WithMetadataFile(a.config.MetadataFile),
		manifestsync.WithChecksum(a.config.Checksum),
	}
	if a.config.GitHubToken != "" {
		opts = append(opts, manifestsync.WithGitHubToken(a.config.GitHubToken))
	}
	if a.config.PerPage != 0 {
		opts = append(opts, manifestsync.WithPerPage(a.config.PerPage))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientOptions adds options to every client the app builds
// (useful for testing with fake release sources).
func WithClientOptions(opts ...manifestsync.Option) Option {
	return func(a *App) error {
		a.clientOpts = append(a.clientOpts, opts...)
		return nil
	}
}
