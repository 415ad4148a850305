// Package application provides the application interface for manifestsync commands.
//
// Commands accept Application rather than the concrete App from
// cmd/manifestsync/app so they can be tested with the mock in
// internal/cmd/application.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/manifestsync"
)

// Application is the dependency surface shared by all commands.
type Application interface {
	// Client returns a manifestsync client built from the configuration.
	// Extra options are applied after the configured ones.
	Client(opts ...manifestsync.Option) (manifestsync.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Quiet reports whether human-readable progress output is suppressed.
	Quiet() bool

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// ManifestPath is the configured manifest file.
	ManifestPath() string

	// ReposPath is the configured repository mapping file.
	ReposPath() string

	// OutputPath is the configured destination for the written manifest.
	// Empty means the manifest is overwritten in place.
	OutputPath() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
