// Package constants provides shared constants used throughout the manifestsync codebase.
// This includes timeouts, file permissions, and the defaults of the release
// reconciliation pass that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for release listings and artifact downloads
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Release source constants
const (
	// GitHubAPIURL is the base URL of the public GitHub REST API
	GitHubAPIURL = "https://api.github.com"

	// GitHubAcceptHeader is the media type requested from the GitHub REST API
	GitHubAcceptHeader = "application/vnd.github+json"

	// DefaultPerPage is the number of releases requested in the single listing call
	DefaultPerPage = 100

	// MaxPerPage is the largest page size the GitHub API accepts
	MaxPerPage = 100

	// UserAgent identifies manifestsync to remote services
	UserAgent = "manifestsync"
)

// Reconciliation defaults
const (
	// DefaultArchiveExtension selects the release asset that carries the plugin
	DefaultArchiveExtension = ".zip"

	// DefaultMetadataFile is the archive entry holding the plugin metadata
	DefaultMetadataFile = "meta.json"

	// DefaultChecksumAlgorithm is the digest recorded for each artifact.
	// Downstream consumers verify it, so it must not change between regenerations.
	DefaultChecksumAlgorithm = "md5"

	// VersionPrefix is stripped from release tags before comparison
	VersionPrefix = "v"

	// MaxVersionPrefixes is how many leading prefixes a tag may carry (e.g. "vv1.0.0")
	MaxVersionPrefixes = 2
)

// File constants
const (
	// DefaultManifestPath is the manifest read and rewritten by a sync run
	DefaultManifestPath = "manifest.json"

	// DefaultReposPath is the repository to plugin guid mapping
	DefaultReposPath = "repos.json"

	// ManifestIndent is the indentation of the persisted manifest
	ManifestIndent = "    "

	// MaxArtifactSize caps how many bytes are read from a single artifact download (512 MiB)
	MaxArtifactSize = 512 << 20
)
