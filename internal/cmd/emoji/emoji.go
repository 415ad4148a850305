// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by all commands.
const (
	// Success marks a repository that reconciled cleanly or a valid input.
	Success = "✓"

	// Error marks a repository whose release listing failed.
	Error = "✗"

	// Stop marks a repository whose reconciliation halted part way.
	Stop = "■"

	// Warning marks a non-fatal problem such as a dry run or skipped write.
	Warning = "!"

	// Added marks a newly inserted version.
	Added = "+"

	// Optional marks a missing value, such as a release without an archive.
	Optional = "-"

	// Info marks informational lines.
	Info = "i"
)
