// Package sync provides the sync command implementation.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/manifestsync/cmd/application"
)

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "sync [repository]",
		GroupID: "core",
		Short:   "Record new plugin releases in the manifest",
		Args:    cobra.MaximumNArgs(1),
		Long: `Sync reconciles the manifest with the releases of every repository in the
mapping file.

For each repository the command will:
• List its releases, newest first
• Skip releases created before the plugin's oldest known version
• Skip releases whose version is already recorded
• Download the archive asset and read its metadata entry
• Insert a version record with the archive URL and checksum

A release without an archive asset stops the repository; the other
repositories still run. The manifest is written once at the end, unless
--dry-run is set or the run is interrupted.`,
		Example: `  manifestsync sync                          # Sync every mapped repository
  manifestsync sync owner/plugin             # Sync one repository
  manifestsync sync --dry-run -o json        # Preview the changes as JSON
  manifestsync sync --output new.json        # Write to another file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Repository = args[0]
			}
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags = addFlags(cmd)

	return cmd
}
