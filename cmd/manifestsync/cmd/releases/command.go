// Package releases provides the releases command implementation.
package releases

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/manifestsync"
	"github.com/agentstation/manifestsync/cmd/application"
	"github.com/agentstation/manifestsync/internal/cmd/output"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// NewCommand creates the releases command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var extension string

	cmd := &cobra.Command{
		Use:     "releases <owner/name>",
		GroupID: "core",
		Short:   "List a repository's releases as sync sees them",
		Long: `Releases lists the releases of a repository, newest first, with the
version sync derives from each tag and the archive asset it would download.
A release without an asset cannot be synced and stops the repository.`,
		Example: `  manifestsync releases owner/plugin
  manifestsync releases owner/plugin -o wide
  manifestsync releases owner/plugin --archive-extension .tar.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}
			if _, _, err := releases.ParseRepository(args[0]); err != nil {
				return err
			}

			var opts []manifestsync.Option
			if cmd.Flags().Changed("archive-extension") {
				opts = append(opts, manifestsync.WithArchiveExtension(extension))
			}
			client, err := app.Client(opts...)
			if err != nil {
				return err
			}

			rels, err := client.Releases(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format.IsTable() && len(rels) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No releases found for %s\n", args[0])
				return nil
			}
			return output.FormatReleases(cmd.OutOrStdout(), format, rels, client.ArchiveExtension())
		},
	}

	cmd.Flags().StringVar(&extension, "archive-extension", "", "suffix of the release asset to pick (default .zip)")

	return cmd
}
