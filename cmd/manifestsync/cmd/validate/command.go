// Package validate provides the validate command implementation.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/manifestsync/cmd/application"
	"github.com/agentstation/manifestsync/internal/cmd/emoji"
	"github.com/agentstation/manifestsync/pkg/sync"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var manifestPath, reposPath string

	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Check the manifest and repository mapping",
		Long: `Validate checks the manifest and the repository mapping without contacting
any release source:
  - plugin guids are unique
  - versions are unique within each plugin
  - every guid in the mapping exists in the manifest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			manifest := firstNonEmpty(manifestPath, app.ManifestPath())
			repos := firstNonEmpty(reposPath, app.ReposPath())
			if err := client.Validate(cmd.Context(),
				sync.WithManifestPath(manifest),
				sync.WithReposPath(repos),
			); err != nil {
				return err
			}

			if !app.Quiet() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s and %s are valid\n", emoji.Success, manifest, repos)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file (default manifest.json)")
	cmd.Flags().StringVar(&reposPath, "repos", "", "repository mapping file (default repos.json)")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
