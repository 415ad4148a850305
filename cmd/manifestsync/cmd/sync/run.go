package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/manifestsync/cmd/application"
	"github.com/agentstation/manifestsync/internal/cmd/output"
)

// Execute performs the sync run and prints its results. The result is
// printed even when the run reports repository failures.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) error {
	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
	if err != nil {
		return err
	}

	client, err := app.Client(flags.ClientOptions()...)
	if err != nil {
		return err
	}

	human := format.IsTable() && !app.Quiet()
	if human {
		fmt.Fprintf(stderr, "\nStarting sync...\n\n")
	}

	result, syncErr := client.Sync(ctx, flags.SyncOptions(app)...)
	if result == nil {
		return syncErr
	}

	if err := output.FormatSync(stdout, format, result); err != nil {
		return err
	}
	if human {
		printSummary(stderr, result)
	}

	return syncErr
}
