package sync

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/agentstation/manifestsync/internal/cmd/emoji"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	msync "github.com/agentstation/manifestsync/pkg/sync"
)

var (
	added   = color.New(color.FgGreen)
	failed  = color.New(color.FgRed)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

// printSummary lists the inserted versions and the overall outcome.
func printSummary(w io.Writer, result *msync.Result) {
	fmt.Fprintln(w)
	for _, rr := range result.Repositories {
		if rr.Reconcile == nil {
			continue
		}
		for _, o := range rr.Reconcile.Outcomes {
			if o.Status == reconciler.Added {
				added.Fprintf(w, "%s %s %s", emoji.Added, rr.Repository, o.Version)
				faint.Fprintf(w, " (%s)\n", o.Release)
			}
		}
	}

	for _, rr := range result.Repositories {
		if rr.Err != nil {
			failed.Fprintf(w, "%s %s\n", emoji.Error, rr.Summary())
		}
	}

	switch {
	case result.DryRun:
		warning.Fprintf(w, "%s Dry run - manifest not written\n", emoji.Warning)
	case result.Written:
		fmt.Fprintf(w, "%s Manifest written to %s\n", emoji.Success, result.OutputPath)
	}
	fmt.Fprintf(w, "%s %s\n", emoji.Info, result.Summary())
}
