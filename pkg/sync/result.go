package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/manifestsync/pkg/reconciler"
)

// Result represents the complete result of a sync operation.
type Result struct {
	RunID        string
	DryRun       bool   // Whether this was a dry run
	Written      bool   // Whether the manifest was written
	OutputPath   string // Where the manifest was (or would have been) written
	Repositories []*RepositoryResult

	StartTime time.Time
	Duration  time.Duration
}

// RepositoryResult represents the result for a single repository.
type RepositoryResult struct {
	Repository string
	GUID       string
	Releases   int                // releases listed by the source
	Reconcile  *reconciler.Result // nil when the listing failed
	Err        error              // listing failure or the error that halted reconciliation
}

// NewResult creates an empty result for a run.
func NewResult(runID string, dryRun bool) *Result {
	return &Result{
		RunID:        runID,
		DryRun:       dryRun,
		Repositories: []*RepositoryResult{},
		StartTime:    time.Now(),
	}
}

// Add appends a repository result.
func (sr *Result) Add(rr *RepositoryResult) {
	sr.Repositories = append(sr.Repositories, rr)
}

// Finalize records the duration of the run.
func (sr *Result) Finalize() {
	sr.Duration = time.Since(sr.StartTime)
}

// Count returns the number of releases with status across all repositories.
func (sr *Result) Count(status reconciler.Status) int {
	n := 0
	for _, rr := range sr.Repositories {
		n += rr.Count(status)
	}
	return n
}

// Added returns the number of records inserted.
func (sr *Result) Added() int {
	return sr.Count(reconciler.Added)
}

// HasChanges returns true if any record was inserted.
func (sr *Result) HasChanges() bool {
	return sr.Added() > 0
}

// Failed returns the repositories that reported an error, in run order.
func (sr *Result) Failed() []string {
	var failed []string
	for _, rr := range sr.Repositories {
		if rr.Failed() {
			failed = append(failed, rr.Repository)
		}
	}
	return failed
}

// Summary returns a human-readable summary of the sync result.
func (sr *Result) Summary() string {
	var parts []string
	if sr.DryRun {
		parts = append(parts, "(Dry run)")
	}

	summary := fmt.Sprintf("%d versions added across %d repositories", sr.Added(), len(sr.Repositories))
	if !sr.HasChanges() {
		summary = "No changes detected"
	}
	if failed := sr.Failed(); len(failed) > 0 {
		summary += fmt.Sprintf(", %d failed", len(failed))
	}
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}

	return summary
}

// Count returns the number of releases with status.
func (rr *RepositoryResult) Count(status reconciler.Status) int {
	if rr.Reconcile == nil {
		return 0
	}
	return rr.Reconcile.Count(status)
}

// Failed reports whether the repository ended with an error.
func (rr *RepositoryResult) Failed() bool {
	return rr.Err != nil
}

// Summary returns a human-readable summary of the repository result.
func (rr *RepositoryResult) Summary() string {
	if rr.Reconcile == nil {
		return fmt.Sprintf("%s: %v", rr.Repository, rr.Err)
	}
	return fmt.Sprintf("%s: %s", rr.Repository, rr.Reconcile.Summary())
}
