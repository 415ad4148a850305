package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/manifestsync/pkg/manifest"
)

// Status classifies what happened to one release.
type Status string

// Release outcomes.
const (
	Added            Status = "added"
	SkippedTooOld    Status = "skipped-too-old"
	SkippedDuplicate Status = "skipped-duplicate"
	MissingAsset     Status = "missing-asset"
	MetadataError    Status = "metadata-error"
	DownloadError    Status = "download-error"
)

// Statuses lists every outcome status in report order.
var Statuses = []Status{Added, SkippedTooOld, SkippedDuplicate, MissingAsset, MetadataError, DownloadError}

// Outcome records the handling of one release.
type Outcome struct {
	Release string // tag as published
	Version string // normalized tag, or the metadata version once known
	Status  Status
	Asset   string            // selected asset name, if any
	Record  *manifest.Version // the record inserted, for Added
	Err     error
}

// Result represents the outcome of reconciling one plugin.
type Result struct {
	GUID     string
	Outcomes []Outcome

	// Halted is set when processing stopped before the last release.
	Halted bool
	// Err is the error that halted processing.
	Err error

	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewResult creates a new result with defaults.
func NewResult(guid string) *Result {
	return &Result{
		GUID:     guid,
		Outcomes: []Outcome{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// Count returns the number of releases with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Records returns the inserted records in the order they were inserted.
func (r *Result) Records() []manifest.Version {
	var records []manifest.Version
	for _, o := range r.Outcomes {
		if o.Record != nil {
			records = append(records, *o.Record)
		}
	}
	return records
}

// HasChanges returns true if any record was inserted.
func (r *Result) HasChanges() bool {
	return r.Count(Added) > 0
}

// IsSuccess returns true if every release was processed.
func (r *Result) IsSuccess() bool {
	return !r.Halted
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	var parts []string
	for _, s := range Statuses {
		if n := r.Count(s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no releases")
	}
	summary := strings.Join(parts, ", ")
	if r.Halted {
		summary += fmt.Sprintf(" (halted: %v)", r.Err)
	}
	return summary
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// apply records a decision; it returns false when processing must stop.
func (r *Result) apply(entry *manifest.Entry, d decision) bool {
	if d.record != nil {
		entry.Prepend(*d.record)
		d.outcome.Record = d.record
	}
	r.Outcomes = append(r.Outcomes, d.outcome)
	if d.halt {
		r.Halted = true
		r.Err = d.outcome.Err
		return false
	}
	return true
}
