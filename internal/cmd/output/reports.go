package output

import (
	"io"
	"strconv"
	"time"

	"github.com/agentstation/manifestsync/internal/cmd/emoji"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	"github.com/agentstation/manifestsync/pkg/releases"
	"github.com/agentstation/manifestsync/pkg/sync"
)

// SyncReport is the machine-readable form of a sync result.
type SyncReport struct {
	RunID        string             `json:"run_id" yaml:"run_id"`
	DryRun       bool               `json:"dry_run" yaml:"dry_run"`
	Written      bool               `json:"written" yaml:"written"`
	OutputPath   string             `json:"output_path" yaml:"output_path"`
	Added        int                `json:"added" yaml:"added"`
	Failed       []string           `json:"failed,omitempty" yaml:"failed,omitempty"`
	Duration     string             `json:"duration" yaml:"duration"`
	Repositories []RepositoryReport `json:"repositories" yaml:"repositories"`
}

// RepositoryReport describes one repository of a sync run.
type RepositoryReport struct {
	Repository string          `json:"repository" yaml:"repository"`
	GUID       string          `json:"guid" yaml:"guid"`
	Releases   int             `json:"releases" yaml:"releases"`
	Halted     bool            `json:"halted" yaml:"halted"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	Outcomes   []OutcomeReport `json:"outcomes" yaml:"outcomes"`
}

// OutcomeReport describes the handling of one release.
type OutcomeReport struct {
	Release string `json:"release" yaml:"release"`
	Version string `json:"version" yaml:"version"`
	Status  string `json:"status" yaml:"status"`
	Asset   string `json:"asset,omitempty" yaml:"asset,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSyncReport converts a sync result.
func NewSyncReport(result *sync.Result) SyncReport {
	report := SyncReport{
		RunID:        result.RunID,
		DryRun:       result.DryRun,
		Written:      result.Written,
		OutputPath:   result.OutputPath,
		Added:        result.Added(),
		Failed:       result.Failed(),
		Duration:     result.Duration.Round(time.Millisecond).String(),
		Repositories: make([]RepositoryReport, 0, len(result.Repositories)),
	}
	for _, rr := range result.Repositories {
		repo := RepositoryReport{
			Repository: rr.Repository,
			GUID:       rr.GUID,
			Releases:   rr.Releases,
			Outcomes:   []OutcomeReport{},
		}
		if rr.Err != nil {
			repo.Error = rr.Err.Error()
		}
		if rr.Reconcile != nil {
			repo.Halted = rr.Reconcile.Halted
			for _, o := range rr.Reconcile.Outcomes {
				or := OutcomeReport{
					Release: o.Release,
					Version: o.Version,
					Status:  string(o.Status),
					Asset:   o.Asset,
				}
				if o.Err != nil {
					or.Error = o.Err.Error()
				}
				repo.Outcomes = append(repo.Outcomes, or)
			}
		}
		report.Repositories = append(report.Repositories, repo)
	}
	return report
}

// SyncTable builds the per-repository table of a sync result. The wide form
// adds a column per outcome status.
func SyncTable(result *sync.Result, wide bool) Data {
	headers := []string{"Repository", "GUID", "Releases", "Added", "Status"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft}
	if wide {
		headers = headers[:len(headers)-1]
		align = align[:len(align)-1]
		for _, s := range reconciler.Statuses[1:] {
			headers = append(headers, string(s))
			align = append(align, AlignRight)
		}
		headers = append(headers, "Status")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, 0, len(result.Repositories))
	for _, rr := range result.Repositories {
		row := []string{
			rr.Repository,
			rr.GUID,
			strconv.Itoa(rr.Releases),
			strconv.Itoa(rr.Count(reconciler.Added)),
		}
		if wide {
			for _, s := range reconciler.Statuses[1:] {
				row = append(row, strconv.Itoa(rr.Count(s)))
			}
		}
		rows = append(rows, append(row, repositoryStatus(rr)))
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

func repositoryStatus(rr *sync.RepositoryResult) string {
	switch {
	case rr.Reconcile == nil && rr.Err != nil:
		return emoji.Error + " " + rr.Err.Error()
	case rr.Err != nil:
		return emoji.Stop + " halted: " + rr.Err.Error()
	default:
		return emoji.Success + " ok"
	}
}

// ReleaseReport describes a release as a sync run would see it.
type ReleaseReport struct {
	Tag       string    `json:"tag" yaml:"tag"`
	Version   string    `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Asset     string    `json:"asset,omitempty" yaml:"asset,omitempty"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
}

// NewReleaseReports converts rels, picking each release's asset by extension.
func NewReleaseReports(rels []releases.Release, extension string) []ReleaseReport {
	reports := make([]ReleaseReport, 0, len(rels))
	for _, rel := range rels {
		r := ReleaseReport{
			Tag:       rel.Tag,
			Version:   reconciler.NormalizeTag(rel.Tag),
			CreatedAt: rel.CreatedAt,
		}
		if asset, ok := rel.FindAsset(extension); ok {
			r.Asset = asset.Name
			r.URL = asset.DownloadURL
		}
		reports = append(reports, r)
	}
	return reports
}

// ReleasesTable builds the table of a release listing. The wide form adds
// the asset download URL.
func ReleasesTable(reports []ReleaseReport, wide bool) Data {
	headers := []string{"Tag", "Version", "Created", "Asset"}
	if wide {
		headers = append(headers, "URL")
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		asset := r.Asset
		if asset == "" {
			asset = emoji.Optional
		}
		row := []string{r.Tag, r.Version, r.CreatedAt.UTC().Format(time.RFC3339), asset}
		if wide {
			row = append(row, r.URL)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// FormatSync writes result in format.
func FormatSync(w io.Writer, format Format, result *sync.Result) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, SyncTable(result, format == FormatWide))
	}
	return NewFormatter(format).Format(w, NewSyncReport(result))
}

// FormatReleases writes a release listing in format.
func FormatReleases(w io.Writer, format Format, rels []releases.Release, extension string) error {
	reports := NewReleaseReports(rels, extension)
	if format.IsTable() {
		return NewFormatter(format).Format(w, ReleasesTable(reports, format == FormatWide))
	}
	return NewFormatter(format).Format(w, reports)
}
