// Package releases defines the release feed consumed by a sync run and the
// Fetcher contract that produces it.
package releases

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// Fetcher lists the releases of a source repository.
//
// Implementations return releases in the order the remote source delivers
// them. Callers must not assume that order is chronological, only that the
// listing is complete. An unknown repository yields an error for which
// errors.IsNotFound reports true; transport failures yield *errors.APIError.
type Fetcher interface {
	ListReleases(ctx context.Context, repository string) ([]Release, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, repository string) ([]Release, error)

// ListReleases implements Fetcher.
func (f FetcherFunc) ListReleases(ctx context.Context, repository string) ([]Release, error) {
	return f(ctx, repository)
}

// Release is a tagged publication of a repository.
type Release struct {
	Tag       string    `json:"tag" yaml:"tag"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Assets    []Asset   `json:"assets" yaml:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name" yaml:"name"`
	DownloadURL string `json:"download_url" yaml:"download_url"`
}

// FindAsset returns the first asset whose name ends with extension.
func (r Release) FindAsset(extension string) (Asset, bool) {
	for _, a := range r.Assets {
		if strings.HasSuffix(a.Name, extension) {
			return a, true
		}
	}
	return Asset{}, false
}

// ParseRepository splits an "owner/name" repository identifier.
func ParseRepository(id string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(id, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") ||
		strings.ContainsAny(id, " \t\n?#") {
		return "", "", &errors.ValidationError{
			Field:   "repository",
			Value:   id,
			Message: "must have the form owner/name",
		}
	}
	return owner, name, nil
}
