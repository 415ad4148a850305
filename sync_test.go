package manifestsync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/manifestsync/internal/artifact"
	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/logging"
	"github.com/agentstation/manifestsync/pkg/reconciler"
	"github.com/agentstation/manifestsync/pkg/releases"
	"github.com/agentstation/manifestsync/pkg/sync"
)

const initialManifest = `[
    {
        "guid": "P1",
        "name": "Plugin",
        "versions": [
            {
                "version": "1.0.0",
                "timestamp": 100
            }
        ]
    },
    {
        "guid": "P2",
        "name": "Other",
        "versions": []
    }
]
`

type downloaderFunc func(ctx context.Context, url string) ([]byte, error)

func (f downloaderFunc) Download(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// fixture is a workspace with a manifest, a mapping and fake remote data.
type fixture struct {
	dir       string
	manifest  string
	repos     string
	feeds     map[string][]releases.Release
	feedErrs  map[string]error
	artifacts map[string][]byte
	listed    []string
}

func newFixture(t *testing.T, mapping string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:       dir,
		manifest:  filepath.Join(dir, "manifest.json"),
		repos:     filepath.Join(dir, "repos.json"),
		feeds:     make(map[string][]releases.Release),
		feedErrs:  make(map[string]error),
		artifacts: make(map[string][]byte),
	}
	require.NoError(t, os.WriteFile(f.manifest, []byte(initialManifest), 0o644))
	require.NoError(t, os.WriteFile(f.repos, []byte(mapping), 0o644))
	return f
}

// publish adds a release whose zip asset carries the given metadata.
func (f *fixture) publish(t *testing.T, repo, tag string, created int64, meta string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("meta.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(meta))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	name := fmt.Sprintf("plugin-%s.zip", tag)
	url := "https://dl.example.com/" + repo + "/" + name
	f.artifacts[url] = buf.Bytes()
	f.feeds[repo] = append(f.feeds[repo], releases.Release{
		Tag:       tag,
		CreatedAt: time.Unix(created, 0).UTC(),
		Assets:    []releases.Asset{{Name: name, DownloadURL: url}},
	})
	return url
}

func (f *fixture) client(t *testing.T, opts ...Option) Client {
	t.Helper()
	fetcher := releases.FetcherFunc(func(_ context.Context, repo string) ([]releases.Release, error) {
		f.listed = append(f.listed, repo)
		if err := f.feedErrs[repo]; err != nil {
			return nil, err
		}
		return f.feeds[repo], nil
	})
	downloader := downloaderFunc(func(_ context.Context, url string) ([]byte, error) {
		data, ok := f.artifacts[url]
		if !ok {
			return nil, errors.NewNotFoundError("asset", url)
		}
		return data, nil
	})
	c, err := New(append([]Option{WithFetcher(fetcher), WithDownloader(downloader)}, opts...)...)
	require.NoError(t, err)
	return c
}

func (f *fixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.manifest)
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) options(opts ...sync.Option) []sync.Option {
	return append([]sync.Option{sync.WithManifestPath(f.manifest), sync.WithReposPath(f.repos)}, opts...)
}

func TestSyncAddsNewReleases(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	f.feeds["o/plugin"] = []releases.Release{{Tag: "v1.0.0", CreatedAt: time.Unix(100, 0)}}
	url := f.publish(t, "o/plugin", "v1.1.0", 200,
		`{"version": "1.1.0", "timestamp": 200, "changelog": "fix", "targetAbi": "4.0"}`)

	result, err := f.client(t).Sync(context.Background(), f.options()...)
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Added())
	assert.Equal(t, 1, result.Count(reconciler.SkippedDuplicate))

	want := fmt.Sprintf(`[
    {
        "guid": "P1",
        "name": "Plugin",
        "versions": [
            {
                "version": "1.1.0",
                "changelog": "fix",
                "targetAbi": "4.0",
                "sourceUrl": "%s",
                "checksum": "%s",
                "timestamp": 200
            },
            {
                "version": "1.0.0",
                "timestamp": 100
            }
        ]
    },
    {
        "guid": "P2",
        "name": "Other",
        "versions": []
    }
]
`, url, artifact.MD5.Sum(f.artifacts[url]))
	assert.Equal(t, want, f.read(t))
}

func TestSyncIsIdempotent(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1", "o/other": "P2"}`)
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)
	f.publish(t, "o/other", "v0.1.0", 10, `{"version": "0.1.0", "timestamp": "2020-01-01T00:00:00.0000000Z", "changelog": "<b>first</b>"}`)

	c := f.client(t)
	_, err := c.Sync(context.Background(), f.options()...)
	require.NoError(t, err)
	once := f.read(t)

	result, err := c.Sync(context.Background(), f.options()...)
	require.NoError(t, err)
	assert.False(t, result.HasChanges())
	assert.Equal(t, once, f.read(t))
	assert.Contains(t, once, `"changelog": "<b>first</b>"`)
}

func TestSyncUnknownGUIDFailsBeforeFetching(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1", "o/ghost": "P9"}`)

	_, err := f.client(t).Sync(context.Background(), f.options()...)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Empty(t, f.listed)
	assert.Equal(t, initialManifest, f.read(t))
}

func TestSyncContinuesAfterRepositoryFailure(t *testing.T) {
	f := newFixture(t, `{"o/gone": "P2", "o/plugin": "P1"}`)
	f.feedErrs["o/gone"] = errors.NewNotFoundError("repository", "o/gone")
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)

	result, err := f.client(t).Sync(context.Background(), f.options()...)
	require.Error(t, err)

	var syncErr *errors.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, []string{"o/gone"}, syncErr.Repositories)
	assert.True(t, errors.IsNotFound(err))

	assert.Equal(t, []string{"o/gone", "o/plugin"}, f.listed, "mapping order is kept")
	assert.True(t, result.Written)
	assert.Contains(t, f.read(t), `"version": "1.1.0"`)
}

func TestSyncMissingAssetNamesRepository(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	f.feeds["o/plugin"] = []releases.Release{{Tag: "v2.0.0", CreatedAt: time.Unix(300, 0)}}

	result, err := f.client(t).Sync(context.Background(), f.options()...)
	require.Error(t, err)
	assert.True(t, errors.IsMissingAsset(err))
	assert.Contains(t, err.Error(), "o/plugin: release v2.0.0 has no .zip asset")
	assert.Equal(t, []string{"o/plugin"}, result.Failed())
}

func TestSyncDryRunWritesNothing(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)

	result, err := f.client(t).Sync(context.Background(), f.options(sync.WithDryRun(true))...)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.False(t, result.Written)
	assert.Equal(t, 1, result.Added())
	assert.Equal(t, initialManifest, f.read(t))
}

func TestSyncSingleRepository(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1", "o/other": "P2"}`)
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)

	_, err := f.client(t).Sync(context.Background(), f.options(sync.WithRepository("o/plugin"))...)
	require.NoError(t, err)
	assert.Equal(t, []string{"o/plugin"}, f.listed)

	_, err = f.client(t).Sync(context.Background(), f.options(sync.WithRepository("o/unknown"))...)
	assert.True(t, errors.IsConfigError(err))
}

func TestSyncOutputPath(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)
	out := filepath.Join(f.dir, "out.json")

	result, err := f.client(t).Sync(context.Background(), f.options(sync.WithOutputPath(out))...)
	require.NoError(t, err)
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, initialManifest, f.read(t))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.1.0"`)
}

func TestSyncCanceledWritesNothing(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	f.publish(t, "o/plugin", "v1.1.0", 200, `{"version": "1.1.0", "timestamp": 200}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client(t).Sync(ctx, f.options()...)
	assert.True(t, errors.IsCanceled(err))
	assert.Equal(t, initialManifest, f.read(t))
}

func TestSyncLogsRunID(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	tl := logging.NewTestLogger(t)

	result, err := f.client(t).Sync(logging.WithLogger(context.Background(), tl.Logger), f.options()...)
	require.NoError(t, err)
	tl.AssertContains(t, result.RunID)
	tl.AssertContains(t, "Sync completed")
}

func TestValidate(t *testing.T) {
	f := newFixture(t, `{"o/plugin": "P1"}`)
	c := f.client(t)
	assert.NoError(t, c.Validate(context.Background(), f.options()...))

	require.NoError(t, os.WriteFile(f.repos, []byte(`{"o/plugin": "P7"}`), 0o644))
	assert.True(t, errors.IsConfigError(c.Validate(context.Background(), f.options()...)))
	assert.Empty(t, f.listed)
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithChecksum("crc32"))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithPerPage(500))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithFetcher(nil))
	assert.True(t, errors.IsValidationError(err))

	c, err := New(WithArchiveExtension(".tar.gz"), WithChecksum("sha256"), WithHTTPTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, ".tar.gz", c.ArchiveExtension())
}
