package releases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/manifestsync/pkg/errors"
)

func TestFindAsset(t *testing.T) {
	r := Release{
		Tag: "v1.0.0",
		Assets: []Asset{
			{Name: "checksums.txt", DownloadURL: "https://example.com/checksums.txt"},
			{Name: "plugin_1.0.0.zip", DownloadURL: "https://example.com/first.zip"},
			{Name: "plugin-src.zip", DownloadURL: "https://example.com/second.zip"},
		},
	}

	asset, ok := r.FindAsset(".zip")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/first.zip", asset.DownloadURL, "first matching asset wins")

	_, ok = r.FindAsset(".tar.gz")
	assert.False(t, ok)

	_, ok = Release{Tag: "v2"}.FindAsset(".zip")
	assert.False(t, ok)
}

func TestParseRepository(t *testing.T) {
	owner, name, err := ParseRepository("jellyfin/jellyfin-plugin-trakt")
	require.NoError(t, err)
	assert.Equal(t, "jellyfin", owner)
	assert.Equal(t, "jellyfin-plugin-trakt", name)

	for _, bad := range []string{"", "owner", "/name", "owner/", "a/b/c", "a b/c", "a/b?x=1"} {
		t.Run(bad, func(t *testing.T) {
			_, _, err := ParseRepository(bad)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestFetcherFunc(t *testing.T) {
	var got string
	f := FetcherFunc(func(_ context.Context, repository string) ([]Release, error) {
		got = repository
		return []Release{{Tag: "v1"}}, nil
	})

	rels, err := f.ListReleases(context.Background(), "o/r")
	require.NoError(t, err)
	assert.Equal(t, "o/r", got)
	assert.Len(t, rels, 1)
}
