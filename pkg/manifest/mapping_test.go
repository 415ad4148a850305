package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/manifest"
)

func TestParseMappingJSONKeepsOrder(t *testing.T) {
	mapping, err := manifest.ParseMappingJSON([]byte(`{
		"zeta/plugin": "G3",
		"alpha/plugin": "G1",
		"mid/plugin": "G2"
	}`))
	require.NoError(t, err)

	assert.Equal(t, manifest.RepositoryMapping{
		{Repository: "zeta/plugin", GUID: "G3"},
		{Repository: "alpha/plugin", GUID: "G1"},
		{Repository: "mid/plugin", GUID: "G2"},
	}, mapping)
}

func TestParseMappingYAMLKeepsOrder(t *testing.T) {
	mapping, err := manifest.ParseMappingYAML([]byte("zeta/plugin: G3\nalpha/plugin: G1\n"))
	require.NoError(t, err)

	assert.Equal(t, manifest.RepositoryMapping{
		{Repository: "zeta/plugin", GUID: "G3"},
		{Repository: "alpha/plugin", GUID: "G1"},
	}, mapping)
}

func TestParseMappingErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"array", `["a/b"]`},
		{"numeric guid", `{"a/b": 1}`},
		{"empty guid", `{"a/b": ""}`},
		{"bad repository", `{"no-slash": "G1"}`},
		{"nested repository", `{"a/b/c": "G1"}`},
		{"duplicate repository", `{"a/b": "G1", "a/b": "G2"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manifest.ParseMappingJSON([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMappingByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "repos.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"o/r": "G1"}`), 0o644))
	yamlPath := filepath.Join(dir, "repos.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("o/r: G1\n"), 0o644))

	fromJSON, err := manifest.LoadMapping(jsonPath)
	require.NoError(t, err)
	fromYAML, err := manifest.LoadMapping(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
}

func TestMappingLookupAndOnly(t *testing.T) {
	mapping := manifest.RepositoryMapping{
		{Repository: "o/one", GUID: "G1"},
		{Repository: "o/two", GUID: "G2"},
	}

	guid, ok := mapping.Lookup("o/two")
	assert.True(t, ok)
	assert.Equal(t, "G2", guid)

	only, err := mapping.Only("o/one")
	require.NoError(t, err)
	assert.Equal(t, manifest.RepositoryMapping{{Repository: "o/one", GUID: "G1"}}, only)

	_, err = mapping.Only("o/three")
	assert.True(t, errors.IsConfigError(err))
	assert.True(t, errors.IsNotFound(err))
}

func TestCheckMapping(t *testing.T) {
	m, err := manifest.Parse([]byte(`[{"guid": "G1"}]`))
	require.NoError(t, err)

	assert.NoError(t, m.CheckMapping(manifest.RepositoryMapping{{Repository: "o/r", GUID: "G1"}}))

	err = m.CheckMapping(manifest.RepositoryMapping{
		{Repository: "o/r", GUID: "G1"},
		{Repository: "o/missing", GUID: "G9"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "o/missing")
}
