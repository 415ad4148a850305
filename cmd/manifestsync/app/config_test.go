package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
)

// isolate runs the test in an empty directory with no config in $HOME.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	for _, key := range []string{"GITHUB_TOKEN", "LOG_LEVEL", "NO_COLOR", "MANIFESTSYNC_MANIFEST", "MANIFESTSYNC_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

// TestLoadConfig verifies the defaults.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultManifestPath, config.ManifestPath)
	assert.Equal(t, constants.DefaultReposPath, config.ReposPath)
	assert.Empty(t, config.OutputPath)
	assert.Equal(t, constants.GitHubAPIURL, config.GitHubAPIURL)
	assert.Equal(t, constants.DefaultHTTPTimeout, config.Timeout)
	assert.Equal(t, constants.DefaultPerPage, config.PerPage)
	assert.Equal(t, ".zip", config.ArchiveExtension)
	assert.Equal(t, "meta.json", config.MetadataFile)
	assert.Equal(t, "md5", config.Checksum)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.LogLevel)
	assert.Empty(t, config.ConfigFile)
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("MANIFESTSYNC_MANIFEST", "plugins.json")
	t.Setenv("MANIFESTSYNC_TIMEOUT", "5s")
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "plugins.json", config.ManifestPath)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, "secret", config.GitHubToken)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GITHUB_TOKEN") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.GitHubToken)
}

func TestConfig_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest: m.json
repos: r.yaml
checksum: sha256
per_page: 30
timeout: 1m
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "m.json", config.ManifestPath)
	assert.Equal(t, "r.yaml", config.ReposPath)
	assert.Equal(t, "sha256", config.Checksum)
	assert.Equal(t, 30, config.PerPage)
	assert.Equal(t, time.Minute, config.Timeout)
	assert.Equal(t, path, config.ConfigFile)
}

func TestConfig_DefaultFileLocation(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".manifestsync.yaml"), []byte("output: out.json\n"), 0o600))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "out.json", config.OutputPath)
}

func TestConfig_FileErrors(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsConfigError(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".manifestsync.yaml"), []byte("manifest: [unclosed\n"), 0o600))
	_, err = LoadConfig("")
	assert.True(t, errors.IsConfigError(err))
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	flags.Bool("quiet", false, "")
	flags.Bool("no-color", false, "")
	flags.String("format", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--format", "yaml", "--no-color"}))

	config := &Config{Format: "json", LogLevel: "debug", Verbose: true}
	config.UpdateFromFlags(flags)

	assert.Equal(t, "yaml", config.Format)
	assert.True(t, config.NoColor)
	assert.Equal(t, "debug", config.LogLevel, "unset flags keep loaded values")
	assert.True(t, config.Verbose)
}
