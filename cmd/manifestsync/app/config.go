package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into the configuration.
const EnvPrefix = "MANIFESTSYNC"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Files
	ManifestPath string
	ReposPath    string
	OutputPath   string

	// Release source
	GitHubAPIURL string
	GitHubToken  string
	Timeout      time.Duration
	PerPage      int

	// Artifacts
	ArchiveExtension string
	MetadataFile     string
	Checksum         string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (MANIFESTSYNC_*, GITHUB_TOKEN, LOG_*)
//  3. .env files
//  4. Config file (configFile, or .manifestsync.yaml in $HOME or the working directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, errors.NewConfigError("env", err.Error(), err)
	}

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ManifestPath: v.GetString("manifest"),
		ReposPath:    v.GetString("repos"),
		OutputPath:   v.GetString("output"),

		GitHubAPIURL: v.GetString("github_api_url"),
		GitHubToken:  v.GetString("github_token"),
		Timeout:      v.GetDuration("timeout"),
		PerPage:      v.GetInt("per_page"),

		ArchiveExtension: v.GetString("archive_extension"),
		MetadataFile:     v.GetString("metadata_file"),
		Checksum:         v.GetString("checksum"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest", constants.DefaultManifestPath)
	v.SetDefault("repos", constants.DefaultReposPath)
	v.SetDefault("github_api_url", constants.GitHubAPIURL)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("per_page", constants.DefaultPerPage)
	v.SetDefault("archive_extension", constants.DefaultArchiveExtension)
	v.SetDefault("metadata_file", constants.DefaultMetadataFile)
	v.SetDefault("checksum", constants.DefaultChecksumAlgorithm)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// bindEnv binds the keys that also answer to unprefixed variables.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"github_token": {EnvPrefix + "_GITHUB_TOKEN", "GITHUB_TOKEN"},
		"log_level":    {EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
		"log_format":   {EnvPrefix + "_LOG_FORMAT", "LOG_FORMAT"},
		"log_output":   {EnvPrefix + "_LOG_OUTPUT", "LOG_OUTPUT"},
		"no_color":     {EnvPrefix + "_NO_COLOR", "NO_COLOR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// readConfigFile reads an explicit config file, or searches the standard
// locations. A missing file is only an error when it was named explicitly.
func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config", "cannot read "+configFile+": "+err.Error(), err)
		}
		return nil
	}

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetConfigType("yaml")
	v.SetConfigName(".manifestsync")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewConfigError("config", "cannot parse "+v.ConfigFileUsed()+": "+err.Error(), err)
	}
	return nil
}

// UpdateFromFlags copies explicitly set flags over the loaded values so
// flags take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(flags *pflag.FlagSet) {
	if flags.Changed("verbose") {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("quiet") {
		c.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("no-color") {
		c.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("format") {
		c.Format, _ = flags.GetString("format")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is read first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
