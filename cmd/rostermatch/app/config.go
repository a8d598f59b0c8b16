package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/rostermatch/internal/reconcile"
	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into the config,
// e.g. ROSTERMATCH_PLAYERS_DIR.
const EnvPrefix = "ROSTERMATCH"

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

	// Reconciliation
	CTFURL         string
	TDMURL         string
	PlayersDir     string
	PlayersPattern string
	OutputPath     string
	LookupURL      string
	HTTPTimeout    time.Duration

	// Logging configuration. LogLevel is the --log-level flag, EnvLogLevel
	// the LOG_LEVEL variable; the flag and -v/-q win over the variable.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// DefaultConfig returns the configuration of an unconfigured run.
func DefaultConfig() *Config {
	return &Config{
		CTFURL:         constants.CTFExportURL,
		TDMURL:         constants.TDMExportURL,
		PlayersDir:     constants.DefaultPlayersDir,
		PlayersPattern: constants.DefaultPlayersPattern,
		OutputPath:     constants.DefaultOutputPath,
		LookupURL:      constants.LookupURL,
		HTTPTimeout:    constants.DefaultHTTPTimeout,
		LogFormat:      "auto",
		LogOutput:      "stderr",
	}
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (ROSTERMATCH_*)
// 3. .env files
// 4. Config file (configFile, or .rostermatch.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("ctf_url", defaults.CTFURL)
	v.SetDefault("tdm_url", defaults.TDMURL)
	v.SetDefault("players_dir", defaults.PlayersDir)
	v.SetDefault("players_pattern", defaults.PlayersPattern)
	v.SetDefault("output_path", defaults.OutputPath)
	v.SetDefault("lookup_url", defaults.LookupURL)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", fmt.Sprintf("cannot read %s", configFile), err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config file", "cannot parse config", err)
			}
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		CTFURL:         v.GetString("ctf_url"),
		TDMURL:         v.GetString("tdm_url"),
		PlayersDir:     v.GetString("players_dir"),
		PlayersPattern: v.GetString("players_pattern"),
		OutputPath:     v.GetString("output_path"),
		LookupURL:      v.GetString("lookup_url"),
		HTTPTimeout:    v.GetDuration("http_timeout"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", defaults.LogFormat),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", defaults.LogOutput),
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = defaults.HTTPTimeout
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ReconcileOptions converts the config to pipeline options.
func (c *Config) ReconcileOptions() reconcile.Options {
	return reconcile.Options{
		CTFURL:         c.CTFURL,
		TDMURL:         c.TDMURL,
		PlayersDir:     c.PlayersDir,
		PlayersPattern: c.PlayersPattern,
		OutputPath:     c.OutputPath,
		LookupURL:      c.LookupURL,
		HTTPTimeout:    c.HTTPTimeout,
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overwritten, so .env
// wins over .env.local for keys present in both.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
