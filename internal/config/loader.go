package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given search root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DOCFIND_*)
// 2. Config file (.docfind/config.yml or .docfind/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".docfind")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("DOCFIND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("index.enabled")
	v.BindEnv("index.store_location")
	v.BindEnv("index.cache_ttl_minutes")
	v.BindEnv("index.progress_threshold")
	v.BindEnv("scoring.title")
	v.BindEnv("scoring.meta")
	v.BindEnv("scoring.body")
	v.BindEnv("snippet.max_lines")
	v.BindEnv("grep.radius")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.docs", defaults.Paths.Docs)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("index.enabled", defaults.Index.Enabled)
	v.SetDefault("index.store_location", defaults.Index.StoreLocation)
	v.SetDefault("index.cache_ttl_minutes", defaults.Index.CacheTTLMinutes)
	v.SetDefault("index.progress_threshold", defaults.Index.ProgressThreshold)

	v.SetDefault("scoring.title", defaults.Scoring.Title)
	v.SetDefault("scoring.meta", defaults.Scoring.Meta)
	v.SetDefault("scoring.body", defaults.Scoring.Body)

	v.SetDefault("snippet.min_chars", defaults.Snippet.MinChars)
	v.SetDefault("snippet.min_lines", defaults.Snippet.MinLines)
	v.SetDefault("snippet.max_lines", defaults.Snippet.MaxLines)

	v.SetDefault("grep.radius", defaults.Grep.Radius)
}

// LoadConfig loads configuration using the current working directory as
// the search root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
