package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bjeber/docfind/internal/snippet"
)

// Config is the complete docfind configuration, loadable from
// .docfind/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Index   IndexConfig   `yaml:"index" mapstructure:"index"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Snippet SnippetConfig `yaml:"snippet" mapstructure:"snippet"`
	Grep    GrepConfig    `yaml:"grep" mapstructure:"grep"`
}

// PathsConfig defines which files to search and which to skip.
type PathsConfig struct {
	Docs   []string `yaml:"docs" mapstructure:"docs"`     // glob patterns for documents
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// IndexConfig defines index persistence and cache behavior.
type IndexConfig struct {
	Enabled           bool   `yaml:"enabled" mapstructure:"enabled"`                       // persist the index on disk
	StoreLocation     string `yaml:"store_location" mapstructure:"store_location"`         // override default .docfind/index
	CacheTTLMinutes   int    `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`   // in-memory trust window
	ProgressThreshold int    `yaml:"progress_threshold" mapstructure:"progress_threshold"` // show progress above this many files
}

// ScoringConfig holds the field-tier score multipliers (lower = stronger).
type ScoringConfig struct {
	Title float64 `yaml:"title" mapstructure:"title"`
	Meta  float64 `yaml:"meta" mapstructure:"meta"` // description and tags
	Body  float64 `yaml:"body" mapstructure:"body"`
}

// SnippetConfig bounds result preview windows.
type SnippetConfig struct {
	MinChars int `yaml:"min_chars" mapstructure:"min_chars"`
	MinLines int `yaml:"min_lines" mapstructure:"min_lines"`
	MaxLines int `yaml:"max_lines" mapstructure:"max_lines"`
}

// GrepConfig tunes the grep engine.
type GrepConfig struct {
	Radius int `yaml:"radius" mapstructure:"radius"` // raw-mode context radius in lines
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Docs: []string{
				"**/*.md",
				"**/*.markdown",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				".docfind/**",
			},
		},
		Index: IndexConfig{
			Enabled:           true,
			StoreLocation:     "",
			CacheTTLMinutes:   10,
			ProgressThreshold: 100,
		},
		Scoring: ScoringConfig{
			Title: 0.1,
			Meta:  0.3,
			Body:  0.6,
		},
		Snippet: SnippetConfig{
			MinChars: 120,
			MinLines: 3,
			MaxLines: 12,
		},
		Grep: GrepConfig{
			Radius: 2,
		},
	}
}

// StoreDir resolves the index store directory for a search root.
func (c *Config) StoreDir(rootDir string) string {
	if c.Index.StoreLocation != "" {
		return c.Index.StoreLocation
	}
	return filepath.Join(rootDir, ".docfind", "index")
}

// CacheTTL returns the in-memory cache trust window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Index.CacheTTLMinutes) * time.Minute
}

// SnippetLimits converts the snippet section into engine limits.
func (c *Config) SnippetLimits() snippet.Limits {
	return snippet.Limits{
		MinChars: c.Snippet.MinChars,
		MinLines: c.Snippet.MinLines,
		MaxLines: c.Snippet.MaxLines,
	}
}

// Validate rejects configurations the engine cannot honor.
func Validate(c *Config) error {
	if len(c.Paths.Docs) == 0 {
		return fmt.Errorf("paths.docs must list at least one pattern")
	}
	for name, w := range map[string]float64{
		"scoring.title": c.Scoring.Title,
		"scoring.meta":  c.Scoring.Meta,
		"scoring.body":  c.Scoring.Body,
	} {
		if w <= 0 || w >= 1 {
			return fmt.Errorf("%s must be between 0 and 1 exclusive, got %v", name, w)
		}
	}
	if c.Index.CacheTTLMinutes < 0 {
		return fmt.Errorf("index.cache_ttl_minutes cannot be negative")
	}
	if c.Snippet.MaxLines <= 0 {
		return fmt.Errorf("snippet.max_lines must be positive")
	}
	if c.Grep.Radius < 0 {
		return fmt.Errorf("grep.radius cannot be negative")
	}
	return nil
}
