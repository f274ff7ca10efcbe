package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bjeber/docfind/internal/config"
	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/search"
)

var (
	rootDir string
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docfind",
	Short: "Search a tree of markdown documents",
	Long: `docfind searches a tree of markdown documents by fuzzy relevance
or exact pattern, keeping a persisted, incrementally-maintained search
index so repeated invocations stay fast.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "search root directory")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// resolveRoot returns the absolute search root.
func resolveRoot() (string, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", rootDir, err)
	}
	return abs, nil
}

// loadSetup loads config and discovers the file set for the search root.
func loadSetup() (*config.Config, string, []docs.FileEntry, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, "", nil, err
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	discovery, err := docs.NewDiscovery(root, cfg.Paths.Docs, cfg.Paths.Ignore)
	if err != nil {
		return nil, "", nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	files, err := discovery.Discover()
	if err != nil {
		return nil, "", nil, fmt.Errorf("file discovery failed: %w", err)
	}

	return cfg, root, files, nil
}

// buildEngine assembles the search engine from loaded configuration.
func buildEngine(cfg *config.Config, root string, indexing bool) (*search.Engine, error) {
	return search.NewEngine(search.EngineConfig{
		StoreDir:        cfg.StoreDir(root),
		IndexingEnabled: indexing,
		TTL:             cfg.CacheTTL(),
		Weights: search.Weights{
			Title: cfg.Scoring.Title,
			Meta:  cfg.Scoring.Meta,
			Body:  cfg.Scoring.Body,
		},
		SnippetLimits: cfg.SnippetLimits(),
		Progress:      NewCLIProgressReporter(quiet, cfg.Index.ProgressThreshold),
	})
}
