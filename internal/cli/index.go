package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// indexCmd forces a full rebuild of the persisted index.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Long: `Force a full rebuild of the persisted search index.

All caches are cleared, every document is re-parsed and re-indexed, and
the on-disk store is re-exported with fresh fingerprints.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, root, files, err := loadSetup()
	if err != nil {
		return err
	}

	if !cfg.Index.Enabled {
		fmt.Println("Index persistence is disabled in configuration.")
		return nil
	}

	engine, err := buildEngine(cfg, root, true)
	if err != nil {
		return err
	}

	count, err := engine.Build(files)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Printf("Indexed %d documents into %s\n", count, cfg.StoreDir(root))
	return nil
}
