package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd groups the index store management commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persisted index store",
	Long: `Inspect and manage the on-disk index store and document cache.

Available commands:
  info   - Show store location and freshness
  clear  - Remove the store, forcing a rebuild on next search
  stats  - Show store size and chunk details`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store location and freshness",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted index store",
	RunE:  runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store size and chunk details",
	RunE:  runCacheStats,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cfg, root, files, err := loadSetup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, root, cfg.Index.Enabled)
	if err != nil {
		return err
	}

	fmt.Printf("Store Location: %s\n", cfg.StoreDir(root))
	fmt.Printf("Persistence: %v\n", cfg.Index.Enabled)
	fmt.Printf("Documents: %d\n", len(files))

	stats := engine.Stats()
	if !stats.Store.Exists {
		fmt.Println("Store: not built")
		return nil
	}

	fmt.Printf("Built At: %s\n", stats.Store.BuiltAt)
	fmt.Printf("Fresh: %v\n", engine.IsFresh(files))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, root, _, err := loadSetup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, root, cfg.Index.Enabled)
	if err != nil {
		return err
	}

	if err := engine.Clear(); err != nil {
		return err
	}

	fmt.Printf("Cleared %s\n", cfg.StoreDir(root))
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, root, _, err := loadSetup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, root, cfg.Index.Enabled)
	if err != nil {
		return err
	}

	stats := engine.Stats()
	if !stats.Store.Exists {
		fmt.Println("Store: not built")
		return nil
	}

	fmt.Printf("Indexed Files: %d\n", stats.Store.FileCount)
	fmt.Printf("Index Chunks: %d\n", stats.Store.ChunkCount)
	fmt.Printf("Store Size: %.2f KB\n", float64(stats.Store.SizeBytes)/1024)
	fmt.Printf("Built At: %s\n", stats.Store.BuiltAt)
	fmt.Printf("Cache TTL: %s\n", stats.Cache.TTL)
	return nil
}
