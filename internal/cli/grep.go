package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjeber/docfind/internal/grep"
)

var (
	grepRaw    bool
	grepRadius int
)

// grepCmd scans document bodies with a regular expression.
var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Search documents by regular expression",
	Long: `Scan every document line by line with a regular expression.

Each match is reported once per paragraph with a context window and a
heading breadcrumb. --raw switches to a fixed line radius around the
match instead of paragraph boundaries.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

func init() {
	rootCmd.AddCommand(grepCmd)
	grepCmd.Flags().BoolVar(&grepRaw, "raw", false, "fixed-radius context instead of paragraph windows")
	grepCmd.Flags().IntVar(&grepRadius, "radius", 0, "raw-mode context radius in lines")
}

func runGrep(cmd *cobra.Command, args []string) error {
	cfg, root, files, err := loadSetup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, root, cfg.Index.Enabled)
	if err != nil {
		return err
	}

	documents, err := engine.Documents(files)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	opts := grep.Options{
		Raw:    grepRaw,
		Radius: cfg.Grep.Radius,
		Limits: cfg.SnippetLimits(),
	}
	if grepRadius > 0 {
		opts.Radius = grepRadius
	}

	matches, err := grep.Search(documents, args[0], opts)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, m := range matches {
		header := fmt.Sprintf("%s:%d", m.Doc.RelPath, m.Line+1)
		if m.Breadcrumb != "" {
			header += "  [" + m.Breadcrumb + "]"
		}
		fmt.Println(header)
		for _, line := range strings.Split(m.Snippet.Text, "\n") {
			fmt.Printf("   | %s\n", line)
		}
		fmt.Println()
	}

	return nil
}
