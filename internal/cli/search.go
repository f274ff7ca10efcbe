package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjeber/docfind/internal/search"
)

var (
	searchLimit   int
	searchNoIndex bool
)

// searchCmd runs a relevance-ranked query over the document tree.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents by fuzzy relevance",
	Long: `Search documents with a weighted boolean query.

Query syntax (whitespace-separated tokens):
  term      fuzzy include term; multiple terms are ANDed
  'term     exact case-sensitive substring match
  -term     exclude documents containing term (case-insensitive)

Title matches rank above description/tag matches, which rank above
body-only matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchNoIndex, "no-index", false, "skip the persisted index, build in memory")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, root, files, err := loadSetup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, root, cfg.Index.Enabled && !searchNoIndex)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := engine.Search(files, query, search.Options{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, res := range results {
		fmt.Printf("%d. %s  (score %.4f%s)\n", i+1, res.Doc.RelPath, res.Score, fieldSummary(res))
		if res.Doc.Title != "" {
			fmt.Printf("   %s\n", res.Doc.Title)
		}
		for _, line := range strings.Split(res.Preview, "\n") {
			fmt.Printf("   | %s\n", line)
		}
		fmt.Println()
	}

	return nil
}

// fieldSummary renders the matched-field provenance, e.g. ", title+body".
func fieldSummary(res search.RankedResult) string {
	seen := map[string]bool{}
	for _, fields := range res.MatchedFields {
		for _, f := range fields {
			seen[f] = true
		}
	}
	if len(seen) == 0 {
		return ""
	}

	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return ", " + strings.Join(fields, "+")
}
