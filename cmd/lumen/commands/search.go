package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

// NewSearchCmd builds the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the ingested documentation",
		Long: `Search embeds the query and prints the most similar chunks with
their document title, heading path, and similarity score.

Examples:
  lumen search "S3 bucket versioning"
  lumen search --limit 10 "IAM role trust policy"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to return (default from config)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = cfg.RAG.SearchLimit
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}

	results, err := gateway.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, res := range results {
		headings := make([]string, 0, len(res.Metadata.Headings))
		for _, h := range res.Metadata.Headings {
			headings = append(headings, h.Text)
		}
		fmt.Printf("%d. [%.4f] %s\n", i+1, res.Score, res.Metadata.DocumentTitle)
		if len(headings) > 0 {
			fmt.Printf("   %s\n", strings.Join(headings, " > "))
		}
		fmt.Printf("   %s\n\n", snippet(res.PageContent, 300))
	}
	return nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
