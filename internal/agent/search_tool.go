package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"lumen/internal/models"
)

const (
	// SearchToolName is the retrieval tool exposed to the model.
	SearchToolName = "search_local_aws_docs"

	defaultNumResults = 5
	maxCharsPerResult = 1000
	maxTotalChars     = 4000
)

// Searcher is the slice of the vector store gateway the tool needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// SearchDocsTool wraps vector search as a model-callable tool with a
// bounded textual result format.
type SearchDocsTool struct {
	searcher Searcher
}

func NewSearchDocsTool(searcher Searcher) *SearchDocsTool {
	return &SearchDocsTool{searcher: searcher}
}

func (t *SearchDocsTool) Name() string { return SearchToolName }

func (t *SearchDocsTool) Description() string {
	return "Searches the locally stored and vectorized AWS documentation PDFs for relevant information based on the user's query. " +
		"Use this tool when the user asks questions about AWS services, features, or procedures that might be found in the ingested PDF documents. " +
		"Provide the user's specific question or topic as the 'query'. " +
		"You can optionally specify 'num_results' (default is 5) for the number of search results to retrieve."
}

func (t *SearchDocsTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The question or topic to search the local AWS documentation for.",
			},
			"num_results": map[string]any{
				"type":        "integer",
				"description": "Number of search results to retrieve.",
				"default":     defaultNumResults,
			},
		},
		"required": []string{"query"},
	}
}

// Invoke runs the search and formats a bounded report. Failures are
// converted into a descriptive string so the loop keeps going.
func (t *SearchDocsTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "Error: the 'query' argument is required.", nil
	}

	numResults := defaultNumResults
	if n, ok := args["num_results"].(float64); ok && int(n) > 0 {
		numResults = int(n)
	}

	log.Debug().Str("query", query).Int("limit", numResults).Msg("Executing docs search tool")

	found, err := t.searcher.Search(ctx, query, numResults)
	if err != nil {
		log.Error().Err(err).Msg("Docs search failed")
		return fmt.Sprintf("An error occurred while searching the local AWS documentation: %s", err), nil
	}

	if len(found) == 0 {
		return models.NotFoundSentinel, nil
	}

	return formatReport(found), nil
}

// formatReport renders results into Result-N blocks, capping each
// result's text and the total report length.
func formatReport(found []models.SearchResult) string {
	var report strings.Builder
	report.WriteString("Found the following relevant snippets from local AWS docs:\n\n")
	total := report.Len()

	for i, res := range found {
		content := strings.TrimSpace(res.PageContent)
		if len(content) > maxCharsPerResult {
			cut := maxCharsPerResult
			// Back up to a rune boundary so the cut never produces
			// invalid UTF-8.
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut] + "..."
		}

		entry := fmt.Sprintf("Result %d:\n%s\n%s\n\n", i+1, content, provenance(res.Metadata))
		if total+len(entry) > maxTotalChars {
			report.WriteString(models.TruncationNotice)
			break
		}

		report.WriteString(entry)
		total += len(entry)
	}

	return strings.TrimSpace(report.String())
}

// provenance renders a citation line from the chunk's document title
// and heading path, shallowest heading first.
func provenance(meta models.ChunkMetadata) string {
	title := meta.DocumentTitle
	if title == "" {
		title = "N/A"
	}

	heading := "N/A"
	if len(meta.Headings) > 0 {
		hs := make([]models.Heading, len(meta.Headings))
		copy(hs, meta.Headings)
		sort.SliceStable(hs, func(i, j int) bool { return hs[i].Level < hs[j].Level })
		parts := make([]string, len(hs))
		for i, h := range hs {
			parts[i] = h.Text
		}
		heading = strings.Join(parts, " -> ")
	}

	return fmt.Sprintf("(Source: %s, Heading: %s)", title, heading)
}
