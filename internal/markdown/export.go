package markdown

import (
	"strings"

	"lumen/internal/models"
)

// Export converts extracted page text into a markdown string. Lines
// that match a TOC heading for their page are marked as flattened
// `##` headings; AdjustHeadings corrects the depth afterwards.
func Export(pages []string, toc []models.TOCEntry) string {
	headingsByPage := make(map[int]map[string]bool)
	for _, entry := range toc {
		heading := strings.TrimSpace(entry.Heading)
		if heading == "" {
			continue
		}
		if headingsByPage[entry.PageNumber] == nil {
			headingsByPage[entry.PageNumber] = make(map[string]bool)
		}
		headingsByPage[entry.PageNumber][heading] = true
	}

	var b strings.Builder
	for i, page := range pages {
		pageHeadings := headingsByPage[i+1]
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				b.WriteString("\n")
				continue
			}
			if pageHeadings[trimmed] {
				b.WriteString("## ")
				b.WriteString(trimmed)
				b.WriteString("\n\n")
				continue
			}
			b.WriteString(trimmed)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()) + "\n"
}

// Title resolves the document title: the first top-level TOC heading,
// or fallback when the TOC has none.
func Title(toc []models.TOCEntry, fallback string) string {
	for _, entry := range toc {
		if entry.Level == 1 && strings.TrimSpace(entry.Heading) != "" {
			return strings.TrimSpace(entry.Heading)
		}
	}
	return fallback
}
