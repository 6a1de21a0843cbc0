// Package markdown turns cleaned PDF page text into markdown and
// reconciles heading depths against the document's table of contents.
package markdown

import (
	"regexp"
	"strings"

	"lumen/internal/models"
)

// AdjustHeadings rewrites heading markers so their depth matches the
// table of contents. PDF-to-markdown conversion regularly flattens
// heading levels; the TOC carries the correct ones.
//
// Each entry rewrites every line that consists of heading markers
// followed by its exact heading text. Entries with blank text,
// repeated text, or a page number below 1 are skipped. Body text is
// never touched, so the operation is idempotent.
func AdjustHeadings(markdown string, toc []models.TOCEntry) string {
	current := markdown
	processed := make(map[string]bool)

	for _, entry := range toc {
		heading := strings.TrimSpace(entry.Heading)
		if heading == "" {
			continue
		}
		if processed[heading] {
			continue
		}
		if entry.PageNumber < 1 {
			continue
		}
		processed[heading] = true

		pattern := regexp.MustCompile(`(?m)^#+\s+` + regexp.QuoteMeta(heading) + `$`)
		replacement := strings.Repeat("#", entry.Level) + " " + heading
		current = pattern.ReplaceAllLiteralString(current, replacement)
	}

	return current
}
