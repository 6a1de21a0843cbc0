// Package cleaner strips front matter and the trailing document
// history from an AWS documentation PDF, guided by the PDF's own table
// of contents.
package cleaner

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"lumen/internal/models"
	"lumen/internal/pdfdoc"
)

const (
	historyHeading = "document history"
	tocHeading     = "table of contents"
)

// Clean removes the table-of-contents front matter and the trailing
// "Document History" section from the document, writes the result to
// outPath, and returns the table of contents of the cleaned file.
func Clean(doc pdfdoc.Source, outPath string) ([]models.TOCEntry, error) {
	Trim(doc)

	if err := doc.Save(outPath); err != nil {
		return nil, fmt.Errorf("save cleaned pdf: %w", err)
	}

	cleaned, err := pdfdoc.Load(outPath)
	if err != nil {
		return nil, fmt.Errorf("reload cleaned pdf: %w", err)
	}
	return cleaned.TOC(), nil
}

// Trim marks the page ranges to drop: the trailing document history
// first, then the front-matter block ending just before the entry that
// follows the TOC heading. Only the first match of each scan counts.
func Trim(doc pdfdoc.Source) {
	toc := doc.TOC()

	for _, entry := range toc {
		if strings.Contains(strings.ToLower(entry.Heading), historyHeading) {
			log.Debug().
				Str("heading", entry.Heading).
				Int("from", entry.PageNumber).
				Int("to", doc.PageCount()).
				Msg("Deleting document history pages")
			doc.DeletePages(entry.PageNumber, doc.PageCount())
			break
		}
	}

	// The front-matter block ends just before the entry following the
	// TOC heading. The last entry has no successor and is skipped.
	for i := 0; i < len(toc)-1; i++ {
		if strings.Contains(strings.ToLower(toc[i].Heading), tocHeading) {
			next := toc[i+1]
			log.Debug().
				Str("heading", toc[i].Heading).
				Int("to", next.PageNumber-1).
				Msg("Deleting front matter pages")
			doc.DeletePages(1, next.PageNumber-1)
			break
		}
	}
}
