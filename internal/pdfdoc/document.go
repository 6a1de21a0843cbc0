// Package pdfdoc wraps PDF access behind a small surface: bookmark
// table of contents, page deletion, persistence, and plain-text
// extraction. Everything else about the PDF format stays out of the
// rest of the codebase.
package pdfdoc

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpulib "github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"lumen/internal/models"
)

// Source is the document surface the cleaner operates on.
type Source interface {
	TOC() []models.TOCEntry
	PageCount() int
	DeletePages(from, to int)
	Save(path string) error
}

// File is a PDF on disk. Page deletions are collected and applied when
// Save is called; all page numbers refer to the document as loaded.
type File struct {
	path      string
	toc       []models.TOCEntry
	pageCount int
	deleted   []string // pdfcpu page selections, e.g. "3-9"
}

// Load reads the table of contents and page count of a PDF.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	// Documents without bookmarks yield an empty TOC, not an error.
	bms, err := api.Bookmarks(f, nil)
	if err != nil {
		bms = nil
	}

	return &File{
		path:      path,
		toc:       flattenBookmarks(bms, 1),
		pageCount: count,
	}, nil
}

func (d *File) TOC() []models.TOCEntry { return d.toc }

func (d *File) PageCount() int { return d.pageCount }

// DeletePages marks an inclusive 1-based page range for removal.
func (d *File) DeletePages(from, to int) {
	if from < 1 {
		from = 1
	}
	if to > d.pageCount {
		to = d.pageCount
	}
	if from > to {
		return
	}
	d.deleted = append(d.deleted, fmt.Sprintf("%d-%d", from, to))
}

// Save writes the document, minus any deleted pages, to path.
func (d *File) Save(path string) error {
	conf := model.NewDefaultConfiguration()
	if len(d.deleted) == 0 {
		data, err := os.ReadFile(d.path)
		if err != nil {
			return fmt.Errorf("copy pdf: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}
	if err := api.RemovePagesFile(d.path, path, d.deleted, conf); err != nil {
		return fmt.Errorf("remove pages: %w", err)
	}
	return nil
}

// Pages extracts the plain text of every page, in order.
func (d *File) Pages() ([]string, error) {
	f, reader, err := pdf.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf for text: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func flattenBookmarks(bms []pdfcpulib.Bookmark, level int) []models.TOCEntry {
	var out []models.TOCEntry
	for _, bm := range bms {
		out = append(out, models.TOCEntry{
			Level:      level,
			Heading:    bm.Title,
			PageNumber: bm.PageFrom,
		})
		out = append(out, flattenBookmarks(bm.Kids, level+1)...)
	}
	return out
}
