// Package chunker splits heading-annotated markdown into bounded-size
// chunks, each carrying its governing heading path as metadata.
package chunker

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"lumen/internal/models"
)

// maxHeadingDepth bounds the heading path carried in chunk metadata.
const maxHeadingDepth = 4

type Config struct {
	ChunkSize    int // Maximum chunk size in characters.
	ChunkOverlap int // Overlap between adjacent re-split chunks.
	MinChunkLen  int // Minimum trimmed chunk length to keep.
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    10000,
		ChunkOverlap: 300,
		MinChunkLen:  20,
	}
}

// section is a run of body text governed by one heading path.
type section struct {
	text     string
	headings []models.Heading
}

// Chunk splits markdown into texts and positionally aligned metadata.
// Sections are delimited by `#`..`####` headings; oversized sections
// are re-split with a character overlap so context survives the cut.
func Chunk(markdown, title, source string, cfg Config) ([]string, []models.ChunkMetadata, error) {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultConfig()
	}

	sections := splitByHeadings(markdown)

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)

	var texts []string
	var metadatas []models.ChunkMetadata
	for _, sec := range sections {
		parts := []string{sec.text}
		if len(sec.text) > cfg.ChunkSize {
			split, err := splitter.SplitText(sec.text)
			if err != nil {
				return nil, nil, fmt.Errorf("split section: %w", err)
			}
			parts = split
		}

		for _, part := range parts {
			if len(strings.TrimSpace(part)) < cfg.MinChunkLen {
				continue
			}
			texts = append(texts, part)
			metadatas = append(metadatas, models.ChunkMetadata{
				DocumentTitle: title,
				Headings:      copyHeadings(sec.headings),
				Source:        source,
			})
		}
	}

	return texts, metadatas, nil
}

// splitByHeadings walks the markdown AST, starting a new section at
// every heading of depth 1..4. Deeper headings stay inside the
// current section as body text.
func splitByHeadings(markdown string) []section {
	src := []byte(markdown)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	path := make(map[int]string)
	var sections []section
	var current bytes.Buffer

	flush := func() {
		t := strings.TrimSpace(current.String())
		if t != "" {
			sections = append(sections, section{text: t, headings: headingPath(path)})
		}
		current.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= maxHeadingDepth {
			flush()
			path[h.Level] = string(h.Text(src))
			for lvl := h.Level + 1; lvl <= maxHeadingDepth; lvl++ {
				delete(path, lvl)
			}
			continue
		}
		t := extractText(n, src)
		if t != "" {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(t)
		}
	}
	flush()

	return sections
}

// headingPath snapshots the active heading map ordered by depth.
func headingPath(path map[int]string) []models.Heading {
	var out []models.Heading
	for lvl := 1; lvl <= maxHeadingDepth; lvl++ {
		if t, ok := path[lvl]; ok {
			out = append(out, models.Heading{Level: lvl, Text: t})
		}
	}
	return out
}

func copyHeadings(hs []models.Heading) []models.Heading {
	if len(hs) == 0 {
		return nil
	}
	out := make([]models.Heading, len(hs))
	copy(out, hs)
	return out
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	if buf.Len() == 0 {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t := extractText(c, src); t != "" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
				buf.WriteString(t)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
