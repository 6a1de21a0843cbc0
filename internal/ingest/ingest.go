// Package ingest drives the document pipeline end to end: fetch or
// open a PDF, strip boilerplate pages, export markdown, reconcile
// headings, chunk, and load the chunks into the vector store.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lumen/internal/chunker"
	"lumen/internal/cleaner"
	"lumen/internal/markdown"
	"lumen/internal/pdfdoc"
	"lumen/internal/registry"
	"lumen/internal/vectorstore"
)

// Result summarizes one completed pipeline run.
type Result struct {
	Title    string
	Source   string
	Pages    int
	Chunks   int
	Duration time.Duration
}

// Pipeline wires the cleaning, chunking, and indexing stages. The
// registry is optional and only used when non-nil.
type Pipeline struct {
	gateway  *vectorstore.Gateway
	registry *registry.Registry
	chunkCfg chunker.Config
}

func NewPipeline(gateway *vectorstore.Gateway, reg *registry.Registry, chunkCfg chunker.Config) *Pipeline {
	return &Pipeline{gateway: gateway, registry: reg, chunkCfg: chunkCfg}
}

// Run ingests one PDF given by URL or local path. Any stage failure
// aborts the run; nothing is written to the vector store unless every
// stage before it succeeded.
func (p *Pipeline) Run(ctx context.Context, source string) (*Result, error) {
	started := time.Now()

	path, cleanup, err := p.resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := pdfdoc.Load(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	log.Info().Str("source", source).Int("pages", doc.PageCount()).Msg("Loaded PDF")

	cleanedFile, err := os.CreateTemp("", "lumen-clean-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanedPath := cleanedFile.Name()
	cleanedFile.Close()
	defer os.Remove(cleanedPath)

	cleanStart := time.Now()
	toc, err := cleaner.Clean(doc, cleanedPath)
	if err != nil {
		return nil, fmt.Errorf("clean pdf: %w", err)
	}

	cleaned, err := pdfdoc.Load(cleanedPath)
	if err != nil {
		return nil, fmt.Errorf("reopen cleaned pdf: %w", err)
	}
	pages, err := cleaned.Pages()
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	log.Debug().Dur("took", time.Since(cleanStart)).Int("pages", len(pages)).Msg("Cleaned PDF")

	title := markdown.Title(toc, strings.TrimSuffix(filepath.Base(path), ".pdf"))
	md := markdown.Export(pages, toc)
	md = markdown.AdjustHeadings(md, toc)

	chunkStart := time.Now()
	texts, metas, err := chunker.Chunk(md, title, source, p.chunkCfg)
	if err != nil {
		return nil, fmt.Errorf("chunk markdown: %w", err)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no chunks produced from %s", source)
	}
	log.Debug().Dur("took", time.Since(chunkStart)).Int("chunks", len(texts)).Msg("Chunked markdown")

	embedTook, err := p.gateway.Ingest(ctx, texts, metas)
	if err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	log.Info().Dur("took", embedTook).Int("chunks", len(texts)).Msg("Indexed chunks")

	result := &Result{
		Title:    title,
		Source:   source,
		Pages:    len(pages),
		Chunks:   len(texts),
		Duration: time.Since(started),
	}

	if p.registry != nil {
		entry := &registry.Ingest{
			Title:    result.Title,
			Source:   result.Source,
			Pages:    result.Pages,
			Chunks:   result.Chunks,
			Duration: result.Duration,
		}
		if err := p.registry.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Msg("Failed to record ingest in registry")
		}
	}

	return result, nil
}

// resolve turns a URL source into a local temp file, or passes a path
// through. The cleanup removes any downloaded file.
func (p *Pipeline) resolve(ctx context.Context, source string) (string, func(), error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		if _, err := os.Stat(source); err != nil {
			return "", nil, fmt.Errorf("open %s: %w", source, err)
		}
		return source, func() {}, nil
	}

	url, err := pdfdoc.ValidateURL(source)
	if err != nil {
		return "", nil, err
	}

	fetchStart := time.Now()
	path, err := pdfdoc.Fetch(ctx, url)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", url, err)
	}
	log.Debug().Dur("took", time.Since(fetchStart)).Str("url", url).Msg("Downloaded PDF")

	return path, func() { os.Remove(path) }, nil
}
