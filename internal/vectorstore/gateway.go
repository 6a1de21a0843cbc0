package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"lumen/internal/models"
)

// Gateway pairs one embedder with one index. The same embedder serves
// ingest and query; mixing embedding models silently degrades
// relevance, so there is deliberately no way to swap it per call.
type Gateway struct {
	embedder embeddings.Embedder
	index    Index
	dim      int
}

func NewGateway(embedder embeddings.Embedder, index Index, dim int) *Gateway {
	return &Gateway{embedder: embedder, index: index, dim: dim}
}

// Ingest embeds all chunk texts, batched, and upserts one record per
// chunk in a single call. Record ids continue from the collection's
// current point count. Returns the elapsed time.
func (g *Gateway) Ingest(ctx context.Context, texts []string, metas []models.ChunkMetadata) (time.Duration, error) {
	start := time.Now()

	if len(texts) != len(metas) {
		return 0, fmt.Errorf("texts and metadatas misaligned: %d vs %d", len(texts), len(metas))
	}
	if len(texts) == 0 {
		return time.Since(start), nil
	}

	if err := g.index.EnsureCollection(ctx, g.dim); err != nil {
		return 0, err
	}

	info, err := g.index.Info(ctx)
	if err != nil {
		return 0, err
	}
	base := info.Points

	vectors, err := g.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedding count mismatch: %d vectors for %d texts", len(vectors), len(texts))
	}

	records := make([]Record, len(texts))
	for i := range texts {
		records[i] = Record{
			ID:      base + uint64(i),
			Vector:  vectors[i],
			Payload: encodePayload(texts[i], metas[i]),
		}
	}

	if err := g.index.Upsert(ctx, records); err != nil {
		return 0, err
	}

	elapsed := time.Since(start)
	log.Info().Int("chunks", len(records)).Dur("elapsed", elapsed).Msg("Ingested chunks")
	return elapsed, nil
}

// Search embeds the query with the ingest embedder and returns up to
// limit results ranked by descending similarity.
func (g *Gateway) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	vector, err := g.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := g.index.Search(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, len(hits))
	for i, hit := range hits {
		text, meta := decodePayload(hit.Payload)
		results[i] = models.SearchResult{
			PageContent: text,
			Metadata:    meta,
			Score:       hit.Score,
		}
	}
	return results, nil
}

// Info reports collection metadata for operators.
func (g *Gateway) Info(ctx context.Context) (CollectionInfo, error) {
	if err := g.index.EnsureCollection(ctx, g.dim); err != nil {
		return CollectionInfo{Status: StatusUnknown, OptimizerStatus: StatusUnknown}, err
	}
	return g.index.Info(ctx)
}
