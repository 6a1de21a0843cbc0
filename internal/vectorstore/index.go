// Package vectorstore owns embedding generation and the vector index.
// It is the single point of truth for the index schema: payload field
// names, id assignment, and the collection's dimension and metric.
package vectorstore

import (
	"context"
	"encoding/json"

	"lumen/internal/models"
)

// Payload field holding the chunk text. All other fields are chunk
// metadata.
const payloadContentField = "page_content"

// Record is one stored vector with its payload.
type Record struct {
	ID      uint64
	Vector  []float32
	Payload map[string]string
}

// Hit is one scored search result from an index.
type Hit struct {
	Payload map[string]string
	Score   float32
}

// Status is the three-value health of a collection or its optimizer.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusUnknown  Status = "unknown"
)

// CollectionInfo is the operator-facing collection metadata.
type CollectionInfo struct {
	Points          uint64
	Status          Status
	OptimizerStatus Status
}

// Index is the consumed vector index API. Implementations are bound to
// one named collection.
type Index interface {
	// EnsureCollection creates the collection with the given dimension
	// and cosine distance if it does not exist, and reuses it otherwise.
	EnsureCollection(ctx context.Context, dim int) error
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
	Info(ctx context.Context) (CollectionInfo, error)
	Close() error
}

func encodePayload(text string, meta models.ChunkMetadata) map[string]string {
	headings, _ := json.Marshal(meta.Headings)
	return map[string]string{
		payloadContentField: text,
		"document_title":    meta.DocumentTitle,
		"source":            meta.Source,
		"headings":          string(headings),
	}
}

func decodePayload(payload map[string]string) (string, models.ChunkMetadata) {
	meta := models.ChunkMetadata{
		DocumentTitle: payload["document_title"],
		Source:        payload["source"],
	}
	if raw := payload["headings"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &meta.Headings)
	}
	return payload[payloadContentField], meta
}
