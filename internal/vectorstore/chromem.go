package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// ChromemIndex is the embedded local backend, persisted on disk. It
// serves development and test setups that have no Qdrant server.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// NewChromemIndex opens or creates a persistent local index at path.
func NewChromemIndex(path, collection string) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open local index: %w", err)
	}
	return &ChromemIndex{db: db, name: collection}, nil
}

// NewMemoryIndex creates a throwaway in-memory index.
func NewMemoryIndex(collection string) *ChromemIndex {
	return &ChromemIndex{db: chromem.NewDB(), name: collection}
}

func (x *ChromemIndex) EnsureCollection(ctx context.Context, dim int) error {
	// chromem is always cosine; the dimension is fixed by the first
	// embedding written.
	c, err := x.db.GetOrCreateCollection(x.name, nil, nil)
	if err != nil {
		return fmt.Errorf("create/get collection: %w", err)
	}
	x.collection = c
	return nil
}

func (x *ChromemIndex) Upsert(ctx context.Context, records []Record) error {
	if err := x.ensure(ctx); err != nil {
		return err
	}
	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		meta := make(map[string]string, len(rec.Payload))
		var content string
		for k, v := range rec.Payload {
			if k == payloadContentField {
				content = v
				continue
			}
			meta[k] = v
		}
		docs[i] = chromem.Document{
			ID:        strconv.FormatUint(rec.ID, 10),
			Content:   content,
			Metadata:  meta,
			Embedding: rec.Vector,
		}
	}
	if err := x.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (x *ChromemIndex) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if err := x.ensure(ctx); err != nil {
		return nil, err
	}
	// chromem rejects nResults beyond the collection size.
	if count := x.collection.Count(); limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}
	results, err := x.collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query by similarity: %w", err)
	}
	hits := make([]Hit, len(results))
	for i, res := range results {
		payload := make(map[string]string, len(res.Metadata)+1)
		for k, v := range res.Metadata {
			payload[k] = v
		}
		payload[payloadContentField] = res.Content
		hits[i] = Hit{Payload: payload, Score: res.Similarity}
	}
	return hits, nil
}

func (x *ChromemIndex) Info(ctx context.Context) (CollectionInfo, error) {
	if err := x.ensure(ctx); err != nil {
		return CollectionInfo{Status: StatusUnknown, OptimizerStatus: StatusUnknown}, err
	}
	// No background optimizer in the embedded store.
	return CollectionInfo{
		Points:          uint64(x.collection.Count()),
		Status:          StatusHealthy,
		OptimizerStatus: StatusUnknown,
	}, nil
}

func (x *ChromemIndex) Close() error { return nil }

func (x *ChromemIndex) ensure(ctx context.Context) error {
	if x.collection != nil {
		return nil
	}
	return x.EnsureCollection(ctx, 0)
}
