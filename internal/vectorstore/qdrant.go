package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

// QdrantIndex is the server-mode backend.
type QdrantIndex struct {
	client *qdrant.Client
	name   string
}

func NewQdrantIndex(host string, port int, collection string) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}
	return &QdrantIndex{client: client, name: collection}, nil
}

func (x *QdrantIndex) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := x.client.CollectionExists(ctx, x.name)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}
	log.Info().Str("collection", x.name).Int("dim", dim).Msg("Creating collection")
	err = x.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: x.name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (x *QdrantIndex) Upsert(ctx context.Context, records []Record) error {
	points := make([]*qdrant.PointStruct, len(records))
	for i, rec := range records {
		payload := make(map[string]any, len(rec.Payload))
		for k, v := range rec.Payload {
			payload[k] = v
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(rec.ID),
			Vectors: qdrant.NewVectors(rec.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}
	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.name,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

func (x *QdrantIndex) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	scored, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: x.name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	hits := make([]Hit, len(scored))
	for i, point := range scored {
		payload := make(map[string]string, len(point.Payload))
		for k, v := range point.Payload {
			payload[k] = v.GetStringValue()
		}
		hits[i] = Hit{Payload: payload, Score: point.Score}
	}
	return hits, nil
}

func (x *QdrantIndex) Info(ctx context.Context) (CollectionInfo, error) {
	info, err := x.client.GetCollectionInfo(ctx, x.name)
	if err != nil {
		return CollectionInfo{Status: StatusUnknown, OptimizerStatus: StatusUnknown},
			fmt.Errorf("collection info: %w", err)
	}
	out := CollectionInfo{
		Status:          StatusUnknown,
		OptimizerStatus: StatusUnknown,
	}
	if info.PointsCount != nil {
		out.Points = *info.PointsCount
	}
	switch info.Status {
	case qdrant.CollectionStatus_Green:
		out.Status = StatusHealthy
	case qdrant.CollectionStatus_Yellow, qdrant.CollectionStatus_Grey, qdrant.CollectionStatus_Red:
		out.Status = StatusDegraded
	}
	if opt := info.OptimizerStatus; opt != nil {
		if opt.Ok {
			out.OptimizerStatus = StatusHealthy
		} else {
			out.OptimizerStatus = StatusDegraded
		}
	}
	return out, nil
}

func (x *QdrantIndex) Close() error { return x.client.Close() }
