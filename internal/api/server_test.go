package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lumen/internal/models"
	"lumen/internal/vectorstore"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func newTestServer(t *testing.T) (*Server, *vectorstore.Gateway) {
	t.Helper()
	gateway := vectorstore.NewGateway(stubEmbedder{}, vectorstore.NewMemoryIndex("test"), 3)
	return NewServer(nil, gateway, nil), gateway
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchReturnsIngestedChunks(t *testing.T) {
	srv, gateway := newTestServer(t)

	_, err := gateway.Ingest(context.Background(),
		[]string{"Versioning keeps multiple variants of an object."},
		[]models.ChunkMetadata{{
			DocumentTitle: "Amazon S3 User Guide",
			Headings:      []models.Heading{{Level: 1, Text: "Buckets"}},
		}},
	)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search",
		strings.NewReader(`{"query":"versioning","num_results":3}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Results []struct {
			Content  string   `json:"content"`
			Title    string   `json:"title"`
			Headings []string `json:"headings"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(body.Results))
	}
	if body.Results[0].Title != "Amazon S3 User Guide" || len(body.Results[0].Headings) != 1 {
		t.Errorf("unexpected result: %+v", body.Results[0])
	}
}

func TestCollectionEndpoint(t *testing.T) {
	srv, gateway := newTestServer(t)

	_, err := gateway.Ingest(context.Background(),
		[]string{"a", "b"},
		[]models.ChunkMetadata{{DocumentTitle: "t"}, {DocumentTitle: "t"}},
	)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collection", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Points uint64 `json:"points"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Points != 2 {
		t.Errorf("points = %d, want 2", body.Points)
	}
	if body.Status != string(vectorstore.StatusHealthy) {
		t.Errorf("status = %q", body.Status)
	}
}

// Chunks ingested through the server's gateway must be visible to the
// search and collection endpoints of the same instance without a
// restart.
func TestServerSharesOneIndexAcrossEndpoints(t *testing.T) {
	srv, gateway := newTestServer(t)

	_, err := gateway.Ingest(context.Background(),
		[]string{"Lifecycle rules can expire noncurrent versions."},
		[]models.ChunkMetadata{{DocumentTitle: "Amazon S3 User Guide"}},
	)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collection", nil))
	var info struct {
		Points uint64 `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	if info.Points != 1 {
		t.Fatalf("collection points = %d immediately after ingest, want 1", info.Points)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search",
		strings.NewReader(`{"query":"lifecycle"}`)))
	var body struct {
		Results []struct {
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("search sees %d results immediately after ingest, want 1", len(body.Results))
	}
}

func TestChatUnconfiguredReturns503(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt":"hi"}`)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
