package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type searchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	if req.NumResults <= 0 {
		req.NumResults = 5
	}

	results, err := s.gateway.Search(r.Context(), req.Query, req.NumResults)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type hit struct {
		Content  string   `json:"content"`
		Score    float32  `json:"score"`
		Title    string   `json:"title"`
		Headings []string `json:"headings"`
		Source   string   `json:"source,omitempty"`
	}
	hits := make([]hit, 0, len(results))
	for _, res := range results {
		h := hit{
			Content: res.PageContent,
			Score:   res.Score,
			Title:   res.Metadata.DocumentTitle,
			Source:  res.Metadata.Source,
		}
		for _, heading := range res.Metadata.Headings {
			h.Headings = append(h.Headings, heading.Text)
		}
		hits = append(hits, h)
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

type ingestRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		jsonError(w, "source is required", http.StatusBadRequest)
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.Source)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":       result.Title,
		"source":      result.Source,
		"pages":       result.Pages,
		"chunks":      result.Chunks,
		"duration_ms": result.Duration.Milliseconds(),
	})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	info, err := s.gateway.Info(r.Context())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"points":           info.Points,
		"status":           info.Status,
		"optimizer_status": info.OptimizerStatus,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		jsonError(w, "chat is not configured", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		jsonError(w, "prompt is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	answer, err := s.chat.Chat(r.Context(), req.SessionID, req.Model, req.Prompt)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": req.SessionID,
		"answer":     answer.Content,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
