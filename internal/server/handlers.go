package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jhin-47/RAG-API/internal/domain"
	"github.com/jhin-47/RAG-API/internal/vectorstore"
)

// Searcher is the handler-facing subset of the retrieval service.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// Handlers holds the HTTP endpoint implementations.
type Handlers struct {
	searcher     Searcher
	store        vectorstore.Storage
	snapshotName string
	logger       *slog.Logger
	startTime    time.Time
}

// NewHandlers creates the endpoint set.
func NewHandlers(searcher Searcher, store vectorstore.Storage, snapshotName string, logger *slog.Logger) *Handlers {
	return &Handlers{
		searcher:     searcher,
		store:        store,
		snapshotName: snapshotName,
		logger:       logger,
		startTime:    time.Now(),
	}
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResultItem struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Query   string             `json:"query"`
	Count   int                `json:"count"`
}

// HandleSearchPost serves POST /v1/search/ with a JSON body.
func (h *Handlers) HandleSearchPost(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "request body must be JSON with a query field")
		return
	}
	h.search(w, r, req.Query, req.K)
}

// HandleSearchGet serves GET /v1/search/?query=...&k=... with the same
// semantics as the POST endpoint.
func (h *Handlers) HandleSearchGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	k := 0
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", "k must be an integer")
			return
		}
		k = n
	}
	h.search(w, r, query, k)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request, query string, k int) {
	results, err := h.searcher.Search(r.Context(), query, k)
	if err != nil {
		status, kind := statusFor(err)
		if status >= 500 {
			h.logger.Error("search failed", "error", err, "query", query)
		}
		writeError(w, status, kind, err.Error())
		return
	}

	items := make([]searchResultItem, 0, len(results))
	for _, res := range results {
		items = append(items, searchResultItem{
			ID:       res.Posting.ID,
			Title:    res.Posting.Title,
			Content:  res.Posting.Content,
			Distance: res.Distance,
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: items, Query: query, Count: len(items)})
}

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Start    string `json:"start"`
	Timezone string `json:"timezone"`
	DBFile   string `json:"db_file"`
	Postings int    `json:"postings"`
}

// HandleHealth serves GET /v1/health/.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Error("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Message:  "RAG API is running",
		Start:    h.startTime.Format("2006-01-02 15:04:05"),
		Timezone: h.startTime.Format("MST"),
		DBFile:   h.snapshotName,
		Postings: count,
	})
}

type privacyPolicyResponse struct {
	PrivacyPolicy   string `json:"privacy_policy"`
	DataUsagePolicy string `json:"data_usage_policy"`
	LastUpdated     string `json:"last_updated"`
}

// HandlePrivacyPolicy serves GET /v1/privacy-policy/.
func (h *Handlers) HandlePrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, privacyPolicyResponse{
		PrivacyPolicy: "This API processes only the search query supplied by the caller " +
			"and collects no personally identifiable information. Queries are used " +
			"solely to serve the requested job-posting search and are not shared " +
			"with third parties.",
		DataUsagePolicy: "Job postings returned by this API are for reference only; " +
			"verify details against the original listing. Redistribution for " +
			"commercial purposes is prohibited, and excessive requests may be " +
			"throttled to keep the service stable.",
		LastUpdated: "2025-03-31",
	})
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusFor maps the error taxonomy onto HTTP status codes and wire kinds.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, "invalid_query"
	case errors.Is(err, domain.ErrEmbeddingProvider):
		return http.StatusBadGateway, "embedding_provider_error"
	case errors.Is(err, domain.ErrNoStoreFound), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
