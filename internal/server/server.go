package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jhin-47/RAG-API/internal/vectorstore"
)

// Config configures the HTTP server.
type Config struct {
	Addr         string
	SnapshotName string // base name of the open snapshot, for health reporting
}

// New builds the HTTP server with all routes registered.
func New(cfg Config, searcher Searcher, store vectorstore.Storage, logger *slog.Logger) *http.Server {
	h := NewHandlers(searcher, store, cfg.SnapshotName, logger)

	// {$} keeps the patterns exact; without it /v1/search/ would match the
	// whole subtree
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/search/{$}", h.HandleSearchGet)
	mux.HandleFunc("POST /v1/search/{$}", h.HandleSearchPost)
	mux.HandleFunc("GET /v1/health/{$}", h.HandleHealth)
	mux.HandleFunc("GET /v1/privacy-policy/{$}", h.HandlePrivacyPolicy)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS(withRequestLog(logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
