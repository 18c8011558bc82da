package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhin-47/RAG-API/internal/config"
	"github.com/jhin-47/RAG-API/internal/embedding"
	"github.com/jhin-47/RAG-API/internal/embedding/google"
	"github.com/jhin-47/RAG-API/internal/embedding/openai"
	"github.com/jhin-47/RAG-API/internal/logger"
	"github.com/jhin-47/RAG-API/internal/server"
	"github.com/jhin-47/RAG-API/internal/service"
	"github.com/jhin-47/RAG-API/internal/vectorstore"
	"github.com/jhin-47/RAG-API/internal/vectorstore/sqlitevec"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var logFormat string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file (optional)")
	flag.StringVar(&logFormat, "log-format", "json", "Log format: json or text")
	flag.Parse()

	log := logger.New(logger.Config{Level: slog.LevelInfo, Format: logFormat})

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Assemble components
	var emb embedding.Embedder
	timeout := time.Duration(cfg.Embedder.TimeoutSecs) * time.Second
	switch cfg.Embedder.Source {
	case "openai":
		emb, err = openai.NewEmbedder(openai.Config{
			APIKey:  cfg.Embedder.APIKey,
			Model:   cfg.Embedder.Model,
			Timeout: timeout,
		})
	case "google":
		emb, err = google.NewEmbedder(google.Config{
			APIKey:  cfg.Embedder.APIKey,
			Model:   cfg.Embedder.Model,
			Timeout: timeout,
		})
	}
	if err != nil {
		log.Error("failed to init embedder", "source", cfg.Embedder.Source, "error", err)
		os.Exit(1)
	}

	snapshot, err := vectorstore.ResolveSnapshot(cfg.Store.Dir, cfg.Store.Filename, vectorstore.SelectLatestByName)
	if err != nil {
		log.Error("failed to resolve snapshot", "dir", cfg.Store.Dir, "error", err)
		os.Exit(1)
	}

	store, err := sqlitevec.Open(snapshot)
	if err != nil {
		log.Error("failed to open snapshot", "path", snapshot, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("snapshot opened",
		"path", snapshot,
		"dimension", store.Dimension(),
		"embedding_model", emb.Model(),
	)

	svc := service.New(emb, store, cfg.Search.DefaultK, cfg.Search.MaxK)
	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		SnapshotName: store.Filename(),
	}, svc, store, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
