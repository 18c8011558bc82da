package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Source      string `yaml:"source"` // "openai" or "google"
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	APIKey      string `yaml:"-"` // env only, never read from a file
}

// StoreConfig locates the snapshot database.
type StoreConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"` // "default" picks the latest snapshot
}

// SearchConfig bounds the result count.
type SearchConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`
}

// AppConfig is the root application configuration. It is built once at
// startup and treated as immutable afterwards.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Store    StoreConfig    `yaml:"store"`
	Search   SearchConfig   `yaml:"search"`
}

// Load reads an optional YAML config file, applies environment overrides on
// top of it, then validates. A missing file is not an error; a missing
// required setting is.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server:   ServerConfig{Addr: ":8000", ShutdownTimeoutSecs: 10},
		Embedder: EmbedderConfig{Source: "google", TimeoutSecs: 30},
		Store:    StoreConfig{Filename: "default"},
		Search:   SearchConfig{DefaultK: 3, MaxK: 10},
	}
}

func applyEnv(cfg *AppConfig) error {
	cfg.Embedder.APIKey = os.Getenv("LLM_API_KEY")
	cfg.Embedder.Source = getEnv("EMBEDDING_SOURCE", cfg.Embedder.Source)
	cfg.Embedder.Model = getEnv("EMBEDDING_MODEL", cfg.Embedder.Model)
	cfg.Store.Dir = getEnv("RAG_DB_DIR", cfg.Store.Dir)
	cfg.Store.Filename = getEnv("RAG_DB_FILENAME", cfg.Store.Filename)
	cfg.Server.Addr = getEnv("RAG_API_ADDR", cfg.Server.Addr)

	var err error
	if cfg.Embedder.TimeoutSecs, err = getEnvAsInt("EMBED_TIMEOUT_SECS", cfg.Embedder.TimeoutSecs); err != nil {
		return err
	}
	if cfg.Search.DefaultK, err = getEnvAsInt("SEARCH_DEFAULT_K", cfg.Search.DefaultK); err != nil {
		return err
	}
	if cfg.Search.MaxK, err = getEnvAsInt("SEARCH_MAX_K", cfg.Search.MaxK); err != nil {
		return err
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Embedder.Model == "" {
		switch cfg.Embedder.Source {
		case "openai":
			cfg.Embedder.Model = "text-embedding-3-small"
		case "google":
			cfg.Embedder.Model = "models/text-embedding-004"
		}
	}
	if cfg.Embedder.TimeoutSecs <= 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Server.ShutdownTimeoutSecs <= 0 {
		cfg.Server.ShutdownTimeoutSecs = 10
	}
}

func (cfg *AppConfig) validate() error {
	if cfg.Embedder.APIKey == "" {
		return errors.New("LLM_API_KEY is required")
	}
	if cfg.Store.Dir == "" {
		return errors.New("RAG_DB_DIR is required")
	}
	switch cfg.Embedder.Source {
	case "openai", "google":
	default:
		return fmt.Errorf("unknown embedding source: %q", cfg.Embedder.Source)
	}
	if cfg.Search.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1, got %d", cfg.Search.DefaultK)
	}
	if cfg.Search.MaxK < cfg.Search.DefaultK {
		return fmt.Errorf("max_k (%d) must not be below default_k (%d)", cfg.Search.MaxK, cfg.Search.DefaultK)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
