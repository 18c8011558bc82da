package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("RAG_DB_DIR", "database")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "google", cfg.Embedder.Source)
	assert.Equal(t, "models/text-embedding-004", cfg.Embedder.Model)
	assert.Equal(t, 30, cfg.Embedder.TimeoutSecs)
	assert.Equal(t, "test-key", cfg.Embedder.APIKey)
	assert.Equal(t, "default", cfg.Store.Filename)
	assert.Equal(t, 3, cfg.Search.DefaultK)
	assert.Equal(t, 10, cfg.Search.MaxK)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("RAG_DB_DIR", "database")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestLoadMissingStoreDir(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("RAG_DB_DIR", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAG_DB_DIR")
}

func TestLoadUnknownSource(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMBEDDING_SOURCE", "cohere")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohere")
}

func TestLoadOpenAIModelDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMBEDDING_SOURCE", "openai")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  addr: ":9999"
store:
  dir: /var/lib/rag/database
search:
  default_k: 5
  max_k: 8
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/rag/database", cfg.Store.Dir)
	assert.Equal(t, 5, cfg.Search.DefaultK)
	assert.Equal(t, 8, cfg.Search.MaxK)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("RAG_API_ADDR", ":7777")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  addr: ":9999"
store:
  dir: database
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "database", cfg.Store.Dir)
}

func TestLoadMalformedIntEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SEARCH_MAX_K", "ten")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_MAX_K")
}

func TestLoadBadKBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SEARCH_DEFAULT_K", "5")
	t.Setenv("SEARCH_MAX_K", "2")

	_, err := Load("")
	require.Error(t, err)
}
