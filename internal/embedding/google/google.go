package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jhin-47/RAG-API/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "models/text-embedding-004"
)

// Embedder generates query embeddings through the Google Generative Language
// embedContent endpoint.
type Embedder struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
}

// Config configures the Google embedder.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string // override for tests
}

// NewEmbedder creates a new Google embedder.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google: API key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	t := cfg.Timeout
	if t <= 0 {
		t = 30 * time.Second
	}
	return &Embedder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		// no per-request client timeout: the call-wide deadline in Embed
		// bounds every attempt, backoff and Retry-After sleep included
		client:     &http.Client{},
		timeout:    t,
		maxRetries: 3,
	}, nil
}

// Model returns the configured model identifier.
func (e *Embedder) Model() string { return e.model }

type embedRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the embedding vector for the given text. Rate-limit and
// server errors are retried with capped exponential backoff; the whole call,
// retries included, completes within the configured timeout.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body := embedRequest{Model: e.model}
	body.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("google: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", e.baseURL, e.model, e.apiKey)
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: google: %v", domain.ErrEmbeddingProvider, ctx.Err())
			case <-time.After(retryDelay(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("google: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("google embedContent: %s", resp.Status)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					_ = resp.Body.Close()
					select {
					case <-ctx.Done():
						return nil, fmt.Errorf("%w: google: %v", domain.ErrEmbeddingProvider, ctx.Err())
					case <-time.After(time.Duration(secs) * time.Second):
					}
					continue
				}
			}
			_ = resp.Body.Close()
			continue
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: google embedContent: %s", domain.ErrEmbeddingProvider, resp.Status)
		}

		var out embedResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(out.Embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: google: no embedding returned", domain.ErrEmbeddingProvider)
		}
		return out.Embedding.Values, nil
	}
	return nil, fmt.Errorf("%w: google: %v", domain.ErrEmbeddingProvider, lastErr)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
