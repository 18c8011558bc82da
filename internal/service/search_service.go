package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhin-47/RAG-API/internal/domain"
	"github.com/jhin-47/RAG-API/internal/embedding"
	"github.com/jhin-47/RAG-API/internal/vectorstore"
)

// SearchService is the retrieval core: validate the query, embed it, run the
// similarity search, and return ranked postings. The path is read-only and
// deterministic given a fixed snapshot and a deterministic provider.
type SearchService struct {
	embedder embedding.Embedder
	store    vectorstore.Storage
	defaultK int
	maxK     int
}

// New creates a SearchService bounded by the given default and maximum
// result counts.
func New(embedder embedding.Embedder, store vectorstore.Storage, defaultK, maxK int) *SearchService {
	if defaultK < 1 {
		defaultK = 3
	}
	if maxK < defaultK {
		maxK = defaultK
	}
	return &SearchService{embedder: embedder, store: store, defaultK: defaultK, maxK: maxK}
}

// Search returns the top-k postings for the query. A k of 0 means the
// configured default. Invalid input is rejected before the provider is
// called.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidQuery)
	}
	if k == 0 {
		k = s.defaultK
	}
	if k < 1 || k > s.maxK {
		return nil, fmt.Errorf("%w: k must be between 1 and %d", domain.ErrInvalidQuery, s.maxK)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingProvider) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingProvider, err)
	}

	results, err := s.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return results, nil
}

// MaxK returns the configured result-count ceiling.
func (s *SearchService) MaxK() int { return s.maxK }
