// Package memory is a brute-force in-memory implementation of
// vectorstore.Storage. It mirrors the snapshot accessor's ordering semantics
// (ascending L2 distance, insertion order on ties) and backs unit tests.
package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/jhin-47/RAG-API/internal/domain"
)

// Storage holds postings and their vectors in memory.
type Storage struct {
	mu       sync.RWMutex
	dim      int
	vectors  [][]float32
	postings []domain.JobPosting
}

// NewStorage creates an empty store for vectors of the given dimension.
func NewStorage(dim int) *Storage {
	return &Storage{dim: dim}
}

// Add appends a posting with its embedding.
func (s *Storage) Add(p domain.JobPosting, vector []float32) error {
	if len(vector) != s.dim {
		return errors.New("vector dimension mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings = append(s.postings, p)
	s.vectors = append(s.vectors, vector)
	return nil
}

// Search returns up to k postings ordered by ascending euclidean distance.
// Ties keep insertion order (stable sort).
func (s *Storage) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(vector) > s.dim {
		vector = vector[:s.dim]
	}

	idxs := make([]int, len(s.vectors))
	dists := make([]float64, len(s.vectors))
	for i := range s.vectors {
		idxs[i] = i
		dists[i] = euclidean(s.vectors[i], vector)
	}
	sort.SliceStable(idxs, func(a, b int) bool { return dists[idxs[a]] < dists[idxs[b]] })

	if k > len(idxs) {
		k = len(idxs)
	}
	results := make([]domain.SearchResult, 0, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Posting: s.postings[j], Distance: dists[j]})
	}
	return results, nil
}

// Count returns the number of stored postings.
func (s *Storage) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.postings), nil
}

// Close is a no-op for the in-memory store.
func (s *Storage) Close() error { return nil }

func euclidean(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
