package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhin-47/RAG-API/internal/domain"
)

func seeded(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage(3)
	require.NoError(t, s.Add(domain.JobPosting{ID: 1, Title: "a"}, []float32{1, 0, 0}))
	require.NoError(t, s.Add(domain.JobPosting{ID: 2, Title: "b"}, []float32{0, 1, 0}))
	require.NoError(t, s.Add(domain.JobPosting{ID: 3, Title: "c"}, []float32{0.9, 0.1, 0}))
	return s
}

func TestSearchOrdering(t *testing.T) {
	s := seeded(t)

	results, err := s.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].Posting.ID)
	assert.Equal(t, int64(3), results[1].Posting.ID)
	assert.Equal(t, int64(2), results[2].Posting.ID)
	assert.Equal(t, 0.0, results[0].Distance)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	s := NewStorage(2)
	require.NoError(t, s.Add(domain.JobPosting{ID: 1}, []float32{0, 1}))
	require.NoError(t, s.Add(domain.JobPosting{ID: 2}, []float32{1, 0}))
	require.NoError(t, s.Add(domain.JobPosting{ID: 3}, []float32{0, -1}))

	// all three are equidistant from the origin
	results, err := s.Search(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].Posting.ID)
	assert.Equal(t, int64(2), results[1].Posting.ID)
	assert.Equal(t, int64(3), results[2].Posting.ID)
}

func TestSearchKLargerThanStore(t *testing.T) {
	s := seeded(t)

	results, err := s.Search(context.Background(), []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchTruncatesLongerVector(t *testing.T) {
	s := seeded(t)

	results, err := s.Search(context.Background(), []float32{1, 0, 0, 9, 9}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Posting.ID)
}

func TestAddDimensionMismatch(t *testing.T) {
	s := NewStorage(3)
	assert.Error(t, s.Add(domain.JobPosting{ID: 1}, []float32{1, 0}))
}

func TestCount(t *testing.T) {
	s := seeded(t)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
