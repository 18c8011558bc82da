// Package sqlitevec opens a pre-built sqlite-vec snapshot read-only and runs
// KNN queries against it. The snapshot schema is an external contract owned
// by the offline ingestion pipeline:
//
//	CREATE VIRTUAL TABLE vectors USING vec0(
//	    embedding float[N],
//	    +query TEXT,
//	    +content TEXT,
//	    timestamp FLOAT
//	)
package sqlitevec

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/jhin-47/RAG-API/internal/domain"
)

// Store is a read-only handle to one snapshot file. The file never changes
// for the process lifetime, so concurrent queries need no coordination
// beyond the connection pool.
type Store struct {
	db   *sql.DB
	path string
	dim  int
}

var dimPattern = regexp.MustCompile(`float\[(\d+)\]`)

// Open opens the snapshot at path and verifies its schema. Failures surface
// as ErrStoreUnavailable; the file is static, so callers should not retry.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, path, err)
	}

	var schema string
	err = db.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'vectors'`).Scan(&schema)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s has no vectors table: %v", domain.ErrStoreUnavailable, path, err)
	}

	m := dimPattern.FindStringSubmatch(schema)
	if m == nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: cannot determine embedding dimension", domain.ErrStoreUnavailable, path)
	}
	dim, err := strconv.Atoi(m[1])
	if err != nil || dim <= 0 {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: invalid embedding dimension %q", domain.ErrStoreUnavailable, path, m[1])
	}

	return &Store{db: db, path: path, dim: dim}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Filename returns the snapshot base name, for health reporting.
func (s *Store) Filename() string { return filepath.Base(s.path) }

// Dimension returns the embedding dimension declared by the snapshot schema.
func (s *Store) Dimension() int { return s.dim }

// Search runs a KNN query and returns up to k postings ordered by ascending
// distance. Query vectors longer than the stored dimension are truncated to
// it, matching the ingestion pipeline's behavior. Ties keep rowid order,
// which is insertion order.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if len(vector) > s.dim {
		vector = vector[:s.dim]
	}
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, fmt.Errorf("serialize query vector: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid, query, content, timestamp, distance
		 FROM vectors
		 WHERE embedding MATCH ? AND k = ?
		 ORDER BY distance`,
		blob, k,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: knn query: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.Posting.ID, &r.Posting.Title, &r.Posting.Content, &r.Posting.PostedAt, &r.Distance); err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", domain.ErrStoreUnavailable, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: knn query: %v", domain.ErrStoreUnavailable, err)
	}
	return results, nil
}

// Count returns the number of stored postings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM vectors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %v", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Close releases the snapshot handle.
func (s *Store) Close() error { return s.db.Close() }
