package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhin-47/RAG-API/internal/domain"
)

// Storage answers similarity queries against one immutable snapshot.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Search returns up to k postings ordered by ascending distance to the
	// query vector. An empty store yields an empty slice, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error)
	// Count returns the number of stored postings.
	Count(ctx context.Context) (int, error)
	Close() error
}

// SelectFunc picks one snapshot out of the candidate file names found in the
// store directory. The selection policy is injectable so the filename
// convention can be swapped for a manifest without touching the accessor.
type SelectFunc func(names []string) string

// SelectLatestByName picks the lexicographically greatest name. Snapshot
// names embed a sortable timestamp (RAGDB_YYYYMMDD_HHMMSS_...), so the
// greatest name is the newest export.
func SelectLatestByName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	return sorted[0]
}

// ResolveSnapshot returns the path of the snapshot to open. A filename of
// "" or "default" means: list *.sqlite files in dir and let selectFn choose.
// Any other filename is opened verbatim.
func ResolveSnapshot(dir, filename string, selectFn SelectFunc) (string, error) {
	if filename != "" && filename != "default" {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrNoStoreFound, path)
		}
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.sqlite"))
	if err != nil {
		return "", fmt.Errorf("list snapshots in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no *.sqlite files in %s", domain.ErrNoStoreFound, dir)
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	if selectFn == nil {
		selectFn = SelectLatestByName
	}
	return filepath.Join(dir, selectFn(names)), nil
}
