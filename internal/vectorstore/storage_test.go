package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhin-47/RAG-API/internal/domain"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestResolveSnapshotPicksLatestByName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "db_20240101.sqlite")
	touch(t, dir, "db_20240215.sqlite")

	path, err := ResolveSnapshot(dir, "default", SelectLatestByName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db_20240215.sqlite"), path)
}

func TestResolveSnapshotEmptyDir(t *testing.T) {
	_, err := ResolveSnapshot(t.TempDir(), "default", SelectLatestByName)
	require.ErrorIs(t, err, domain.ErrNoStoreFound)
}

func TestResolveSnapshotIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")
	touch(t, dir, "db_20240101.sqlite")

	path, err := ResolveSnapshot(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db_20240101.sqlite"), path)
}

func TestResolveSnapshotExplicitFilename(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "db_20240101.sqlite")
	touch(t, dir, "db_20240215.sqlite")

	path, err := ResolveSnapshot(dir, "db_20240101.sqlite", SelectLatestByName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db_20240101.sqlite"), path)
}

func TestResolveSnapshotExplicitFilenameMissing(t *testing.T) {
	_, err := ResolveSnapshot(t.TempDir(), "absent.sqlite", SelectLatestByName)
	require.ErrorIs(t, err, domain.ErrNoStoreFound)
}

func TestResolveSnapshotCustomPolicy(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "db_20240101.sqlite")
	touch(t, dir, "db_20240215.sqlite")

	oldest := func(names []string) string {
		name := names[0]
		for _, n := range names[1:] {
			if n < name {
				name = n
			}
		}
		return name
	}

	path, err := ResolveSnapshot(dir, "default", oldest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db_20240101.sqlite"), path)
}

func TestSelectLatestByName(t *testing.T) {
	assert.Equal(t, "", SelectLatestByName(nil))
	assert.Equal(t, "c.sqlite", SelectLatestByName([]string{"a.sqlite", "c.sqlite", "b.sqlite"}))

	// input slice must not be reordered
	names := []string{"a.sqlite", "c.sqlite", "b.sqlite"}
	SelectLatestByName(names)
	assert.Equal(t, []string{"a.sqlite", "c.sqlite", "b.sqlite"}, names)
}
