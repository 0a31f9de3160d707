package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}

func TestEnsureDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(nested))
	assert.True(t, Exists(nested))

	// Idempotent.
	assert.NoError(t, EnsureDir(nested))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteAtomic(path, []byte("first")))
	require.NoError(t, WriteAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFindRecentAfter(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.txt")
	newFile := filepath.Join(dir, "sub", "new.txt")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(newFile), 0o755))
	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0o644))

	past := time.Now().Add(-time.Hour)
	old := past.Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldFile, old, old))

	recent, err := FindRecentAfter(dir, past)
	require.NoError(t, err)
	assert.Contains(t, recent, newFile)
	assert.NotContains(t, recent, oldFile)
}

func TestFindRecentAfter_MissingDir(t *testing.T) {
	_, err := FindRecentAfter(filepath.Join(t.TempDir(), "missing"), time.Time{})
	assert.Error(t, err)
}
