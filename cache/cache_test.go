package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	return m, dir
}

func TestManager_MarkAndCheckClean(t *testing.T) {
	m, dir := newTestManager(t)

	file := filepath.Join(dir, "Cell.h")
	require.NoError(t, os.WriteFile(file, []byte("class Cell {};\n"), 0644))

	clean, err := m.IsClean(file)
	require.NoError(t, err)
	assert.False(t, clean)

	require.NoError(t, m.MarkClean(file))

	clean, err = m.IsClean(file)
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestManager_ContentChangeInvalidates(t *testing.T) {
	m, dir := newTestManager(t)

	file := filepath.Join(dir, "Cell.h")
	require.NoError(t, os.WriteFile(file, []byte("class Cell {};\n"), 0644))
	require.NoError(t, m.MarkClean(file))

	require.NoError(t, os.WriteFile(file, []byte("class Cell { GC::Ptr<Object> m_obj; };\n"), 0644))

	clean, err := m.IsClean(file)
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestManager_Invalidate(t *testing.T) {
	m, dir := newTestManager(t)

	file := filepath.Join(dir, "Cell.h")
	require.NoError(t, os.WriteFile(file, []byte("class Cell {};\n"), 0644))
	require.NoError(t, m.MarkClean(file))

	require.NoError(t, m.Invalidate(file))

	clean, err := m.IsClean(file)
	require.NoError(t, err)
	assert.False(t, clean)

	// Invalidating a file with no entry is not an error.
	assert.NoError(t, m.Invalidate(file))
}

func TestManager_ClearAndStats(t *testing.T) {
	m, dir := newTestManager(t)

	for _, name := range []string{"a.h", "b.cpp", "c.h"} {
		file := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(file, []byte(name), 0644))
		require.NoError(t, m.MarkClean(file))
	}

	stats, err := m.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Greater(t, stats.TotalSizeBytes, int64(0))

	require.NoError(t, m.Clear())

	stats, err = m.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestManager_CorruptEntryIsAMiss(t *testing.T) {
	m, dir := newTestManager(t)

	file := filepath.Join(dir, "Cell.h")
	require.NoError(t, os.WriteFile(file, []byte("class Cell {};\n"), 0644))
	require.NoError(t, m.MarkClean(file))

	require.NoError(t, os.WriteFile(m.entryPath(file), []byte("not gob"), 0644))

	clean, err := m.IsClean(file)
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestManager_MissingFileErrors(t *testing.T) {
	m, dir := newTestManager(t)

	_, err := m.IsClean(filepath.Join(dir, "nope.h"))
	assert.Error(t, err)
}
