// Package cache persists per-file verification results between runs so
// unchanged files can be skipped.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// Entry records the outcome of verifying one file. The content hash ties
// the entry to the exact bytes that were analyzed, so edits invalidate it
// regardless of timestamps.
type Entry struct {
	ContentHash uint64
	Clean       bool
	Timestamp   time.Time
}

// Stats describes the on-disk cache for the reset-cache command.
type Stats struct {
	Entries        int
	TotalSizeBytes int64
	Dir            string
}

// Manager provides content-addressed result caching. It is safe for
// concurrent use by the worker pool.
type Manager struct {
	dir   string
	mutex sync.RWMutex
}

// NewManager creates a manager rooted at cacheDir. If cacheDir is empty it
// defaults to ".gcverify-cache" in the current working directory.
func NewManager(cacheDir string) (*Manager, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".gcverify-cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Manager{dir: cacheDir}, nil
}

// entryPath derives the cache file name from the analyzed file's path.
func (m *Manager) entryPath(filePath string) string {
	return filepath.Join(m.dir, fmt.Sprintf("%016x.cache", xxh3.HashString(filePath)))
}

func hashContents(filePath string) (uint64, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(content), nil
}

// IsClean reports whether the file's current contents already produced a
// clean verification result in a previous run.
func (m *Manager) IsClean(filePath string) (bool, error) {
	hash, err := hashContents(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", filePath, err)
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data, err := os.ReadFile(m.entryPath(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var entry Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		// Corrupt entry: treat as a miss, it will be rewritten.
		return false, nil
	}

	return entry.Clean && entry.ContentHash == hash, nil
}

// MarkClean records that the file's current contents verified clean.
func (m *Manager) MarkClean(filePath string) error {
	hash, err := hashContents(filePath)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", filePath, err)
	}

	entry := Entry{
		ContentHash: hash,
		Clean:       true,
		Timestamp:   time.Now(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := os.WriteFile(m.entryPath(filePath), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Invalidate removes the entry for a file, if any.
func (m *Manager) Invalidate(filePath string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := os.Remove(m.entryPath(filePath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes every cached result.
func (m *Manager) Clear() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".cache" {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", e.Name(), err)
		}
	}

	return nil
}

// GetStats summarizes the cache contents.
func (m *Manager) GetStats() (Stats, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := Stats{Dir: m.dir}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return stats, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".cache" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalSizeBytes += info.Size()
	}

	return stats, nil
}
