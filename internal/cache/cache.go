// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores downloaded PDF payloads on disk, one blob per
// paper ID. The filesystem is the index: each blob lives at a path derived
// from its ID, so writes are idempotent and no manifest is kept.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageError reports a failed cache write. Reads never produce it; Has,
// Get, and TotalSize degrade to "absent" or zero instead.
type StorageError struct {
	ID   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache write for %s at %s: %v", e.ID, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Cache is a keyed blob store rooted at a single directory. Construct one
// per application instance and pass it to whoever needs it; there is no
// package-level singleton.
//
// Two concurrent Put calls for the same ID race last-writer-wins. That is
// accepted: writes are rare, user-triggered, and keyed uniquely per paper.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir. The directory is created lazily on
// first Put, so New never fails.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Path returns the deterministic location for the blob with the given ID.
// Legacy arXiv IDs carry a slash ("math/0211159v1"); it is flattened so
// every blob lives directly under the store directory.
func (c *Cache) Path(id string) string {
	return filepath.Join(c.dir, strings.ReplaceAll(id, "/", "_")+".pdf")
}

// Has reports whether a blob exists for id. Any underlying storage error
// is treated as "not present".
func (c *Cache) Has(id string) bool {
	info, err := os.Stat(c.Path(id))
	return err == nil && !info.IsDir()
}

// Get returns the blob location for id, or ok=false when absent.
func (c *Cache) Get(id string) (path string, ok bool) {
	if !c.Has(id) {
		return "", false
	}
	return c.Path(id), true
}

// Put writes data to the blob location for id, overwriting any existing
// blob. The write goes to a temp file first and is renamed into place so a
// failed write never leaves a truncated blob behind.
func (c *Cache) Put(id string, data []byte) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", &StorageError{ID: id, Path: c.dir, Err: err}
	}

	dest := c.Path(id)
	tmp, err := os.CreateTemp(c.dir, ".put-*.tmp")
	if err != nil {
		return "", &StorageError{ID: id, Path: dest, Err: err}
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", &StorageError{ID: id, Path: dest, Err: writeErr}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", &StorageError{ID: id, Path: dest, Err: err}
	}
	return dest, nil
}

// ClearAll deletes every blob in the store. Individual delete failures do
// not stop the sweep; they are joined into the returned error so the
// caller can see which entries survived. A missing or unreadable store
// directory clears nothing and returns nil.
func (c *Cache) ClearAll() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}

	var failed []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			failed = append(failed, fmt.Errorf("removing %s: %w", entry.Name(), err))
		}
	}
	return errors.Join(failed...)
}

// TotalSize sums the on-disk sizes of all blobs. An empty or unreadable
// store reports zero.
func (c *Cache) TotalSize() int64 {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}
