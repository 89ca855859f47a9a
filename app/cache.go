package app

import (
	"os"
	"sync"
	"time"
)

// tableCache memoizes a loaded table per file path. An entry is reused while
// the file keeps the same modification time and size; cached values are
// never mutated, so they are shared between requests as is.
type tableCache[T any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	modTime time.Time
	size    int64
	value   T
}

func newTableCache[T any]() *tableCache[T] {
	return &tableCache[T]{entries: make(map[string]cacheEntry[T])}
}

// get returns the cached value for path or calls load. hit reports whether
// the cache answered. A file that cannot be stat'ed is handed to load so the
// loader reports the error.
func (c *tableCache[T]) get(path string, load func() (T, error)) (value T, hit bool, err error) {
	info, statErr := os.Stat(path)
	if statErr == nil {
		c.mu.Lock()
		entry, ok := c.entries[path]
		c.mu.Unlock()
		if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return entry.value, true, nil
		}
	}

	value, err = load()
	if err != nil {
		return value, false, err
	}

	if statErr == nil {
		c.mu.Lock()
		c.entries[path] = cacheEntry[T]{modTime: info.ModTime(), size: info.Size(), value: value}
		c.mu.Unlock()
	}
	return value, false, nil
}

// invalidate drops every entry
func (c *tableCache[T]) invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry[T])
	c.mu.Unlock()
}
