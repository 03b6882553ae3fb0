package cache

import (
	"context"
	"sync"
	"time"
)

type viewEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryViewCache keeps rendered views in-process with a per-path TTL.
type MemoryViewCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	paths map[string]map[string]viewEntry
}

func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{
		ttl:   ttl,
		paths: make(map[string]map[string]viewEntry),
	}
}

func (c *MemoryViewCache) Get(_ context.Context, path, variant string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.paths[path][variant]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.paths[path], variant)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.body, true, nil
}

func (c *MemoryViewCache) Set(_ context.Context, path, variant string, body []byte) error {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	variants, ok := c.paths[path]
	if !ok {
		variants = make(map[string]viewEntry)
		c.paths[path] = variants
	}
	variants[variant] = viewEntry{body: body, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *MemoryViewCache) Revalidate(_ context.Context, path string) error {
	c.mu.Lock()
	delete(c.paths, path)
	c.mu.Unlock()
	return nil
}
