package driver

import (
	"sync"

	"fuhao/internal/compiler"
)

// ResultCache keeps compile results of this process by source path. An entry
// is only returned while its cache key still matches.
type ResultCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

type cached struct {
	key    Digest
	result compiler.Result
}

// NewResultCache creates a ResultCache with the given capacity hint.
func NewResultCache(capHint int) *ResultCache {
	return &ResultCache{byPath: make(map[string]cached, capHint)}
}

// Get returns the result stored for path under key.
func (c *ResultCache) Get(path string, key Digest) (compiler.Result, bool) {
	if c == nil {
		return compiler.Result{}, false
	}
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.key != key {
		return compiler.Result{}, false
	}
	return rec.result, true
}

// Put replaces the entry for path.
func (c *ResultCache) Put(path string, key Digest, res compiler.Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byPath[path] = cached{key: key, result: res}
	c.mu.Unlock()
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPath)
}
