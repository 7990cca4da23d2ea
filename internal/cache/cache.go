// Package cache persists which documents a previous run already classified,
// making reprocessing idempotent across scheduled invocations.
package cache

import (
	"fmt"
	"strings"
)

// Entry is the recorded outcome for one document id.
type Entry struct {
	Promoted bool `json:"promoted"`
}

// Backend loads and stores the full completion record. Implementations are
// read-once/write-once: the agent loads at startup, mutates in memory, and
// saves a single time at the end of a successful pass.
type Backend interface {
	Load() (map[string]Entry, error)
	Save(entries map[string]Entry) error
	Close() error
}

// NewBackend creates the configured cache backend.
func NewBackend(typ, path string) (Backend, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopBackend{}, nil
	case "json", "file":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("json cache requires a path")
		}
		return &jsonBackend{path: path}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt cache requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", typ)
	}
}

// Cache is the in-memory completion record for the current run. It is owned
// by a single control flow; no locking.
type Cache struct {
	entries map[string]Entry
	backend Backend
}

// Open loads the completion record from the backend.
func Open(backend Backend) (*Cache, error) {
	if backend == nil {
		backend = noopBackend{}
	}
	entries, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load completion cache: %w", err)
	}
	if entries == nil {
		entries = make(map[string]Entry)
	}
	return &Cache{entries: entries, backend: backend}, nil
}

// Has reports whether the document id was classified by an earlier run
// (or earlier in this run).
func (c *Cache) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Get returns the recorded outcome for id.
func (c *Cache) Get(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Put records the outcome for id in memory. Nothing reaches storage until
// Persist.
func (c *Cache) Put(id string, e Entry) {
	c.entries[id] = e
}

// Len returns the number of recorded documents.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Persist writes the full record through the backend. Callers skip this in
// dry-run mode so the stored file stays untouched.
func (c *Cache) Persist() error {
	return c.backend.Save(c.entries)
}

// Close releases the backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

// noopBackend backs --no-cache runs: loads empty, saves nothing.
type noopBackend struct{}

func (noopBackend) Load() (map[string]Entry, error) { return map[string]Entry{}, nil }
func (noopBackend) Save(map[string]Entry) error     { return nil }
func (noopBackend) Close() error                    { return nil }
