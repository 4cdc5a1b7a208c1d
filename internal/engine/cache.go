// Package engine holds the event-sourced game clock and player time
// computations. Everything here is a pure fold over an ordered snapshot of
// the event log: no I/O, no hidden state, identical input gives identical
// output. The host reads the log, hands the slice in, and renders whatever
// comes back.
package engine

import (
	"errors"
	"sync"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

// ErrNoEventTypes is returned when a fold is asked to run before the event
// type reference data has been loaded. The engine refuses to compute rather
// than silently folding zero recognized events into defaults.
var ErrNoEventTypes = errors.New("event type cache is empty")

// TypeCache is the immutable name→id lookup for event type reference data.
// It is constructed once at startup from the event_types table and injected
// into the engine; Reload exists for the case where seed data arrives after
// the process came up. Reads take no lock path worth worrying about, writes
// are rare.
type TypeCache struct {
	mu     sync.RWMutex
	byName map[string]int64
	byID   map[int64]string
}

// NewTypeCache builds a cache from reference rows. An empty slice is
// allowed; the resulting cache reports Empty and folds refuse to run.
func NewTypeCache(types []model.EventType) *TypeCache {
	c := &TypeCache{}
	c.Reload(types)
	return c
}

// Reload replaces the cache contents wholesale.
func (c *TypeCache) Reload(types []model.EventType) {
	byName := make(map[string]int64, len(types))
	byID := make(map[int64]string, len(types))
	for _, t := range types {
		byName[t.Name] = t.ID
		byID[t.ID] = t.Name
	}
	c.mu.Lock()
	c.byName = byName
	c.byID = byID
	c.mu.Unlock()
}

// IDByName resolves a stable event type name to its storage id.
func (c *TypeCache) IDByName(name string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	return id, ok
}

// NameByID resolves a storage id back to the stable name.
func (c *TypeCache) NameByID(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byID[id]
	return name, ok
}

// IDsByName resolves a set of names, skipping unknown ones.
func (c *TypeCache) IDsByName(names ...string) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		if id, ok := c.byName[n]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Empty reports whether the cache holds no reference data.
func (c *TypeCache) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName) == 0
}

// ClockTypeNames lists the event type names the timing fold consumes.
// The batch clock read filters the log down to these.
func ClockTypeNames() []string {
	return []string{
		model.EventGameStart,
		model.EventGameEnd,
		model.EventPeriodStart,
		model.EventPeriodEnd,
		model.EventStoppageStart,
		model.EventStoppageEnd,
	}
}
