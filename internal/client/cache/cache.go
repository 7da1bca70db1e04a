// Package cache implements the client-side resource cache: a keyed store of
// server-derived data kept consistent by invalidate-and-refetch. Values
// enter the cache only as results of a fetch; there is deliberately no
// operation that stores a caller-supplied value, so a mutation's request
// payload can never be merged into cached state.
package cache

import (
	"context"
	"sync"
)

// Key names a cache entry shared by all readers of that resource.
type Key string

const (
	CurrentUser Key = "currentUser"
	Users       Key = "users"
	Items       Key = "items"
)

// Keys lists every entry the cache manages.
var Keys = []Key{CurrentUser, Users, Items}

// State describes an entry's position in its read lifecycle.
type State int

const (
	// Empty: nothing fetched yet, or the entry was cleared.
	Empty State = iota
	// Pending: a fetch is in flight.
	Pending
	// Ready: the last fetch succeeded; the value may still be stale.
	Ready
	// Failed: the last fetch errored; the next read retries.
	Failed
)

// Fetch loads the current server state of a resource.
type Fetch func(ctx context.Context) (any, error)

type flight struct {
	done  chan struct{}
	value any
	err   error
	// discarded is set when the entry was cleared while this flight was in
	// the air; its result must not be treated as cache state.
	discarded bool
}

type entry struct {
	state State
	value any
	err   error
	stale bool
	// gen increments on Clear. A flight that started under an older gen is
	// discarded on settlement instead of applied.
	gen      uint64
	inflight *flight
	// staleEvents counts fresh->stale transitions, for tests of settlement
	// idempotence.
	staleEvents int
}

// Cache is an explicitly constructed coherence engine. It is safe for
// concurrent use; a single Cache instance is shared by all readers of a
// session.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Read returns the cached value for key, fetching it when the entry is
// empty, failed, or stale. Concurrent readers of the same key share one
// in-flight fetch. A reader that joined a flight receives that flight's
// outcome; it does not start another fetch on failure.
//
// If the entry is cleared while a fetch is in flight, the fetched value is
// returned to the caller that initiated it but is not applied to the cache.
func (c *Cache) Read(ctx context.Context, key Key, fetch Fetch) (any, error) {
	for {
		c.mu.Lock()
		e := c.entry(key)

		if e.state == Ready && !e.stale {
			v := e.value
			c.mu.Unlock()
			return v, nil
		}

		if e.inflight != nil {
			f := e.inflight
			c.mu.Unlock()
			select {
			case <-f.done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if f.discarded {
				// The world changed under this flight; loop and re-read.
				continue
			}
			if f.err != nil {
				return nil, f.err
			}
			return f.value, nil
		}

		// Start a new fetch.
		f := &flight{done: make(chan struct{})}
		e.inflight = f
		e.state = Pending
		e.stale = false
		gen := e.gen
		c.mu.Unlock()

		v, err := fetch(ctx)

		c.mu.Lock()
		e = c.entry(key)
		if e.gen != gen {
			// Cleared mid-flight: settle waiters without touching state.
			f.discarded = true
			f.value, f.err = v, err
			if e.inflight == f {
				e.inflight = nil
			}
			close(f.done)
			c.mu.Unlock()
			return v, err
		}

		if err != nil {
			e.state = Failed
			e.err = err
			e.value = nil
		} else {
			e.state = Ready
			e.err = nil
			e.value = v
			// e.stale is left alone: an Invalidate issued while this fetch
			// was in flight keeps the entry stale, because the result may
			// predate that mutation.
		}
		f.value, f.err = v, err
		e.inflight = nil
		close(f.done)
		c.mu.Unlock()

		return v, err
	}
}

// Invalidate marks the entry stale so the next Read refetches. Invalidating
// an entry that is already stale, empty, or failed changes nothing, which
// makes mutation settlement idempotent.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	if e.stale {
		return
	}
	switch e.state {
	case Ready, Pending:
		e.stale = true
		e.staleEvents++
	}
}

// Clear drops the entry's value entirely and bumps its generation so any
// fetch already in flight settles without being applied. Used when cached
// data must not be observable anymore (logout, account deletion).
func (c *Cache) Clear(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	e.gen++
	e.state = Empty
	e.value = nil
	e.err = nil
	e.stale = false
	e.inflight = nil
}

// ClearAll clears every managed entry.
func (c *Cache) ClearAll() {
	for _, k := range Keys {
		c.Clear(k)
	}
}

// State reports the entry's lifecycle state.
func (c *Cache) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(key).state
}

// IsStale reports whether the entry is marked for refetch.
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(key).stale
}

// StaleEvents returns how many times the entry transitioned from fresh to
// stale. Settling the same mutation twice must not increase this twice.
func (c *Cache) StaleEvents(key Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(key).staleEvents
}
