package store

import (
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
)

// DefaultRosterTTL is how long an aggregated roster stays fresh.
const DefaultRosterTTL = 15 * time.Minute

// RosterKey identifies one cached aggregation.
type RosterKey struct {
	TeamKey string
	Season  int
}

// RosterEntry is one cached aggregation result. Entries are replaced whole, never mutated.
type RosterEntry struct {
	Players   []players.Player
	Season    int
	ExpiresAt time.Time
}

// RosterCache keeps a thread-safe, TTL-bounded map of rosters in memory.
// Reads and writes copy players so callers never share state with the cache.
type RosterCache struct {
	mu      sync.RWMutex
	entries map[RosterKey]RosterEntry
	ttl     time.Duration
	clock   clock.Clock
}

// NewRosterCache constructs an empty cache. A nil clock uses the wall clock.
func NewRosterCache(ttl time.Duration, clk clock.Clock) *RosterCache {
	if ttl <= 0 {
		ttl = DefaultRosterTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &RosterCache{
		entries: make(map[RosterKey]RosterEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Get returns a copy of a live entry's players.
func (c *RosterCache) Get(key RosterKey) ([]players.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(entry.ExpiresAt) {
		return nil, false
	}
	return players.CloneAll(entry.Players), true
}

// Set replaces the entry for key and returns its expiry.
func (c *RosterCache) Set(key RosterKey, roster []players.Player) time.Time {
	expires := c.clock.Now().Add(c.ttl)
	entry := RosterEntry{
		Players:   players.CloneAll(roster),
		Season:    key.Season,
		ExpiresAt: expires,
	}
	if entry.Players == nil {
		entry.Players = []players.Player{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return expires
}

// Purge drops expired entries and returns how many were removed.
func (c *RosterCache) Purge() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports how many entries are held, live or expired.
func (c *RosterCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL reports the configured time-to-live.
func (c *RosterCache) TTL() time.Duration {
	return c.ttl
}
