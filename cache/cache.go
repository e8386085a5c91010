package cache

import (
	"sync"
	"time"

	"ecowattch-server/entities"
)

// PaletteCache holds a snapshot of the offering catalog for ttl.
// A zero ttl disables caching: Get always misses and Set is a no-op.
type PaletteCache struct {
	mu        sync.RWMutex
	offerings []entities.Offering
	loadedAt  time.Time
	loaded    bool
	ttl       time.Duration
	hits      int
	misses    int
	now       func() time.Time
}

func NewPaletteCache(ttl time.Duration) *PaletteCache {
	return &PaletteCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns a copy of the cached catalog if it is still fresh.
func (pc *PaletteCache) Get() ([]entities.Offering, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.loaded || pc.ttl <= 0 || pc.now().Sub(pc.loadedAt) >= pc.ttl {
		pc.misses++
		return nil, false
	}
	pc.hits++
	offerings := make([]entities.Offering, len(pc.offerings))
	copy(offerings, pc.offerings)
	return offerings, true
}

// Set stores a copy of offerings as the current snapshot.
func (pc *PaletteCache) Set(offerings []entities.Offering) {
	if pc.ttl <= 0 {
		return
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.offerings = append([]entities.Offering(nil), offerings...)
	pc.loadedAt = pc.now()
	pc.loaded = true
}

// Invalidate drops the snapshot so the next Get misses.
func (pc *PaletteCache) Invalidate() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.offerings = nil
	pc.loaded = false
}

// Stats returns statistics about the current cache
func (pc *PaletteCache) Stats() map[string]interface{} {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	stats := map[string]interface{}{
		"enabled":   pc.ttl > 0,
		"ttl":       pc.ttl.String(),
		"offerings": len(pc.offerings),
		"hits":      pc.hits,
		"misses":    pc.misses,
	}
	if pc.loaded {
		stats["loaded_at"] = pc.loadedAt.Format(time.RFC3339)
	}
	return stats
}
