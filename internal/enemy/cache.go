package enemy

import (
	"sync"

	"emberfall/server/internal/world"
)

const (
	// cacheBucketSize quantizes cached positions so floating-point noise
	// around the same spot lands in one bucket.
	cacheBucketSize = world.DefaultCellSize
	// cacheStrikeThreshold is how many failure reports a bucket needs before
	// searches start avoiding it.
	cacheStrikeThreshold = 2
)

type cacheBucket struct {
	col int32
	row int32
}

// PositionCache is the process-wide, agent-shared store of world positions
// known to be unreachable or repeatedly fatal to pathing. Reads are
// concurrent; writes are append-only and synchronized. Entries are never
// expired except by Reset on a world reset: a stale "still bad" assumption
// is acceptable because terrain is static within a session.
type PositionCache struct {
	mu      sync.RWMutex
	strikes map[cacheBucket]uint8
}

// NewPositionCache returns an empty cache. One cache is shared by every
// enemy in a simulation session and injected at construction.
func NewPositionCache() *PositionCache {
	return &PositionCache{strikes: make(map[cacheBucket]uint8)}
}

func bucketFor(pos world.Vec2) cacheBucket {
	return cacheBucket{
		col: int32(pos.X / cacheBucketSize),
		row: int32(pos.Y / cacheBucketSize),
	}
}

// Report records one failure at pos. It returns true once the bucket has
// accumulated enough strikes to be treated as problematic.
func (c *PositionCache) Report(pos world.Vec2) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := bucketFor(pos)
	if c.strikes[key] < cacheStrikeThreshold {
		c.strikes[key]++
	}
	return c.strikes[key] >= cacheStrikeThreshold
}

// Contains reports whether pos falls in a bucket with enough strikes.
func (c *PositionCache) Contains(pos world.Vec2) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strikes[bucketFor(pos)] >= cacheStrikeThreshold
}

// Len reports how many buckets have reached the strike threshold.
func (c *PositionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, s := range c.strikes {
		if s >= cacheStrikeThreshold {
			n++
		}
	}
	return n
}

// Reset drops every entry. Called on world reset only.
func (c *PositionCache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strikes = make(map[cacheBucket]uint8)
}
