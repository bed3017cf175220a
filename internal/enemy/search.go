package enemy

import (
	"math"

	"emberfall/server/internal/nav"
	"emberfall/server/internal/world"
)

// Ring sampling for the nearby-accessible-position search.
var nearbyRingRadii = []float64{50, 100, 150, 200}

const nearbyRingAngles = 12

// probeMaxIterations bounds the reachability probe per candidate so the
// whole search stays cheap even when every ring fails.
const probeMaxIterations = 512

// ringCandidates generates candidate positions on expanding rings around an
// origin, one ring at a time, angles in deterministic order.
func ringCandidates(origin world.Vec2, radii []float64, angles int) []world.Vec2 {
	candidates := make([]world.Vec2, 0, len(radii)*angles)
	for _, radius := range radii {
		for i := 0; i < angles; i++ {
			angle := 2 * math.Pi * float64(i) / float64(angles)
			candidates = append(candidates, world.Vec2{
				X: origin.X + math.Cos(angle)*radius,
				Y: origin.Y + math.Sin(angle)*radius,
			})
		}
	}
	return candidates
}

// findNearbyAccessible searches expanding rings around a goal for the first
// position that is not known-bad, is legally occupiable, and is reachable
// from the enemy's current position.
func (n *Navigator) findNearbyAccessible(e *Enemy, origin world.Vec2) (world.Vec2, bool) {
	probe := nav.Options{
		Capability:    e.Capability,
		AllowDiagonal: true,
		MaxIterations: probeMaxIterations,
	}
	for _, candidate := range ringCandidates(origin, nearbyRingRadii, nearbyRingAngles) {
		if n.cache.Contains(candidate) {
			continue
		}
		if !n.collider.CanOccupy(e.Capability, candidate) {
			continue
		}
		if _, ok := n.oracle.FindPath(e.Pos, candidate, probe); !ok {
			continue
		}
		return candidate, true
	}
	return world.Vec2{}, false
}
