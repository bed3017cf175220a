package nav

import (
	"math"

	"emberfall/server/internal/world"
)

// FindAlternatePath retries a failed request against a ring of offset goals
// around the original target, scoring candidates by how far they land from
// the intended goal plus their travel cost, and returns the best path found
// together with the goal it actually reaches.
func FindAlternatePath(grid *world.Grid, start, goal world.Vec2, opts Options) ([]world.Vec2, world.Vec2, bool) {
	if grid == nil {
		return nil, world.Vec2{}, false
	}
	target := grid.ClampToWorld(goal.Add(opts.Lead), world.ActorHalf)
	// The lead has been folded into the target already.
	opts.Lead = world.Vec2{}

	step := grid.CellSize()
	offsets := []world.Vec2{
		{X: step, Y: 0},
		{X: -step, Y: 0},
		{X: 0, Y: step},
		{X: 0, Y: -step},
		{X: step, Y: step},
		{X: step, Y: -step},
		{X: -step, Y: step},
		{X: -step, Y: -step},
		{X: 2 * step, Y: 0},
		{X: -2 * step, Y: 0},
		{X: 0, Y: 2 * step},
		{X: 0, Y: -2 * step},
	}

	bestScore := math.MaxFloat64
	var bestPath []world.Vec2
	var bestGoal world.Vec2
	for _, offset := range offsets {
		alt := grid.ClampToWorld(target.Add(offset), world.ActorHalf)
		if world.Dist(alt, target) < 1 {
			continue
		}
		candidate, ok := FindPath(grid, start, alt, opts)
		if !ok {
			continue
		}
		score := world.Dist(alt, target) + pathTravelCost(start, candidate)
		if score < bestScore {
			bestScore = score
			bestGoal = alt
			bestPath = append([]world.Vec2(nil), candidate...)
		}
	}
	if len(bestPath) == 0 {
		return nil, world.Vec2{}, false
	}
	return bestPath, bestGoal, true
}

func pathTravelCost(start world.Vec2, path []world.Vec2) float64 {
	cost := 0.0
	prev := start
	for _, node := range path {
		cost += world.Dist(prev, node)
		prev = node
	}
	return cost
}
