package nav

import "emberfall/server/internal/world"

// ValidatePath reports whether every consecutive waypoint pair is still
// mutually reachable on the current grid. Paths computed before a terrain
// change can fail validation and must be recomputed before reuse.
func ValidatePath(grid *world.Grid, path []world.Vec2, capability world.Capability) bool {
	if grid == nil || len(path) == 0 {
		return false
	}
	opts := Options{Capability: capability}
	for i := 0; i < len(path)-1; i++ {
		if !lineWalkable(grid, path[i], path[i+1], opts) {
			return false
		}
	}
	col, row, ok := grid.Locate(path[len(path)-1].X, path[len(path)-1].Y)
	if !ok || !grid.WalkableFor(col, row, capability) {
		return false
	}
	return true
}
