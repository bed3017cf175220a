package nav

import "emberfall/server/internal/world"

// GridOracle binds the package-level search functions to one grid, giving
// callers a single pathfinding collaborator to inject.
type GridOracle struct {
	Grid *world.Grid
}

// FindPath searches for a waypoint sequence on the bound grid.
func (o GridOracle) FindPath(start, goal world.Vec2, opts Options) ([]world.Vec2, bool) {
	return FindPath(o.Grid, start, goal, opts)
}

// FindAlternatePath retries a failed request against offset goals.
func (o GridOracle) FindAlternatePath(start, goal world.Vec2, opts Options) ([]world.Vec2, world.Vec2, bool) {
	return FindAlternatePath(o.Grid, start, goal, opts)
}

// ValidatePath revalidates a path against the bound grid.
func (o GridOracle) ValidatePath(path []world.Vec2, capability world.Capability) bool {
	return ValidatePath(o.Grid, path, capability)
}
