package enemy

import (
	"emberfall/server/internal/nav"
	"emberfall/server/internal/world"
)

const (
	// WaypointReachedRadius is how close the enemy must come to a waypoint
	// before the head of the path is consumed.
	WaypointReachedRadius = 10.0
	// TargetDriftThreshold forces recalculation once the live target has
	// moved this far from the position the path was computed for.
	TargetDriftThreshold = 50.0
	// PathRecalcInterval bounds path staleness.
	PathRecalcInterval = 1.5
	// PredictiveLeadSeconds projects a moving opponent ahead along its
	// velocity so the enemy intercepts instead of trailing.
	PredictiveLeadSeconds = 0.5
	// ArriveRadius starts the deceleration into the final waypoint.
	ArriveRadius = 24.0
	// TargetReachedEpsilon suppresses pathing when the enemy is already on
	// top of its target.
	TargetReachedEpsilon = 1.0
)

// PathState is the per-enemy waypoint bookkeeping. A path is valid only
// while its capability matches the enemy's, its waypoints survive grid
// validation, and the recalc timer has not expired; any violation forces
// recomputation before use.
type PathState struct {
	Waypoints  []world.Vec2
	Goal       world.Vec2
	Target     world.Vec2
	HasTarget  bool
	Capability world.Capability
	// RecalcTimer counts seconds since the last computation.
	RecalcTimer float64
}

// Clear drops the current path and its target bookkeeping.
func (p *PathState) Clear() {
	if p == nil {
		return
	}
	p.Waypoints = nil
	p.Goal = world.Vec2{}
	p.Target = world.Vec2{}
	p.HasTarget = false
	p.RecalcTimer = 0
}

// ExpireRecalc forces the next follow call to recompute.
func (p *PathState) ExpireRecalc() {
	if p == nil {
		return
	}
	p.RecalcTimer = PathRecalcInterval
}

func (p *PathState) install(path []world.Vec2, target world.Vec2, capability world.Capability) {
	p.Waypoints = path
	if len(path) > 0 {
		p.Goal = path[len(path)-1]
	} else {
		p.Goal = world.Vec2{}
	}
	p.Target = target
	p.HasTarget = true
	p.Capability = capability
	p.RecalcTimer = 0
}

// followPath turns a target into a velocity, recalculating the waypoint
// sequence when it is missing, stale, drifted, or invalid. Returns ok=false
// when no path can be produced at all.
func (n *Navigator) followPath(e *Enemy, target TargetRef, dt float64) (world.Vec2, bool) {
	if world.Dist(e.Pos, target.Pos) < TargetReachedEpsilon {
		// Already on top of the target; no velocity, no recalculation storm.
		return world.Vec2{}, true
	}

	p := &e.Path
	p.RecalcTimer += dt

	needsRecalc := len(p.Waypoints) == 0 ||
		!p.HasTarget ||
		p.Capability != e.Capability ||
		world.Dist(p.Target, target.Pos) > TargetDriftThreshold ||
		p.RecalcTimer >= PathRecalcInterval ||
		!n.oracle.ValidatePath(p.Waypoints, e.Capability)

	if needsRecalc && !n.recalcPath(e, target) {
		return world.Vec2{}, false
	}

	for len(p.Waypoints) > 1 && world.Dist(e.Pos, p.Waypoints[0]) <= WaypointReachedRadius {
		p.Waypoints = p.Waypoints[1:]
	}

	waypoint := p.Waypoints[0]
	delta := waypoint.Sub(e.Pos)
	dist := delta.Length()
	if len(p.Waypoints) == 1 && dist <= WaypointReachedRadius {
		// Path exhausted.
		p.Clear()
		p.Target = target.Pos
		p.HasTarget = true
		return world.Vec2{}, true
	}

	speed := e.CurrentSpeed
	if len(p.Waypoints) == 1 && dist < ArriveRadius {
		// Decelerate into the final waypoint instead of overshooting.
		speed *= dist / ArriveRadius
	}
	return delta.Normalized().Scale(speed), true
}

// recalcPath asks the oracle for a fresh path: primary request, then the
// alternate-goal fallback, then a path to a nearby accessible position.
// Failing all three reports no-path to the caller.
func (n *Navigator) recalcPath(e *Enemy, target TargetRef) bool {
	opts := nav.Options{
		Capability:    e.Capability,
		AllowDiagonal: true,
		Smooth:        true,
		MaxIterations: nav.DefaultMaxIterations,
	}
	if target.Kind == TargetOpponent {
		opts.Lead = target.Velocity.Scale(PredictiveLeadSeconds)
	}

	n.counters.RecordPathRequest()

	if path, ok := n.oracle.FindPath(e.Pos, target.Pos, opts); ok {
		e.Path.install(path, target.Pos, e.Capability)
		return true
	}
	if path, _, ok := n.oracle.FindAlternatePath(e.Pos, target.Pos, opts); ok {
		e.Path.install(path, target.Pos, e.Capability)
		return true
	}
	if fallback, ok := n.findNearbyAccessible(e, target.Pos); ok {
		probe := opts
		probe.Lead = world.Vec2{}
		if path, ok := n.oracle.FindPath(e.Pos, fallback, probe); ok {
			e.Path.install(path, target.Pos, e.Capability)
			return true
		}
	}

	e.Path.Clear()
	e.Path.Target = target.Pos
	e.Path.HasTarget = true
	n.counters.RecordPathFailure()
	n.log.Debug().
		Str("enemy", e.ID).
		Int("target_x", int(target.Pos.X)).
		Int("target_y", int(target.Pos.Y)).
		Msg("no path to target")
	return false
}
