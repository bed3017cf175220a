package enemy

import "emberfall/server/internal/world"

const (
	// RecoveryDuration is how long one recovery maneuver persists.
	RecoveryDuration = 0.75
	// RecoverySpeedFactor slows the enemy while it escapes.
	RecoverySpeedFactor = 0.5
	// LastGoodMinDistance gates steering back toward the last unstuck
	// position; closer than this it is not worth returning.
	LastGoodMinDistance = 20.0
	// EmergencyAttemptThreshold stuck episodes without an intervening
	// sustained-good-movement reset escalate to a teleport.
	EmergencyAttemptThreshold = 3
	// recoveryProgressMinDistance is the displacement a recovery must have
	// produced for the episode to count as successful.
	recoveryProgressMinDistance = 8.0
	// recoveryScanRadiusCells bounds the local grid scan for shoreline
	// escapes.
	recoveryScanRadiusCells = 8
	// teleportBorderMarginCells keeps teleport destinations away from the
	// world border.
	teleportBorderMarginCells = 2
)

// Teleport scans use wider rings than the nearby-position search.
var teleportRingRadii = []float64{75, 150, 225, 300}

const teleportRingAngles = 16

// RecoveryState is the per-enemy recovery payload. Mode lives in the state
// machine; these fields are only meaningful while recovering, plus the
// counters that persist across episodes.
type RecoveryState struct {
	machine *recoveryMachine

	Heading  world.Vec2
	TimeLeft float64
	// EmergencyAttempts counts stuck episodes that did not end with real
	// progress; at the threshold the next stuck detection teleports.
	EmergencyAttempts int
	LastGood          world.Vec2
	HasLastGood       bool

	entryPos     world.Vec2
	stuckSeconds float64
	goodSeconds  float64
}

// Mode reports the current recovery mode for the debug feed.
func (r *RecoveryState) Mode() string {
	if r != nil && r.machine.Recovering() {
		return string(StateRecovering)
	}
	return string(StateMoving)
}

// handleStuck reacts to a confirmed stuck condition: escalate to an
// emergency teleport once the attempt counter reaches its threshold,
// otherwise enter a recovery episode.
func (n *Navigator) handleStuck(e *Enemy, dt float64) TickResult {
	if e.Recovery.EmergencyAttempts >= EmergencyAttemptThreshold {
		if n.emergencyTeleport(e) {
			return TickResult{State: StateMoving}
		}
		// Teleport exhausted every ring; drop back below the threshold so the
		// next stuck detection runs an ordinary recovery before retrying.
		e.Recovery.EmergencyAttempts = EmergencyAttemptThreshold - 1
		return TickResult{State: StateMoving}
	}

	e.Recovery.machine.sendStuck()
	if !e.Recovery.machine.Recovering() {
		// Guard rejected the transition; nothing to do this tick.
		return TickResult{State: StateMoving}
	}
	return n.tickRecovery(e, dt)
}

// beginRecovery runs as the machine's entry action: record the failure,
// escalate the emergency counter, drop the presumed-invalid path, and pick
// an escape strategy.
func (n *Navigator) beginRecovery(e *Enemy) {
	r := &e.Recovery
	n.cache.Report(e.Pos)
	r.EmergencyAttempts++
	r.stuckSeconds = 0
	r.entryPos = e.Pos
	r.TimeLeft = RecoveryDuration
	r.Heading = n.selectRecoveryHeading(e)
	e.Path.Clear()
	n.counters.RecordRecovery()
	n.log.Info().
		Str("enemy", e.ID).
		Int("attempts", r.EmergencyAttempts).
		Int("x", int(e.Pos.X)).
		Int("y", int(e.Pos.Y)).
		Msg("stuck, entering recovery")
}

// selectRecoveryHeading picks the escape direction by priority: off the
// shoreline via the nearest bridge or solid ground, back toward the last
// known-good position, else a random heading that breaks symmetric corner
// deadlocks.
func (n *Navigator) selectRecoveryHeading(e *Enemy) world.Vec2 {
	if n.grid != nil && n.grid.NearWaterOrBridge(e.Pos) {
		if bridge, ok := n.grid.NearestBridge(e.Pos, recoveryScanRadiusCells); ok {
			if heading := bridge.Sub(e.Pos).Normalized(); heading.Length() > 0 {
				return heading
			}
		}
		if ground, ok := n.grid.NearestSolidGround(e.Pos, recoveryScanRadiusCells); ok {
			if heading := ground.Sub(e.Pos).Normalized(); heading.Length() > 0 {
				return heading
			}
		}
	}
	r := &e.Recovery
	if r.HasLastGood && world.Dist(e.Pos, r.LastGood) > LastGoodMinDistance {
		return r.LastGood.Sub(e.Pos).Normalized()
	}
	return n.randomHeading()
}

// tickRecovery reapplies the chosen heading for the duration of the
// episode, re-randomizing immediately when the heading is blocked rather
// than stalling out the timer.
func (n *Navigator) tickRecovery(e *Enemy, dt float64) TickResult {
	r := &e.Recovery
	r.TimeLeft -= dt
	if r.TimeLeft <= 0 {
		r.machine.sendRecovered()
		return TickResult{State: StateMoving}
	}

	speed := e.CurrentSpeed * RecoverySpeedFactor
	candidate := e.Pos.Add(r.Heading.Scale(speed * dt))
	if !n.collider.CanOccupy(e.Capability, candidate) {
		r.Heading = n.randomHeading()
	}
	velocity := r.Heading.Scale(speed)
	return TickResult{State: StateRecovering, Velocity: velocity}
}

// finishRecovery runs as the machine's exit action: an episode that
// produced real displacement pays down the emergency counter, and the next
// follow call is forced to recompute its path.
func (n *Navigator) finishRecovery(e *Enemy) {
	r := &e.Recovery
	if world.Dist(e.Pos, r.entryPos) > recoveryProgressMinDistance && r.EmergencyAttempts > 0 {
		r.EmergencyAttempts--
	}
	r.TimeLeft = 0
	e.Path.ExpireRecalc()
	n.log.Debug().
		Str("enemy", e.ID).
		Int("attempts", r.EmergencyAttempts).
		Msg("recovery finished")
}

// emergencyTeleport scans wide rings for a legal landing cell and snaps the
// enemy there. Success resets the emergency counter; failure is reported
// and the enemy stays where it is.
func (n *Navigator) emergencyTeleport(e *Enemy) bool {
	n.counters.RecordTeleportAttempt()
	for _, candidate := range ringCandidates(e.Pos, teleportRingRadii, teleportRingAngles) {
		if !n.teleportTargetLegal(e, candidate) {
			continue
		}
		n.log.Info().
			Str("enemy", e.ID).
			Int("from_x", int(e.Pos.X)).
			Int("from_y", int(e.Pos.Y)).
			Int("to_x", int(candidate.X)).
			Int("to_y", int(candidate.Y)).
			Msg("emergency teleport")
		e.Pos = candidate
		e.Velocity = world.Vec2{}
		e.Path.Clear()
		e.History.Reset()
		r := &e.Recovery
		r.EmergencyAttempts = 0
		r.stuckSeconds = 0
		r.LastGood = candidate
		r.HasLastGood = true
		n.counters.RecordTeleport()
		return true
	}
	n.counters.RecordTeleportFailure()
	n.log.Warn().
		Str("enemy", e.ID).
		Int("x", int(e.Pos.X)).
		Int("y", int(e.Pos.Y)).
		Msg("emergency teleport found no landing cell")
	return false
}

// teleportTargetLegal applies the landing predicates: in-bounds, away from
// the border, not a known-bad position, occupiable, and for ground units
// not beside open water.
func (n *Navigator) teleportTargetLegal(e *Enemy, candidate world.Vec2) bool {
	if n.grid == nil {
		return false
	}
	col, row, ok := n.grid.WorldToGrid(candidate)
	if !ok {
		return false
	}
	if n.grid.NearBorder(col, row, teleportBorderMarginCells) {
		return false
	}
	if n.cache.Contains(candidate) {
		return false
	}
	if !n.collider.CanOccupy(e.Capability, candidate) {
		return false
	}
	if e.Capability == world.CapabilityWalking && n.grid.AdjacentToWater(candidate) {
		return false
	}
	return true
}
