package enemy

const (
	// stuckSpeedFraction: average net speed below this fraction of base
	// speed counts as a stuck signal.
	stuckSpeedFraction = 0.15
	// Oscillation signal: plenty of instantaneous motion with almost no net
	// displacement, the signature of bouncing between two obstacle faces.
	oscillationSpeedFraction = 0.5
	oscillationNetFraction   = 0.08
	// StuckConfirmSeconds is how long a stuck signal must persist before it
	// is acted on. Shorelines confirm faster because units snag there more.
	StuckConfirmSeconds      = 0.35
	StuckConfirmSecondsShore = 0.18
	// goodMovementFraction of base speed counts as healthy progress.
	goodMovementFraction = 0.35
	// GoodMovementResetSeconds of sustained healthy progress pays down one
	// emergency attempt.
	GoodMovementResetSeconds = 1.5
)

// checkStuck accumulates stuck evidence from the motion history and reports
// whether the enemy is confirmed stuck this tick. Confirmation requires a
// full history buffer; a partially-filled buffer never reports stuck.
func (n *Navigator) checkStuck(e *Enemy, dt float64) bool {
	r := &e.Recovery

	// An enemy with no movement intent is idle, not stuck.
	if e.Velocity.Length() == 0 && len(e.Path.Waypoints) == 0 {
		r.stuckSeconds = 0
		return false
	}

	h := e.History
	if h.Count() < 2 {
		return false
	}

	window := h.WindowSeconds()
	if window <= 0 {
		return false
	}
	netSpeed := h.NetDisplacement() / window
	meanSpeed := h.MeanSpeed()

	lowProgress := netSpeed < stuckSpeedFraction*e.BaseSpeed
	oscillating := meanSpeed > oscillationSpeedFraction*e.BaseSpeed &&
		netSpeed < oscillationNetFraction*e.BaseSpeed

	switch {
	case lowProgress || oscillating:
		r.stuckSeconds += dt
		r.goodSeconds = 0
	case netSpeed >= goodMovementFraction*e.BaseSpeed:
		r.stuckSeconds = 0
		r.LastGood = e.Pos
		r.HasLastGood = true
		r.goodSeconds += dt
		if r.goodSeconds >= GoodMovementResetSeconds {
			r.goodSeconds = 0
			if r.EmergencyAttempts > 0 {
				r.EmergencyAttempts--
			}
		}
	default:
		r.stuckSeconds = 0
	}

	if !h.Full() {
		return false
	}

	confirm := StuckConfirmSeconds
	if n.grid != nil && n.grid.NearWaterOrBridge(e.Pos) {
		confirm = StuckConfirmSecondsShore
	}
	return r.stuckSeconds >= confirm
}
