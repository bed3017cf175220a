package enemy

import (
	"testing"

	"emberfall/server/internal/world"
)

// forceStuck primes an enemy so the next Update confirms a stuck condition.
func forceStuck(e *Enemy) {
	e.Path.Waypoints = []world.Vec2{e.Pos.Add(world.Vec2{X: 64})}
	freezeHistory(e, MotionHistorySize)
	e.Recovery.stuckSeconds = 1.0
}

// drainRecovery runs updates until the recovery episode ends.
func drainRecovery(t *testing.T, n *Navigator, e *Enemy) int {
	t.Helper()
	for tick := 0; tick < 60; tick++ {
		if !e.Recovery.machine.Recovering() {
			return tick
		}
		n.Update(e, nil, nil, testDt)
	}
	t.Fatalf("recovery did not terminate within 60 ticks")
	return 0
}

func TestStuckEntersRecovery(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 15, 15)
	forceStuck(e)

	res := n.Update(e, nil, nil, testDt)
	if res.State != StateRecovering {
		t.Fatalf("expected recovery state, got %v", res.State)
	}
	if !e.Recovery.machine.Recovering() {
		t.Fatalf("expected the machine in the recovering state")
	}
	if e.Recovery.EmergencyAttempts != 1 {
		t.Fatalf("expected one emergency attempt, got %d", e.Recovery.EmergencyAttempts)
	}
	if len(e.Path.Waypoints) != 0 {
		t.Fatalf("expected the stale path dropped on entry")
	}
	if got := n.counters.Snapshot().Recoveries; got != 1 {
		t.Fatalf("expected one recorded recovery, got %d", got)
	}
	if res.Velocity.Length() == 0 {
		t.Fatalf("expected an escape velocity during recovery")
	}
}

func TestRecoveryTerminatesWithinDuration(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 15, 15)
	forceStuck(e)

	n.Update(e, nil, nil, testDt)
	ticks := drainRecovery(t, n, e)

	dt := testDt
	budget := int(RecoveryDuration/dt) + 2
	if ticks > budget {
		t.Fatalf("recovery ran %d ticks, budget %d", ticks, budget)
	}
	if e.Recovery.machine.Recovering() {
		t.Fatalf("expected the machine back in moving")
	}
	// The enemy never actually moved, so the episode does not pay down the
	// attempt counter.
	if e.Recovery.EmergencyAttempts != 1 {
		t.Fatalf("expected the barren episode to keep its attempt, got %d", e.Recovery.EmergencyAttempts)
	}
	if e.Path.RecalcTimer < PathRecalcInterval {
		t.Fatalf("expected the next follow call to be forced to recalculate")
	}
}

func TestDisplacedRecoveryPaysDownAttempt(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 15, 15)
	forceStuck(e)

	n.Update(e, nil, nil, testDt)
	// Simulate the escape actually working.
	e.Pos = e.Pos.Add(world.Vec2{X: 20})
	drainRecovery(t, n, e)

	if e.Recovery.EmergencyAttempts != 0 {
		t.Fatalf("expected the displaced episode to pay down the attempt, got %d", e.Recovery.EmergencyAttempts)
	}
}

func TestRepeatedBarrenEpisodesEscalateToTeleport(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 15, 15)
	origin := e.Pos

	for episode := 0; episode < EmergencyAttemptThreshold; episode++ {
		forceStuck(e)
		res := n.Update(e, nil, nil, testDt)
		if res.State != StateRecovering {
			t.Fatalf("episode %d: expected recovery, got %v", episode+1, res.State)
		}
		drainRecovery(t, n, e)
	}
	if e.Recovery.EmergencyAttempts != EmergencyAttemptThreshold {
		t.Fatalf("expected %d accumulated attempts, got %d", EmergencyAttemptThreshold, e.Recovery.EmergencyAttempts)
	}

	forceStuck(e)
	res := n.Update(e, nil, nil, testDt)
	if res.State != StateMoving {
		t.Fatalf("expected the teleport tick to report moving, got %v", res.State)
	}
	if e.Pos == origin {
		t.Fatalf("expected the enemy teleported away from %v", origin)
	}
	if e.Recovery.EmergencyAttempts != 0 {
		t.Fatalf("expected the teleport to reset attempts, got %d", e.Recovery.EmergencyAttempts)
	}
	if e.History.Count() != 0 {
		t.Fatalf("expected motion history reset after teleport, got %d samples", e.History.Count())
	}
	snap := n.counters.Snapshot()
	if snap.Teleports != 1 || snap.TeleportAttempts != 1 {
		t.Fatalf("expected one successful teleport, got %+v", snap)
	}
}

func TestTeleportFailsWithNoLandingCell(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	for row := 0; row < 20; row++ {
		for col := 0; col < 20; col++ {
			grid.SetCell(col, row, world.CellObstacle)
		}
	}
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)
	e.Recovery.EmergencyAttempts = EmergencyAttemptThreshold
	origin := e.Pos

	res := n.handleStuck(e, testDt)
	if res.State != StateMoving {
		t.Fatalf("expected a failed teleport tick to report moving, got %v", res.State)
	}
	if e.Pos != origin {
		t.Fatalf("expected the enemy to stay at %v, moved to %v", origin, e.Pos)
	}
	if e.Recovery.EmergencyAttempts != EmergencyAttemptThreshold-1 {
		t.Fatalf("expected eligibility for ordinary recovery after the failure, attempts %d", e.Recovery.EmergencyAttempts)
	}
	snap := n.counters.Snapshot()
	if snap.TeleportFailures != 1 || snap.Teleports != 0 {
		t.Fatalf("expected one recorded teleport failure, got %+v", snap)
	}
}

func TestTeleportTargetLegality(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	grid.SetCell(5, 5, world.CellObstacle)
	grid.SetCell(12, 9, world.CellWater)
	n := newTestNavigator(t, grid)
	walker := newTestEnemy(n, grid, 10, 10)

	cached := grid.GridToWorld(8, 8)
	n.cache.Report(cached)
	n.cache.Report(cached)

	cases := []struct {
		name      string
		candidate world.Vec2
		want      bool
	}{
		{"open cell", grid.GridToWorld(10, 14), true},
		{"near border", grid.GridToWorld(1, 10), false},
		{"known bad", cached, false},
		{"obstacle", grid.GridToWorld(5, 5), false},
		{"beside water", grid.GridToWorld(12, 10), false},
		{"off grid", world.Vec2{X: -50, Y: -50}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.teleportTargetLegal(walker, tc.candidate); got != tc.want {
				t.Fatalf("legal(%v) = %v, want %v", tc.candidate, got, tc.want)
			}
		})
	}

	flyer := New(Config{Pos: grid.GridToWorld(10, 10), BaseSpeed: 100, Capability: world.CapabilityFlying})
	n.Register(flyer)
	if !n.teleportTargetLegal(flyer, grid.GridToWorld(12, 10)) {
		t.Fatalf("expected a flying unit to land beside water")
	}
}

func TestRecoveryGuardBlocksAtEmergencyThreshold(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)

	if e.Recovery.machine.Recovering() {
		t.Fatalf("expected a fresh machine in the moving state")
	}
	e.Recovery.EmergencyAttempts = EmergencyAttemptThreshold
	e.Recovery.machine.sendStuck()
	if e.Recovery.machine.Recovering() {
		t.Fatalf("expected the guard to reject recovery at the threshold")
	}
}

func TestRecoveryHeadingPrefersLastGood(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)
	e.Recovery.HasLastGood = true
	e.Recovery.LastGood = e.Pos.Add(world.Vec2{X: 100})

	heading := n.selectRecoveryHeading(e)
	if heading.X < 0.99 {
		t.Fatalf("expected heading toward the last good position, got %v", heading)
	}
}

func TestRecoveryHeadingSteersOffShoreline(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	for row := 0; row < 20; row++ {
		grid.SetCell(10, row, world.CellWater)
	}
	grid.SetCell(10, 5, world.CellBridge)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 9, 7)

	heading := n.selectRecoveryHeading(e)
	toBridge := grid.GridToWorld(10, 5).Sub(e.Pos).Normalized()
	dot := heading.X*toBridge.X + heading.Y*toBridge.Y
	if dot < 0.99 {
		t.Fatalf("expected heading toward the bridge, got %v", heading)
	}
}
