package enemy

import (
	"testing"

	"emberfall/server/internal/nav"
	"emberfall/server/internal/telemetry"
	"emberfall/server/internal/world"
	"emberfall/server/logging"
)

const testDt = 1.0 / 15.0

// newTestNavigator builds a navigator over a real grid, oracle, and collider.
func newTestNavigator(t *testing.T, grid *world.Grid) *Navigator {
	t.Helper()
	n, err := NewNavigator(
		grid,
		nav.GridOracle{Grid: grid},
		world.NewCollider(grid),
		NewPositionCache(),
		telemetry.NewNavCounters(),
		world.SeedRNG("test"),
		logging.Get(),
	)
	if err != nil {
		t.Fatalf("NewNavigator: %v", err)
	}
	return n
}

// newTestEnemy builds a registered walking enemy at a cell center.
func newTestEnemy(n *Navigator, grid *world.Grid, col, row int) *Enemy {
	e := New(Config{
		Pos:        grid.GridToWorld(col, row),
		BaseSpeed:  100,
		Capability: world.CapabilityWalking,
		Behavior:   BehaviorStructureFocused,
	})
	n.Register(e)
	return e
}

// freezeHistory fills the motion history with identical samples, the
// signature of an enemy pinned in place while trying to move.
func freezeHistory(e *Enemy, ticks int) {
	for i := 0; i < ticks; i++ {
		e.History.Push(e.Pos, world.Vec2{}, testDt)
	}
}
