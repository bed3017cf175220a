package enemy

import (
	"testing"

	"emberfall/server/internal/world"
)

func TestCheckStuckRequiresFullHistory(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)
	e.Path.Waypoints = []world.Vec2{e.Pos.Add(world.Vec2{X: 64})}

	for i := 0; i < MotionHistorySize; i++ {
		e.History.Push(e.Pos, world.Vec2{}, testDt)
		stuck := n.checkStuck(e, testDt)
		if !e.History.Full() && stuck {
			t.Fatalf("stuck reported on a partial buffer at sample %d", i+1)
		}
		if e.History.Full() && !stuck {
			t.Fatalf("expected a frozen enemy to be stuck once the buffer filled")
		}
	}
}

func TestCheckStuckIdleIsNotStuck(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)

	e.Recovery.stuckSeconds = 1.0
	freezeHistory(e, MotionHistorySize)

	if n.checkStuck(e, testDt) {
		t.Fatalf("expected an enemy with no movement intent to read as idle")
	}
	if e.Recovery.stuckSeconds != 0 {
		t.Fatalf("expected the stuck counter reset while idle, got %v", e.Recovery.stuckSeconds)
	}
}

func TestCheckStuckDetectsOscillation(t *testing.T) {
	grid := world.NewGrid(20, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 10, 10)
	e.Velocity = world.Vec2{X: 80}

	stuck := false
	for i := 0; i < MotionHistorySize; i++ {
		offset := 2.0
		if i%2 == 0 {
			offset = -2.0
		}
		pos := e.Pos.Add(world.Vec2{X: offset})
		e.History.Push(pos, world.Vec2{X: 80}, testDt)
		stuck = n.checkStuck(e, testDt)
	}
	if !stuck {
		t.Fatalf("expected oscillation between two points to confirm stuck")
	}
}

func TestCheckStuckGoodMovementPaysDownAttempts(t *testing.T) {
	grid := world.NewGrid(40, 20, 32)
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 2, 10)
	e.Velocity = world.Vec2{X: 100}
	e.Recovery.EmergencyAttempts = 2
	e.Recovery.stuckSeconds = 0.2

	pos := e.Pos
	for i := 0; i < 60; i++ {
		pos = pos.Add(world.Vec2{X: 100 * testDt})
		e.History.Push(pos, world.Vec2{X: 100}, testDt)
		e.Pos = pos
		if n.checkStuck(e, testDt) {
			t.Fatalf("steady progress reported as stuck at tick %d", i)
		}
	}

	if e.Recovery.stuckSeconds != 0 {
		t.Fatalf("expected the stuck counter cleared, got %v", e.Recovery.stuckSeconds)
	}
	if !e.Recovery.HasLastGood {
		t.Fatalf("expected a last-good position to be recorded")
	}
	if e.Recovery.EmergencyAttempts >= 2 {
		t.Fatalf("expected sustained progress to pay down emergency attempts, still %d", e.Recovery.EmergencyAttempts)
	}
}

func TestCheckStuckShorelineConfirmsFaster(t *testing.T) {
	inland := world.NewGrid(20, 20, 32)
	shore := world.NewGrid(20, 20, 32)
	shore.SetCell(10, 9, world.CellWater)

	seconds := (StuckConfirmSecondsShore + StuckConfirmSeconds) / 2

	for _, tc := range []struct {
		name string
		grid *world.Grid
		want bool
	}{
		{"inland", inland, false},
		{"shore", shore, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n := newTestNavigator(t, tc.grid)
			e := newTestEnemy(n, tc.grid, 10, 10)
			e.Path.Waypoints = []world.Vec2{e.Pos.Add(world.Vec2{X: 64})}
			freezeHistory(e, MotionHistorySize)
			e.Recovery.stuckSeconds = seconds

			if got := n.checkStuck(e, 0.001); got != tc.want {
				t.Fatalf("confirmation at %vs = %v, want %v", seconds, got, tc.want)
			}
		})
	}
}
