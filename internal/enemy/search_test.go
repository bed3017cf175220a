package enemy

import (
	"math"
	"testing"

	"emberfall/server/internal/world"
)

func TestRingCandidatesShape(t *testing.T) {
	origin := world.Vec2{X: 100, Y: 200}
	radii := []float64{50, 100}
	candidates := ringCandidates(origin, radii, 12)

	if len(candidates) != 24 {
		t.Fatalf("expected 24 candidates, got %d", len(candidates))
	}
	if first := candidates[0]; math.Abs(first.X-150) > 1e-9 || math.Abs(first.Y-200) > 1e-9 {
		t.Fatalf("expected the first candidate due east at radius 50, got %v", first)
	}
	for i, c := range candidates {
		want := radii[i/12]
		if got := world.Dist(origin, c); math.Abs(got-want) > 1e-9 {
			t.Fatalf("candidate %d at distance %v, want %v", i, got, want)
		}
	}
}

func TestRingCandidatesInnerRingsFirst(t *testing.T) {
	candidates := ringCandidates(world.Vec2{}, []float64{50, 100, 150}, 4)
	prev := 0.0
	for _, c := range candidates {
		d := c.Length()
		if d < prev-1e-9 {
			t.Fatalf("ring order regressed: %v after %v", d, prev)
		}
		if d > prev {
			prev = d
		}
	}
}

func TestFindNearbyAccessibleSkipsSealedGoal(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	goal := grid.GridToWorld(15, 15)
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			grid.SetCell(15+dc, 15+dr, world.CellObstacle)
		}
	}
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 3, 15)

	candidate, ok := n.findNearbyAccessible(e, goal)
	if !ok {
		t.Fatalf("expected an accessible position around the sealed goal")
	}
	if !n.collider.CanOccupy(e.Capability, candidate) {
		t.Fatalf("candidate %v is not occupiable", candidate)
	}
	if world.Dist(candidate, goal) > 200 {
		t.Fatalf("candidate %v outside the search rings", candidate)
	}
}

func TestFindNearbyAccessibleSkipsCachedCandidates(t *testing.T) {
	grid := world.NewGrid(30, 30, 32)
	goal := grid.GridToWorld(15, 15)
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			grid.SetCell(15+dc, 15+dr, world.CellObstacle)
		}
	}
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 3, 15)

	first, ok := n.findNearbyAccessible(e, goal)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	n.cache.Report(first)
	n.cache.Report(first)

	second, ok := n.findNearbyAccessible(e, goal)
	if !ok {
		t.Fatalf("expected another candidate after caching the first")
	}
	if n.cache.Contains(second) {
		t.Fatalf("search returned a known-bad position %v", second)
	}
}

func TestFindNearbyAccessibleUnreachableRegion(t *testing.T) {
	grid := world.NewGrid(40, 20, 32)
	for row := 0; row < 20; row++ {
		grid.SetCell(12, row, world.CellWater)
		grid.SetCell(13, row, world.CellWater)
	}
	n := newTestNavigator(t, grid)
	e := newTestEnemy(n, grid, 3, 10)

	// Every candidate around the far-shore goal is dry but unreachable for a
	// walking enemy.
	goal := grid.GridToWorld(32, 10)
	if _, ok := n.findNearbyAccessible(e, goal); ok {
		t.Fatalf("expected no reachable candidate across the water")
	}
}
