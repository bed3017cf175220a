package world

import (
	"math"
	"testing"
)

func TestWorldToGridRoundTrip(t *testing.T) {
	grid := NewGrid(10, 8, 32)

	pos := grid.GridToWorld(4, 5)
	col, row, ok := grid.WorldToGrid(pos)
	if !ok {
		t.Fatalf("expected cell center to map back onto the grid")
	}
	if col != 4 || row != 5 {
		t.Fatalf("expected (4,5), got (%d,%d)", col, row)
	}
}

func TestWorldToGridOutOfBounds(t *testing.T) {
	grid := NewGrid(10, 8, 32)

	cases := []Vec2{
		{X: -1, Y: 10},
		{X: 10, Y: -1},
		{X: grid.Width(), Y: 10},
		{X: 10, Y: grid.Height()},
	}
	for _, pos := range cases {
		if _, _, ok := grid.WorldToGrid(pos); ok {
			t.Fatalf("expected %v to be off-grid", pos)
		}
	}
}

func TestLocateClampsIntoWorld(t *testing.T) {
	grid := NewGrid(10, 8, 32)

	col, row, ok := grid.Locate(-50, -50)
	if !ok || col != 0 || row != 0 {
		t.Fatalf("expected clamp to (0,0), got (%d,%d) ok=%v", col, row, ok)
	}

	col, row, ok = grid.Locate(grid.Width()+100, grid.Height()+100)
	if !ok || col != grid.Cols()-1 || row != grid.Rows()-1 {
		t.Fatalf("expected clamp to far corner, got (%d,%d) ok=%v", col, row, ok)
	}
}

func TestCellAtOutOfBoundsReadsAsObstacle(t *testing.T) {
	grid := NewGrid(4, 4, 32)
	if got := grid.CellAt(-1, 0); got != CellObstacle {
		t.Fatalf("expected obstacle outside the grid, got %v", got)
	}
	if got := grid.CellAt(4, 4); got != CellObstacle {
		t.Fatalf("expected obstacle outside the grid, got %v", got)
	}
}

func TestWalkableForCapabilities(t *testing.T) {
	grid := NewGrid(4, 4, 32)
	grid.SetCell(1, 1, CellObstacle)
	grid.SetCell(2, 1, CellWater)
	grid.SetCell(3, 1, CellBridge)

	cases := []struct {
		name       string
		col, row   int
		capability Capability
		want       bool
	}{
		{"walking empty", 0, 0, CapabilityWalking, true},
		{"walking obstacle", 1, 1, CapabilityWalking, false},
		{"walking water", 2, 1, CapabilityWalking, false},
		{"walking bridge", 3, 1, CapabilityWalking, true},
		{"amphibious water", 2, 1, CapabilityAmphibious, true},
		{"amphibious obstacle", 1, 1, CapabilityAmphibious, false},
		{"flying obstacle", 1, 1, CapabilityFlying, true},
		{"flying out of bounds", -1, 0, CapabilityFlying, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := grid.WalkableFor(tc.col, tc.row, tc.capability); got != tc.want {
				t.Fatalf("WalkableFor(%d,%d,%v) = %v, want %v", tc.col, tc.row, tc.capability, got, tc.want)
			}
		})
	}
}

func TestSpeedMultipliers(t *testing.T) {
	grid := NewGrid(6, 1, 32)
	grid.SetCell(1, 0, CellPath)
	grid.SetCell(2, 0, CellRough)
	grid.SetCell(3, 0, CellBridge)
	grid.SetCell(4, 0, CellWater)
	grid.SetCell(5, 0, CellObstacle)

	cases := []struct {
		col  int
		want float64
	}{
		{0, 1.0},
		{1, 1.25},
		{2, 0.6},
		{3, 0.9},
		{4, 0.35},
		{5, 0},
	}
	for _, tc := range cases {
		if got := grid.SpeedMultiplier(tc.col, 0, CapabilityWalking); got != tc.want {
			t.Fatalf("multiplier at col %d = %v, want %v", tc.col, got, tc.want)
		}
		if got := grid.SpeedMultiplier(tc.col, 0, CapabilityFlying); got != 1.0 {
			t.Fatalf("flying multiplier at col %d = %v, want 1.0", tc.col, got)
		}
	}
}

func TestSpeedMultiplierAtOffGrid(t *testing.T) {
	grid := NewGrid(4, 4, 32)
	if got := grid.SpeedMultiplierAt(Vec2{X: -100, Y: -100}, CapabilityWalking); got != 1.0 {
		t.Fatalf("off-grid multiplier = %v, want 1.0", got)
	}
}

func TestNearBorder(t *testing.T) {
	grid := NewGrid(10, 10, 32)
	if !grid.NearBorder(1, 5, 2) {
		t.Fatalf("expected column 1 within margin 2 to be near the border")
	}
	if grid.NearBorder(5, 5, 2) {
		t.Fatalf("expected center cell to be clear of the border")
	}
	if !grid.NearBorder(8, 5, 2) {
		t.Fatalf("expected column 8 of 10 within margin 2 to be near the border")
	}
}

func TestNearWaterOrBridge(t *testing.T) {
	grid := NewGrid(6, 6, 32)
	grid.SetCell(3, 3, CellWater)

	if !grid.NearWaterOrBridge(grid.GridToWorld(2, 2)) {
		t.Fatalf("expected diagonal neighbor of water to count as shore")
	}
	if grid.NearWaterOrBridge(grid.GridToWorld(0, 0)) {
		t.Fatalf("expected far cell to be clear of water")
	}
}

func TestAdjacentToWaterIgnoresBridgesAndDiagonals(t *testing.T) {
	grid := NewGrid(6, 6, 32)
	grid.SetCell(3, 2, CellWater)
	grid.SetCell(1, 1, CellBridge)

	if !grid.AdjacentToWater(grid.GridToWorld(3, 3)) {
		t.Fatalf("expected orthogonal water neighbor to count")
	}
	if grid.AdjacentToWater(grid.GridToWorld(2, 1)) {
		t.Fatalf("expected bridge neighbor not to count as water")
	}
	if grid.AdjacentToWater(grid.GridToWorld(2, 3)) {
		t.Fatalf("expected diagonal water neighbor not to count")
	}
}

func TestClampToWorld(t *testing.T) {
	grid := NewGrid(10, 10, 32)
	pos := grid.ClampToWorld(Vec2{X: -50, Y: 1000}, ActorHalf)
	if pos.X != ActorHalf {
		t.Fatalf("expected X clamped to %v, got %v", ActorHalf, pos.X)
	}
	if want := grid.Height() - ActorHalf; pos.Y != want {
		t.Fatalf("expected Y clamped to %v, got %v", want, pos.Y)
	}
}

func TestVecNormalized(t *testing.T) {
	v := Vec2{X: 3, Y: 4}.Normalized()
	if math.Abs(v.Length()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %v", v.Length())
	}
	zero := Vec2{}.Normalized()
	if zero.X != 0 || zero.Y != 0 {
		t.Fatalf("expected zero vector to normalize to zero, got %v", zero)
	}
}
