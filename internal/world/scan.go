package world

// NearestCell scans outward from the cell under origin in expanding square
// rings, up to maxRadius cells, and returns the world center of the first
// cell matching the predicate. Scan order within a ring is deterministic
// (top row, bottom row, then the side columns) so repeated scans pick the
// same cell.
func (g *Grid) NearestCell(origin Vec2, maxRadius int, match func(CellType) bool) (Vec2, bool) {
	if g == nil || match == nil {
		return Vec2{}, false
	}
	col, row, ok := g.Locate(origin.X, origin.Y)
	if !ok {
		return Vec2{}, false
	}
	if match(g.CellAt(col, row)) {
		return g.GridToWorld(col, row), true
	}
	for radius := 1; radius <= maxRadius; radius++ {
		for dc := -radius; dc <= radius; dc++ {
			if c, r := col+dc, row-radius; g.InBounds(c, r) && match(g.CellAt(c, r)) {
				return g.GridToWorld(c, r), true
			}
			if c, r := col+dc, row+radius; g.InBounds(c, r) && match(g.CellAt(c, r)) {
				return g.GridToWorld(c, r), true
			}
		}
		for dr := -radius + 1; dr < radius; dr++ {
			if c, r := col-radius, row+dr; g.InBounds(c, r) && match(g.CellAt(c, r)) {
				return g.GridToWorld(c, r), true
			}
			if c, r := col+radius, row+dr; g.InBounds(c, r) && match(g.CellAt(c, r)) {
				return g.GridToWorld(c, r), true
			}
		}
	}
	return Vec2{}, false
}

// NearestBridge returns the closest bridge cell center within maxRadius cells
// of origin.
func (g *Grid) NearestBridge(origin Vec2, maxRadius int) (Vec2, bool) {
	return g.NearestCell(origin, maxRadius, func(c CellType) bool { return c == CellBridge })
}

// NearestSolidGround returns the closest dry, passable cell center within
// maxRadius cells of origin.
func (g *Grid) NearestSolidGround(origin Vec2, maxRadius int) (Vec2, bool) {
	return g.NearestCell(origin, maxRadius, func(c CellType) bool {
		return c == CellEmpty || c == CellPath || c == CellRough
	})
}
