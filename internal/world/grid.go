package world

import "math"

// DefaultCellSize is the edge length of one terrain cell in world units.
const DefaultCellSize = 32.0

// CellType classifies one terrain cell.
type CellType uint8

const (
	CellEmpty CellType = iota
	CellObstacle
	CellWater
	CellBridge
	CellPath
	CellRough
)

// String returns the lowercase name used in logs and the debug feed.
func (c CellType) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellObstacle:
		return "obstacle"
	case CellWater:
		return "water"
	case CellBridge:
		return "bridge"
	case CellPath:
		return "path"
	case CellRough:
		return "rough"
	default:
		return "unknown"
	}
}

// Capability is the class of terrain an actor may legally traverse.
type Capability uint8

const (
	CapabilityWalking Capability = iota
	CapabilityFlying
	CapabilityAmphibious
)

// String returns the lowercase capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityWalking:
		return "walking"
	case CapabilityFlying:
		return "flying"
	case CapabilityAmphibious:
		return "amphibious"
	default:
		return "unknown"
	}
}

// Grid is the tile map over continuous world coordinates. Cells are addressed
// by (col, row) with the origin cell covering world [0, cellSize).
type Grid struct {
	cols, rows int
	cellSize   float64
	cells      []CellType
	width      float64
	height     float64
}

// NewGrid builds a grid of empty cells.
func NewGrid(cols, rows int, cellSize float64) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		cells:    make([]CellType, cols*rows),
		width:    float64(cols) * cellSize,
		height:   float64(rows) * cellSize,
	}
}

// Cols reports the number of grid columns.
func (g *Grid) Cols() int {
	if g == nil {
		return 0
	}
	return g.cols
}

// Rows reports the number of grid rows.
func (g *Grid) Rows() int {
	if g == nil {
		return 0
	}
	return g.rows
}

// CellSize reports the cell edge length in world units.
func (g *Grid) CellSize() float64 {
	if g == nil {
		return 0
	}
	return g.cellSize
}

// Width reports the world width covered by the grid.
func (g *Grid) Width() float64 {
	if g == nil {
		return 0
	}
	return g.width
}

// Height reports the world height covered by the grid.
func (g *Grid) Height() float64 {
	if g == nil {
		return 0
	}
	return g.height
}

// InBounds reports whether the cell indices address a cell on the grid.
func (g *Grid) InBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

// NearBorder reports whether the cell lies within margin cells of the grid
// edge.
func (g *Grid) NearBorder(col, row, margin int) bool {
	if g == nil {
		return true
	}
	return col < margin || row < margin || col >= g.cols-margin || row >= g.rows-margin
}

func (g *Grid) index(col, row int) int {
	return row*g.cols + col
}

// SetCell assigns the terrain type of one cell. Out-of-bounds writes are
// ignored.
func (g *Grid) SetCell(col, row int, cell CellType) {
	if !g.InBounds(col, row) {
		return
	}
	g.cells[g.index(col, row)] = cell
}

// CellAt reports the terrain type of one cell. Out-of-bounds cells read as
// obstacles so callers treat the world edge as solid.
func (g *Grid) CellAt(col, row int) CellType {
	if !g.InBounds(col, row) {
		return CellObstacle
	}
	return g.cells[g.index(col, row)]
}

// CellTypeAt reports the terrain type under a world position.
func (g *Grid) CellTypeAt(pos Vec2) CellType {
	col, row, ok := g.WorldToGrid(pos)
	if !ok {
		return CellObstacle
	}
	return g.CellAt(col, row)
}

// WorldToGrid converts a world position to cell indices. Positions outside
// the world report ok=false.
func (g *Grid) WorldToGrid(pos Vec2) (int, int, bool) {
	if g == nil || g.cols == 0 || g.rows == 0 {
		return 0, 0, false
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= g.width || pos.Y >= g.height {
		return 0, 0, false
	}
	col := int(pos.X / g.cellSize)
	row := int(pos.Y / g.cellSize)
	if !g.InBounds(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

// Locate converts a world position to cell indices after clamping it into
// the world, mirroring how path requests tolerate slightly out-of-range
// coordinates.
func (g *Grid) Locate(x, y float64) (int, int, bool) {
	if g == nil || g.cols == 0 || g.rows == 0 {
		return 0, 0, false
	}
	maxX := g.width - 1
	if maxX < 0 {
		maxX = 0
	}
	maxY := g.height - 1
	if maxY < 0 {
		maxY = 0
	}
	col := int(Clamp(x, 0, maxX) / g.cellSize)
	row := int(Clamp(y, 0, maxY) / g.cellSize)
	if !g.InBounds(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

// GridToWorld reports the world position at the center of a cell.
func (g *Grid) GridToWorld(col, row int) Vec2 {
	if g == nil {
		return Vec2{}
	}
	return Vec2{
		X: (float64(col) + 0.5) * g.cellSize,
		Y: (float64(row) + 0.5) * g.cellSize,
	}
}

// WalkableFor reports whether an actor with the given capability may occupy
// the cell. Flying actors pass over everything inside the world; walking
// actors need solid ground or a bridge; amphibious actors additionally cross
// water.
func (g *Grid) WalkableFor(col, row int, capability Capability) bool {
	if !g.InBounds(col, row) {
		return false
	}
	cell := g.CellAt(col, row)
	switch capability {
	case CapabilityFlying:
		return true
	case CapabilityAmphibious:
		return cell != CellObstacle
	default:
		return cell != CellObstacle && cell != CellWater
	}
}

// SpeedMultiplier reports the terrain speed factor of a cell for the given
// capability. Flying actors ignore ground terrain.
func (g *Grid) SpeedMultiplier(col, row int, capability Capability) float64 {
	if capability == CapabilityFlying {
		return 1.0
	}
	switch g.CellAt(col, row) {
	case CellPath:
		return 1.25
	case CellRough:
		return 0.6
	case CellBridge:
		return 0.9
	case CellWater:
		return 0.35
	case CellObstacle:
		return 0
	default:
		return 1.0
	}
}

// SpeedMultiplierAt reports the terrain speed factor under a world position.
// Off-grid positions pass speed through unmodified.
func (g *Grid) SpeedMultiplierAt(pos Vec2, capability Capability) float64 {
	col, row, ok := g.WorldToGrid(pos)
	if !ok {
		return 1.0
	}
	return g.SpeedMultiplier(col, row, capability)
}

// NearWaterOrBridge reports whether the cell under pos, or any of its eight
// neighbors, is water or a bridge. Stuck detection recovers faster around
// shorelines.
func (g *Grid) NearWaterOrBridge(pos Vec2) bool {
	col, row, ok := g.WorldToGrid(pos)
	if !ok {
		return false
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			switch g.CellAt(col+dc, row+dr) {
			case CellWater, CellBridge:
				return true
			}
		}
	}
	return false
}

// AdjacentToWater reports whether any of the four orthogonal neighbors of the
// cell under pos is water. Bridges do not count.
func (g *Grid) AdjacentToWater(pos Vec2) bool {
	col, row, ok := g.WorldToGrid(pos)
	if !ok {
		return false
	}
	offsets := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for _, d := range offsets {
		if g.CellAt(col+d[0], row+d[1]) == CellWater {
			return true
		}
	}
	return false
}

// ClampToWorld constrains a position to stay margin units inside the world
// rectangle.
func (g *Grid) ClampToWorld(pos Vec2, margin float64) Vec2 {
	if g == nil {
		return pos
	}
	maxX := math.Max(margin, g.width-margin)
	maxY := math.Max(margin, g.height-margin)
	return Vec2{
		X: Clamp(pos.X, margin, maxX),
		Y: Clamp(pos.Y, margin, maxY),
	}
}
