package world

import (
	"hash/fnv"
	"math/rand"
)

// LayoutConfig selects which terrain features the generator places.
type LayoutConfig struct {
	Cols      int
	Rows      int
	CellSize  float64
	Obstacles bool
	Water     bool
	Rough     bool
	Roads     bool
	Seed      string
}

// DefaultLayoutConfig enables every terrain feature on a 40x30 grid.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Cols:      40,
		Rows:      30,
		CellSize:  DefaultCellSize,
		Obstacles: true,
		Water:     true,
		Rough:     true,
		Roads:     true,
		Seed:      "prototype",
	}
}

// SeedRNG derives a deterministic RNG from a seed string.
func SeedRNG(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// GenerateLayout builds a terrain grid from the config. The same seed always
// produces the same grid.
func GenerateLayout(cfg LayoutConfig) *Grid {
	grid := NewGrid(cfg.Cols, cfg.Rows, cfg.CellSize)
	rng := SeedRNG(cfg.Seed)

	if cfg.Water {
		carveRiver(grid, rng)
	}
	if cfg.Roads {
		carveRoad(grid, rng)
	}
	if cfg.Rough {
		scatterPatches(grid, rng, CellRough, 6, 3)
	}
	if cfg.Obstacles {
		scatterObstacles(grid, rng)
	}
	return grid
}

// carveRiver places a vertical water band with two bridge crossings.
func carveRiver(g *Grid, rng *rand.Rand) {
	if g.cols < 8 {
		return
	}
	riverCol := g.cols/3 + rng.Intn(g.cols/4)
	width := 2
	bridgeA := 2 + rng.Intn(g.rows/2-2)
	bridgeB := g.rows/2 + rng.Intn(g.rows/2-2)
	for row := 0; row < g.rows; row++ {
		cell := CellWater
		if row == bridgeA || row == bridgeB {
			cell = CellBridge
		}
		for c := riverCol; c < riverCol+width && c < g.cols; c++ {
			g.SetCell(c, row, cell)
		}
	}
}

// carveRoad places a horizontal fast-travel path, bridging any water it
// crosses.
func carveRoad(g *Grid, rng *rand.Rand) {
	row := g.rows/3 + rng.Intn(g.rows/3)
	for col := 0; col < g.cols; col++ {
		if g.CellAt(col, row) == CellWater {
			g.SetCell(col, row, CellBridge)
			continue
		}
		g.SetCell(col, row, CellPath)
	}
}

func scatterPatches(g *Grid, rng *rand.Rand, cell CellType, count, size int) {
	for i := 0; i < count; i++ {
		col := rng.Intn(g.cols)
		row := rng.Intn(g.rows)
		for dr := 0; dr < size; dr++ {
			for dc := 0; dc < size; dc++ {
				if g.CellAt(col+dc, row+dr) == CellEmpty {
					g.SetCell(col+dc, row+dr, cell)
				}
			}
		}
	}
}

// scatterObstacles drops rectangular obstacle blocks, never overwriting
// water, bridges, or roads so the generated world stays traversable.
func scatterObstacles(g *Grid, rng *rand.Rand) {
	blocks := g.cols * g.rows / 60
	for i := 0; i < blocks; i++ {
		col := 1 + rng.Intn(g.cols-2)
		row := 1 + rng.Intn(g.rows-2)
		w := 1 + rng.Intn(3)
		h := 1 + rng.Intn(3)
		for dr := 0; dr < h; dr++ {
			for dc := 0; dc < w; dc++ {
				if g.CellAt(col+dc, row+dr) == CellEmpty || g.CellAt(col+dc, row+dr) == CellRough {
					g.SetCell(col+dc, row+dr, CellObstacle)
				}
			}
		}
	}
}
