// Package nav provides grid pathfinding for the navigation core: an A*
// search over terrain cells with capability-aware walkability, bounded
// iteration cost, optional waypoint smoothing, and a predictive lead for
// moving goals.
package nav

import (
	"container/heap"
	"math"

	"emberfall/server/internal/world"
)

// DefaultMaxIterations caps node expansions per search so a failed request
// stays bounded within one simulation tick.
const DefaultMaxIterations = 4096

// Options configures one path request.
type Options struct {
	Capability    world.Capability
	AllowDiagonal bool
	// Clearance rejects cells with blocked neighbors within this many cells,
	// keeping wide actors away from obstacle edges.
	Clearance int
	// Smooth drops intermediate waypoints that have a clear straight line
	// between their neighbors.
	Smooth bool
	// MaxIterations bounds node pops; zero selects DefaultMaxIterations.
	MaxIterations int
	// Lead displaces the goal before searching, projecting a moving target
	// ahead along its velocity so the seeker intercepts instead of trailing.
	Lead world.Vec2
}

type neighbor struct {
	col      int
	row      int
	cost     float64
	diagonal bool
}

var neighborOffsets = [...]neighbor{
	{col: 0, row: -1, cost: 1, diagonal: false},
	{col: 1, row: 0, cost: 1, diagonal: false},
	{col: 0, row: 1, cost: 1, diagonal: false},
	{col: -1, row: 0, cost: 1, diagonal: false},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

type point struct {
	col int
	row int
}

func cellWalkable(grid *world.Grid, col, row int, opts Options) bool {
	if !grid.WalkableFor(col, row, opts.Capability) {
		return false
	}
	for dr := -opts.Clearance; dr <= opts.Clearance; dr++ {
		for dc := -opts.Clearance; dc <= opts.Clearance; dc++ {
			if dc == 0 && dr == 0 {
				continue
			}
			if !grid.WalkableFor(col+dc, row+dr, opts.Capability) {
				return false
			}
		}
	}
	return true
}

func canTraverseDiagonal(grid *world.Grid, current point, delta neighbor, opts Options) bool {
	if !delta.diagonal {
		return true
	}
	return cellWalkable(grid, current.col+delta.col, current.row, opts) &&
		cellWalkable(grid, current.col, current.row+delta.row, opts)
}

func heuristic(a, b point) float64 {
	dx := math.Abs(float64(a.col - b.col))
	dy := math.Abs(float64(a.row - b.row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type searchNode struct {
	point  point
	g      float64
	f      float64
	index  int
	parent *searchNode
}

type searchQueue []*searchNode

func (pq searchQueue) Len() int { return len(pq) }

func (pq searchQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq searchQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *searchQueue) Push(x any) {
	n := len(*pq)
	item := x.(*searchNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *searchQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func astar(grid *world.Grid, start, goal point, opts Options) ([]point, bool) {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	open := &searchQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{point: start, g: 0, f: heuristic(start, goal)})
	cols := grid.Cols()
	gScore := map[int]float64{start.row*cols + start.col: 0}
	closed := make(map[int]struct{})
	pops := 0

	for open.Len() > 0 {
		pops++
		if pops > maxIterations {
			return nil, false
		}
		current := heap.Pop(open).(*searchNode)
		currIdx := current.point.row*cols + current.point.col
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.point == goal {
			return reconstruct(current), true
		}

		for _, delta := range neighborOffsets {
			if delta.diagonal && !opts.AllowDiagonal {
				continue
			}
			if !canTraverseDiagonal(grid, current.point, delta, opts) {
				continue
			}
			nc := current.point.col + delta.col
			nr := current.point.row + delta.row
			if !grid.InBounds(nc, nr) {
				continue
			}
			if !cellWalkable(grid, nc, nr, opts) {
				continue
			}
			idx := nr*cols + nc
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + delta.cost
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			heap.Push(open, &searchNode{
				point:  point{col: nc, row: nr},
				g:      tentativeG,
				f:      tentativeG + heuristic(point{col: nc, row: nr}, goal),
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstruct(end *searchNode) []point {
	if end == nil {
		return nil
	}
	path := make([]point, 0)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.point)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// closestWalkable breadth-first searches outward from a blocked cell for the
// nearest cell the capability can occupy.
func closestWalkable(grid *world.Grid, col, row int, opts Options) (int, int, bool) {
	if !grid.InBounds(col, row) {
		return 0, 0, false
	}
	cols := grid.Cols()
	visited := map[int]struct{}{row*cols + col: {}}
	queue := []point{{col: col, row: row}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if cellWalkable(grid, current.col, current.row, opts) {
			return current.col, current.row, true
		}
		for _, delta := range neighborOffsets {
			nc := current.col + delta.col
			nr := current.row + delta.row
			if !grid.InBounds(nc, nr) {
				continue
			}
			idx := nr*cols + nc
			if _, seen := visited[idx]; seen {
				continue
			}
			visited[idx] = struct{}{}
			queue = append(queue, point{col: nc, row: nr})
		}
	}
	return 0, 0, false
}

// FindPath searches for a waypoint sequence from start to goal. The goal is
// displaced by opts.Lead before searching and the final waypoint is snapped
// to the (displaced) goal position. Returns false when no path exists within
// the iteration budget.
func FindPath(grid *world.Grid, start, goal world.Vec2, opts Options) ([]world.Vec2, bool) {
	if grid == nil {
		return nil, false
	}
	target := grid.ClampToWorld(goal.Add(opts.Lead), world.ActorHalf)

	startCol, startRow, ok := grid.Locate(start.X, start.Y)
	if !ok {
		return nil, false
	}
	goalCol, goalRow, ok := grid.Locate(target.X, target.Y)
	if !ok {
		return nil, false
	}
	if !cellWalkable(grid, startCol, startRow, opts) {
		sc, sr, ok := closestWalkable(grid, startCol, startRow, opts)
		if !ok {
			return nil, false
		}
		startCol, startRow = sc, sr
	}
	if !cellWalkable(grid, goalCol, goalRow, opts) {
		return nil, false
	}

	nodes, ok := astar(grid, point{col: startCol, row: startRow}, point{col: goalCol, row: goalRow}, opts)
	if !ok || len(nodes) == 0 {
		return nil, false
	}
	if len(nodes) == 1 {
		return []world.Vec2{target}, true
	}

	path := make([]world.Vec2, 0, len(nodes))
	for i := 1; i < len(nodes); i++ {
		path = append(path, grid.GridToWorld(nodes[i].col, nodes[i].row))
	}
	if len(path) == 0 {
		return []world.Vec2{target}, true
	}
	last := path[len(path)-1]
	if world.Dist(last, target) > 1 {
		path = append(path, target)
	} else {
		path[len(path)-1] = target
	}
	if opts.Smooth {
		path = smoothPath(grid, start, path, opts)
	}
	return path, true
}

// smoothPath string-pulls the waypoint list: any waypoint whose neighbors
// have a clear straight line between them is dropped. The final waypoint is
// always kept.
func smoothPath(grid *world.Grid, start world.Vec2, path []world.Vec2, opts Options) []world.Vec2 {
	if len(path) <= 2 {
		return path
	}
	smoothed := make([]world.Vec2, 0, len(path))
	anchor := start
	i := 0
	for i < len(path)-1 {
		j := i
		for k := i + 1; k < len(path); k++ {
			if !lineWalkable(grid, anchor, path[k], opts) {
				break
			}
			j = k
		}
		if j == i {
			// No skip possible from this anchor, keep the next node.
			j = i + 1
		}
		smoothed = append(smoothed, path[j])
		anchor = path[j]
		i = j
	}
	if smoothed[len(smoothed)-1] != path[len(path)-1] {
		smoothed = append(smoothed, path[len(path)-1])
	}
	return smoothed
}

// lineWalkable samples the segment between two points at quarter-cell
// intervals and reports whether every sampled cell is walkable.
func lineWalkable(grid *world.Grid, from, to world.Vec2, opts Options) bool {
	dist := world.Dist(from, to)
	if dist == 0 {
		return true
	}
	step := grid.CellSize() / 4
	steps := int(math.Ceil(dist / step))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		sample := world.Vec2{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}
		col, row, ok := grid.Locate(sample.X, sample.Y)
		if !ok || !cellWalkable(grid, col, row, opts) {
			return false
		}
	}
	return true
}
