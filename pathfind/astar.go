// Package pathfind implements A* over the grid model (spec.md §4.5):
// 8-connected expansion with an octile heuristic, corner-cutting
// prevention, deterministic tie-breaking, line-of-sight smoothing, an
// LRU result cache keyed by (start, goal, grid version), and a
// per-tick execution budget served by a small worker pool.
package pathfind

import (
	"container/heap"
	"math"

	"github.com/lixenwraith/rts-core/gridmap"
)

// Cell is a grid coordinate.
type Cell struct{ X, Y int }

const (
	costStraight = 1.0
	costDiagonal = math.Sqrt2
)

var neighborOffsets = [8]struct{ dx, dy int }{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// octile is the admissible heuristic for 8-connected uniform-cost
// grids (spec.md §4.5).
func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	if dx > dy {
		return costDiagonal*dy + costStraight*(dx-dy)
	}
	return costDiagonal*dx + costStraight*(dy-dx)
}

type openEntry struct {
	cell    Cell
	f, h    float64
	g       float64
	seq     int // insertion order: deterministic tie-break beyond f/h
	index   int
}

type openHeap []*openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Lower h wins on equal f (spec.md §4.5 tie-break).
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	// Stable order for determinism: earlier-inserted node wins.
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x interface{}) {
	e := x.(*openEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Result is the outcome of a Find call.
type Result struct {
	Path  []Cell
	Found bool
	// Expansions is the number of nodes popped off the open set;
	// exposed for tests.
	Expansions int
}

// Find runs A* from start to goal on g, expanding at most
// maxExpansions nodes. start == goal returns a single-point path
// (spec.md §8 boundary behavior). Corner-cutting is forbidden: a
// diagonal move is only legal if both adjacent orthogonal cells are
// passable, so it is refused even when just one of them is blocked.
func Find(g *gridmap.Grid, start, goal Cell, maxExpansions int) Result {
	if start == goal {
		return Result{Path: []Cell{start}, Found: true, Expansions: 0}
	}
	if !g.InBounds(start.X, start.Y) || !g.InBounds(goal.X, goal.Y) {
		return Result{Found: false}
	}
	if !g.Passable(goal.X, goal.Y) {
		return Result{Found: false}
	}

	visited := make(map[Cell]*nodeInfo)
	open := &openHeap{}
	heap.Init(open)

	seq := 0
	startEntry := &openEntry{cell: start, g: 0, h: octile(start, goal), seq: seq}
	startEntry.f = startEntry.h
	heap.Push(open, startEntry)
	visited[start] = &nodeInfo{g: 0}
	seq++

	expansions := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*openEntry)
		info := visited[cur.cell]
		if info.closed {
			continue
		}
		info.closed = true
		expansions++

		if cur.cell == goal {
			return Result{Path: reconstruct(visited, start, goal), Found: true, Expansions: expansions}
		}
		if expansions >= maxExpansions {
			return Result{Found: false, Expansions: expansions}
		}

		for _, off := range neighborOffsets {
			nx, ny := cur.cell.X+off.dx, cur.cell.Y+off.dy
			neighbor := Cell{nx, ny}
			if !g.InBounds(nx, ny) || !g.Passable(nx, ny) {
				continue
			}

			isDiagonal := off.dx != 0 && off.dy != 0
			if isDiagonal {
				// Forbid cutting a corner: both orthogonal neighbors
				// must be passable (spec.md §4.5).
				if !g.Passable(cur.cell.X+off.dx, cur.cell.Y) || !g.Passable(cur.cell.X, cur.cell.Y+off.dy) {
					continue
				}
			}

			step := costStraight
			if isDiagonal {
				step = costDiagonal
			}
			tentativeG := cur.g + step*g.Cost(nx, ny)

			ni, exists := visited[neighbor]
			if !exists {
				ni = &nodeInfo{g: math.Inf(1)}
				visited[neighbor] = ni
			}
			if ni.closed || tentativeG >= ni.g {
				continue
			}
			ni.g = tentativeG
			ni.parent = cur.cell
			ni.hasParent = true

			h := octile(neighbor, goal)
			heap.Push(open, &openEntry{cell: neighbor, g: tentativeG, h: h, f: tentativeG + h, seq: seq})
			seq++
		}
	}
	return Result{Found: false, Expansions: expansions}
}

// nodeInfo tracks the search state (best known g, parent pointer,
// closed flag) for one visited cell.
type nodeInfo struct {
	g         float64
	parent    Cell
	hasParent bool
	closed    bool
}

func reconstruct(visited map[Cell]*nodeInfo, start, goal Cell) []Cell {
	path := []Cell{goal}
	cur := goal
	for cur != start {
		info := visited[cur]
		if !info.hasParent {
			break
		}
		cur = info.parent
		path = append(path, cur)
	}
	// Reverse into start->goal order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
