// Package gridmap is the uniform passability/cost grid the pathfinder
// and building placement operate over (spec.md §4.4): world<->cell
// conversions, per-cell passability and traversal cost, and a
// monotonic grid version bumped whenever passability changes so the
// pathfinder's cache knows to invalidate.
package gridmap

// CellSize is the edge length of one cell in world units.
const CellSize = 128.0

// DefaultCost is the traversal cost of an unmodified cell; rough
// terrain costs more (spec.md §4.4).
const DefaultCost = 1.0

// Cell holds one grid square's passability and cost.
type Cell struct {
	Passable bool
	Cost     float64
}

// Grid is a uniform grid of square cells. It is immutable after map
// load except for building footprints (spec.md §4.4).
type Grid struct {
	Width, Height int
	cells         []Cell
	version       uint64
}

// New creates a width x height grid with every cell passable at
// DefaultCost.
func New(width, height int) *Grid {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Passable: true, Cost: DefaultCost}
	}
	return &Grid{Width: width, Height: height, cells: cells}
}

// Version returns the current grid version; it is bumped on every
// passability change (spec.md glossary "Grid version").
func (g *Grid) Version() uint64 { return g.version }

// InBounds reports whether (cx, cy) is a valid cell index.
func (g *Grid) InBounds(cx, cy int) bool {
	return cx >= 0 && cx < g.Width && cy >= 0 && cy < g.Height
}

// At returns the cell at (cx, cy); out-of-bounds reads return an
// impassable zero-cost cell rather than panicking, since pathfinder
// neighbor expansion routinely probes just past an edge.
func (g *Grid) At(cx, cy int) Cell {
	if !g.InBounds(cx, cy) {
		return Cell{Passable: false}
	}
	return g.cells[cy*g.Width+cx]
}

// Passable reports whether (cx, cy) can be entered.
func (g *Grid) Passable(cx, cy int) bool {
	return g.At(cx, cy).Passable
}

// Cost returns the traversal cost of (cx, cy); out-of-bounds or
// impassable cells report an infinite-like sentinel cost so a caller
// that forgets to check Passable still gets a discouraging answer.
func (g *Grid) Cost(cx, cy int) float64 {
	c := g.At(cx, cy)
	if !c.Passable {
		return 1e9
	}
	return c.Cost
}

// WorldToCell floor-divides a world-space point into its cell index.
func WorldToCell(x, y float64) (cx, cy int) {
	return int(floorDiv(x, CellSize)), int(floorDiv(y, CellSize))
}

// CellCenter returns the world-space center point of a cell.
func CellCenter(cx, cy int) (x, y float64) {
	return (float64(cx) + 0.5) * CellSize, (float64(cy) + 0.5) * CellSize
}

func floorDiv(v, size float64) float64 {
	q := v / size
	if q < 0 {
		// Go's truncating division rounds toward zero; floor needs an
		// explicit adjustment for negative coordinates so cell (-1,
		// anything) covers [-CellSize, 0) rather than (-CellSize,
		// CellSize).
		iq := float64(int(q))
		if iq != q {
			return iq - 1
		}
		return iq
	}
	return float64(int(q))
}

// SetPassable changes one cell's passability, bumping the grid
// version if the value actually changed.
func (g *Grid) SetPassable(cx, cy int, passable bool) {
	if !g.InBounds(cx, cy) {
		return
	}
	idx := cy*g.Width + cx
	if g.cells[idx].Passable == passable {
		return
	}
	g.cells[idx].Passable = passable
	g.version++
}

// SetCost changes one cell's traversal cost without affecting
// passability or the grid version (cost changes don't invalidate
// cached paths the way passability changes do, since a cached path's
// existence doesn't depend on cost, only its optimality — acceptable
// per spec.md's budget-bounded, best-effort pathing).
func (g *Grid) SetCost(cx, cy int, cost float64) {
	if !g.InBounds(cx, cy) {
		return
	}
	g.cells[cy*g.Width+cx].Cost = cost
}

// Footprint is a rectangular set of cells a building occupies.
type Footprint struct {
	X, Y          int // top-left cell
	Width, Height int
}

// Cells returns every cell index the footprint covers.
func (f Footprint) Cells() [][2]int {
	out := make([][2]int, 0, f.Width*f.Height)
	for dy := 0; dy < f.Height; dy++ {
		for dx := 0; dx < f.Width; dx++ {
			out = append(out, [2]int{f.X + dx, f.Y + dy})
		}
	}
	return out
}

// CanPlace reports whether every footprint cell is in-bounds and
// currently passable (spec.md §4.4: "Building placement validates...
// before committing").
func (g *Grid) CanPlace(f Footprint) bool {
	for _, c := range f.Cells() {
		if !g.InBounds(c[0], c[1]) || !g.Passable(c[0], c[1]) {
			return false
		}
	}
	return true
}

// Place marks every footprint cell impassable. Callers must have
// validated CanPlace first; Place itself does not re-validate.
// ClearFootprint is its inverse.
func (g *Grid) Place(f Footprint) {
	for _, c := range f.Cells() {
		g.SetPassable(c[0], c[1], false)
	}
}

// ClearFootprint restores every footprint cell to passable, used on
// building destruction (spec.md §4.4).
func (g *Grid) ClearFootprint(f Footprint) {
	for _, c := range f.Cells() {
		g.SetPassable(c[0], c[1], true)
	}
}
