package pathfind

import "github.com/lixenwraith/rts-core/gridmap"

// Smooth removes intermediate waypoints whose removal does not
// introduce an impassable cell on the straightened segment
// (spec.md §4.5). It is O(k^2) in waypoints, acceptable for the short
// paths the grid's scale produces.
func Smooth(g *gridmap.Grid, path []Cell) []Cell {
	if len(path) <= 2 {
		return path
	}
	out := []Cell{path[0]}
	anchor := 0
	for i := 1; i < len(path); i++ {
		if i == len(path)-1 {
			out = append(out, path[i])
			break
		}
		if !lineOfSight(g, path[anchor], path[i+1]) {
			out = append(out, path[i])
			anchor = i
		}
	}
	return out
}

// lineOfSight walks the grid cells between a and b (supercover
// Bresenham) and reports whether every cell on the segment is
// passable and no diagonal step along it cuts a corner.
func lineOfSight(g *gridmap.Grid, a, b Cell) bool {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	err := dx - dy

	x, y := x0, y0
	for {
		if !g.InBounds(x, y) || !g.Passable(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		movedX, movedY := false, false
		if e2 > -dy {
			err -= dy
			x += sx
			movedX = true
		}
		if e2 < dx {
			err += dx
			y += sy
			movedY = true
		}
		if movedX && movedY {
			// Diagonal step in the Bresenham walk: forbid corner
			// cutting the same way Find does.
			if !g.Passable(x-sx, y) || !g.Passable(x, y-sy) {
				return false
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
