package pathfind

import (
	"testing"

	"github.com/lixenwraith/rts-core/gridmap"
	"github.com/stretchr/testify/require"
)

func TestFindSameCellReturnsSinglePointPath(t *testing.T) {
	g := gridmap.New(8, 8)
	res := Find(g, Cell{2, 2}, Cell{2, 2}, 100)
	if !res.Found || len(res.Path) != 1 || res.Path[0] != (Cell{2, 2}) {
		t.Fatalf("expected single-point path, got %+v", res)
	}
	if res.Expansions != 0 {
		t.Fatalf("expected zero expansions for a trivial path, got %d", res.Expansions)
	}
}

func TestFindStraightLineOnOpenGrid(t *testing.T) {
	g := gridmap.New(10, 10)
	res := Find(g, Cell{0, 0}, Cell{5, 0}, 1000)
	if !res.Found {
		t.Fatalf("expected a path on an open grid")
	}
	if res.Path[0] != (Cell{0, 0}) || res.Path[len(res.Path)-1] != (Cell{5, 0}) {
		t.Fatalf("expected path endpoints to match start/goal, got %+v", res.Path)
	}
}

func TestFindFailsOnImpassableGoal(t *testing.T) {
	g := gridmap.New(8, 8)
	g.SetPassable(5, 5, false)
	res := Find(g, Cell{0, 0}, Cell{5, 5}, 1000)
	if res.Found {
		t.Fatalf("expected no path to an impassable goal")
	}
}

func TestFindRoutesAroundAWall(t *testing.T) {
	g := gridmap.New(10, 10)
	for y := 0; y < 9; y++ {
		g.SetPassable(5, y, false)
	}
	res := Find(g, Cell{0, 5}, Cell{9, 5}, 10000)
	if !res.Found {
		t.Fatalf("expected a path around the wall gap")
	}
	for _, c := range res.Path {
		if c.X == 5 && c.Y != 9 {
			t.Fatalf("path crosses the wall at a blocked cell %+v", c)
		}
	}
}

func TestFindRespectsExpansionBudget(t *testing.T) {
	g := gridmap.New(50, 50)
	res := Find(g, Cell{0, 0}, Cell{49, 49}, 2)
	require.Falsef(t, res.Found, "expected budget-limited search to fail to find a distant goal")
	require.LessOrEqualf(t, res.Expansions, 2, "expected expansions capped at budget")
}

func TestFindForbidsCuttingThroughTwoBlockedCorners(t *testing.T) {
	g := gridmap.New(5, 5)
	// Block the two orthogonal cells adjacent to a diagonal step from
	// (1,1) to (2,2), so the diagonal move must be rejected.
	g.SetPassable(2, 1, false)
	g.SetPassable(1, 2, false)

	res := Find(g, Cell{1, 1}, Cell{2, 2}, 1000)
	if !res.Found {
		t.Fatalf("expected a path to still exist via a longer route")
	}
	for i := 0; i+1 < len(res.Path); i++ {
		a, b := res.Path[i], res.Path[i+1]
		if abs(b.X-a.X) == 1 && abs(b.Y-a.Y) == 1 && a == (Cell{1, 1}) && b == (Cell{2, 2}) {
			t.Fatalf("expected the corner-cutting diagonal step to be forbidden")
		}
	}
}

func TestFindOutOfBoundsEndpointsFail(t *testing.T) {
	g := gridmap.New(4, 4)
	res := Find(g, Cell{0, 0}, Cell{10, 10}, 100)
	if res.Found {
		t.Fatalf("expected failure for an out-of-bounds goal")
	}
}
