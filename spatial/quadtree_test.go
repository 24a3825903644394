package spatial

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func bounds() AABB { return AABB{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000} }

func TestInsertThenQueryRectFindsExactMembers(t *testing.T) {
	tr := New(bounds(), 4, 6)
	tr.Insert(1, Point(10, 10))
	tr.Insert(2, Point(500, 500))
	tr.Insert(3, Point(990, 990))

	got := tr.QueryRect(AABB{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only id 1 in query rect, got %v", got)
	}
}

func TestQueryRectHasNoFalseNegativesUnderSubdivision(t *testing.T) {
	tr := New(bounds(), 2, 8) // low fanout forces subdivision quickly
	want := map[ID]bool{}
	for i := 0; i < 200; i++ {
		x := float64((i * 37) % 1000)
		y := float64((i * 53) % 1000)
		tr.Insert(ID(i), Point(x, y))
		if x >= 100 && x <= 400 && y >= 100 && y <= 400 {
			want[ID(i)] = true
		}
	}

	got := tr.QueryRect(AABB{MinX: 100, MinY: 100, MaxX: 400, MaxY: 400})
	gotSet := map[ID]bool{}
	for _, id := range got {
		gotSet[id] = true
	}
	for id := range want {
		require.Truef(t, gotSet[id], "expected id %d in query rect result, missing (false negative)", id)
	}
}

func TestQueryRadiusMatchesCircleContainment(t *testing.T) {
	tr := New(bounds(), 10, 8)
	tr.Insert(1, Point(100, 100))
	tr.Insert(2, Point(103, 100)) // within radius 5 of (100,100)
	tr.Insert(3, Point(200, 200)) // far away

	got := tr.QueryRadius(100, 100, 5)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected ids [1 2] within radius, got %v", got)
	}
}

func TestRemoveDropsEntryFromSubsequentQueries(t *testing.T) {
	tr := New(bounds(), 4, 6)
	tr.Insert(1, Point(50, 50))
	tr.Remove(1)
	if tr.Len() != 0 {
		t.Fatalf("expected tree to be empty after remove, Len()=%d", tr.Len())
	}
	got := tr.QueryRect(AABB{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100})
	if len(got) != 0 {
		t.Fatalf("expected no results after remove, got %v", got)
	}
}

func TestUpdateMovesEntryToNewLocation(t *testing.T) {
	tr := New(bounds(), 4, 6)
	tr.Insert(1, Point(10, 10))
	tr.Update(1, Point(900, 900))

	if got := tr.QueryRect(AABB{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}); len(got) != 0 {
		t.Fatalf("expected entry gone from old location, got %v", got)
	}
	got := tr.QueryRect(AABB{MinX: 890, MinY: 890, MaxX: 910, MaxY: 910})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected entry at new location, got %v", got)
	}
}

func TestStraddlingEntryStaysFindableAcrossChildBoundary(t *testing.T) {
	tr := New(bounds(), 1, 8)
	// An AABB straddling the midline (500) of a subdivided root cannot
	// fit entirely within any one child and must remain queryable from
	// the parent node per the edge policy (insertInto's doc comment).
	straddle := AABB{MinX: 490, MinY: 490, MaxX: 510, MaxY: 510}
	tr.Insert(1, straddle)
	for i := 0; i < 10; i++ {
		tr.Insert(ID(100+i), Point(float64(i), float64(i)))
	}

	got := tr.QueryRect(AABB{MinX: 495, MinY: 495, MaxX: 505, MaxY: 505})
	found := false
	for _, id := range got {
		if id == 1 {
			found = true
		}
	}
	require.Truef(t, found, "expected straddling entry 1 to be found, got %v", got)
}

func TestNearestReturnsClosestPassingFilter(t *testing.T) {
	tr := New(bounds(), 4, 6)
	tr.Insert(1, Point(100, 100))
	tr.Insert(2, Point(110, 100))
	tr.Insert(3, Point(50, 50))

	id, ok := tr.Nearest(100, 100, nil)
	if !ok || id != 1 {
		t.Fatalf("expected nearest id 1, got id=%d ok=%v", id, ok)
	}

	id, ok = tr.Nearest(100, 100, func(cand ID) bool { return cand != 1 })
	if !ok || id != 2 {
		t.Fatalf("expected nearest-excluding-1 to be id 2, got id=%d ok=%v", id, ok)
	}
}

func TestNearestOnEmptyTreeReportsNotFound(t *testing.T) {
	tr := New(bounds(), 4, 6)
	_, ok := tr.Nearest(0, 0, nil)
	if ok {
		t.Fatalf("expected Nearest on empty tree to report not-found")
	}
}

func TestRebuildPreservesAllEntries(t *testing.T) {
	tr := New(bounds(), 2, 8)
	for i := 0; i < 50; i++ {
		tr.Insert(ID(i), Point(float64(i*10), float64(i*5)))
	}
	before := tr.Len()
	tr.Rebuild()
	require.Equalf(t, before, tr.Len(), "expected Len unchanged after Rebuild")
	got := tr.QueryRect(bounds())
	require.Lenf(t, got, before, "expected all entries queryable after Rebuild")
}
