package spatial

import "math"

// QueryRect returns every id whose AABB intersects box, with no false
// negatives. Duplicates cannot occur: the edge policy in Insert stores
// each entry at exactly one node. Traversal uses an explicit stack
// instead of recursion so a pathological tree never grows the Go call
// stack (spec.md §4.3: "deep recursions are iteratively unrolled").
func (t *Tree) QueryRect(box AABB) []ID {
	var out []ID
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.bounds.intersects(box) {
			// This node's own extent misses the query entirely, and
			// every entry/child it holds lies within that extent, so
			// the whole subtree can be skipped.
			continue
		}
		for _, e := range n.entries {
			if e.aabb.intersects(box) {
				out = append(out, e.id)
			}
		}
		if n.children != nil {
			for _, c := range n.children {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// QueryRadius returns every id whose AABB intersects the circle
// centered at (x, y) with radius r.
func (t *Tree) QueryRadius(x, y, r float64) []ID {
	bound := AABB{MinX: x - r, MinY: y - r, MaxX: x + r, MaxY: y + r}
	r2 := r * r
	var out []ID
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.bounds.intersects(bound) {
			continue
		}
		for _, e := range n.entries {
			if aabbCircleIntersect(e.aabb, x, y, r2) {
				out = append(out, e.id)
			}
		}
		if n.children != nil {
			for _, c := range n.children {
				stack = append(stack, c)
			}
		}
	}
	return out
}

func aabbCircleIntersect(box AABB, cx, cy float64, r2 float64) bool {
	closestX := clamp(cx, box.MinX, box.MaxX)
	closestY := clamp(cy, box.MinY, box.MaxY)
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= r2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Filter decides whether a candidate id qualifies for Nearest.
type Filter func(id ID) bool

// nearestItem tracks a node or entry in the best-first search, ordered
// by its distance lower bound to the query point.
type nearestItem struct {
	n        *node // nil for a leaf entry
	e        entry
	isEntry  bool
	distSq   float64
}

// Nearest performs a best-first search pruning by node distance,
// returning the closest id passing filter, or false if none qualify.
// Bounded work: the explicit priority queue only expands nodes whose
// minimum possible distance is still less than the best candidate
// found so far.
func (t *Tree) Nearest(x, y float64, filter Filter) (ID, bool) {
	pq := &nearestHeap{}
	pushNode(pq, t.root, x, y)

	bestDistSq := math.Inf(1)
	var best ID
	found := false

	for pq.Len() > 0 {
		item := pq.pop()
		if item.distSq > bestDistSq {
			break // everything left in the heap is farther than our best
		}
		if item.isEntry {
			if filter != nil && !filter(item.e.id) {
				continue
			}
			if item.distSq < bestDistSq {
				bestDistSq = item.distSq
				best = item.e.id
				found = true
			}
			continue
		}
		for _, e := range item.n.entries {
			d := pointToAABBDistSq(x, y, e.aabb)
			pq.push(nearestItem{e: e, isEntry: true, distSq: d})
		}
		if item.n.children != nil {
			for _, c := range item.n.children {
				pushNode(pq, c, x, y)
			}
		}
	}
	return best, found
}

func pushNode(pq *nearestHeap, n *node, x, y float64) {
	d := pointToAABBDistSq(x, y, n.bounds)
	pq.push(nearestItem{n: n, distSq: d})
}

func pointToAABBDistSq(x, y float64, box AABB) float64 {
	dx := 0.0
	if x < box.MinX {
		dx = box.MinX - x
	} else if x > box.MaxX {
		dx = x - box.MaxX
	}
	dy := 0.0
	if y < box.MinY {
		dy = box.MinY - y
	} else if y > box.MaxY {
		dy = y - box.MaxY
	}
	return dx*dx + dy*dy
}
