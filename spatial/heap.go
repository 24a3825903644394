package spatial

import "container/heap"

// nearestHeap is a min-heap over nearestItem ordered by distSq, used
// by Nearest for its best-first search. container/heap is the
// standard-library priority queue; no quadtree or spatial-search
// library appears anywhere in the retrieved corpus, so the queue
// itself is hand-rolled rather than adapted from an example (see
// DESIGN.md).
type nearestHeap struct {
	items []nearestItem
}

func (h *nearestHeap) Len() int            { return len(h.items) }
func (h *nearestHeap) Less(i, j int) bool  { return h.items[i].distSq < h.items[j].distSq }
func (h *nearestHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *nearestHeap) Push(x interface{})  { h.items = append(h.items, x.(nearestItem)) }
func (h *nearestHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func (h *nearestHeap) push(item nearestItem) { heap.Push(h, item) }
func (h *nearestHeap) pop() nearestItem      { return heap.Pop(h).(nearestItem) }
