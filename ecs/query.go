package ecs

import "sort"

// Query builds an intersection over several component stores,
// returning entities that carry all of them. Iteration order is
// stable: the result is sorted by entity slot index, giving deterministic replay
// regardless of which store happened to be smallest (spec.md §4.2).
type Query struct {
	stores   []queryableStore
	executed bool
	result   []Entity
}

// NewQuery starts an empty query. Use With to add component
// filters, then Execute to run it.
func NewQuery() *Query {
	return &Query{stores: make([]queryableStore, 0, 4)}
}

// With adds a component store to the filter. Panics if the query was
// already executed.
func (q *Query) With(stores ...queryableStore) *Query {
	if q.executed {
		panic("ecs: query already executed")
	}
	q.stores = append(q.stores, stores...)
	return q
}

// Execute runs the intersection, caching the result for repeat calls.
func (q *Query) Execute() []Entity {
	if q.executed {
		return q.result
	}
	q.executed = true
	if len(q.stores) == 0 {
		q.result = nil
		return nil
	}

	ordered := make([]queryableStore, len(q.stores))
	copy(ordered, q.stores)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].count() < ordered[j].count() })

	candidates := ordered[0].allEntities()
	for _, s := range ordered[1:] {
		kept := candidates[:0]
		for _, e := range candidates {
			if s.hasComponent(e) {
				kept = append(kept, e)
			}
		}
		candidates = kept
	}

	// Order by slot index, not raw Entity value: Entity packs the
	// generation into the high bits, so comparing values directly
	// would sort by reuse count before creation order once slots
	// start being recycled, breaking the insertion-order guarantee
	// spec.md §4.2 requires for deterministic replay.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].index() < candidates[j].index() })
	q.result = candidates
	return candidates
}
