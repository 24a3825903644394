package ecs

import "testing"

func TestQueryReturnsEntitiesCarryingAllComponents(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	c := w.CreateEntity()

	w.Transforms.Add(a, Transform{})
	w.Kinematics.Add(a, Kinematics{})

	w.Transforms.Add(b, Transform{})
	// b lacks Kinematics

	w.Transforms.Add(c, Transform{})
	w.Kinematics.Add(c, Kinematics{})

	got := NewQuery().With(w.Transforms, w.Kinematics).Execute()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("expected [a c] in creation order, got %v", got)
	}
}

func TestQueryOrdersBySlotIndexNotRawEntityValue(t *testing.T) {
	w := NewWorld()
	first := w.CreateEntity()
	w.Transforms.Add(first, Transform{})
	w.DestroyEntity(first)
	w.Reap() // bumps first's slot generation, freeing it for reuse

	reused := w.CreateEntity() // same slot index as first, higher generation
	w.Transforms.Add(reused, Transform{})

	second := w.CreateEntity() // a fresh, higher slot index
	w.Transforms.Add(second, Transform{})

	got := NewQuery().With(w.Transforms).Execute()
	if len(got) != 2 {
		t.Fatalf("expected 2 live entities with Transform, got %v", got)
	}
	if got[0] != reused || got[1] != second {
		t.Fatalf("expected order by slot index [reused second], got %v", got)
	}
}

func TestQueryWithNoStoresReturnsNil(t *testing.T) {
	got := NewQuery().Execute()
	if got != nil {
		t.Fatalf("expected nil result for a query with no component filters, got %v", got)
	}
}

func TestQueryExecuteIsCachedAfterFirstCall(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	w.Transforms.Add(e, Transform{})

	q := NewQuery().With(w.Transforms)
	first := q.Execute()

	e2 := w.CreateEntity()
	w.Transforms.Add(e2, Transform{})

	second := q.Execute()
	if len(first) != len(second) {
		t.Fatalf("expected Execute to return the cached result on repeat calls, first=%v second=%v", first, second)
	}
}

func TestQueryWithAfterExecutePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected With after Execute to panic")
		}
	}()
	q := NewQuery()
	q.Execute()
	q.With()
}
