package ecs

// System is one ordered per-tick operation over the world. Systems run
// sequentially within a tick; none may suspend mid-tick (spec.md §5).
type System interface {
	// Name identifies the system for logging and the performance
	// governor's per-phase accounting.
	Name() string
	// Priority orders systems within a tick; lower values run first.
	Priority() int
	// Update advances the system's slice of simulation state by dt
	// seconds.
	Update(w *World, dt float64)
}
