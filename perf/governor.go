// Package perf implements the per-tick performance governor (spec.md
// §4.11): a time budget per simulation phase, exhaustion counters,
// and a PerformanceDegraded event once exhaustion is sustained across
// consecutive ticks.
package perf

import (
	"time"

	"github.com/lixenwraith/rts-core/events"
)

// Phase names a budgeted section of the tick.
type Phase string

// The phases and default budgets spec.md §4.11 names; "Render prep"
// is intentionally excluded since it runs outside the tick.
const (
	PhaseInput        Phase = "input"
	PhaseCommands     Phase = "commands"
	PhasePathfinding  Phase = "pathfinding"
	PhaseMovement     Phase = "movement"
	PhaseEconomy      Phase = "economy"
	PhaseSpatialIndex Phase = "spatial_index"
)

// DefaultBudgets are the tunable defaults from spec.md §4.11.
func DefaultBudgets() map[Phase]time.Duration {
	return map[Phase]time.Duration{
		PhaseInput:        1 * time.Millisecond,
		PhaseCommands:     500 * time.Microsecond,
		PhasePathfinding:  2 * time.Millisecond,
		PhaseMovement:     2 * time.Millisecond,
		PhaseEconomy:      2 * time.Millisecond,
		PhaseSpatialIndex: 1 * time.Millisecond,
	}
}

// DegradationThreshold is how many consecutive exhausted ticks for a
// single phase trigger PerformanceDegraded.
const DegradationThreshold = 10

// Governor times each phase of a tick against its budget and tracks
// consecutive exhaustion.
type Governor struct {
	budgets     map[Phase]time.Duration
	consecutive map[Phase]int
	exhaustions map[Phase]int
	queue       *events.Queue

	active    Phase
	started   time.Time
	hasActive bool
}

// NewGovernor creates a governor with the given per-phase budgets,
// emitting PerformanceDegraded onto queue.
func NewGovernor(budgets map[Phase]time.Duration, queue *events.Queue) *Governor {
	return &Governor{
		budgets:     budgets,
		consecutive: make(map[Phase]int),
		exhaustions: make(map[Phase]int),
		queue:       queue,
	}
}

// Begin starts timing phase. Pair with End.
func (g *Governor) Begin(phase Phase) {
	g.active = phase
	g.started = time.Now()
	g.hasActive = true
}

// End stops timing the active phase, recording whether it exhausted
// its budget and, if so, whether exhaustion has now been sustained
// long enough to emit PerformanceDegraded.
func (g *Governor) End() {
	if !g.hasActive {
		return
	}
	phase := g.active
	g.hasActive = false

	elapsed := time.Since(g.started)
	budget, ok := g.budgets[phase]
	if !ok {
		return
	}
	if elapsed <= budget {
		g.consecutive[phase] = 0
		return
	}

	g.exhaustions[phase]++
	g.consecutive[phase]++
	if g.consecutive[phase] >= DegradationThreshold && g.queue != nil {
		g.queue.Push(events.Event{
			Type: events.PerformanceDegraded,
			Payload: events.PerformanceDegradedPayload{
				Phase:            string(phase),
				ConsecutiveTicks: g.consecutive[phase],
			},
		})
	}
}

// ExhaustionCount reports the lifetime number of ticks where phase
// exceeded its budget; exposed for diagnostics.
func (g *Governor) ExhaustionCount(phase Phase) int {
	return g.exhaustions[phase]
}

// ConsecutiveExhaustions reports the current exhaustion streak for
// phase.
func (g *Governor) ConsecutiveExhaustions(phase Phase) int {
	return g.consecutive[phase]
}
