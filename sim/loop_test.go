package sim

import (
	"testing"

	"github.com/lixenwraith/rts-core/events"
)

func TestAdvanceRunsWholeStepsAndKeepsRemainderAsAlpha(t *testing.T) {
	clock := NewPausableClock()
	queue := events.NewQueue()
	loop := NewLoop(clock, queue)

	var steps int
	alpha := loop.Advance(FixedDT*2.5, func(dt float64) { steps++ })

	if steps != 2 {
		t.Fatalf("expected 2 whole steps from 2.5*FixedDT of frame time, got %d", steps)
	}
	if alpha < 0.49 || alpha > 0.51 {
		t.Fatalf("expected alpha ~0.5, got %v", alpha)
	}
}

func TestAdvanceWhilePausedIsNoop(t *testing.T) {
	clock := NewPausableClock()
	queue := events.NewQueue()
	loop := NewLoop(clock, queue)
	clock.Pause()

	var steps int
	alpha := loop.Advance(FixedDT*5, func(dt float64) { steps++ })

	if steps != 0 || alpha != 0 {
		t.Fatalf("expected paused Advance to run nothing, got steps=%d alpha=%v", steps, alpha)
	}
}

func TestAdvanceSpiralOfDeathGuardCapsStepsAndEmitsEvent(t *testing.T) {
	clock := NewPausableClock()
	queue := events.NewQueue()
	loop := NewLoop(clock, queue)

	var steps int
	loop.Advance(FixedDT*float64(MaxStepsPerTick+10), func(dt float64) { steps++ })

	if steps != MaxStepsPerTick {
		t.Fatalf("expected steps capped at MaxStepsPerTick=%d, got %d", MaxStepsPerTick, steps)
	}

	got := queue.Consume()
	found := false
	for _, ev := range got {
		if ev.Type == events.PerformanceDegraded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a PerformanceDegraded event on spiral-of-death guard trigger")
	}
}

func TestStepForcesExactlyOneSimulateCallRegardlessOfPause(t *testing.T) {
	clock := NewPausableClock()
	queue := events.NewQueue()
	loop := NewLoop(clock, queue)
	clock.Pause()
	loop.Step()

	var steps int
	loop.Advance(0, func(dt float64) { steps++ })
	if steps != 1 {
		t.Fatalf("expected exactly 1 step from single-step request, got %d", steps)
	}

	// Single-step is consumed; a further Advance while paused runs nothing.
	steps = 0
	loop.Advance(FixedDT, func(dt float64) { steps++ })
	if steps != 0 {
		t.Fatalf("expected single-step flag to be one-shot, got %d further steps", steps)
	}
}

func TestTickCountAccumulatesAcrossAdvanceCalls(t *testing.T) {
	clock := NewPausableClock()
	queue := events.NewQueue()
	loop := NewLoop(clock, queue)

	loop.Advance(FixedDT*3, func(dt float64) {})
	loop.Advance(FixedDT*2, func(dt float64) {})

	if loop.TickCount() != 5 {
		t.Fatalf("expected TickCount()=5, got %d", loop.TickCount())
	}
}
