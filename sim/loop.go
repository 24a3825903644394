package sim

import (
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/rts-core/events"
)

// FixedDT is the simulation timestep: 1/60 s (spec.md §4.1).
const FixedDT = 1.0 / 60.0

// MaxStepsPerTick caps the number of simulate(dt) calls a single
// Advance may issue. Beyond this the loop discards the excess
// accumulated time instead of spiraling into ever-larger catch-up
// work ("spiral of death" guard).
const MaxStepsPerTick = 5

// Simulator advances the world state by one fixed step.
type Simulator func(dt float64)

// Loop drives Simulator with a fixed timestep accumulator fed by
// variable-length wall-clock frames, exposing the leftover fraction
// as an interpolation factor for the render pass.
type Loop struct {
	clock      *PausableClock
	queue      *events.Queue
	accumulator float64
	lastTime    float64
	stepCount   uint64
	singleStep  bool
}

// NewLoop creates a loop driven by clock, emitting slowdown/telemetry
// events onto queue.
func NewLoop(clock *PausableClock, queue *events.Queue) *Loop {
	return &Loop{clock: clock, queue: queue}
}

// Advance consumes frameSeconds of wall-clock time, invoking sim once
// per FixedDT until the accumulator drains (or the spiral-of-death cap
// is hit), then returns the interpolation alpha in [0,1] for the
// render pass between the last two simulated states.
func (l *Loop) Advance(frameSeconds float64, sim Simulator) (alpha float64) {
	if l.clock.IsPaused() && !l.singleStep {
		return 0
	}

	if l.singleStep {
		sim(FixedDT)
		l.stepCount++
		l.singleStep = false
		return 0
	}

	l.accumulator += frameSeconds
	steps := 0
	for l.accumulator >= FixedDT {
		if steps >= MaxStepsPerTick {
			dropped := l.accumulator
			l.accumulator = 0
			log.Warn().
				Int("dropped_steps_worth_ms", int(dropped*1000)).
				Uint64("tick", l.stepCount).
				Msg("sim: spiral-of-death guard discarded accumulated time")
			l.queue.Push(events.Event{
				Type: events.PerformanceDegraded,
				Payload: events.PerformanceDegradedPayload{
					Phase:            "tick_accumulator",
					ConsecutiveTicks: steps,
				},
			})
			break
		}
		sim(FixedDT)
		l.accumulator -= FixedDT
		l.stepCount++
		steps++
	}

	if FixedDT == 0 {
		return 0
	}
	return l.accumulator / FixedDT
}

// Step requests exactly one simulate(dt) call on the next Advance,
// regardless of pause state — used by the host's frame-step control.
func (l *Loop) Step() {
	l.singleStep = true
}

// Pause halts accumulation; Advance becomes a no-op until Resume.
func (l *Loop) Pause() { l.clock.Pause() }

// Resume resumes accumulation.
func (l *Loop) Resume() { l.clock.Resume() }

// TickCount returns the total number of simulate(dt) calls issued so
// far.
func (l *Loop) TickCount() uint64 { return l.stepCount }
