// Package sim drives the fixed-timestep simulation loop: the
// accumulator that turns variable wall-clock frames into a whole
// number of dt-sized simulate steps, the interpolation factor for
// rendering, pause/step control, and the spiral-of-death guard
// (spec.md §4.1).
package sim

import (
	"sync"
	"sync/atomic"
	"time"
)

// ResumeCallback runs when the clock resumes from a pause, receiving
// how long the pause lasted.
type ResumeCallback func(pauseDuration time.Duration)

// PausableClock is a monotonic clock that can be frozen and resumed
// without discontinuities in the returned game time: pausing simply
// accumulates into totalPaused, which Now subtracts back out.
type PausableClock struct {
	mu sync.RWMutex

	realStart time.Time
	gameStart time.Time

	paused        atomic.Bool
	pauseStarted  time.Time
	totalPaused   time.Duration
	onResume      []ResumeCallback
}

// NewPausableClock creates a running clock starting at the current
// wall-clock time.
func NewPausableClock() *PausableClock {
	now := time.Now()
	return &PausableClock{realStart: now, gameStart: now}
}

// Now returns current game time, frozen at the moment of pause.
func (c *PausableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.paused.Load() {
		return c.gameStart.Add(c.pauseStarted.Sub(c.realStart) - c.totalPaused)
	}
	elapsed := time.Since(c.realStart) - c.totalPaused
	return c.gameStart.Add(elapsed)
}

// Pause freezes game time. Idempotent.
func (c *PausableClock) Pause() {
	if c.paused.CompareAndSwap(false, true) {
		c.mu.Lock()
		c.pauseStarted = time.Now()
		c.mu.Unlock()
	}
}

// Resume unfreezes game time, folding the pause duration into the
// running total and notifying OnResume callbacks.
func (c *PausableClock) Resume() {
	if !c.paused.CompareAndSwap(true, false) {
		return
	}
	c.mu.Lock()
	var dur time.Duration
	if !c.pauseStarted.IsZero() {
		dur = time.Since(c.pauseStarted)
		c.totalPaused += dur
		c.pauseStarted = time.Time{}
	}
	callbacks := make([]ResumeCallback, len(c.onResume))
	copy(callbacks, c.onResume)
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(dur)
	}
}

// OnResume registers a callback invoked on every Resume.
func (c *PausableClock) OnResume(cb ResumeCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResume = append(c.onResume, cb)
}

// IsPaused reports whether the clock is currently frozen.
func (c *PausableClock) IsPaused() bool {
	return c.paused.Load()
}
