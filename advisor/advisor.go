// Package advisor implements the optional strategic-advisor port
// named in spec.md §6 as an external interface: a request/response
// call guarded by a timeout and a circuit breaker so a slow or
// failing advisor backend degrades gracefully instead of stalling the
// tick loop (SPEC_FULL.md §4.13).
package advisor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// QueryTimeout bounds a single Query call (SPEC_FULL.md §4.13).
const QueryTimeout = 500 * time.Millisecond

// breakerState mirrors the classic closed/open/half-open circuit
// breaker states.
type breakerState int32

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Snapshot is the read-only view of simulation state handed to the
// advisor backend; the core never blocks waiting on its contents
// being interpreted, only on the call returning.
type Snapshot struct {
	Tick        uint64
	TeamID      uint8
	Credits     int
	UnitCount   int
	EnemySeen   bool
}

// Advice is the advisor backend's recommendation. The core treats it
// as opaque guidance surfaced to the UI/AI layer, never mutating
// components directly from it.
type Advice struct {
	Recommendation string
	Confidence     float64
}

// Backend is the transport to the external advisor process/service.
type Backend interface {
	Query(ctx context.Context, snap Snapshot) (Advice, error)
}

// Breaker wraps a Backend with a consecutive-failure circuit breaker:
// closed (normal) -> open (after FailureThreshold consecutive
// failures, all calls fail fast) -> half-open (after ResetInterval,
// one trial call is allowed) -> closed on success or back to open on
// failure. Counters are atomic since Query may be called from a
// worker goroutine while diagnostics reads them from the tick thread,
// following the teacher's lock-free counter idiom.
type Breaker struct {
	backend Backend

	// FailureThreshold is how many consecutive failures open the
	// breaker.
	FailureThreshold int32
	// ResetInterval is how long the breaker stays open before allowing
	// a half-open trial call.
	ResetInterval time.Duration

	state           atomic.Int32
	consecutiveFail atomic.Int32
	openedAt        atomic.Int64 // unix nanos
}

// NewBreaker wraps backend with default thresholds (5 consecutive
// failures, 10s reset interval).
func NewBreaker(backend Backend) *Breaker {
	b := &Breaker{backend: backend, FailureThreshold: 5, ResetInterval: 10 * time.Second}
	return b
}

// ErrBreakerOpen is returned by Query when the breaker is open and
// the reset interval has not yet elapsed, or while a half-open trial
// call is in flight.
var ErrBreakerOpen = errors.New("advisor: circuit breaker open")

// Query calls the backend under QueryTimeout, recording the outcome
// against the breaker. While open, Query fails immediately without
// touching the backend.
func (b *Breaker) Query(ctx context.Context, snap Snapshot) (Advice, error) {
	if !b.allow() {
		return Advice{}, ErrBreakerOpen
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	advice, err := b.backend.Query(ctx, snap)
	if err != nil {
		b.recordFailure()
		return Advice{}, errors.Wrap(err, "advisor: query failed")
	}
	b.recordSuccess()
	return advice, nil
}

func (b *Breaker) allow() bool {
	switch breakerState(b.state.Load()) {
	case stateClosed:
		return true
	case stateHalfOpen:
		// A trial call is already in flight; fail fast until it settles.
		return false
	case stateOpen:
		openedAt := time.Unix(0, b.openedAt.Load())
		if time.Since(openedAt) < b.ResetInterval {
			return false
		}
		// Reset interval elapsed: allow a single half-open trial call.
		if b.state.CompareAndSwap(int32(stateOpen), int32(stateHalfOpen)) {
			log.Debug().Msg("advisor: circuit breaker half-open trial")
			return true
		}
		return false
	}
	return true
}

func (b *Breaker) recordSuccess() {
	b.consecutiveFail.Store(0)
	b.state.Store(int32(stateClosed))
}

func (b *Breaker) recordFailure() {
	n := b.consecutiveFail.Add(1)
	if breakerState(b.state.Load()) == stateHalfOpen || n >= b.FailureThreshold {
		if b.state.CompareAndSwap(int32(stateClosed), int32(stateOpen)) ||
			b.state.CompareAndSwap(int32(stateHalfOpen), int32(stateOpen)) {
			b.openedAt.Store(time.Now().UnixNano())
			log.Warn().Int32("consecutive_failures", n).Msg("advisor: circuit breaker opened")
		}
	}
}

// State reports the breaker's current state for diagnostics.
func (b *Breaker) State() string {
	switch breakerState(b.state.Load()) {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
