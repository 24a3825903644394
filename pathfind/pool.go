package pathfind

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lixenwraith/rts-core/gridmap"
)

// Request is one outstanding path query. FIFO order is the default,
// with a small priority boost for player-issued commands
// (spec.md §4.5): Priority requests are served before non-priority
// ones regardless of submission order, but ties within a priority
// class remain FIFO.
type Request struct {
	ID            uint64
	Start, Goal   Cell
	MaxExpansions int
	Priority      bool
	Smooth        bool
}

// Response carries a completed request's outcome back to the caller;
// a cancelled request produces no Response.
type Response struct {
	ID     uint64
	Result Result
}

// Pool runs A* requests under a worker pool bounded by
// golang.org/x/sync/semaphore, using golang.org/x/sync/errgroup to
// manage worker lifecycle. Requests in excess of the per-tick budget
// (spec.md §4.5, enforced by the caller via context deadline) remain
// queued; the pool never blocks the simulation tick waiting for
// workers (spec.md §5's "single-producer queue drained at a defined
// point in the tick" — here results are drained by Collect, called
// once at tick start).
type Pool struct {
	grid   *gridmap.Grid
	sem    *semaphore.Weighted

	mu        sync.Mutex
	pending   []Request // priority requests first, then FIFO
	cancelled map[uint64]bool

	results chan Response
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool over grid with at most concurrency
// in-flight A* searches at once.
func NewPool(grid *gridmap.Grid, concurrency int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	p := &Pool{
		grid:      grid,
		sem:       semaphore.NewWeighted(int64(concurrency)),
		cancelled: make(map[uint64]bool),
		results:   make(chan Response, 4096),
		group:     group,
		ctx:       gctx,
		cancel:    cancel,
	}
	return p
}

// Submit enqueues req. Priority requests are moved ahead of any
// already-queued non-priority request but behind other priority
// requests (stable within each class).
func (p *Pool) Submit(req Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !req.Priority {
		p.pending = append(p.pending, req)
		return
	}
	insertAt := len(p.pending)
	for i, r := range p.pending {
		if !r.Priority {
			insertAt = i
			break
		}
	}
	p.pending = append(p.pending, Request{})
	copy(p.pending[insertAt+1:], p.pending[insertAt:])
	p.pending[insertAt] = req
}

// Cancel tags id so any in-flight or queued result for it is dropped
// instead of being delivered (spec.md §5 cancellation semantics).
func (p *Pool) Cancel(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled[id] = true
	filtered := p.pending[:0]
	for _, r := range p.pending {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	p.pending = filtered
}

func (p *Pool) popNext() (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return Request{}, false
	}
	req := p.pending[0]
	p.pending = p.pending[1:]
	return req, true
}

func (p *Pool) isCancelled(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled[id]
}

// RunBudget dequeues and computes requests until ctx is done
// (callers pass a context with a deadline equal to the per-tick
// pathfinding budget, spec.md §4.11's ≈2ms) or the queue drains,
// whichever comes first. Requests beyond the budget remain queued for
// the next tick's RunBudget call; callers observe this as the
// PathFollower staying in its Pending state.
func (p *Pool) RunBudget(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		req, ok := p.popNext()
		if !ok {
			return
		}
		if p.isCancelled(req.ID) {
			continue
		}
		if err := p.sem.Acquire(ctx, 1); err != nil {
			// Budget ran out while waiting for a worker slot; put the
			// request back at the front so it isn't lost, and stop.
			p.mu.Lock()
			p.pending = append([]Request{req}, p.pending...)
			p.mu.Unlock()
			return
		}
		p.group.Go(func() error {
			defer p.sem.Release(1)
			res := Find(p.grid, req.Start, req.Goal, req.MaxExpansions)
			if res.Found && req.Smooth {
				res.Path = Smooth(p.grid, res.Path)
			}
			if !p.isCancelled(req.ID) {
				p.results <- Response{ID: req.ID, Result: res}
			}
			return nil
		})
	}
}

// Collect drains every result produced since the last call, without
// blocking. Call once at the start of each tick (spec.md §5).
func (p *Pool) Collect() []Response {
	var out []Response
	for {
		select {
		case r := <-p.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Close cancels the pool's context and waits for in-flight searches to
// finish. It does not stop later Submit or RunBudget calls.
func (p *Pool) Close() {
	p.cancel()
	_ = p.group.Wait()
}

// QueueLen reports how many requests are waiting to be served.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
