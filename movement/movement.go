// Package movement steers entities with PathFollower and Kinematics
// components along their path, handles arrival, requests paths from
// the pathfinder when none is pending, and applies a separation
// impulse against higher-priority neighbors (spec.md §4.9). All float
// work proceeds in ascending Entity order with no RNG, so two runs over
// the same world state produce identical positions.
package movement

import (
	"math"
	"sort"

	"github.com/lixenwraith/rts-core/ecs"
	"github.com/lixenwraith/rts-core/events"
	"github.com/lixenwraith/rts-core/gridmap"
	"github.com/lixenwraith/rts-core/pathfind"
	"github.com/lixenwraith/rts-core/spatial"
)

// ArrivalEpsilon is how close a follower must be to a waypoint to
// advance to the next one (spec.md §4.9).
const ArrivalEpsilon = 4.0

// SeparationRadiusFactor scales a collider's radius to decide how
// close a higher-priority neighbor must be before a separation
// impulse is applied (spec.md §4.9: "within 2 * radius").
const SeparationRadiusFactor = 2.0

// BlockedTicksBeforeReplan is how many consecutive ticks an entity may
// sit without making progress before requesting a fresh path.
const BlockedTicksBeforeReplan = 30 // 0.5s at 60Hz

// ReplanCooldown is the minimum time between replan requests for the
// same follower (spec.md §4.9).
const ReplanCooldown = 0.5

// System advances every PathFollower/Kinematics entity one tick.
type System struct {
	world *ecs.World
	grid  *gridmap.Grid
	index *spatial.Tree // live unit positions, rebuilt/updated here
	pool  *pathfind.Pool
	cache *pathfind.Cache
	queue *events.Queue

	nextRequestID uint64
	pendingSmooth bool
}

// NewSystem creates the movement system over world/grid, using index
// for neighbor queries, pool/cache for path requests, and queue to
// emit CannotComply when a requested path fails (spec.md §4.5).
func NewSystem(world *ecs.World, grid *gridmap.Grid, index *spatial.Tree, pool *pathfind.Pool, cache *pathfind.Cache, queue *events.Queue) *System {
	return &System{world: world, grid: grid, index: index, pool: pool, cache: cache, queue: queue, pendingSmooth: true}
}

func (s *System) Name() string { return "movement" }

// Priority runs movement after commands have been translated into
// intents but before the economy FSM reads settled positions.
func (s *System) Priority() int { return 30 }

func (s *System) Update(w *ecs.World, dt float64) {
	if s.cache != nil {
		s.cache.Advance(dt)
	}
	s.drainPathResults()

	entities := w.PathFollows.All()
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	for _, e := range entities {
		if !w.Kinematics.Has(e) || !w.Transforms.Has(e) {
			continue
		}
		s.consumeIntent(e)
		s.step(e, dt)
	}

	s.syncIndex()
}

// consumeIntent pops the head intent (if any) and dispatches it. Every
// intent kind is popped here, even those with no movement behavior of
// their own, so a command the player queues behind one never gets
// stuck: a Commandable.Queue entry movement doesn't recognize would
// otherwise sit at the head forever and block everything queued after
// it (spec.md §3 invariant 3's bounded queue assumes entries drain).
func (s *System) consumeIntent(e ecs.Entity) {
	if !s.world.Commandables.Has(e) {
		return
	}
	c := s.world.Commandables.MustGet(e)
	if len(c.Queue) == 0 {
		return
	}
	intent := c.Queue[0]
	switch intent.Kind {
	case ecs.IntentStop:
		c.Pop()
		pf := s.world.PathFollows.MustGet(e)
		reqID := pf.RequestID
		*pf = ecs.PathFollower{}
		if s.pool != nil {
			s.pool.Cancel(reqID)
		}
	case ecs.IntentMove:
		c.Pop()
		s.requestPath(e, intent.TargetX, intent.TargetY, true)
	case ecs.IntentAttack:
		c.Pop()
		// Attack targeting is the combat system's job (combat.System
		// reads Attacker.Target each tick); movement only hands off.
		if s.world.Attackers.Has(e) {
			a := s.world.Attackers.MustGet(e)
			a.Target = intent.TargetID
			a.CooldownTimer = 0
		}
	case ecs.IntentHarvest:
		// Harvester targeting is driven by the economy FSM's own
		// nearest-node search (economy/harvester.go), not by the
		// queued target; pop so the entry doesn't jam the queue.
		c.Pop()
	case ecs.IntentHold, ecs.IntentPatrol:
		// No standing Hold/Patrol behavior is modeled yet; pop and
		// discard rather than leaving the queue jammed.
		c.Pop()
	default:
		c.Pop()
	}
}

func (s *System) requestPath(e ecs.Entity, targetX, targetY float64, priority bool) {
	if !s.world.Transforms.Has(e) {
		return
	}
	t := s.world.Transforms.MustGet(e)
	startX, startY := gridmap.WorldToCell(t.X, t.Y)
	goalX, goalY := gridmap.WorldToCell(targetX, targetY)
	start := pathfind.Cell{X: startX, Y: startY}
	goal := pathfind.Cell{X: goalX, Y: goalY}

	pf := s.world.PathFollows.MustGet(e)

	if s.cache != nil {
		if cached, ok := s.cache.Get(start, goal); ok {
			s.installPath(pf, cached)
			return
		}
	}
	if s.pool == nil {
		return
	}
	s.nextRequestID++
	reqID := s.nextRequestID
	pf.RequestState = ecs.PathPending
	pf.RequestID = reqID
	s.pool.Submit(pathfind.Request{
		ID:            reqID,
		Start:         start,
		Goal:          goal,
		MaxExpansions: 4000,
		Priority:      priority,
		Smooth:        s.pendingSmooth,
	})
}

func (s *System) drainPathResults() {
	if s.pool == nil {
		return
	}
	for _, resp := range s.pool.Collect() {
		e := s.findByRequestID(resp.ID)
		if e == ecs.Invalid {
			continue
		}
		pf := s.world.PathFollows.MustGet(e)
		if pf.RequestID != resp.ID {
			continue // superseded by a newer request
		}
		if !resp.Result.Found {
			pf.RequestState = ecs.PathFailed
			s.emit(events.Event{
				Type:    events.CannotComply,
				Payload: events.CannotComplyPayload{Entity: e.Raw(), Reason: "no path found within expansion budget"},
			})
			continue
		}
		s.installPath(pf, resp.Result.Path)
	}
}

func (s *System) findByRequestID(id uint64) ecs.Entity {
	for _, e := range s.world.PathFollows.All() {
		pf := s.world.PathFollows.MustGet(e)
		if pf.RequestState == ecs.PathPending && pf.RequestID == id {
			return e
		}
	}
	return ecs.Invalid
}

func (s *System) installPath(pf *ecs.PathFollower, cells []pathfind.Cell) {
	waypoints := make([][2]float64, len(cells))
	for i, c := range cells {
		x, y := gridmap.CellCenter(c.X, c.Y)
		waypoints[i] = [2]float64{x, y}
	}
	pf.Path = waypoints
	pf.WaypointIndex = 0
	pf.RequestState = ecs.PathIdle
	pf.BlockedTicks = 0
}

func (s *System) step(e ecs.Entity, dt float64) {
	pf := s.world.PathFollows.MustGet(e)
	kin := s.world.Kinematics.MustGet(e)
	tr := s.world.Transforms.MustGet(e)

	if pf.WaypointIndex >= len(pf.Path) {
		kin.VX, kin.VY = 0, 0
		return
	}

	wp := pf.Path[pf.WaypointIndex]
	dx := wp[0] - tr.X
	dy := wp[1] - tr.Y
	dist := math.Hypot(dx, dy)

	if dist < ArrivalEpsilon {
		pf.WaypointIndex++
		pf.BlockedTicks = 0
		if pf.WaypointIndex >= len(pf.Path) {
			kin.VX, kin.VY = 0, 0
			return
		}
		wp = pf.Path[pf.WaypointIndex]
		dx = wp[0] - tr.X
		dy = wp[1] - tr.Y
		dist = math.Hypot(dx, dy)
	}

	var desiredVX, desiredVY float64
	if dist > 1e-9 {
		desiredVX = dx / dist * kin.MaxSpeed
		desiredVY = dy / dist * kin.MaxSpeed
	}

	kin.VX = clampAccel(kin.VX, desiredVX, kin.Accel*dt)
	kin.VY = clampAccel(kin.VY, desiredVY, kin.Accel*dt)

	sepX, sepY := s.separationImpulse(e, tr.X, tr.Y)
	moveX := tr.X + (kin.VX+sepX)*dt
	moveY := tr.Y + (kin.VY+sepY)*dt

	progressed := math.Hypot(moveX-tr.X, moveY-tr.Y) > 1e-6
	tr.X, tr.Y = moveX, moveY

	if !progressed {
		pf.BlockedTicks++
		if pf.BlockedTicks > BlockedTicksBeforeReplan && pf.RequestState == ecs.PathIdle {
			last := pf.Path[len(pf.Path)-1]
			s.requestPath(e, last[0], last[1], false)
			pf.BlockedTicks = 0
		}
	} else {
		pf.BlockedTicks = 0
	}
}

func (s *System) emit(ev events.Event) {
	if s.queue != nil {
		s.queue.Push(ev)
	}
}

func clampAccel(current, desired, maxDelta float64) float64 {
	delta := desired - current
	if delta > maxDelta {
		delta = maxDelta
	} else if delta < -maxDelta {
		delta = -maxDelta
	}
	return current + delta
}

// separationImpulse nudges e away from any higher-priority neighbor
// closer than 2*radius (spec.md §4.9). Priority comparison falls back
// to entity id when neither has a Selectable (deterministic either
// way).
func (s *System) separationImpulse(e ecs.Entity, x, y float64) (float64, float64) {
	if s.index == nil || !s.world.Colliders.Has(e) {
		return 0, 0
	}
	col := s.world.Colliders.MustGet(e)
	radius := col.Radius
	if radius == 0 {
		radius = math.Max(col.HalfWidth, col.HalfHeight)
	}
	searchR := radius * SeparationRadiusFactor
	neighbors := s.index.QueryRadius(x, y, searchR)

	myPriority := s.priorityOf(e)
	var ix, iy float64
	for _, id := range neighbors {
		other := ecs.FromRaw(uint64(id))
		if other == e || !s.world.Alive(other) || !s.world.Transforms.Has(other) {
			continue
		}
		if s.priorityOf(other) <= myPriority {
			continue
		}
		ot := s.world.Transforms.MustGet(other)
		dx, dy := x-ot.X, y-ot.Y
		d := math.Hypot(dx, dy)
		if d >= searchR || d < 1e-9 {
			continue
		}
		push := (searchR - d) / searchR
		ix += dx / d * push
		iy += dy / d * push
	}
	return ix, iy
}

func (s *System) priorityOf(e ecs.Entity) int {
	if s.world.Selectables.Has(e) {
		return s.world.Selectables.MustGet(e).Priority
	}
	return int(e)
}

// syncIndex keeps the spatial index matching spec.md §3 invariant 2
// ("contains an entry iff the entity has both Transform and Collider
// and is alive") by walking every such entity each tick, not just
// PathFollowers — a stationary refinery or resource node carries
// Transform+Collider with no PathFollower and still needs to be
// queryable (e.g. by selection's hit-test and movement's own
// separation query).
func (s *System) syncIndex() {
	if s.index == nil {
		return
	}
	for _, e := range ecs.NewQuery().With(s.world.Transforms, s.world.Colliders).Execute() {
		t := s.world.Transforms.MustGet(e)
		c := s.world.Colliders.MustGet(e)
		minX, minY, maxX, maxY := c.AABB(t.X, t.Y)
		s.index.Update(spatial.ID(e.Raw()), spatial.AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
	}
}
