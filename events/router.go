package events

// Handler processes specific event types. Game-shell subscribers
// implement this to react to SelectionChanged, EconomyChanged, and
// the rest of spec.md §6's event list. No package inside the core
// registers a handler; core systems only push events.
type Handler interface {
	// HandleEvent processes a single event, synchronously.
	HandleEvent(ev Event)
	// EventTypes declares which Types this handler wants routed to it.
	EventTypes() []Type
}

// Router dispatches drained events to registered handlers, in
// registration order, single-threaded.
type Router struct {
	handlers map[Type][]Handler
	queue    *Queue
}

// NewRouter creates a router attached to queue.
func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[Type][]Handler),
		queue:    queue,
	}
}

// Register subscribes handler to every Type it declares.
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes every pending event and routes it to
// subscribed handlers in FIFO order. Call once per tick, at the
// defined dispatch point (spec.md §5).
func (r *Router) DispatchAll() {
	for _, ev := range r.queue.Consume() {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
}

// HasHandlers reports whether any handler is registered for t.
func (r *Router) HasHandlers(t Type) bool {
	return len(r.handlers[t]) > 0
}
