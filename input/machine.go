package input

import "math"

// DragThresholdPx is the minimum cursor travel, in page pixels, with
// the primary button held before a drag gesture begins (spec.md
// §4.10).
const DragThresholdPx = 4.0

// PinchThresholdPx is the minimum change in inter-contact distance
// before two active touches are classified as a pinch rather than a
// pan (spec.md §4.10).
const PinchThresholdPx = 6.0

// trackpadDeltaThreshold separates discrete mouse-wheel notches from
// trackpad-style fractional deltas; spec.md §4.10 says this only
// influences zoom step size, never whether a zoom fires at all.
const trackpadDeltaThreshold = 1.0

type machineState uint8

const (
	stateIdle machineState = iota
	statePrimaryDown  // button down, not yet past the drag threshold
	stateDragging
	stateTwoTouchTracking // two contacts down, not yet classified pan vs pinch
	statePanning
	statePinching
)

// Machine classifies a stream of raw Events into gesture Intents.
type Machine struct {
	state machineState

	downX, downY float64

	lastX, lastY float64

	touchStartDist float64
	touchLastX, touchLastY float64 // midpoint, for pan deltas
}

// NewMachine creates an idle classifier.
func NewMachine() *Machine {
	return &Machine{}
}

// Reset returns the machine to its idle state, abandoning any
// in-progress gesture without emitting an end intent. Used when focus
// leaves the canvas (spec.md §4.10's "events clearly inside the
// canvas region").
func (m *Machine) Reset() {
	*m = Machine{}
}

// Process consumes one raw event and returns the Intent it resolves
// to, or nil if the gesture is still ambiguous.
func (m *Machine) Process(ev Event) *Intent {
	switch ev.Kind {
	case EventPointerDown:
		return m.pointerDown(ev)
	case EventPointerMove:
		return m.pointerMove(ev)
	case EventPointerUp:
		return m.pointerUp(ev)
	case EventWheel:
		return m.wheel(ev)
	case EventTouchStart:
		return m.touchStart(ev)
	case EventTouchMove:
		return m.touchMove(ev)
	case EventTouchEnd:
		return m.touchEnd(ev)
	}
	return nil
}

func (m *Machine) pointerDown(ev Event) *Intent {
	if ev.Buttons&1 == 0 {
		return nil
	}
	m.state = statePrimaryDown
	m.downX, m.downY = ev.X, ev.Y
	m.lastX, m.lastY = ev.X, ev.Y
	return nil
}

func (m *Machine) pointerMove(ev Event) *Intent {
	switch m.state {
	case statePrimaryDown:
		if dist(ev.X, ev.Y, m.downX, m.downY) <= DragThresholdPx {
			return nil
		}
		m.state = stateDragging
		m.lastX, m.lastY = ev.X, ev.Y
		return &Intent{Type: IntentDragStart, X: ev.X, Y: ev.Y, StartX: m.downX, StartY: m.downY}
	case stateDragging:
		m.lastX, m.lastY = ev.X, ev.Y
		return &Intent{Type: IntentDragUpdate, X: ev.X, Y: ev.Y, StartX: m.downX, StartY: m.downY}
	}
	return nil
}

func (m *Machine) pointerUp(ev Event) *Intent {
	switch m.state {
	case statePrimaryDown:
		m.state = stateIdle
		return &Intent{Type: IntentTap, X: ev.X, Y: ev.Y}
	case stateDragging:
		m.state = stateIdle
		return &Intent{Type: IntentDragEnd, X: ev.X, Y: ev.Y, StartX: m.downX, StartY: m.downY}
	}
	m.state = stateIdle
	return nil
}

// wheel classifies a single wheel sample as a zoom, inferring mouse
// vs trackpad from delta magnitude/fractionality to scale the zoom
// step only (spec.md §4.10); both sources always produce a zoom.
func (m *Machine) wheel(ev Event) *Intent {
	fromTrackpad := ev.DeltaIsLines || hasFraction(ev.DeltaY) || math.Abs(ev.DeltaY) < trackpadDeltaThreshold
	return &Intent{Type: IntentWheelZoom, ZoomDelta: ev.DeltaY, FromTrackpad: fromTrackpad}
}

func hasFraction(v float64) bool {
	return v != math.Trunc(v)
}

func (m *Machine) touchStart(ev Event) *Intent {
	if len(ev.Contacts) != 2 {
		m.Reset()
		return nil
	}
	m.state = stateTwoTouchTracking
	m.touchStartDist = contactDistance(ev.Contacts)
	mx, my := contactMidpoint(ev.Contacts)
	m.touchLastX, m.touchLastY = mx, my
	return nil
}

func (m *Machine) touchMove(ev Event) *Intent {
	if len(ev.Contacts) != 2 {
		return nil
	}
	d := contactDistance(ev.Contacts)
	mx, my := contactMidpoint(ev.Contacts)

	switch m.state {
	case stateTwoTouchTracking:
		if math.Abs(d-m.touchStartDist) > PinchThresholdPx {
			m.state = statePinching
			m.touchStartDist = d
			m.touchLastX, m.touchLastY = mx, my
			return &Intent{Type: IntentPinchZoom, PinchFactor: 1.0, CenterX: mx, CenterY: my}
		}
		m.state = statePanning
		dx, dy := mx-m.touchLastX, my-m.touchLastY
		m.touchLastX, m.touchLastY = mx, my
		return &Intent{Type: IntentTwoFingerPan, PanDX: dx, PanDY: dy}
	case statePinching:
		factor := 1.0
		if m.touchStartDist > 1e-6 {
			factor = d / m.touchStartDist
		}
		m.touchStartDist = d
		m.touchLastX, m.touchLastY = mx, my
		return &Intent{Type: IntentPinchZoom, PinchFactor: factor, CenterX: mx, CenterY: my}
	case statePanning:
		dx, dy := mx-m.touchLastX, my-m.touchLastY
		m.touchLastX, m.touchLastY = mx, my
		return &Intent{Type: IntentTwoFingerPan, PanDX: dx, PanDY: dy}
	}
	return nil
}

func (m *Machine) touchEnd(ev Event) *Intent {
	if len(ev.Contacts) < 2 {
		m.Reset()
	}
	return nil
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

func contactDistance(c []Contact) float64 {
	return dist(c[0].X, c[0].Y, c[1].X, c[1].Y)
}

func contactMidpoint(c []Contact) (float64, float64) {
	return (c[0].X + c[1].X) / 2, (c[0].Y + c[1].Y) / 2
}
