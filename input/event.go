// Package input classifies raw pointer/wheel events into semantic
// intents (spec.md §4.10): tap, drag-start/update/end, wheel-zoom,
// two-finger pan, pinch-zoom, with the spec's fixed pixel thresholds.
// The classifier is a small state machine in the same style as a
// terminal-mode key parser: Process(event) returns nil while a
// gesture is still ambiguous and an Intent once it resolves.
package input

// EventKind identifies the raw event Process consumes.
type EventKind uint8

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventWheel
	EventTouchStart
	EventTouchMove
	EventTouchEnd
)

// Contact is one active touch point in page coordinates.
type Contact struct {
	ID   int
	X, Y float64
}

// Event is a raw input sample from the collaborator's event loop.
type Event struct {
	Kind EventKind

	// Pointer fields (mouse or single-touch).
	X, Y    float64
	Buttons uint8 // bit 0: primary

	// Wheel fields.
	DeltaX, DeltaY float64
	DeltaIsLines   bool // true for line-based (trackpad-style fractional) deltas

	// Touch fields.
	Contacts []Contact
}
