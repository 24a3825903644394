package input

// IntentType enumerates the semantic gestures Process can produce.
type IntentType uint8

const (
	IntentTap IntentType = iota
	IntentDragStart
	IntentDragUpdate
	IntentDragEnd
	IntentWheelZoom
	IntentTwoFingerPan
	IntentPinchZoom
)

// Intent is the classified result of one or more raw Events.
type Intent struct {
	Type IntentType

	// Tap / drag fields, in page coordinates.
	X, Y   float64
	StartX, StartY float64

	// WheelZoom fields.
	ZoomDelta float64
	FromTrackpad bool

	// TwoFingerPan fields.
	PanDX, PanDY float64

	// PinchZoom fields.
	PinchFactor float64
	CenterX, CenterY float64
}
