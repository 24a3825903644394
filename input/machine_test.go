package input

import "testing"

func TestShortPressUnderThresholdEmitsTap(t *testing.T) {
	m := NewMachine()
	if got := m.Process(Event{Kind: EventPointerDown, X: 10, Y: 10, Buttons: 1}); got != nil {
		t.Fatalf("expected no intent on pointer down, got %+v", got)
	}
	got := m.Process(Event{Kind: EventPointerUp, X: 10, Y: 10})
	if got == nil || got.Type != IntentTap {
		t.Fatalf("expected a Tap intent, got %+v", got)
	}
}

func TestMoveBeyondDragThresholdEmitsDragStartThenUpdate(t *testing.T) {
	m := NewMachine()
	m.Process(Event{Kind: EventPointerDown, X: 0, Y: 0, Buttons: 1})

	// Within threshold: no intent yet.
	if got := m.Process(Event{Kind: EventPointerMove, X: 2, Y: 0}); got != nil {
		t.Fatalf("expected no intent within drag threshold, got %+v", got)
	}

	got := m.Process(Event{Kind: EventPointerMove, X: 10, Y: 0})
	if got == nil || got.Type != IntentDragStart {
		t.Fatalf("expected DragStart once past threshold, got %+v", got)
	}

	got = m.Process(Event{Kind: EventPointerMove, X: 20, Y: 0})
	if got == nil || got.Type != IntentDragUpdate {
		t.Fatalf("expected DragUpdate on subsequent move, got %+v", got)
	}

	got = m.Process(Event{Kind: EventPointerUp, X: 20, Y: 0})
	if got == nil || got.Type != IntentDragEnd {
		t.Fatalf("expected DragEnd on pointer up during a drag, got %+v", got)
	}
}

func TestWheelAlwaysEmitsZoomIntent(t *testing.T) {
	m := NewMachine()
	got := m.Process(Event{Kind: EventWheel, DeltaY: 120})
	if got == nil || got.Type != IntentWheelZoom {
		t.Fatalf("expected a WheelZoom intent, got %+v", got)
	}
	if got.FromTrackpad {
		t.Fatalf("expected a discrete-notch wheel delta to not be classified as trackpad")
	}
}

func TestWheelFractionalDeltaIsClassifiedAsTrackpad(t *testing.T) {
	m := NewMachine()
	got := m.Process(Event{Kind: EventWheel, DeltaY: 2.4})
	if got == nil || !got.FromTrackpad {
		t.Fatalf("expected a fractional delta to be classified as trackpad, got %+v", got)
	}
}

func TestTwoTouchSmallDistanceChangeIsClassifiedAsPan(t *testing.T) {
	m := NewMachine()
	m.Process(Event{Kind: EventTouchStart, Contacts: []Contact{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}}})

	got := m.Process(Event{Kind: EventTouchMove, Contacts: []Contact{{ID: 1, X: 5, Y: 0}, {ID: 2, X: 105, Y: 0}}})
	if got == nil || got.Type != IntentTwoFingerPan {
		t.Fatalf("expected a TwoFingerPan intent for a small distance delta, got %+v", got)
	}
}

func TestTwoTouchLargeDistanceChangeIsClassifiedAsPinch(t *testing.T) {
	m := NewMachine()
	m.Process(Event{Kind: EventTouchStart, Contacts: []Contact{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}}})

	got := m.Process(Event{Kind: EventTouchMove, Contacts: []Contact{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 200, Y: 0}}})
	if got == nil || got.Type != IntentPinchZoom {
		t.Fatalf("expected a PinchZoom intent for a large distance delta, got %+v", got)
	}
}

func TestTouchEndWithFewerThanTwoContactsResetsMachine(t *testing.T) {
	m := NewMachine()
	m.Process(Event{Kind: EventTouchStart, Contacts: []Contact{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}}})
	m.Process(Event{Kind: EventTouchEnd, Contacts: []Contact{{ID: 1, X: 0, Y: 0}}})

	if m.state != stateIdle {
		t.Fatalf("expected machine to reset to idle after losing a contact, got state %v", m.state)
	}
}

func TestResetAbandonsInProgressDragSilently(t *testing.T) {
	m := NewMachine()
	m.Process(Event{Kind: EventPointerDown, X: 0, Y: 0, Buttons: 1})
	m.Process(Event{Kind: EventPointerMove, X: 20, Y: 0})
	m.Reset()

	if m.state != stateIdle {
		t.Fatalf("expected Reset to return the machine to idle")
	}
	got := m.Process(Event{Kind: EventPointerUp, X: 20, Y: 0})
	if got != nil {
		t.Fatalf("expected no intent for a pointer-up after Reset abandoned the gesture, got %+v", got)
	}
}

func TestPointerDownWithoutPrimaryButtonIsIgnored(t *testing.T) {
	m := NewMachine()
	got := m.Process(Event{Kind: EventPointerDown, X: 0, Y: 0, Buttons: 0})
	if got != nil {
		t.Fatalf("expected no intent for a non-primary pointer down, got %+v", got)
	}
	if m.state != stateIdle {
		t.Fatalf("expected machine to remain idle without the primary button")
	}
}
