package synth

import "fmt"

// EventKind identifies the variant of a NoteEvent.
type EventKind uint8

const (
	// EventNone marks the absence of an event. It is the zero value.
	EventNone EventKind = iota
	// EventPress starts a new note at the event's frequency.
	EventPress
	// EventHold is an explicit no-change tick.
	EventHold
	// EventUp releases the held note.
	EventUp
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventPress:
		return "press"
	case EventHold:
		return "hold"
	case EventUp:
		return "up"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// NoteEvent is an immutable note-on/hold/note-off signal.
// Frequency is only meaningful for EventPress.
type NoteEvent struct {
	Kind      EventKind
	Frequency float32
}

// Press returns a note-on event for the given frequency in Hz.
func Press(frequency float32) NoteEvent {
	return NoteEvent{Kind: EventPress, Frequency: frequency}
}

// Hold returns an explicit no-change event.
func Hold() NoteEvent {
	return NoteEvent{Kind: EventHold}
}

// Up returns a note-off event.
func Up() NoteEvent {
	return NoteEvent{Kind: EventUp}
}

// IsSet reports whether e carries an event.
func (e NoteEvent) IsSet() bool {
	return e.Kind != EventNone
}

func (e NoteEvent) String() string {
	if e.Kind == EventPress {
		return fmt.Sprintf("press(%.3fHz)", e.Frequency)
	}
	return e.Kind.String()
}

// TaggedSample is one mono sample plus the event drained on the tick that
// produced it, or EventNone.
type TaggedSample struct {
	Event     NoteEvent
	Amplitude float32
}
