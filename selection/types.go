package selection

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/sungear/model"
)

// State of an Engine.
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StateMultiSelecting
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateMultiSelecting:
		return "multi_selecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventType names an engine notification.
type EventType int

const (
	EventNewSource EventType = iota
	EventNewList
	EventSelect
	EventNarrow
	EventRestart
	EventMultiStart
	EventMultiFinish
)

var eventNames = [...]string{
	EventNewSource:   "NEW_SOURCE",
	EventNewList:     "NEW_LIST",
	EventSelect:      "SELECT",
	EventNarrow:      "NARROW",
	EventRestart:     "RESTART",
	EventMultiStart:  "MULTI_START",
	EventMultiFinish: "MULTI_FINISH",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("EVENT(%d)", int(t))
}

// Event is delivered to listeners after a transition completes.
type Event struct {
	Type      EventType
	Session   uuid.UUID
	Revision  uint64    // engine revision after the transition
	Operation Operation // set for EventMultiFinish only
	Source    string    // caller tag from SetSelectionFrom; empty otherwise
}

// Listener receives engine events synchronously.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// HandleEvent calls f(e).
func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// ListenerID identifies a registration for RemoveListener.
type ListenerID uuid.UUID

func (id ListenerID) String() string { return uuid.UUID(id).String() }

// Operation combines multi-select contributions.
type Operation int

const (
	// OpUnion selects every item contributed by any participant.
	OpUnion Operation = iota
	// OpIntersect keeps the selected items that every participant contributed.
	OpIntersect
)

func (op Operation) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersect:
		return "intersect"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Participant is a view that contributes items to a multi-select.
// A nil contribution means the participant abstains.
type Participant interface {
	Contribution(op Operation) *model.ItemSet
}

// ParticipantFunc adapts a function to Participant.
type ParticipantFunc func(Operation) *model.ItemSet

// Contribution calls f(op).
func (f ParticipantFunc) Contribution(op Operation) *model.ItemSet { return f(op) }
