package activity

import "time"

// State represents the current activity mode.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
	StateLocked State = "locked"
	StatePaused State = "paused"
)

// EventType defines the type of machine event.
type EventType string

const (
	EventStateChanged   EventType = "state_changed"
	EventSessionStarted EventType = "session_started"
	EventBreakStarted   EventType = "break_started"
)

// Event represents a machine transition for observers.
type Event struct {
	Type     EventType
	OldState State
	State    State
	Reason   string
	// Duration is the length of the ended active session on EventBreakStarted.
	Duration time.Duration
	At       time.Time
}

// TickResult reports the outcome of one ProcessTick call.
type TickResult struct {
	State    State
	Previous State
	// StateChanged is true when the tick moved the machine to a new state.
	StateChanged bool
	// ShouldContinue is true only when the resulting state is Active; callers
	// skip window tracking and reminder checks otherwise.
	ShouldContinue bool
}
