package reminder

import "time"

// State represents the current scheduler mode.
type State string

const (
	StateActive      State = "active"
	StateOutOfWindow State = "out_of_window"
	StateDisabled    State = "disabled"
	StatePaused      State = "paused"
	StateStopped     State = "stopped"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventReminder    EventType = "reminder"
	EventIdleReset   EventType = "idle_reset"
	EventIdleError   EventType = "idle_error"
)

// Event represents a scheduler update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining time.Duration
	Progress  float64
	Message   string
	At        time.Time
}
