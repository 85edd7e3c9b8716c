package session

import (
	"time"

	"visionary/internal/core/model"
)

// Phase represents the current session mode.
type Phase string

const (
	PhaseExercise  Phase = "exercise"
	PhaseBreak     Phase = "break"
	PhaseCompleted Phase = "completed"
	PhaseExited    Phase = "exited"
)

// EventType defines the type of session event.
type EventType string

const (
	EventTick        EventType = "tick"
	EventPhaseChange EventType = "phase_change"
	EventPlayback    EventType = "playback"
	EventCompleted   EventType = "completed"
	EventExited      EventType = "exited"
)

// Snapshot is the rendering view of a session after a tick or transition.
type Snapshot struct {
	Index    int
	Total    int
	Exercise model.Exercise
	Next     *model.Exercise
	TimeLeft int
	Duration int
	IsBreak  bool
	Playing  bool
	Phase    Phase
	Progress float64
	Color    string
}

// Finished reports whether the session reached a terminal phase.
func (snapshot Snapshot) Finished() bool {
	return snapshot.Phase == PhaseCompleted || snapshot.Phase == PhaseExited
}

// Event represents a session update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
