package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRoutine indicates a routine without exercises.
	ErrEmptyRoutine = errors.New("routine has no exercises")
	// ErrInvalidDuration indicates an exercise with a non-positive duration.
	ErrInvalidDuration = errors.New("exercise duration must be positive")
)

// Routine is an ordered, named list of exercises performed in one session.
type Routine struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Exercises   []Exercise `yaml:"exercises" json:"exercises"`
	Custom      bool       `yaml:"custom,omitempty" json:"isCustom,omitempty"`
}

// Validate reports whether the routine can be run.
func (routine Routine) Validate() error {
	if len(routine.Exercises) == 0 {
		return ErrEmptyRoutine
	}
	for index, exercise := range routine.Exercises {
		if exercise.DurationSeconds <= 0 {
			return fmt.Errorf("exercise %d (%s): %w", index, exercise.ID, ErrInvalidDuration)
		}
	}
	return nil
}

// LastIndex returns the index of the final exercise.
func (routine Routine) LastIndex() int {
	return len(routine.Exercises) - 1
}

// TotalSeconds sums exercise durations, breaks excluded.
func (routine Routine) TotalSeconds() int {
	total := 0
	for _, exercise := range routine.Exercises {
		total += exercise.DurationSeconds
	}
	return total
}

// Minutes returns the routine length rounded up to whole minutes.
func (routine Routine) Minutes() int {
	return (routine.TotalSeconds() + 59) / 60
}
