package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"visionary/internal/core/model"
)

var (
	// ErrUnknownExercise indicates an exercise id missing from the library.
	ErrUnknownExercise = errors.New("unknown exercise")
	// ErrUnknownRoutine indicates a routine id that is neither built in nor custom.
	ErrUnknownRoutine = errors.New("unknown routine")
)

// Exercise looks up a library exercise by id.
func Exercise(id string) (model.Exercise, error) {
	for _, exercise := range DefaultExercises() {
		if exercise.ID == id {
			return exercise, nil
		}
	}
	return model.Exercise{}, fmt.Errorf("exercise %q: %w", id, ErrUnknownExercise)
}

// Routines returns the built-in routines.
func Routines() []model.Routine {
	return []model.Routine{DailyRelief(), QuickBreak()}
}

// Routine finds a routine by id among built-in and custom routines.
func Routine(id string, custom []model.Routine) (model.Routine, error) {
	for _, routine := range Routines() {
		if routine.ID == id {
			return routine, nil
		}
	}
	for _, routine := range custom {
		if routine.ID == id {
			return routine, nil
		}
	}
	return model.Routine{}, fmt.Errorf("routine %q: %w", id, ErrUnknownRoutine)
}

// TemplateRef selects a library exercise for a custom routine.
// A zero DurationSeconds keeps the library duration.
type TemplateRef struct {
	ExerciseID      string
	DurationSeconds int
}

// ParseTemplateRef parses "id" or "id:seconds".
func ParseTemplateRef(value string) (TemplateRef, error) {
	id, seconds, found := strings.Cut(strings.TrimSpace(value), ":")
	ref := TemplateRef{ExerciseID: id}
	if !found {
		return ref, nil
	}
	var parsed int
	if _, err := fmt.Sscanf(seconds, "%d", &parsed); err != nil {
		return TemplateRef{}, fmt.Errorf("parse duration of %q: %w", id, err)
	}
	ref.DurationSeconds = parsed
	return ref, nil
}

// Build creates a validated custom routine from library templates.
func Build(name string, refs []TemplateRef) (model.Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Routine{}, errors.New("build routine: name is empty")
	}

	routine := model.Routine{
		ID:          uuid.NewString(),
		Name:        name,
		Description: "Custom routine",
		Custom:      true,
	}
	for _, ref := range refs {
		exercise, err := Exercise(ref.ExerciseID)
		if err != nil {
			return model.Routine{}, fmt.Errorf("build routine: %w", err)
		}
		if ref.DurationSeconds != 0 {
			exercise.DurationSeconds = ref.DurationSeconds
		}
		exercise.ID = fmt.Sprintf("%s-%d", exercise.ID, len(routine.Exercises))
		routine.Exercises = append(routine.Exercises, exercise)
	}

	if err := routine.Validate(); err != nil {
		return model.Routine{}, fmt.Errorf("build routine: %w", err)
	}
	return routine, nil
}
