package animation

import (
	"time"

	"visionary/internal/core/model"
)

// Guide describes what the engine animates for one exercise.
type Guide struct {
	Pattern model.MovementPattern
	Period  time.Duration
	Blink   bool
}

// GuideFor derives the guide of exercise under settings.
func GuideFor(exercise model.Exercise, settings model.UserSettings) Guide {
	pattern := exercise.MovementPattern()
	return Guide{
		Pattern: pattern,
		Period:  Period(pattern, settings.AnimationSpeed),
		Blink:   exercise.Kind == model.KindBlinking,
	}
}

// Moving reports whether the guide has a dot to move.
func (guide Guide) Moving() bool {
	return guide.Pattern != model.PatternNone && guide.Pattern != ""
}

// Frame is one rendered state of a guide.
type Frame struct {
	Point      Point
	EyesClosed bool
	Elapsed    time.Duration
}
