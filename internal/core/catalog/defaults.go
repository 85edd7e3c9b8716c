package catalog

import "visionary/internal/core/model"

// DefaultExercises returns the built-in exercise library.
func DefaultExercises() []model.Exercise {
	return []model.Exercise{
		{
			ID:              "horizontal-scan",
			Name:            "Horizontal Scan",
			Description:     "Follow the dot with your eyes without moving your head.",
			DurationSeconds: 30,
			Kind:            model.KindMovingDot,
			Pattern:         model.PatternHorizontal,
			Color:           "#38bdf8",
			Difficulty:      model.DifficultyBeginner,
			BestTime:        "Anytime",
			Benefits:        []string{"Improve eye coordination", "Stretch horizontal eye muscles"},
			Steps:           []string{"Keep your head still", "Focus on the moving dot", "Follow it smoothly from left to right"},
		},
		{
			ID:              "vertical-scan",
			Name:            "Vertical Scan",
			Description:     "Look up and down following the guide.",
			DurationSeconds: 30,
			Kind:            model.KindMovingDot,
			Pattern:         model.PatternVertical,
			Color:           "#2dd4bf",
			Difficulty:      model.DifficultyBeginner,
			BestTime:        "Anytime",
			Benefits:        []string{"Enhance vertical tracking", "Reduce eyelid tension"},
			Steps:           []string{"Keep your chin level", "Look up as the dot rises", "Look down as it falls"},
		},
		{
			ID:              "figure-eight",
			Name:            "Infinity Loop",
			Description:     "Trace the figure-eight pattern smoothly.",
			DurationSeconds: 45,
			Kind:            model.KindMovingDot,
			Pattern:         model.PatternFigureEight,
			Color:           "#818cf8",
			Difficulty:      model.DifficultyIntermediate,
			BestTime:        "Afternoon slump",
			Benefits:        []string{"Increase muscle flexibility", "Improve complex tracking"},
			Steps:           []string{"Imagine a sideways 8", "Trace the shape smoothly", "Keep your focus soft but steady"},
		},
		{
			ID:              "blinking",
			Name:            "Conscious Blinking",
			Description:     "Blink slowly and deliberately to moisturize eyes.",
			DurationSeconds: 60,
			Kind:            model.KindBlinking,
			InstructionText: "Close your eyes gently... pause... and open.",
			Color:           "#f472b6",
			Difficulty:      model.DifficultyBeginner,
			BestTime:        "Every 20 minutes",
			Benefits:        []string{"Refresh tear film", "Clean the eye surface", "Rest the brain"},
			Steps: []string{
				"Close your eyes gently",
				"Keep them closed for 2 seconds",
				"Open them normally",
				"Repeat rhythmically",
			},
		},
		{
			ID:                 "palming",
			Name:               "Palming - The Ultimate Relaxer",
			Description:        "Deep relaxation technique that releases eye tension and improves circulation.",
			DurationSeconds:    300,
			Kind:               model.KindPalming,
			InstructionText:    "Block out all light. Feel the warmth soaking into your eyes.",
			Color:              "#fbbf24",
			Difficulty:         model.DifficultyBeginner,
			BestTime:           "Evening / After screen time",
			ScientificEvidence: "Palming relaxes accommodation and activates the parasympathetic nervous system, easing eye strain within minutes.",
			Benefits: []string{
				"Deep eye relaxation",
				"Improved blood circulation",
				"Mental stress reduction",
				"Moisture restoration",
				"Prevents tension headaches",
				"Better sleep quality",
			},
			Conditions: &model.Conditions{
				Helps: []string{
					"Digital Eye Strain",
					"Computer Vision Syndrome",
					"Temporary eye fatigue",
					"General eye relaxation",
				},
				Caution: []string{
					"Severe eye infections",
					"Recent eye surgery",
					"Extreme light sensitivity",
				},
			},
			Steps: []string{
				"Sit comfortably with feet flat",
				"Rub palms together for 10 seconds until warm",
				"Cup palms over eyes without pressing",
				"Keep eyes in complete darkness",
				"Take deep, slow breaths (4-4-4 rhythm)",
				"Maintain for full 5 minutes",
				"Slowly remove hands and open eyes gradually",
			},
		},
		{
			ID:              "focus-shift",
			Name:            "Near & Far",
			Description:     "Focus on your thumb (near), then a distant object (far).",
			DurationSeconds: 45,
			Kind:            model.KindFocusShift,
			InstructionText: "Focus Near... Focus Far...",
			Color:           "#a78bfa",
			Difficulty:      model.DifficultyIntermediate,
			BestTime:        "During work breaks",
			Benefits:        []string{"Improve accommodation", "Prevent locking of focus"},
			Steps: []string{
				"Hold your thumb 10 inches from your face",
				"Focus on your thumb for 5 seconds",
				"Shift focus to an object 20 feet away",
				"Focus on the distance for 5 seconds",
				"Repeat the cycle",
			},
		},
		{
			ID:              "circular-scan",
			Name:            "Circular Clock",
			Description:     "Rotate your eyes in a full circle.",
			DurationSeconds: 30,
			Kind:            model.KindMovingDot,
			Pattern:         model.PatternCircular,
			Color:           "#fb7185",
			Difficulty:      model.DifficultyIntermediate,
			BestTime:        "Anytime",
			Benefits:        []string{"Full range of motion", "Stretch all eye muscles"},
			Steps:           []string{"Imagine a large clock face", "Look at 12, then 3, 6, and 9", "Connect them in a smooth circle"},
		},
	}
}

// DailyRelief is the balanced routine for computer users.
func DailyRelief() model.Routine {
	return model.Routine{
		ID:          "daily-relief",
		Name:        "Daily Digital Relief",
		Description: "A balanced routine for computer users.",
		Exercises: []model.Exercise{
			mustExercise("horizontal-scan"),
			mustExercise("vertical-scan"),
			mustExercise("blinking"),
			mustExercise("figure-eight"),
			mustExercise("palming"),
		},
	}
}

// QuickBreak is the two-minute reset between meetings.
func QuickBreak() model.Routine {
	palming := mustExercise("palming")
	palming.Name = "Palming (Short)"
	palming.DurationSeconds = 60

	return model.Routine{
		ID:          "quick-break",
		Name:        "2-Minute Reset",
		Description: "Quick reset for tired eyes between meetings.",
		Exercises: []model.Exercise{
			mustExercise("blinking"),
			mustExercise("focus-shift"),
			palming,
		},
	}
}

func mustExercise(id string) model.Exercise {
	exercise, err := Exercise(id)
	if err != nil {
		panic(err)
	}
	return exercise
}
