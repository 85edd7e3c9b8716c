package model

// ExerciseKind describes how an exercise is guided.
type ExerciseKind string

const (
	KindMovingDot       ExerciseKind = "moving_dot"
	KindTextInstruction ExerciseKind = "text_instruction"
	KindPalming         ExerciseKind = "palming"
	KindFocusShift      ExerciseKind = "focus_shift"
	KindBlinking        ExerciseKind = "blinking"
)

// MovementPattern is the path a moving-dot guide follows.
type MovementPattern string

const (
	PatternHorizontal  MovementPattern = "horizontal"
	PatternVertical    MovementPattern = "vertical"
	PatternFigureEight MovementPattern = "figure_eight"
	PatternCircular    MovementPattern = "circular"
	PatternRandom      MovementPattern = "random"
	PatternNone        MovementPattern = "none"
)

// Difficulty grades an exercise for the catalog.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Conditions lists what an exercise helps with and when to be careful.
type Conditions struct {
	Helps   []string `yaml:"helps,omitempty" json:"helps,omitempty"`
	Caution []string `yaml:"caution,omitempty" json:"caution,omitempty"`
}

// Exercise is a single timed activity. It is never mutated once part of a routine.
type Exercise struct {
	ID                 string          `yaml:"id" json:"id"`
	Name               string          `yaml:"name" json:"name"`
	Description        string          `yaml:"description,omitempty" json:"description,omitempty"`
	DurationSeconds    int             `yaml:"duration_seconds" json:"durationSeconds"`
	Kind               ExerciseKind    `yaml:"kind" json:"kind"`
	Pattern            MovementPattern `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	InstructionText    string          `yaml:"instruction,omitempty" json:"instructionText,omitempty"`
	Color              string          `yaml:"color,omitempty" json:"color,omitempty"`
	Steps              []string        `yaml:"steps,omitempty" json:"steps,omitempty"`
	Difficulty         Difficulty      `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Benefits           []string        `yaml:"benefits,omitempty" json:"benefits,omitempty"`
	BestTime           string          `yaml:"best_time,omitempty" json:"bestTime,omitempty"`
	ScientificEvidence string          `yaml:"scientific_evidence,omitempty" json:"scientificEvidence,omitempty"`
	Conditions         *Conditions     `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Instruction returns the spoken/displayed instruction, falling back to the description.
func (exercise Exercise) Instruction() string {
	if exercise.InstructionText != "" {
		return exercise.InstructionText
	}
	return exercise.Description
}

// MovementPattern returns the effective pattern; non-dot exercises have none.
func (exercise Exercise) MovementPattern() MovementPattern {
	if exercise.Kind != KindMovingDot || exercise.Pattern == "" {
		return PatternNone
	}
	return exercise.Pattern
}
