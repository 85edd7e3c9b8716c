package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutineValidate(t *testing.T) {
	tests := []struct {
		name    string
		routine Routine
		wantErr error
	}{
		{"empty", Routine{Name: "empty"}, ErrEmptyRoutine},
		{"zero duration", Routine{Exercises: []Exercise{{ID: "a", DurationSeconds: 0}}}, ErrInvalidDuration},
		{"negative duration", Routine{Exercises: []Exercise{{ID: "a", DurationSeconds: 10}, {ID: "b", DurationSeconds: -1}}}, ErrInvalidDuration},
		{"valid", Routine{Exercises: []Exercise{{ID: "a", DurationSeconds: 30}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.routine.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRoutineMinutesRoundsUp(t *testing.T) {
	routine := Routine{Exercises: []Exercise{{DurationSeconds: 30}, {DurationSeconds: 45}}}
	assert.Equal(t, 75, routine.TotalSeconds())
	assert.Equal(t, 2, routine.Minutes())

	exact := Routine{Exercises: []Exercise{{DurationSeconds: 60}, {DurationSeconds: 120}}}
	assert.Equal(t, 3, exact.Minutes())
}

func TestExerciseInstructionFallback(t *testing.T) {
	exercise := Exercise{Description: "Follow the dot."}
	assert.Equal(t, "Follow the dot.", exercise.Instruction())

	exercise.InstructionText = "Focus Near... Focus Far..."
	assert.Equal(t, "Focus Near... Focus Far...", exercise.Instruction())
}

func TestCheckInValidate(t *testing.T) {
	valid := DefaultCheckIn(nil)
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.EyeStrain = 11
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidRating)

	invalid = valid
	invalid.SleepQuality = 0
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidRating)

	invalid = valid
	invalid.ScreenTimeHours = -1
	assert.Error(t, invalid.Validate())
}

func TestDefaultCheckInKeepsRecordedValues(t *testing.T) {
	existing := &DailyLog{VisionClarity: 8, EyeStrain: 2, ScreenTimeHours: 3.5, Headaches: true, Notes: "ok"}
	checkIn := DefaultCheckIn(existing)

	assert.Equal(t, 8, checkIn.VisionClarity)
	assert.Equal(t, 2, checkIn.EyeStrain)
	assert.Equal(t, 5, checkIn.Dryness)
	assert.Equal(t, 7, checkIn.SleepQuality)
	assert.Equal(t, 3.5, checkIn.ScreenTimeHours)
	assert.Equal(t, 30, checkIn.OutdoorTimeMinutes)
	assert.True(t, checkIn.Headaches)
	assert.Equal(t, "ok", checkIn.Notes)
}

func TestCheckInApplyLeavesCounters(t *testing.T) {
	log := DailyLog{Date: "2026-10-19", MinutesCompleted: 6, ExercisesCompleted: 2}
	DefaultCheckIn(nil).Apply(&log)

	assert.Equal(t, 6, log.MinutesCompleted)
	assert.Equal(t, 2, log.ExercisesCompleted)
	assert.Equal(t, 5, log.EyeStrain)
	assert.True(t, log.HasCheckIn())
}

func TestReminderConfig(t *testing.T) {
	settings := DefaultSettings()
	config := settings.ReminderConfig()

	assert.Equal(t, 20*time.Minute, config.Interval)
	assert.Equal(t, 9*time.Hour, config.WindowStart)
	assert.Equal(t, 17*time.Hour, config.WindowEnd)

	settings.Reminders.IntervalMinutes = 0
	settings.Reminders.StartTime = "bogus"
	config = settings.ReminderConfig()
	assert.Equal(t, 20*time.Minute, config.Interval)
	assert.Equal(t, time.Duration(0), config.WindowStart)
}
