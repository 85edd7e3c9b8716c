package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/model"
)

func threeMinuteRoutine() model.Routine {
	return model.Routine{
		ID:   "three",
		Name: "Three minutes",
		Exercises: []model.Exercise{
			{ID: "a", Name: "A", DurationSeconds: 90},
			{ID: "b", Name: "B", DurationSeconds: 90},
		},
	}
}

func validCheckIn() model.CheckIn {
	return model.CheckIn{
		VisionClarity:      8,
		EyeStrain:          3,
		Dryness:            4,
		SleepQuality:       7,
		ScreenTimeHours:    6.5,
		OutdoorTimeMinutes: 45,
		Notes:              "fine",
	}
}

func TestRecordCompletionAccumulates(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	morning := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	_, err := journal.RecordCompletion(ctx, threeMinuteRoutine(), morning)
	require.NoError(t, err)
	log, err := journal.RecordCompletion(ctx, threeMinuteRoutine(), morning.Add(6*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", log.Date)
	assert.Equal(t, 2, log.ExercisesCompleted)
	assert.Equal(t, 6, log.MinutesCompleted)
	assert.Equal(t, morning, log.Timestamp)
	assert.False(t, log.HasCheckIn())
}

func TestCheckInKeepsCounters(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	_, err := journal.RecordCompletion(ctx, threeMinuteRoutine(), now)
	require.NoError(t, err)
	_, err = journal.RecordCompletion(ctx, threeMinuteRoutine(), now)
	require.NoError(t, err)

	log, err := journal.RecordCheckIn(ctx, validCheckIn(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, log.ExercisesCompleted)
	assert.Equal(t, 6, log.MinutesCompleted)
	assert.Equal(t, 8, log.VisionClarity)
	assert.Equal(t, 3, log.EyeStrain)
	assert.Equal(t, "fine", log.Notes)

	update := validCheckIn()
	update.EyeStrain = 6
	log, err = journal.RecordCheckIn(ctx, update, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, log.EyeStrain)
	assert.Equal(t, 2, log.ExercisesCompleted)
}

func TestCheckInBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.Local)

	log, err := journal.RecordCheckIn(ctx, validCheckIn(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, log.ExercisesCompleted)
	assert.Equal(t, 0, log.MinutesCompleted)
	assert.True(t, log.HasCheckIn())
}

func TestRecordCheckInRejectsInvalidRatings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	journal := New(store, nil)
	checkIn := validCheckIn()
	checkIn.Dryness = 11

	_, err := journal.RecordCheckIn(ctx, checkIn, time.Now())
	assert.ErrorIs(t, err, model.ErrInvalidRating)

	logs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestTodayHistoryAndClear(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	today, err := journal.Today(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, today)

	for offset := 2; offset >= 0; offset-- {
		_, err := journal.RecordCompletion(ctx, threeMinuteRoutine(), day.AddDate(0, 0, -offset))
		require.NoError(t, err)
	}

	today, err = journal.Today(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, 1, today.ExercisesCompleted)

	history, err := journal.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03-12", history[0].Date)

	require.NoError(t, journal.Clear(ctx))
	history, err = journal.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCompletionRecorder(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	record := CompletionRecorder(journal, threeMinuteRoutine(), func() time.Time { return now }, nil)
	record()

	log, err := journal.Today(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, 1, log.ExercisesCompleted)
	assert.Equal(t, 3, log.MinutesCompleted)
}

func TestConcurrentCompletions(t *testing.T) {
	ctx := context.Background()
	journal := New(NewMemoryStore(), nil)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	var wg sync.WaitGroup
	for worker := 0; worker < 20; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := journal.RecordCompletion(ctx, threeMinuteRoutine(), now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	log, err := journal.Today(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 20, log.ExercisesCompleted)
	assert.Equal(t, 60, log.MinutesCompleted)
}
