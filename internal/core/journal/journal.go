// Package journal records session completions and wellness check-ins per calendar day.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/model"
)

// ErrNotFound indicates that no log exists for a date.
var ErrNotFound = errors.New("daily log not found")

// Store persists daily logs keyed by date.
type Store interface {
	// Upsert loads the log for date, or a fresh one carrying only the date, applies mutate
	// and saves the result atomically with respect to other upserts of the same date.
	Upsert(ctx context.Context, date string, mutate func(*model.DailyLog)) (model.DailyLog, error)
	Get(ctx context.Context, date string) (model.DailyLog, error)
	List(ctx context.Context) ([]model.DailyLog, error)
	Clear(ctx context.Context) error
}

// Journal applies the per-day mutation rules on top of a Store.
type Journal struct {
	store  Store
	logger *zap.Logger
}

// New creates a Journal backed by store.
func New(store Store, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{store: store, logger: logger}
}

// RecordCompletion adds one completed session of routine to the log of now's date.
func (journal *Journal) RecordCompletion(ctx context.Context, routine model.Routine, now time.Time) (model.DailyLog, error) {
	minutes := routine.Minutes()
	log, err := journal.store.Upsert(ctx, model.DateKey(now), func(log *model.DailyLog) {
		stamp(log, now)
		log.ExercisesCompleted++
		log.MinutesCompleted += minutes
	})
	if err != nil {
		return model.DailyLog{}, fmt.Errorf("record completion of %q: %w", routine.Name, err)
	}
	journal.logger.Info("completion recorded",
		zap.String("date", log.Date),
		zap.String("routine", routine.ID),
		zap.Int("minutes", minutes),
		zap.Int("sessions_today", log.ExercisesCompleted))
	return log, nil
}

// RecordCheckIn stores wellness ratings for now's date, keeping the activity counters.
func (journal *Journal) RecordCheckIn(ctx context.Context, checkIn model.CheckIn, now time.Time) (model.DailyLog, error) {
	if err := checkIn.Validate(); err != nil {
		return model.DailyLog{}, fmt.Errorf("record check-in: %w", err)
	}
	log, err := journal.store.Upsert(ctx, model.DateKey(now), func(log *model.DailyLog) {
		stamp(log, now)
		checkIn.Apply(log)
	})
	if err != nil {
		return model.DailyLog{}, fmt.Errorf("record check-in: %w", err)
	}
	journal.logger.Info("check-in recorded",
		zap.String("date", log.Date),
		zap.Int("strain", log.EyeStrain),
		zap.Int("clarity", log.VisionClarity))
	return log, nil
}

// Today returns the log of now's date, if any.
func (journal *Journal) Today(ctx context.Context, now time.Time) (*model.DailyLog, error) {
	log, err := journal.store.Get(ctx, model.DateKey(now))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load today: %w", err)
	}
	return &log, nil
}

// History returns every stored log.
func (journal *Journal) History(ctx context.Context) ([]model.DailyLog, error) {
	logs, err := journal.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return logs, nil
}

// Clear removes every stored log.
func (journal *Journal) Clear(ctx context.Context) error {
	if err := journal.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	journal.logger.Info("history cleared")
	return nil
}

// CompletionRecorder returns a session completion callback that records routine in journal.
func CompletionRecorder(journal *Journal, routine model.Routine, now func() time.Time, logger *zap.Logger) func() {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func() {
		if _, err := journal.RecordCompletion(context.Background(), routine, now()); err != nil {
			logger.Error("failed to record completion", zap.Error(err))
		}
	}
}

func stamp(log *model.DailyLog, now time.Time) {
	if log.Timestamp.IsZero() {
		log.Timestamp = now
	}
}
