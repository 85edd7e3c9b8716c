package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"visionary/internal/core/journal"
	"visionary/internal/core/model"
)

// JournalFileName is the SQLite database holding daily logs.
const JournalFileName = "journal.db"

// DailyLogModel is the GORM model for the daily_logs table.
type DailyLogModel struct {
	Date               string    `gorm:"primaryKey"`
	Timestamp          time.Time `gorm:"not null"`
	MinutesCompleted   int       `gorm:"not null;default:0"`
	ExercisesCompleted int       `gorm:"not null;default:0"`
	VisionClarity      int       `gorm:"not null;default:0"`
	EyeStrain          int       `gorm:"not null;default:0"`
	Dryness            int       `gorm:"not null;default:0"`
	SleepQuality       int       `gorm:"not null;default:0"`
	Headaches          bool      `gorm:"not null;default:false"`
	ScreenTimeHours    float64   `gorm:"not null;default:0"`
	OutdoorTimeMinutes int       `gorm:"not null;default:0"`
	Notes              string    `gorm:"not null;default:''"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM.
func (DailyLogModel) TableName() string { return "daily_logs" }

func (row DailyLogModel) toDomain() model.DailyLog {
	return model.DailyLog{
		Date:               row.Date,
		Timestamp:          row.Timestamp,
		MinutesCompleted:   row.MinutesCompleted,
		ExercisesCompleted: row.ExercisesCompleted,
		VisionClarity:      row.VisionClarity,
		EyeStrain:          row.EyeStrain,
		Dryness:            row.Dryness,
		SleepQuality:       row.SleepQuality,
		Headaches:          row.Headaches,
		ScreenTimeHours:    row.ScreenTimeHours,
		OutdoorTimeMinutes: row.OutdoorTimeMinutes,
		Notes:              row.Notes,
	}
}

func dailyLogFromDomain(log model.DailyLog) DailyLogModel {
	return DailyLogModel{
		Date:               log.Date,
		Timestamp:          log.Timestamp,
		MinutesCompleted:   log.MinutesCompleted,
		ExercisesCompleted: log.ExercisesCompleted,
		VisionClarity:      log.VisionClarity,
		EyeStrain:          log.EyeStrain,
		Dryness:            log.Dryness,
		SleepQuality:       log.SleepQuality,
		Headaches:          log.Headaches,
		ScreenTimeHours:    log.ScreenTimeHours,
		OutdoorTimeMinutes: log.OutdoorTimeMinutes,
		Notes:              log.Notes,
	}
}

// LogStore implements journal.Store on SQLite.
type LogStore struct {
	db *gorm.DB
}

var _ journal.Store = (*LogStore)(nil)

// OpenLogStore opens or creates the journal database at dbPath.
func OpenLogStore(dbPath string, logger *zap.Logger) (*LogStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&DailyLogModel{}, &ComfortUsageModel{}); err != nil {
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}
	logger.Debug("journal opened", zap.String("path", dbPath))
	return &LogStore{db: db}, nil
}

// Upsert applies mutate to the log of date inside a write transaction.
func (store *LogStore) Upsert(ctx context.Context, date string, mutate func(*model.DailyLog)) (model.DailyLog, error) {
	var result model.DailyLog
	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row DailyLogModel
		err := tx.Where("date = ?", date).Take(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = DailyLogModel{Date: date}
		case err != nil:
			return err
		}

		log := row.toDomain()
		mutate(&log)
		log.Date = date

		updated := dailyLogFromDomain(log)
		updated.CreatedAt = row.CreatedAt
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&updated).Error; err != nil {
			return err
		}
		result = log
		return nil
	})
	if err != nil {
		return model.DailyLog{}, fmt.Errorf("upsert daily log %s: %w", date, err)
	}
	return result, nil
}

// Get returns the log of date, or journal.ErrNotFound.
func (store *LogStore) Get(ctx context.Context, date string) (model.DailyLog, error) {
	var row DailyLogModel
	err := store.db.WithContext(ctx).Where("date = ?", date).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DailyLog{}, fmt.Errorf("get daily log %s: %w", date, journal.ErrNotFound)
	}
	if err != nil {
		return model.DailyLog{}, fmt.Errorf("get daily log %s: %w", date, err)
	}
	return row.toDomain(), nil
}

// List returns every log ordered by date.
func (store *LogStore) List(ctx context.Context) ([]model.DailyLog, error) {
	var rows []DailyLogModel
	if err := store.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	logs := make([]model.DailyLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toDomain())
	}
	return logs, nil
}

// Clear deletes every log.
func (store *LogStore) Clear(ctx context.Context) error {
	err := store.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&DailyLogModel{}).Error
	if err != nil {
		return fmt.Errorf("clear daily logs: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (store *LogStore) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close journal database: %w", err)
	}
	return nil
}
