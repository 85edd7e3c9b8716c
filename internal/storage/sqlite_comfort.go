package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"visionary/internal/core/comfort"
	"visionary/internal/core/model"
)

// ComfortUsageModel is the GORM model for the comfort_usage table.
type ComfortUsageModel struct {
	Date          string `gorm:"primaryKey"`
	MinutesActive int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (ComfortUsageModel) TableName() string { return "comfort_usage" }

var _ comfort.UsageStore = (*LogStore)(nil)

// AddComfortMinutes adds minutes to the filter usage of date.
func (store *LogStore) AddComfortMinutes(ctx context.Context, date string, minutes int) (model.ComfortLog, error) {
	var row ComfortUsageModel
	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := ComfortUsageModel{Date: date, MinutesActive: minutes}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"minutes_active": gorm.Expr("minutes_active + ?", minutes),
				"updated_at":     time.Now().UTC(),
			}),
		}).Create(&insert).Error
		if err != nil {
			return err
		}
		return tx.Where("date = ?", date).Take(&row).Error
	})
	if err != nil {
		return model.ComfortLog{}, fmt.Errorf("add comfort minutes %s: %w", date, err)
	}
	return model.ComfortLog{Date: row.Date, MinutesActive: row.MinutesActive}, nil
}

// ComfortUsage returns every usage record ordered by date.
func (store *LogStore) ComfortUsage(ctx context.Context) ([]model.ComfortLog, error) {
	var rows []ComfortUsageModel
	if err := store.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list comfort usage: %w", err)
	}
	logs := make([]model.ComfortLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, model.ComfortLog{Date: row.Date, MinutesActive: row.MinutesActive})
	}
	return logs, nil
}

// ClearComfortUsage deletes the usage history.
func (store *LogStore) ClearComfortUsage(ctx context.Context) error {
	err := store.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ComfortUsageModel{}).Error
	if err != nil {
		return fmt.Errorf("clear comfort usage: %w", err)
	}
	return nil
}
