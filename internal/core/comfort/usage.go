package comfort

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"visionary/internal/core/model"
)

// UsageWindow is the number of days shown in the usage chart.
const UsageWindow = 7

// UsageStore persists minutes of filter use per day.
type UsageStore interface {
	AddComfortMinutes(ctx context.Context, date string, minutes int) (model.ComfortLog, error)
	ComfortUsage(ctx context.Context) ([]model.ComfortLog, error)
	ClearComfortUsage(ctx context.Context) error
}

// DayUsage is one bar of the usage chart.
type DayUsage struct {
	Date    string
	Label   string
	Minutes int
}

// UsageSummary aggregates usage for today and the trailing week.
type UsageSummary struct {
	TodayMinutes int
	WeekMinutes  int
	Days         []DayUsage
}

// Summarize builds the last UsageWindow days ending at now, oldest first.
func Summarize(logs []model.ComfortLog, now time.Time) UsageSummary {
	byDate := make(map[string]int, len(logs))
	for _, log := range logs {
		byDate[log.Date] += log.MinutesActive
	}

	summary := UsageSummary{Days: make([]DayUsage, 0, UsageWindow)}
	for offset := UsageWindow - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		date := model.DateKey(day)
		minutes := byDate[date]
		summary.Days = append(summary.Days, DayUsage{
			Date:    date,
			Label:   day.Weekday().String()[:1],
			Minutes: minutes,
		})
		summary.WeekMinutes += minutes
	}
	summary.TodayMinutes = summary.Days[len(summary.Days)-1].Minutes
	return summary
}

// Hours formats minutes as hours with one decimal.
func Hours(minutes int) string {
	return fmt.Sprintf("%.1f", float64(minutes)/60)
}

// MemoryUsageStore is an in-memory UsageStore.
type MemoryUsageStore struct {
	mu      sync.Mutex
	minutes map[string]int
}

var _ UsageStore = (*MemoryUsageStore)(nil)

// NewMemoryUsageStore creates an empty store.
func NewMemoryUsageStore() *MemoryUsageStore {
	return &MemoryUsageStore{minutes: make(map[string]int)}
}

func (store *MemoryUsageStore) AddComfortMinutes(_ context.Context, date string, minutes int) (model.ComfortLog, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.minutes[date] += minutes
	return model.ComfortLog{Date: date, MinutesActive: store.minutes[date]}, nil
}

func (store *MemoryUsageStore) ComfortUsage(context.Context) ([]model.ComfortLog, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	logs := make([]model.ComfortLog, 0, len(store.minutes))
	for date, minutes := range store.minutes {
		logs = append(logs, model.ComfortLog{Date: date, MinutesActive: minutes})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

func (store *MemoryUsageStore) ClearComfortUsage(context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.minutes = make(map[string]int)
	return nil
}
