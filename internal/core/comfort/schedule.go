// Package comfort drives the warm screen tint: its schedule, profiles and usage log.
package comfort

import (
	"time"

	"visionary/internal/core/model"
	"visionary/internal/reminder"
)

// Scheduled reports whether the schedule wants the filter on at now.
// A window that wraps past midnight belongs to the day it started on.
func Scheduled(schedule model.ComfortSchedule, now time.Time) bool {
	if !schedule.Enabled {
		return false
	}
	start, err := model.ParseClock(schedule.StartTime)
	if err != nil {
		return false
	}
	end, err := model.ParseClock(schedule.EndTime)
	if err != nil {
		return false
	}
	if !reminder.InWindow(now, start, end) {
		return false
	}

	day := now.Weekday()
	if start > end {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if now.Sub(midnight) < end {
			day = (day + 6) % 7
		}
	}
	return schedule.HasDay(day)
}
