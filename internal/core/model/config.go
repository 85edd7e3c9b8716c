package model

import (
	"fmt"
	"time"
)

// AnimationSpeed scales the motion guide period.
type AnimationSpeed string

const (
	SpeedSlow   AnimationSpeed = "slow"
	SpeedNormal AnimationSpeed = "normal"
	SpeedFast   AnimationSpeed = "fast"
)

// DotSize selects the motion guide dot diameter.
type DotSize string

const (
	DotSmall  DotSize = "small"
	DotMedium DotSize = "medium"
	DotLarge  DotSize = "large"
)

// ReminderSettings defines the recurring "rest your eyes" reminder.
type ReminderSettings struct {
	Enabled         bool
	IntervalMinutes int
	StartTime       string
	EndTime         string
	Message         string
	SoundEnabled    bool
}

// UserSettings contains editable user preferences.
type UserSettings struct {
	SoundEnabled         bool
	VoiceGuidanceEnabled bool
	PreferredColor       string
	UsePreferredColor    bool
	AnimationSpeed       AnimationSpeed
	DotSize              DotSize
	Reminders            ReminderSettings
	Comfort              ComfortSettings
	LaunchAtLogin        bool
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() UserSettings {
	return UserSettings{
		SoundEnabled:         true,
		VoiceGuidanceEnabled: true,
		PreferredColor:       "#38bdf8",
		UsePreferredColor:    false,
		AnimationSpeed:       SpeedNormal,
		DotSize:              DotMedium,
		Reminders: ReminderSettings{
			Enabled:         false,
			IntervalMinutes: 20,
			StartTime:       "09:00",
			EndTime:         "17:00",
			Message:         "Time to rest your eyes! Follow the 20-20-20 rule.",
			SoundEnabled:    true,
		},
		Comfort: DefaultComfortSettings(),
	}
}

// ReminderConfig contains runtime settings for the reminder scheduler.
type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
	// Window bounds as offsets from local midnight. Start == End means all day.
	WindowStart time.Duration
	WindowEnd   time.Duration
	Message     string

	IdleResetEnabled  bool
	IdleResetAfter    time.Duration
	IdleCheckInterval time.Duration
}

// ReminderConfig converts settings to a scheduler configuration.
func (settings UserSettings) ReminderConfig() ReminderConfig {
	reminders := settings.Reminders
	start, err := ParseClock(reminders.StartTime)
	if err != nil {
		start = 0
	}
	end, err := ParseClock(reminders.EndTime)
	if err != nil {
		end = 0
	}
	interval := time.Duration(reminders.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 20 * time.Minute
	}
	return ReminderConfig{
		Enabled:           reminders.Enabled,
		Interval:          interval,
		WindowStart:       start,
		WindowEnd:         end,
		Message:           reminders.Message,
		IdleResetEnabled:  true,
		IdleResetAfter:    5 * time.Minute,
		IdleCheckInterval: 5 * time.Second,
	}
}

// ParseClock parses "HH:mm" into an offset from midnight.
func ParseClock(value string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
