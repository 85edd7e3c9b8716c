package model

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"
)

const (
	// MaxComfortOpacity caps the tint so the screen stays readable.
	MaxComfortOpacity = 80
	MinComfortWarmth  = 1
	MaxComfortWarmth  = 10
)

var (
	// ErrInvalidOpacity indicates an opacity outside 0..MaxComfortOpacity.
	ErrInvalidOpacity = errors.New("opacity must be between 0 and 80")
	// ErrInvalidWarmth indicates a warmth outside 1..10.
	ErrInvalidWarmth = errors.New("warmth must be between 1 and 10")
)

// ComfortProfile is a named opacity/warmth preset.
type ComfortProfile struct {
	ID      string
	Name    string
	Opacity int
	Warmth  int
}

// ComfortSchedule turns the filter on at Start and off at End on the selected days.
type ComfortSchedule struct {
	Enabled   bool
	StartTime string
	EndTime   string
	Days      []time.Weekday
}

// ComfortSettings configures the warm screen tint.
type ComfortSettings struct {
	Enabled  bool
	Opacity  int
	Warmth   int
	Schedule ComfortSchedule
	Profiles []ComfortProfile
}

// ComfortLog is the time the filter was active on one day.
type ComfortLog struct {
	Date          string `json:"date"`
	MinutesActive int    `json:"minutesActive"`
}

// DefaultComfortSettings returns the filter settings used before anything is saved.
func DefaultComfortSettings() ComfortSettings {
	return ComfortSettings{
		Enabled: false,
		Opacity: 30,
		Warmth:  5,
		Schedule: ComfortSchedule{
			Enabled:   false,
			StartTime: "21:00",
			EndTime:   "07:00",
			Days:      AllWeekdays(),
		},
		Profiles: []ComfortProfile{
			{ID: "p1", Name: "Reading", Opacity: 40, Warmth: 6},
			{ID: "p2", Name: "Gaming", Opacity: 20, Warmth: 4},
			{ID: "p3", Name: "Deep Sleep", Opacity: 70, Warmth: 9},
		},
	}
}

// AllWeekdays returns Sunday through Saturday.
func AllWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

// ValidateTint checks an opacity/warmth pair.
func ValidateTint(opacity, warmth int) error {
	if opacity < 0 || opacity > MaxComfortOpacity {
		return fmt.Errorf("opacity %d: %w", opacity, ErrInvalidOpacity)
	}
	if warmth < MinComfortWarmth || warmth > MaxComfortWarmth {
		return fmt.Errorf("warmth %d: %w", warmth, ErrInvalidWarmth)
	}
	return nil
}

// Validate checks tint ranges and schedule clock values.
func (settings ComfortSettings) Validate() error {
	if err := ValidateTint(settings.Opacity, settings.Warmth); err != nil {
		return err
	}
	if _, err := ParseClock(settings.Schedule.StartTime); err != nil {
		return err
	}
	if _, err := ParseClock(settings.Schedule.EndTime); err != nil {
		return err
	}
	return nil
}

// HasDay reports whether day is selected.
func (schedule ComfortSchedule) HasDay(day time.Weekday) bool {
	for _, selected := range schedule.Days {
		if selected == day {
			return true
		}
	}
	return false
}

// WarmthColor returns the tint color for a warmth level; higher levels drop more blue.
func WarmthColor(level int) color.NRGBA {
	if level < MinComfortWarmth {
		level = MinComfortWarmth
	}
	if level > MaxComfortWarmth {
		level = MaxComfortWarmth
	}
	blue := 150 - (level-1)*10
	if blue < 0 {
		blue = 0
	}
	return color.NRGBA{R: 255, G: uint8(220 - (level-1)*8), B: uint8(blue), A: 0xff}
}

// TintColor returns WarmthColor with the alpha channel set from opacity percent.
func (settings ComfortSettings) TintColor() color.NRGBA {
	tint := WarmthColor(settings.Warmth)
	opacity := settings.Opacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > MaxComfortOpacity {
		opacity = MaxComfortOpacity
	}
	tint.A = uint8(opacity * 255 / 100)
	return tint
}

// WeekdayName returns the three-letter lowercase name of day.
func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String()[:3])
}

// ParseWeekday accepts a full or three-letter English day name.
func ParseWeekday(value string) (time.Weekday, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, day := range AllWeekdays() {
		if value == WeekdayName(day) || value == strings.ToLower(day.String()) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("parse weekday %q: unknown day", value)
}
