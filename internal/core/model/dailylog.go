package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout of the DailyLog natural key.
const DateLayout = "2006-01-02"

// ErrInvalidRating indicates a wellness rating outside 1..10.
var ErrInvalidRating = errors.New("rating must be between 1 and 10")

// DailyLog aggregates activity and wellness data for one calendar date.
type DailyLog struct {
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`

	MinutesCompleted   int `json:"minutesCompleted"`
	ExercisesCompleted int `json:"exercisesCompleted"`

	VisionClarity int `json:"visionClarity"`
	EyeStrain     int `json:"eyeStrain"`
	Dryness       int `json:"dryness"`
	SleepQuality  int `json:"sleepQuality"`

	Headaches          bool    `json:"headaches"`
	ScreenTimeHours    float64 `json:"screenTimeHours"`
	OutdoorTimeMinutes int     `json:"outdoorTimeMinutes"`

	Notes string `json:"notes,omitempty"`
}

// HasCheckIn reports whether wellness ratings were recorded for the day.
func (log DailyLog) HasCheckIn() bool {
	return log.VisionClarity > 0
}

// DateKey formats a time as a DailyLog date.
func DateKey(at time.Time) string {
	return at.Format(DateLayout)
}

// CheckIn is the user-submitted wellness data for the current date.
type CheckIn struct {
	VisionClarity      int
	EyeStrain          int
	Dryness            int
	SleepQuality       int
	Headaches          bool
	ScreenTimeHours    float64
	OutdoorTimeMinutes int
	Notes              string
}

// DefaultCheckIn returns form defaults, keeping any value already recorded today.
func DefaultCheckIn(existing *DailyLog) CheckIn {
	checkIn := CheckIn{
		VisionClarity:      5,
		EyeStrain:          5,
		Dryness:            5,
		SleepQuality:       7,
		ScreenTimeHours:    8,
		OutdoorTimeMinutes: 30,
	}
	if existing == nil {
		return checkIn
	}
	if existing.VisionClarity > 0 {
		checkIn.VisionClarity = existing.VisionClarity
	}
	if existing.EyeStrain > 0 {
		checkIn.EyeStrain = existing.EyeStrain
	}
	if existing.Dryness > 0 {
		checkIn.Dryness = existing.Dryness
	}
	if existing.SleepQuality > 0 {
		checkIn.SleepQuality = existing.SleepQuality
	}
	if existing.ScreenTimeHours > 0 {
		checkIn.ScreenTimeHours = existing.ScreenTimeHours
	}
	if existing.OutdoorTimeMinutes > 0 {
		checkIn.OutdoorTimeMinutes = existing.OutdoorTimeMinutes
	}
	checkIn.Headaches = existing.Headaches
	checkIn.Notes = existing.Notes
	return checkIn
}

// Validate checks rating ranges and lifestyle values.
func (checkIn CheckIn) Validate() error {
	ratings := []struct {
		name  string
		value int
	}{
		{"vision clarity", checkIn.VisionClarity},
		{"eye strain", checkIn.EyeStrain},
		{"dryness", checkIn.Dryness},
		{"sleep quality", checkIn.SleepQuality},
	}
	for _, rating := range ratings {
		if rating.value < 1 || rating.value > 10 {
			return fmt.Errorf("%s %d: %w", rating.name, rating.value, ErrInvalidRating)
		}
	}
	if checkIn.ScreenTimeHours < 0 || checkIn.ScreenTimeHours > 24 {
		return fmt.Errorf("screen time %.1f hours out of range", checkIn.ScreenTimeHours)
	}
	if checkIn.OutdoorTimeMinutes < 0 {
		return fmt.Errorf("outdoor time %d minutes out of range", checkIn.OutdoorTimeMinutes)
	}
	return nil
}

// Apply overwrites the rating and lifestyle fields of a log, leaving counters untouched.
func (checkIn CheckIn) Apply(log *DailyLog) {
	log.VisionClarity = checkIn.VisionClarity
	log.EyeStrain = checkIn.EyeStrain
	log.Dryness = checkIn.Dryness
	log.SleepQuality = checkIn.SleepQuality
	log.Headaches = checkIn.Headaches
	log.ScreenTimeHours = checkIn.ScreenTimeHours
	log.OutdoorTimeMinutes = checkIn.OutdoorTimeMinutes
	log.Notes = checkIn.Notes
}
