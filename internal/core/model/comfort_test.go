package model

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmthColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 255, G: 220, B: 150, A: 255}, WarmthColor(1))
	assert.Equal(t, color.NRGBA{R: 255, G: 188, B: 110, A: 255}, WarmthColor(5))
	assert.Equal(t, color.NRGBA{R: 255, G: 148, B: 60, A: 255}, WarmthColor(10))
	assert.Equal(t, WarmthColor(1), WarmthColor(-3))
	assert.Equal(t, WarmthColor(10), WarmthColor(42))
}

func TestTintColor(t *testing.T) {
	settings := DefaultComfortSettings()
	tint := settings.TintColor()
	assert.Equal(t, uint8(30*255/100), tint.A)
	assert.Equal(t, uint8(188), tint.G)

	settings.Opacity = 200
	assert.Equal(t, uint8(80*255/100), settings.TintColor().A)
}

func TestComfortValidate(t *testing.T) {
	settings := DefaultComfortSettings()
	require.NoError(t, settings.Validate())

	settings.Opacity = 81
	assert.ErrorIs(t, settings.Validate(), ErrInvalidOpacity)

	settings.Opacity = 0
	settings.Warmth = 0
	assert.ErrorIs(t, settings.Validate(), ErrInvalidWarmth)

	settings.Warmth = 3
	settings.Schedule.EndTime = "7am"
	assert.Error(t, settings.Validate())
}

func TestParseWeekday(t *testing.T) {
	for _, value := range []string{"sat", "Saturday", " SAT "} {
		day, err := ParseWeekday(value)
		require.NoError(t, err, value)
		assert.Equal(t, time.Saturday, day)
	}
	_, err := ParseWeekday("someday")
	assert.Error(t, err)
	assert.Equal(t, "sun", WeekdayName(time.Sunday))
}

func TestScheduleHasDay(t *testing.T) {
	schedule := ComfortSchedule{Days: []time.Weekday{time.Monday, time.Friday}}
	assert.True(t, schedule.HasDay(time.Friday))
	assert.False(t, schedule.HasDay(time.Sunday))
	assert.True(t, DefaultComfortSettings().Schedule.HasDay(time.Sunday))
}
