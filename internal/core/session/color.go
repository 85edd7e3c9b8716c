package session

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"visionary/internal/core/model"
)

const (
	// DefaultAccent is used when neither the user nor the exercise picks a color.
	DefaultAccent = "#38bdf8"
	// BreakAccent colors the progress bar during breaks.
	BreakAccent = "#eab308"
)

// AccentColor derives the guide and progress color for the current phase.
func AccentColor(settings model.UserSettings, exercise model.Exercise, isBreak bool) string {
	if isBreak {
		return BreakAccent
	}
	if settings.UsePreferredColor && settings.PreferredColor != "" {
		return settings.PreferredColor
	}
	if exercise.Color != "" {
		return exercise.Color
	}
	return DefaultAccent
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", value)
	}
	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.NRGBA{
		R: uint8(parsed >> 16),
		G: uint8(parsed >> 8),
		B: uint8(parsed),
		A: 255,
	}, nil
}
