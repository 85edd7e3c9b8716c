package animation

import (
	"math"
	"math/rand"
	"time"

	"fyne.io/fyne/v2"

	"visionary/internal/core/model"
)

// Point is a guide position normalized to [-1, 1] on both axes, origin at the center.
type Point struct {
	X float64
	Y float64
}

// Extent is the share of the canvas a normalized coordinate of 1 reaches.
type Extent struct {
	X float32
	Y float32
	// Square measures both axes against the canvas width.
	Square bool
}

// Period returns one full traversal of pattern at the given speed.
func Period(pattern model.MovementPattern, speed model.AnimationSpeed) time.Duration {
	base := 3 * time.Second
	if pattern == model.PatternFigureEight {
		base = 4 * time.Second
	}
	switch speed {
	case model.SpeedSlow:
		return base * 3 / 2
	case model.SpeedFast:
		return base * 7 / 10
	default:
		return base
	}
}

// DotSize returns the guide dot diameter.
func DotSize(size model.DotSize) float32 {
	switch size {
	case model.DotSmall:
		return 32
	case model.DotLarge:
		return 64
	default:
		return 48
	}
}

// ExtentOf returns how far pattern reaches across the canvas.
func ExtentOf(pattern model.MovementPattern) Extent {
	switch pattern {
	case model.PatternHorizontal:
		return Extent{X: 0.3}
	case model.PatternVertical:
		return Extent{Y: 0.25}
	case model.PatternFigureEight:
		return Extent{X: 0.25, Y: 0.1}
	case model.PatternCircular:
		return Extent{X: 0.225, Y: 0.225, Square: true}
	case model.PatternRandom:
		return Extent{X: 0.3, Y: 0.25}
	default:
		return Extent{}
	}
}

// Position returns where the guide is after elapsed time.
func Position(pattern model.MovementPattern, elapsed, period time.Duration) Point {
	if period <= 0 {
		return Point{}
	}
	cycles := elapsed.Seconds() / period.Seconds()

	switch pattern {
	case model.PatternHorizontal:
		return Point{X: mirror(cycles)}
	case model.PatternVertical:
		return Point{Y: mirror(cycles)}
	case model.PatternFigureEight:
		return Point{
			X: -math.Cos(2 * math.Pi * cycles),
			Y: -math.Cos(4 * math.Pi * cycles),
		}
	case model.PatternCircular:
		angle := 2 * math.Pi * cycles
		return Point{X: -math.Cos(angle), Y: -math.Sin(angle)}
	case model.PatternRandom:
		return wander(cycles)
	default:
		return Point{}
	}
}

// Place converts a normalized point into a dot position inside a canvas of size.
func Place(pattern model.MovementPattern, point Point, size fyne.Size, dot float32) fyne.Position {
	extent := ExtentOf(pattern)
	scaleY := size.Height
	if extent.Square {
		scaleY = size.Width
	}
	centerX := size.Width/2 + float32(point.X)*extent.X*size.Width
	centerY := size.Height/2 + float32(point.Y)*extent.Y*scaleY
	return fyne.NewPos(centerX-dot/2, centerY-dot/2)
}

// mirror maps cycles onto -1..1 and back with ease-in-out, like a ping-pong tween.
func mirror(cycles float64) float64 {
	phase := math.Mod(cycles, 2)
	if phase < 0 {
		phase += 2
	}
	if phase > 1 {
		phase = 2 - phase
	}
	return -1 + 2*easeInOut(phase)
}

func easeInOut(t float64) float64 {
	return (1 - math.Cos(math.Pi*t)) / 2
}

// wander eases between pseudo-random waypoints, one per period. Waypoints are derived
// from their index so any elapsed time maps to the same position.
func wander(cycles float64) Point {
	if cycles < 0 {
		cycles = 0
	}
	index := int64(math.Floor(cycles))
	from := waypoint(index)
	to := waypoint(index + 1)
	t := easeInOut(cycles - float64(index))
	return Point{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}

func waypoint(index int64) Point {
	if index == 0 {
		return Point{}
	}
	rng := rand.New(rand.NewSource(index * 7919))
	return Point{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
}
