package overlay

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/clock"
	"visionary/internal/core/model"
	"visionary/internal/core/session"
	"visionary/internal/ui/animation"
)

func testRoutine() model.Routine {
	return model.Routine{
		ID:   "test",
		Name: "Test",
		Exercises: []model.Exercise{
			{ID: "a", Name: "Scan", DurationSeconds: 30, Kind: model.KindMovingDot, Pattern: model.PatternHorizontal},
			{ID: "b", Name: "Palming", DurationSeconds: 30, Kind: model.KindPalming, Steps: []string{"Rub", "Cup"}},
		},
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "00:00", formatSeconds(-3))
	assert.Equal(t, "01:05", formatSeconds(65))
	assert.Equal(t, "1. Rub\n2. Cup", formatSteps([]string{"Rub", "Cup"}))
	assert.Equal(t, "", formatSteps(nil))
	assert.Equal(t, "Last exercise", nextText(nil))
	assert.Equal(t, "Up next: Palming", nextText(&model.Exercise{Name: "Palming"}))
}

func TestGuideLayoutClosedEyes(t *testing.T) {
	background := canvas.NewRectangle(nil)
	dot := canvas.NewCircle(nil)
	layout := &guideLayout{pattern: model.PatternNone, dot: 40}

	layout.Layout([]fyne.CanvasObject{background, dot}, fyne.NewSize(400, 400))
	assert.Equal(t, fyne.NewSize(40, 40), dot.Size())
	assert.Equal(t, fyne.NewPos(180, 180), dot.Position())

	layout.closed = true
	layout.Layout([]fyne.CanvasObject{background, dot}, fyne.NewSize(400, 400))
	assert.Equal(t, float32(6), dot.Size().Height)
	assert.Equal(t, float32(197), dot.Position().Y)
}

func TestProgressLayoutClamps(t *testing.T) {
	track := canvas.NewRectangle(nil)
	fill := canvas.NewRectangle(nil)
	layout := &progressLayout{fraction: 0.25}

	layout.Layout([]fyne.CanvasObject{track, fill}, fyne.NewSize(200, 8))
	assert.Equal(t, float32(50), fill.Size().Width)

	layout.fraction = 3
	layout.Layout([]fyne.CanvasObject{track, fill}, fyne.NewSize(200, 8))
	assert.Equal(t, float32(200), fill.Size().Width)
}

func TestWindowDrivesSession(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	overlay := New(app, Config{Animation: animation.Config{FrameInterval: time.Hour}})
	run, err := session.New(testRoutine(), session.Options{Clock: clock.NewManual()})
	require.NoError(t, err)

	overlay.Play(run, model.DefaultSettings())
	assert.Equal(t, "Scan", overlay.titleLabel.Text)
	assert.Equal(t, "00:30", overlay.timerLabel.Text)
	assert.True(t, overlay.Active())

	test.Tap(overlay.playButton)
	assert.False(t, run.Snapshot().Playing)

	test.Tap(overlay.skipButton)
	assert.True(t, run.Snapshot().IsBreak)

	test.Tap(overlay.exitButton)
	assert.Equal(t, session.PhaseExited, run.Snapshot().Phase)
	assert.False(t, overlay.Active())
}

func TestTintLayer(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	overlay := New(app, Config{Animation: animation.Config{FrameInterval: time.Hour}})
	assert.False(t, overlay.tint.Visible())

	comfort := model.DefaultComfortSettings()
	overlay.SetTint(true, comfort.TintColor())
	assert.True(t, overlay.tint.Visible())
	assert.Equal(t, comfort.TintColor(), overlay.tint.FillColor)

	comfort.Opacity = 0
	overlay.SetTint(true, comfort.TintColor())
	assert.False(t, overlay.tint.Visible(), "a fully transparent tint is hidden")

	overlay.SetTint(false, model.DefaultComfortSettings().TintColor())
	assert.False(t, overlay.tint.Visible())
}
