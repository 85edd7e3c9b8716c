// Package overlay renders a running session: the motion guide, timer, progress and controls.
package overlay

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"visionary/internal/core/model"
	"visionary/internal/core/session"
	"visionary/internal/ui/animation"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
	Animation  animation.Config
	Logger     *zap.Logger
}

// Window manages the session UI.
type Window struct {
	window   fyne.Window
	config   Config
	logger   *zap.Logger
	settings model.UserSettings
	run      *session.Session
	engine   *animation.Engine
	guide    *guideLayout
	progress *progressLayout
	lastKey  string

	background   *canvas.Rectangle
	tint         *canvas.Rectangle
	guideArea    *fyne.Container
	dot          *canvas.Circle
	caption      *canvas.Text
	counterLabel *widget.Label
	titleLabel   *canvas.Text
	instruction  *widget.Label
	stepsLabel   *widget.Label
	nextLabel    *widget.Label
	timerLabel   *canvas.Text
	progressFill *canvas.Rectangle
	progressBar  *fyne.Container
	playButton   *widget.Button
	skipButton   *widget.Button
	exitButton   *widget.Button
}

const (
	defaultWidth  = float32(960)
	defaultHeight = float32(680)
)

var (
	backgroundColor = color.NRGBA{R: 15, G: 23, B: 42, A: 255}
	trackColor      = color.NRGBA{R: 51, G: 65, B: 85, A: 255}
	textColor       = color.NRGBA{R: 241, G: 245, B: 249, A: 255}
)

// New creates the session window. It stays hidden until Play.
func New(app fyne.App, config Config) *Window {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Opacity == 0 {
		config.Opacity = 255
	}

	window := app.NewWindow("Visionary")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	overlay := &Window{
		window:   window,
		config:   config,
		logger:   config.Logger.Named("overlay"),
		settings: model.DefaultSettings(),
		guide:    &guideLayout{pattern: model.PatternNone, dot: animation.DotSize(model.DotMedium)},
		progress: &progressLayout{},
	}
	overlay.engine = animation.New(config.Animation, func(frame animation.Frame) {
		fyne.Do(func() {
			overlay.setFrame(frame)
		})
	})

	overlay.background = canvas.NewRectangle(backgroundColor)
	overlay.dot = canvas.NewCircle(parseColor(session.DefaultAccent))
	overlay.caption = canvas.NewText("", textColor)
	overlay.caption.Alignment = fyne.TextAlignCenter
	overlay.caption.TextStyle = fyne.TextStyle{Bold: true}
	overlay.caption.TextSize = 28
	overlay.guideArea = container.New(overlay.guide, canvas.NewRectangle(color.Transparent), overlay.dot, overlay.caption)

	overlay.counterLabel = widget.NewLabel("")
	overlay.titleLabel = canvas.NewText("", textColor)
	overlay.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	overlay.titleLabel.TextSize = 22
	overlay.instruction = widget.NewLabel("")
	overlay.instruction.Wrapping = fyne.TextWrapWord
	overlay.stepsLabel = widget.NewLabel("")
	overlay.stepsLabel.Wrapping = fyne.TextWrapWord
	overlay.nextLabel = widget.NewLabel("")

	overlay.timerLabel = canvas.NewText("00:00", textColor)
	overlay.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	overlay.timerLabel.TextSize = 32
	overlay.progressFill = canvas.NewRectangle(parseColor(session.DefaultAccent))
	overlay.progressBar = container.New(overlay.progress, canvas.NewRectangle(trackColor), overlay.progressFill)

	overlay.playButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), overlay.togglePlay)
	overlay.skipButton = widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), overlay.skip)
	overlay.exitButton = widget.NewButtonWithIcon("Exit", theme.CancelIcon(), overlay.exit)

	header := container.NewVBox(overlay.counterLabel, overlay.titleLabel, overlay.instruction, overlay.stepsLabel)
	controls := container.NewHBox(overlay.timerLabel, layout.NewSpacer(), overlay.nextLabel,
		overlay.playButton, overlay.skipButton, overlay.exitButton)
	footer := container.NewVBox(overlay.progressBar, controls)
	content := container.NewBorder(container.NewPadded(header), container.NewPadded(footer), nil, nil, overlay.guideArea)
	// The tint sits above the content; rectangles are not tappable so controls still work.
	overlay.tint = canvas.NewRectangle(color.Transparent)
	overlay.tint.Hide()
	window.SetContent(container.NewStack(overlay.background, content, overlay.tint))

	window.SetCloseIntercept(overlay.exit)
	window.Canvas().SetOnTypedKey(overlay.handleKey)
	return overlay
}

// Play attaches run to the window and shows it. A previous unfinished run is exited.
func (overlay *Window) Play(run *session.Session, settings model.UserSettings) {
	if overlay.run != nil && overlay.run != run {
		overlay.run.Exit()
	}
	overlay.run = run
	overlay.settings = settings
	overlay.lastKey = ""
	overlay.guide.dot = animation.DotSize(settings.DotSize)

	events := run.Subscribe(16)
	go overlay.follow(run, events)

	overlay.render(run, run.Snapshot())
	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()
	if overlay.config.Opacity < 255 {
		overlay.applyNativeOpacity(overlay.config.Opacity)
	}
}

// UpdateSettings changes colors, speed and dot size for the current and later runs.
func (overlay *Window) UpdateSettings(settings model.UserSettings) {
	overlay.settings = settings
	overlay.guide.dot = animation.DotSize(settings.DotSize)
	if overlay.run != nil {
		overlay.run.SetSettings(settings)
		overlay.lastKey = ""
		overlay.render(overlay.run, overlay.run.Snapshot())
	}
}

// SetTint shows or hides the warm comfort filter over the session.
func (overlay *Window) SetTint(active bool, tint color.NRGBA) {
	overlay.tint.FillColor = tint
	if active && tint.A > 0 {
		overlay.tint.Show()
	} else {
		overlay.tint.Hide()
	}
	overlay.tint.Refresh()
}

// Hide closes the window and stops the guide.
func (overlay *Window) Hide() {
	overlay.engine.Stop()
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
}

// Active reports whether a run is attached and not finished.
func (overlay *Window) Active() bool {
	return overlay.run != nil && !overlay.run.Snapshot().Finished()
}

func (overlay *Window) follow(run *session.Session, events <-chan session.Event) {
	for event := range events {
		snapshot := event.Snapshot
		fyne.Do(func() {
			overlay.render(run, snapshot)
		})
	}
	fyne.Do(func() {
		overlay.render(run, run.Snapshot())
	})
}

func (overlay *Window) togglePlay() {
	if overlay.run == nil {
		return
	}
	overlay.run.TogglePlay()
}

func (overlay *Window) skip() {
	if overlay.run == nil {
		return
	}
	if err := overlay.run.Skip(); err != nil {
		overlay.logger.Debug("skip ignored", zap.Error(err))
	}
}

func (overlay *Window) exit() {
	if overlay.run != nil {
		overlay.run.Exit()
	}
	overlay.Hide()
}

func (overlay *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace:
		overlay.togglePlay()
	case fyne.KeyRight:
		overlay.skip()
	case fyne.KeyEscape:
		overlay.exit()
	}
}

func (overlay *Window) render(run *session.Session, snapshot session.Snapshot) {
	if run != overlay.run {
		return
	}
	accent := parseColor(snapshot.Color)
	overlay.dot.FillColor = accent
	overlay.progressFill.FillColor = accent
	overlay.progress.fraction = snapshot.Progress
	overlay.timerLabel.Text = formatSeconds(snapshot.TimeLeft)

	switch {
	case snapshot.Phase == session.PhaseCompleted:
		overlay.renderFinished("Session complete", "Great job! Your eyes thank you.")
	case snapshot.Phase == session.PhaseExited:
		overlay.renderFinished("Session ended", "")
	case snapshot.IsBreak:
		overlay.renderBreak(snapshot)
	default:
		overlay.renderExercise(snapshot)
	}

	if snapshot.Playing {
		overlay.playButton.SetText("Pause")
		overlay.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		overlay.playButton.SetText("Resume")
		overlay.playButton.SetIcon(theme.MediaPlayIcon())
	}
	overlay.engine.SetPaused(!snapshot.Playing)

	overlay.timerLabel.Refresh()
	overlay.titleLabel.Refresh()
	overlay.dot.Refresh()
	overlay.progressFill.Refresh()
	overlay.progressBar.Refresh()
	overlay.guideArea.Refresh()
}

func (overlay *Window) renderExercise(snapshot session.Snapshot) {
	exercise := snapshot.Exercise
	overlay.counterLabel.SetText(fmt.Sprintf("Exercise %d of %d", snapshot.Index+1, snapshot.Total))
	overlay.titleLabel.Text = exercise.Name
	overlay.instruction.SetText(exercise.Instruction())
	overlay.stepsLabel.SetText(formatSteps(exercise.Steps))
	overlay.nextLabel.SetText(nextText(snapshot.Next))
	overlay.enableControls(true)

	key := fmt.Sprintf("exercise-%d", snapshot.Index)
	if key == overlay.lastKey {
		return
	}
	overlay.lastKey = key
	guide := animation.GuideFor(exercise, overlay.settings)
	overlay.guide.pattern = guide.Pattern
	overlay.guide.point = animation.Point{}
	overlay.guide.closed = false
	if guide.Moving() || guide.Blink {
		overlay.dot.Show()
		overlay.caption.Hide()
		overlay.engine.Start(context.Background(), guide)
		return
	}
	overlay.engine.Stop()
	overlay.dot.Hide()
	overlay.caption.Text = exercise.Name
	overlay.caption.Show()
	overlay.caption.Refresh()
}

func (overlay *Window) renderBreak(snapshot session.Snapshot) {
	overlay.counterLabel.SetText(fmt.Sprintf("Break after %d of %d", snapshot.Index+1, snapshot.Total))
	overlay.titleLabel.Text = "Take a short break"
	overlay.instruction.SetText("Relax and look around the room.")
	overlay.stepsLabel.SetText("")
	overlay.nextLabel.SetText(nextText(snapshot.Next))
	overlay.enableControls(true)

	key := fmt.Sprintf("break-%d", snapshot.Index)
	if key == overlay.lastKey {
		return
	}
	overlay.lastKey = key
	overlay.engine.Stop()
	overlay.dot.Hide()
	overlay.caption.Text = "Break"
	overlay.caption.Show()
	overlay.caption.Refresh()
}

func (overlay *Window) renderFinished(title, message string) {
	overlay.lastKey = "finished"
	overlay.engine.Stop()
	overlay.counterLabel.SetText("")
	overlay.titleLabel.Text = title
	overlay.instruction.SetText(message)
	overlay.stepsLabel.SetText("")
	overlay.nextLabel.SetText("")
	overlay.dot.Hide()
	overlay.caption.Text = title
	overlay.caption.Show()
	overlay.caption.Refresh()
	overlay.enableControls(false)
}

func (overlay *Window) enableControls(enabled bool) {
	if enabled {
		overlay.playButton.Enable()
		overlay.skipButton.Enable()
		overlay.exitButton.SetText("Exit")
		return
	}
	overlay.playButton.Disable()
	overlay.skipButton.Disable()
	overlay.exitButton.SetText("Close")
}

func (overlay *Window) setFrame(frame animation.Frame) {
	overlay.guide.point = frame.Point
	overlay.guide.closed = frame.EyesClosed
	overlay.guideArea.Refresh()
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.window.Resize(fyne.NewSize(defaultWidth, defaultHeight))
	overlay.window.CenterOnScreen()
}

func formatSeconds(value int) string {
	if value < 0 {
		value = 0
	}
	return fmt.Sprintf("%02d:%02d", value/60, value%60)
}

func formatSteps(steps []string) string {
	if len(steps) == 0 {
		return ""
	}
	lines := make([]string, 0, len(steps))
	for index, step := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s", index+1, step))
	}
	return strings.Join(lines, "\n")
}

func nextText(next *model.Exercise) string {
	if next == nil {
		return "Last exercise"
	}
	return "Up next: " + next.Name
}

func parseColor(value string) color.Color {
	parsed, err := session.ParseHexColor(value)
	if err != nil {
		parsed, _ = session.ParseHexColor(session.DefaultAccent)
	}
	return parsed
}
