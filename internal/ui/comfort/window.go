// Package comfort provides the eye comfort window: filter switch, tint, schedule, profiles and usage.
package comfort

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	corecomfort "visionary/internal/core/comfort"
	"visionary/internal/core/model"
)

// maxBarMinutes is the usage that fills a chart bar.
const maxBarMinutes = 8 * 60

var (
	barColor     = color.NRGBA{R: 245, G: 158, B: 11, A: 200}
	previewStart = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	previewEnd   = color.NRGBA{R: 147, G: 51, B: 234, A: 255}
)

// Usage is the filter usage history the window reads and clears.
type Usage interface {
	ComfortUsage(ctx context.Context) ([]model.ComfortLog, error)
	ClearComfortUsage(ctx context.Context) error
}

// Window is the eye comfort view. Every change is applied immediately through onSave.
type Window struct {
	window   fyne.Window
	settings model.ComfortSettings
	usage    Usage
	onSave   func(model.ComfortSettings)
	logger   *zap.Logger
	now      func() time.Time
	loading  bool

	enabled      *widget.Check
	opacity      *widget.Slider
	opacityValue *widget.Label
	warmth       *widget.Slider
	warmthValue  *widget.Label
	preview      *canvas.Rectangle

	scheduleOn *widget.Check
	startTime  *widget.Entry
	endTime    *widget.Entry
	days       []*widget.Check
	errLabel   *widget.Label

	profiles    *fyne.Container
	profileName *widget.Entry

	todayLabel  *widget.Label
	weekLabel   *widget.Label
	chart       *fyne.Container
	chartLayout *barsLayout
}

// New creates the eye comfort window.
func New(app fyne.App, settings model.ComfortSettings, usage Usage, onSave func(model.ComfortSettings), logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	window := app.NewWindow("Visionary Eye Comfort")
	comfort := &Window{
		window:       window,
		usage:        usage,
		onSave:       onSave,
		logger:       logger.Named("comfort-window"),
		now:          time.Now,
		enabled:      widget.NewCheck("Warm filter on", nil),
		opacity:      widget.NewSlider(0, model.MaxComfortOpacity),
		opacityValue: widget.NewLabel(""),
		warmth:       widget.NewSlider(model.MinComfortWarmth, model.MaxComfortWarmth),
		warmthValue:  widget.NewLabel(""),
		preview:      canvas.NewRectangle(color.Transparent),
		scheduleOn:   widget.NewCheck("Switch on and off automatically", nil),
		startTime:    widget.NewEntry(),
		endTime:      widget.NewEntry(),
		errLabel:     widget.NewLabel(""),
		profiles:     container.NewVBox(),
		profileName:  widget.NewEntry(),
		todayLabel:   widget.NewLabel(""),
		weekLabel:    widget.NewLabel(""),
		chartLayout:  &barsLayout{},
	}
	comfort.enabled.OnChanged = func(bool) { comfort.commitSwitch() }
	comfort.opacity.Step = 1
	comfort.opacity.OnChanged = func(float64) { comfort.previewTint() }
	comfort.opacity.OnChangeEnded = func(float64) { comfort.commitTint() }
	comfort.warmth.Step = 1
	comfort.warmth.OnChanged = func(float64) { comfort.previewTint() }
	comfort.warmth.OnChangeEnded = func(float64) { comfort.commitTint() }
	comfort.startTime.SetPlaceHolder("21:00")
	comfort.endTime.SetPlaceHolder("07:00")
	comfort.profileName.SetPlaceHolder("e.g. Reading mode")
	comfort.errLabel.Importance = widget.DangerImportance
	comfort.errLabel.Hide()

	dayRow := container.NewHBox()
	for _, day := range model.AllWeekdays() {
		check := widget.NewCheck(day.String()[:3], nil)
		comfort.days = append(comfort.days, check)
		dayRow.Add(check)
	}
	comfort.chart = container.New(comfort.chartLayout)

	preview := container.NewStack(
		canvas.NewHorizontalGradient(previewStart, previewEnd),
		container.NewCenter(widget.NewLabelWithStyle("This is how your screen looks.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})),
		comfort.preview,
	)
	controls := container.NewVBox(
		comfort.enabled,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(420, 90)), preview),
		widget.NewForm(
			widget.NewFormItem("Intensity", container.NewBorder(nil, nil, nil, comfort.opacityValue, comfort.opacity)),
			widget.NewFormItem("Warmth", container.NewBorder(nil, nil, nil, comfort.warmthValue, comfort.warmth)),
		),
	)
	schedule := container.NewVBox(
		comfort.scheduleOn,
		widget.NewForm(
			widget.NewFormItem("From", comfort.startTime),
			widget.NewFormItem("Until", comfort.endTime),
		),
		dayRow,
		comfort.errLabel,
		container.NewHBox(layout.NewSpacer(), widget.NewButton("Save schedule", comfort.commitSchedule)),
	)
	profiles := container.NewVBox(
		comfort.profiles,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, widget.NewButton("Save current as profile", comfort.saveProfile), comfort.profileName),
	)
	clearButton := widget.NewButton("Clear usage", comfort.confirmClear)
	clearButton.Importance = widget.DangerImportance
	stats := container.NewVBox(
		container.NewGridWithColumns(2, comfort.todayLabel, comfort.weekLabel),
		widget.NewLabelWithStyle("Last 7 days", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		comfort.chart,
		container.NewHBox(layout.NewSpacer(), clearButton),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Controls", container.NewPadded(controls)),
		container.NewTabItem("Schedule", container.NewPadded(schedule)),
		container.NewTabItem("Profiles", container.NewPadded(container.NewVScroll(profiles))),
		container.NewTabItem("Stats", container.NewPadded(stats)),
	)
	tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == "Stats" {
			comfort.reloadUsageOrShow()
		}
	}
	window.SetContent(tabs)
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(520, 460))

	comfort.UpdateSettings(settings)
	return comfort
}

// Show refreshes usage and displays the window.
func (comfort *Window) Show() {
	comfort.errLabel.Hide()
	comfort.reloadUsageOrShow()
	comfort.window.Show()
	comfort.window.RequestFocus()
}

// UpdateSettings replaces window values without saving.
func (comfort *Window) UpdateSettings(settings model.ComfortSettings) {
	comfort.loading = true
	defer func() { comfort.loading = false }()

	comfort.settings = settings
	comfort.enabled.SetChecked(settings.Enabled)
	comfort.opacity.SetValue(float64(settings.Opacity))
	comfort.warmth.SetValue(float64(settings.Warmth))
	comfort.scheduleOn.SetChecked(settings.Schedule.Enabled)
	comfort.startTime.SetText(settings.Schedule.StartTime)
	comfort.endTime.SetText(settings.Schedule.EndTime)
	for index, day := range model.AllWeekdays() {
		comfort.days[index].SetChecked(settings.Schedule.HasDay(day))
	}
	comfort.renderTint()
	comfort.renderProfiles()
}

// ReloadUsage reads the usage history and redraws the stats.
func (comfort *Window) ReloadUsage() error {
	logs, err := comfort.usage.ComfortUsage(context.Background())
	if err != nil {
		return fmt.Errorf("load comfort usage: %w", err)
	}
	summary := corecomfort.Summarize(logs, comfort.now())
	comfort.todayLabel.SetText(fmt.Sprintf("Today: %s h", corecomfort.Hours(summary.TodayMinutes)))
	comfort.weekLabel.SetText(fmt.Sprintf("This week: %s h", corecomfort.Hours(summary.WeekMinutes)))

	comfort.chart.RemoveAll()
	comfort.chartLayout.values = comfort.chartLayout.values[:0]
	for _, day := range summary.Days {
		comfort.chart.Add(canvas.NewRectangle(barColor))
		comfort.chartLayout.values = append(comfort.chartLayout.values, float32(day.Minutes))
	}
	comfort.chart.Refresh()
	return nil
}

func (comfort *Window) reloadUsageOrShow() {
	if err := comfort.ReloadUsage(); err != nil {
		comfort.logger.Warn("comfort usage unavailable", zap.Error(err))
		dialog.ShowError(err, comfort.window)
	}
}

func (comfort *Window) commit(settings model.ComfortSettings) {
	comfort.UpdateSettings(settings)
	if comfort.onSave != nil {
		comfort.onSave(settings)
	}
}

func (comfort *Window) commitSwitch() {
	if comfort.loading {
		return
	}
	settings := comfort.settings
	settings.Enabled = comfort.enabled.Checked
	comfort.commit(settings)
}

func (comfort *Window) previewTint() {
	if comfort.loading {
		return
	}
	comfort.renderTint()
}

func (comfort *Window) commitTint() {
	if comfort.loading {
		return
	}
	settings := comfort.settings
	settings.Opacity, settings.Warmth = comfort.tintValues()
	comfort.commit(settings)
}

func (comfort *Window) tintValues() (int, int) {
	return int(comfort.opacity.Value), int(comfort.warmth.Value)
}

func (comfort *Window) renderTint() {
	opacity, warmth := comfort.tintValues()
	preview := model.ComfortSettings{Opacity: opacity, Warmth: warmth}
	comfort.preview.FillColor = preview.TintColor()
	comfort.preview.Refresh()
	comfort.opacityValue.SetText(fmt.Sprintf("%d%%", opacity))
	comfort.warmthValue.SetText(fmt.Sprintf("%d/10", warmth))
}

// collectSchedule reads the schedule tab, returning a message for the first invalid field.
func (comfort *Window) collectSchedule() (model.ComfortSchedule, string) {
	schedule := model.ComfortSchedule{
		Enabled:   comfort.scheduleOn.Checked,
		StartTime: strings.TrimSpace(comfort.startTime.Text),
		EndTime:   strings.TrimSpace(comfort.endTime.Text),
		Days:      []time.Weekday{},
	}
	if _, err := model.ParseClock(schedule.StartTime); err != nil {
		return schedule, "Start time must be HH:MM"
	}
	if _, err := model.ParseClock(schedule.EndTime); err != nil {
		return schedule, "End time must be HH:MM"
	}
	for index, day := range model.AllWeekdays() {
		if comfort.days[index].Checked {
			schedule.Days = append(schedule.Days, day)
		}
	}
	if schedule.Enabled && len(schedule.Days) == 0 {
		return schedule, "Pick at least one day"
	}
	return schedule, ""
}

func (comfort *Window) commitSchedule() {
	schedule, problem := comfort.collectSchedule()
	if problem != "" {
		comfort.errLabel.SetText(problem)
		comfort.errLabel.Show()
		return
	}
	comfort.errLabel.Hide()
	settings := comfort.settings
	settings.Schedule = schedule
	comfort.commit(settings)
}

func (comfort *Window) renderProfiles() {
	comfort.profiles.RemoveAll()
	if len(comfort.settings.Profiles) == 0 {
		comfort.profiles.Add(widget.NewLabel("No profiles yet."))
	}
	for _, profile := range comfort.settings.Profiles {
		id := profile.ID
		label := widget.NewLabel(fmt.Sprintf("%s  (intensity %d%%, warmth %d)", profile.Name, profile.Opacity, profile.Warmth))
		apply := widget.NewButton("Apply", func() { comfort.applyProfile(id) })
		remove := widget.NewButton("Delete", func() { comfort.deleteProfile(id) })
		comfort.profiles.Add(container.NewBorder(nil, nil, nil, container.NewHBox(apply, remove), label))
	}
	comfort.profiles.Refresh()
}

func (comfort *Window) applyProfile(id string) {
	settings, err := corecomfort.ApplyProfile(comfort.settings, id)
	if err != nil {
		dialog.ShowError(err, comfort.window)
		return
	}
	comfort.commit(settings)
}

func (comfort *Window) deleteProfile(id string) {
	settings, err := corecomfort.DeleteProfile(comfort.settings, id)
	if err != nil {
		dialog.ShowError(err, comfort.window)
		return
	}
	comfort.commit(settings)
}

func (comfort *Window) saveProfile() {
	settings := comfort.settings
	settings.Opacity, settings.Warmth = comfort.tintValues()
	settings, _, err := corecomfort.SaveProfile(settings, comfort.profileName.Text)
	if err != nil {
		dialog.ShowError(err, comfort.window)
		return
	}
	comfort.profileName.SetText("")
	comfort.commit(settings)
}

func (comfort *Window) confirmClear() {
	dialog.ShowConfirm("Clear usage", "Reset all filter usage history?", func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := comfort.clearUsage(); err != nil {
			dialog.ShowError(err, comfort.window)
		}
	}, comfort.window)
}

func (comfort *Window) clearUsage() error {
	if err := comfort.usage.ClearComfortUsage(context.Background()); err != nil {
		return fmt.Errorf("clear comfort usage: %w", err)
	}
	comfort.logger.Info("comfort usage cleared")
	return comfort.ReloadUsage()
}

// barsLayout draws one bar per value, full height at maxBarMinutes.
type barsLayout struct {
	values []float32
}

func (layout *barsLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	slot := size.Width / float32(len(objects))
	gap := slot * 0.2
	for index, object := range objects {
		value := float32(0)
		if index < len(layout.values) {
			value = min(layout.values[index], maxBarMinutes)
		}
		height := size.Height * value / maxBarMinutes
		object.Move(fyne.NewPos(float32(index)*slot+gap/2, size.Height-height))
		object.Resize(fyne.NewSize(slot-gap, height))
	}
}

func (layout *barsLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(280, 120)
}
