// Package preferences provides the settings window.
package preferences

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"visionary/internal/core/model"
	"visionary/internal/core/session"
)

var (
	speedOptions = []string{string(model.SpeedSlow), string(model.SpeedNormal), string(model.SpeedFast)}
	sizeOptions  = []string{string(model.DotSmall), string(model.DotMedium), string(model.DotLarge)}
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.UserSettings
	onSave   func(model.UserSettings)
	errLabel *widget.Label

	sound         *widget.Check
	voice         *widget.Check
	usePreferred  *widget.Check
	color         *widget.Entry
	speed         *widget.Select
	dotSize       *widget.Select
	remindersOn   *widget.Check
	interval      *widget.Entry
	startTime     *widget.Entry
	endTime       *widget.Entry
	message       *widget.Entry
	reminderSound *widget.Check
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.UserSettings, onSave func(model.UserSettings)) *Window {
	window := app.NewWindow("Visionary Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		errLabel:      widget.NewLabel(""),
		sound:         widget.NewCheck("Sound effects", nil),
		voice:         widget.NewCheck("Voice guidance", nil),
		usePreferred:  widget.NewCheck("Use my color for every exercise", nil),
		color:         widget.NewEntry(),
		speed:         widget.NewSelect(speedOptions, nil),
		dotSize:       widget.NewSelect(sizeOptions, nil),
		remindersOn:   widget.NewCheck("Remind me to rest my eyes", nil),
		interval:      widget.NewEntry(),
		startTime:     widget.NewEntry(),
		endTime:       widget.NewEntry(),
		message:       widget.NewEntry(),
		reminderSound: widget.NewCheck("Play a sound with reminders", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.color.SetPlaceHolder("#38bdf8")
	prefs.startTime.SetPlaceHolder("09:00")
	prefs.endTime.SetPlaceHolder("17:00")
	prefs.errLabel.Importance = widget.DangerImportance
	prefs.errLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Session", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sound,
		prefs.voice,
		widget.NewForm(
			widget.NewFormItem("Guide color", prefs.color),
			widget.NewFormItem("Animation speed", prefs.speed),
			widget.NewFormItem("Dot size", prefs.dotSize),
		),
		prefs.usePreferred,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.remindersOn,
		widget.NewForm(
			widget.NewFormItem("Every (minutes)", prefs.interval),
			widget.NewFormItem("From", prefs.startTime),
			widget.NewFormItem("Until", prefs.endTime),
			widget.NewFormItem("Message", prefs.message),
		),
		prefs.reminderSound,
		widget.NewSeparator(),
		prefs.launchAtLogin,
		prefs.errLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, container.NewPadded(buttons), nil, nil, container.NewVScroll(form)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(460, 640))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.errLabel.Hide()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.UserSettings) {
	prefs.settings = settings
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.voice.SetChecked(settings.VoiceGuidanceEnabled)
	prefs.usePreferred.SetChecked(settings.UsePreferredColor)
	prefs.color.SetText(settings.PreferredColor)
	prefs.speed.SetSelected(string(settings.AnimationSpeed))
	prefs.dotSize.SetSelected(string(settings.DotSize))
	prefs.remindersOn.SetChecked(settings.Reminders.Enabled)
	prefs.interval.SetText(strconv.Itoa(settings.Reminders.IntervalMinutes))
	prefs.startTime.SetText(settings.Reminders.StartTime)
	prefs.endTime.SetText(settings.Reminders.EndTime)
	prefs.message.SetText(settings.Reminders.Message)
	prefs.reminderSound.SetChecked(settings.Reminders.SoundEnabled)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings, problem := prefs.collect()
	if problem != "" {
		prefs.errLabel.SetText(problem)
		prefs.errLabel.Show()
		return
	}
	prefs.errLabel.Hide()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// collect reads the form into settings, returning a message for the first invalid field.
func (prefs *Window) collect() (model.UserSettings, string) {
	settings := prefs.settings
	settings.SoundEnabled = prefs.sound.Checked
	settings.VoiceGuidanceEnabled = prefs.voice.Checked
	settings.UsePreferredColor = prefs.usePreferred.Checked
	settings.AnimationSpeed = model.AnimationSpeed(prefs.speed.Selected)
	settings.DotSize = model.DotSize(prefs.dotSize.Selected)
	settings.Reminders.Enabled = prefs.remindersOn.Checked
	settings.Reminders.Message = prefs.message.Text
	settings.Reminders.SoundEnabled = prefs.reminderSound.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	if _, err := session.ParseHexColor(prefs.color.Text); err != nil {
		return settings, "Guide color must look like #38bdf8"
	}
	settings.PreferredColor = prefs.color.Text

	minutes, ok := parsePositiveInt(prefs.interval.Text)
	if !ok || minutes > 24*60 {
		return settings, "Reminder interval must be between 1 and 1440 minutes"
	}
	settings.Reminders.IntervalMinutes = minutes

	if _, err := model.ParseClock(prefs.startTime.Text); err != nil {
		return settings, "Start time must be HH:MM"
	}
	if _, err := model.ParseClock(prefs.endTime.Text); err != nil {
		return settings, "End time must be HH:MM"
	}
	settings.Reminders.StartTime = prefs.startTime.Text
	settings.Reminders.EndTime = prefs.endTime.Text
	return settings, ""
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
