// Package checkin provides the daily wellness check-in form.
package checkin

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"visionary/internal/core/model"
)

// Window is the check-in form.
type Window struct {
	window   fyne.Window
	onSave   func(model.CheckIn) error
	errLabel *widget.Label

	clarity   *rating
	strain    *rating
	dryness   *rating
	sleep     *rating
	headaches *widget.Check
	screen    *widget.Entry
	outdoor   *widget.Entry
	notes     *widget.Entry
}

// rating is a 1..10 slider with its value label.
type rating struct {
	slider *widget.Slider
	value  *widget.Label
}

func newRating() *rating {
	r := &rating{slider: widget.NewSlider(1, 10), value: widget.NewLabel("")}
	r.slider.Step = 1
	r.slider.OnChanged = func(value float64) {
		r.value.SetText(strconv.Itoa(int(value)))
	}
	return r
}

func (r *rating) set(value int) {
	r.slider.SetValue(float64(value))
	r.value.SetText(strconv.Itoa(value))
}

func (r *rating) get() int {
	return int(r.slider.Value)
}

func (r *rating) row() fyne.CanvasObject {
	return container.NewBorder(nil, nil, nil, r.value, r.slider)
}

// New creates the check-in window. onSave persists the answers; its error is shown in the form.
func New(app fyne.App, onSave func(model.CheckIn) error) *Window {
	window := app.NewWindow("Daily Check-in")
	checkIn := &Window{
		window:    window,
		onSave:    onSave,
		errLabel:  widget.NewLabel(""),
		clarity:   newRating(),
		strain:    newRating(),
		dryness:   newRating(),
		sleep:     newRating(),
		headaches: widget.NewCheck("I had a headache today", nil),
		screen:    widget.NewEntry(),
		outdoor:   widget.NewEntry(),
		notes:     widget.NewMultiLineEntry(),
	}
	checkIn.errLabel.Importance = widget.DangerImportance
	checkIn.errLabel.Hide()
	checkIn.notes.SetPlaceHolder("Anything worth remembering?")

	form := widget.NewForm(
		widget.NewFormItem("Vision clarity", checkIn.clarity.row()),
		widget.NewFormItem("Eye strain", checkIn.strain.row()),
		widget.NewFormItem("Dryness", checkIn.dryness.row()),
		widget.NewFormItem("Sleep quality", checkIn.sleep.row()),
		widget.NewFormItem("Screen time (hours)", checkIn.screen),
		widget.NewFormItem("Outdoor time (minutes)", checkIn.outdoor),
		widget.NewFormItem("Notes", checkIn.notes),
	)

	saveButton := widget.NewButton("Save", checkIn.handleSave)
	saveButton.Importance = widget.HighImportance
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), widget.NewButton("Cancel", window.Hide))
	body := container.NewVBox(
		widget.NewLabel("How are your eyes today? 1 is low, 10 is high."),
		form,
		checkIn.headaches,
		checkIn.errLabel,
	)
	window.SetContent(container.NewBorder(nil, container.NewPadded(buttons), nil, nil, container.NewPadded(body)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(480, 560))

	checkIn.fill(model.DefaultCheckIn(nil))
	return checkIn
}

// Show opens the form prefilled from today's log, if any.
func (checkIn *Window) Show(today *model.DailyLog) {
	checkIn.fill(model.DefaultCheckIn(today))
	checkIn.errLabel.Hide()
	checkIn.window.Show()
	checkIn.window.RequestFocus()
}

func (checkIn *Window) fill(values model.CheckIn) {
	checkIn.clarity.set(values.VisionClarity)
	checkIn.strain.set(values.EyeStrain)
	checkIn.dryness.set(values.Dryness)
	checkIn.sleep.set(values.SleepQuality)
	checkIn.headaches.SetChecked(values.Headaches)
	checkIn.screen.SetText(strconv.FormatFloat(values.ScreenTimeHours, 'f', -1, 64))
	checkIn.outdoor.SetText(strconv.Itoa(values.OutdoorTimeMinutes))
	checkIn.notes.SetText(values.Notes)
}

func (checkIn *Window) collect() (model.CheckIn, error) {
	screen, err := strconv.ParseFloat(strings.TrimSpace(checkIn.screen.Text), 64)
	if err != nil {
		return model.CheckIn{}, errors.New("screen time must be a number of hours")
	}
	outdoor, err := strconv.Atoi(strings.TrimSpace(checkIn.outdoor.Text))
	if err != nil {
		return model.CheckIn{}, errors.New("outdoor time must be whole minutes")
	}
	values := model.CheckIn{
		VisionClarity:      checkIn.clarity.get(),
		EyeStrain:          checkIn.strain.get(),
		Dryness:            checkIn.dryness.get(),
		SleepQuality:       checkIn.sleep.get(),
		Headaches:          checkIn.headaches.Checked,
		ScreenTimeHours:    screen,
		OutdoorTimeMinutes: outdoor,
		Notes:              strings.TrimSpace(checkIn.notes.Text),
	}
	return values, values.Validate()
}

func (checkIn *Window) handleSave() {
	values, err := checkIn.collect()
	if err == nil && checkIn.onSave != nil {
		err = checkIn.onSave(values)
	}
	if err != nil {
		checkIn.errLabel.SetText(err.Error())
		checkIn.errLabel.Show()
		return
	}
	checkIn.window.Hide()
}
