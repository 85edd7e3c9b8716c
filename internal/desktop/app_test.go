package desktop

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visionary/internal/core/comfort"
	"visionary/internal/core/cue"
	"visionary/internal/core/model"
	"visionary/internal/reminder"
	"visionary/internal/storage"
	"visionary/internal/ui/animation"
	comfortwindow "visionary/internal/ui/comfort"
	"visionary/internal/ui/overlay"
	"visionary/internal/ui/tray"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name  string
		event reminder.Event
		want  string
	}{
		{"countdown", reminder.Event{State: reminder.StateActive, Remaining: 12*time.Minute + 5*time.Second}, "next in 12:05"},
		{"negative", reminder.Event{State: reminder.StateActive, Remaining: -time.Second}, "next in 00:00"},
		{"disabled", reminder.Event{State: reminder.StateDisabled}, "off"},
		{"window", reminder.Event{State: reminder.StateOutOfWindow}, "outside active hours"},
		{"paused", reminder.Event{State: reminder.StatePaused}, "paused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.event))
		})
	}
}

func newComfortApp(t *testing.T) *App {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	settings := model.DefaultSettings()
	application := &App{
		options:  Options{ConfigDir: t.TempDir()},
		logger:   zap.NewNop(),
		fyneApp:  fyneApp,
		settings: settings,
		home:     fyneApp.NewWindow("home"),
		comfort:  comfort.New(settings.Comfort, comfort.Config{}),
		overlay:  overlay.New(fyneApp, overlay.Config{Animation: animation.DefaultConfig()}),
		trayMenu: tray.New(nil, nil, tray.Callbacks{}),
	}
	application.comfortView = comfortwindow.New(fyneApp, settings.Comfort, comfort.NewMemoryUsageStore(), application.saveComfort, nil)
	return application
}

func TestApplyComfortPersistsManualSwitch(t *testing.T) {
	application := newComfortApp(t)
	tint := application.settings.Comfort.TintColor()

	application.applyComfort(comfort.Event{Type: comfort.EventStateChange, Active: true, Tint: tint, Reason: comfort.ReasonManual})
	assert.True(t, application.settings.Comfort.Enabled)

	saved, err := storage.LoadSettings(application.options.ConfigDir)
	require.NoError(t, err)
	assert.True(t, saved.Comfort.Enabled)
}

func TestApplyComfortIgnoresSettingsEvents(t *testing.T) {
	application := newComfortApp(t)

	application.applyComfort(comfort.Event{Type: comfort.EventStateChange, Active: true, Reason: comfort.ReasonSettings})
	assert.False(t, application.settings.Comfort.Enabled)
}

func TestPreferencesKeepComfortSection(t *testing.T) {
	application := newComfortApp(t)
	application.cues = cue.NewGated(nil, application.settings)
	application.scheduler = reminder.New(application.settings.ReminderConfig(), reminder.Config{})
	comfortSettings := application.settings.Comfort
	comfortSettings.Opacity = 60
	application.saveComfort(comfortSettings)
	assert.Equal(t, 60, application.comfort.Settings().Opacity)

	// The preferences window still holds the settings it was opened with.
	updated := model.DefaultSettings()
	updated.SoundEnabled = false
	application.saveSettings(updated)

	saved, err := storage.LoadSettings(application.options.ConfigDir)
	require.NoError(t, err)
	assert.False(t, saved.SoundEnabled)
	assert.Equal(t, 60, saved.Comfort.Opacity)
}
