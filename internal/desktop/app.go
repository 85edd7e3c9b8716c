// Package desktop wires the tray application: windows, reminders, storage and cues.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"visionary/internal/core/catalog"
	"visionary/internal/core/comfort"
	"visionary/internal/core/cue"
	"visionary/internal/core/journal"
	"visionary/internal/core/model"
	"visionary/internal/core/session"
	"visionary/internal/platform"
	"visionary/internal/reminder"
	"visionary/internal/storage"
	"visionary/internal/ui/analytics"
	"visionary/internal/ui/animation"
	"visionary/internal/ui/checkin"
	comfortwindow "visionary/internal/ui/comfort"
	"visionary/internal/ui/overlay"
	"visionary/internal/ui/preferences"
	"visionary/internal/ui/tray"
	"visionary/resources"
)

const (
	// AppName names the config directory, the instance lock and the login item.
	AppName = "Visionary"
	appID   = "app.visionary.desktop"
)

// Options configures the desktop application.
type Options struct {
	ConfigDir string
	Logger    *zap.Logger
}

// App holds the running desktop application.
type App struct {
	options   Options
	logger    *zap.Logger
	fyneApp   fyne.App
	tray      fynedesktop.App
	platform  platform.Service
	settings  model.UserSettings
	routines  *storage.RoutineStore
	journal   *journal.Journal
	player    *platform.CuePlayer
	cues      *cue.Gated
	scheduler *reminder.Scheduler
	comfort   *comfort.Controller
	logStore  *storage.LogStore

	home        fyne.Window
	homeList    *fyne.Container
	overlay     *overlay.Window
	preferences *preferences.Window
	checkIn     *checkin.Window
	analytics   *analytics.Window
	comfortView *comfortwindow.Window
	trayMenu    *tray.Manager
	pauseTimer  *time.Timer
	paused      bool
}

// Run starts the desktop application and blocks until it quits. A second launch
// activates the running instance and returns nil.
func Run(options Options) error {
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	logger := options.Logger

	guard, err := platform.AcquireSingleInstance(AppName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info("already running, activated the existing instance")
		return nil
	}
	if err != nil {
		return fmt.Errorf("acquire single instance: %w", err)
	}
	defer guard.Release()

	settings, err := storage.LoadSettings(options.ConfigDir)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}
	logStore, err := storage.OpenLogStore(filepath.Join(options.ConfigDir, storage.JournalFileName), logger)
	if err != nil {
		return err
	}
	defer logStore.Close()

	player := platform.NewCuePlayer(logger)
	defer player.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))
	trayApp, ok := fyneApp.(fynedesktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	application := &App{
		options:   options,
		logger:    logger,
		fyneApp:   fyneApp,
		tray:      trayApp,
		platform:  platform.NewService(),
		settings:  settings,
		routines:  storage.NewRoutineStore(options.ConfigDir),
		journal:   journal.New(logStore, logger),
		player:    player,
		cues:      cue.NewGated(cue.Logged(player, logger), settings),
		scheduler: reminder.New(settings.ReminderConfig(), reminder.Config{TickInterval: time.Second, Logger: logger}),
		comfort:   comfort.New(settings.Comfort, comfort.Config{Store: logStore, Logger: logger}),
		logStore:  logStore,
	}
	application.build()
	if err := platform.ReconcileAutostart(application.platform, AppName, settings.LaunchAtLogin); err != nil {
		logger.Warn("launch at login out of sync", zap.Error(err))
	}

	go guard.Serve(func() {
		fyne.Do(application.showHome)
	})
	go application.followReminders(application.scheduler.Subscribe(8))
	application.scheduler.SetIdleChecker(platform.NewIdleProvider())
	application.scheduler.Start()
	defer application.scheduler.Stop()
	go application.followComfort(application.comfort.Subscribe(8))
	application.comfort.Start()
	defer application.comfort.Stop()

	logger.Info("desktop app started", zap.String("config_dir", options.ConfigDir))
	fyneApp.Run()
	return nil
}

func (application *App) build() {
	application.overlay = overlay.New(application.fyneApp, overlay.Config{
		Animation: animation.DefaultConfig(),
		Logger:    application.logger,
	})
	application.preferences = preferences.New(application.fyneApp, application.settings, application.saveSettings)
	application.checkIn = checkin.New(application.fyneApp, application.saveCheckIn)
	application.analytics = analytics.New(application.fyneApp, application.journal, application.logger)
	application.comfortView = comfortwindow.New(application.fyneApp, application.settings.Comfort, application.logStore, application.saveComfort, application.logger)
	application.overlay.SetTint(application.settings.Comfort.Enabled, application.settings.Comfort.TintColor())

	application.home = application.fyneApp.NewWindow(AppName)
	application.homeList = container.NewVBox()
	application.home.SetContent(container.NewPadded(container.NewVScroll(application.homeList)))
	application.home.SetCloseIntercept(application.home.Hide)
	application.home.Resize(fyne.NewSize(380, 420))
	application.tray.SetSystemTrayWindow(application.home)

	application.trayMenu = tray.New(application.tray, application.allRoutines(), tray.Callbacks{
		OnStartRoutine:  application.startRoutine,
		OnCheckIn:       application.showCheckIn,
		OnAnalytics:     application.analytics.Show,
		OnToggleComfort: func() { application.comfort.Toggle() },
		OnComfort:       application.comfortView.Show,
		OnPreferences:   application.preferences.Show,
		OnToggleReminds: application.toggleReminders,
		OnPauseFor:      application.pauseRemindersFor,
		OnQuit:          application.quit,
	})
	application.trayMenu.SetComfort(application.settings.Comfort.Enabled)
	application.tray.SetSystemTrayIcon(resources.MustLogo(resources.LogoActive))
	application.refreshHome()
}

func (application *App) allRoutines() []model.Routine {
	routines := catalog.Routines()
	custom, err := application.routines.List()
	if err != nil {
		application.logger.Warn("custom routines unreadable", zap.Error(err))
		return routines
	}
	return append(routines, custom...)
}

func (application *App) refreshHome() {
	application.homeList.RemoveAll()
	application.homeList.Add(widget.NewLabelWithStyle("Start a routine", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	routines := application.allRoutines()
	application.trayMenu.SetRoutines(routines)
	for _, routine := range routines {
		id := routine.ID
		label := fmt.Sprintf("%s (%d min)", routine.Name, routine.Minutes())
		application.homeList.Add(widget.NewButton(label, func() {
			application.startRoutine(id)
		}))
	}
	application.homeList.Add(widget.NewSeparator())
	application.homeList.Add(widget.NewButton("Daily check-in", application.showCheckIn))
	application.homeList.Add(widget.NewButton("Analytics", application.analytics.Show))
	application.homeList.Add(widget.NewButton("Eye comfort", application.comfortView.Show))
	application.homeList.Add(widget.NewButton("Preferences", application.preferences.Show))
	application.homeList.Refresh()
}

func (application *App) showHome() {
	application.refreshHome()
	application.home.Show()
	application.home.RequestFocus()
}

func (application *App) startRoutine(id string) {
	custom, err := application.routines.List()
	if err != nil {
		application.logger.Warn("custom routines unreadable", zap.Error(err))
	}
	routine, err := catalog.Routine(id, custom)
	if err != nil {
		application.logger.Error("start routine", zap.Error(err))
		return
	}
	run, err := session.New(routine, session.Options{
		Cues:       application.cues,
		Settings:   application.settings,
		Logger:     application.logger,
		OnComplete: journal.CompletionRecorder(application.journal, routine, time.Now, application.logger),
	})
	if err != nil {
		application.logger.Error("start routine", zap.String("routine", id), zap.Error(err))
		dialog.ShowError(err, application.home)
		return
	}
	application.overlay.Play(run, application.settings)
}

func (application *App) showCheckIn() {
	today, err := application.journal.Today(context.Background(), time.Now())
	if err != nil {
		application.logger.Warn("load today's log", zap.Error(err))
	}
	application.checkIn.Show(today)
}

func (application *App) saveCheckIn(values model.CheckIn) error {
	_, err := application.journal.RecordCheckIn(context.Background(), values, time.Now())
	return err
}

func (application *App) saveSettings(updated model.UserSettings) {
	previous := application.settings
	// The comfort window owns this section.
	updated.Comfort = previous.Comfort
	application.settings = updated
	application.persistSettings()
	application.cues.Update(updated)
	application.overlay.UpdateSettings(updated)
	application.scheduler.UpdateConfig(updated.ReminderConfig())

	if previous.LaunchAtLogin != updated.LaunchAtLogin {
		if err := platform.SyncAutostart(application.platform, AppName, updated.LaunchAtLogin); err != nil {
			application.logger.Error("update launch at login", zap.Error(err))
		}
	}
}

func (application *App) saveComfort(updated model.ComfortSettings) {
	application.settings.Comfort = updated
	application.persistSettings()
	application.comfort.UpdateSettings(updated)
}

func (application *App) persistSettings() {
	if err := storage.SaveSettings(application.options.ConfigDir, application.settings); err != nil {
		application.logger.Error("save settings", zap.Error(err))
		dialog.ShowError(err, application.home)
	}
}

func (application *App) followComfort(events <-chan comfort.Event) {
	for event := range events {
		switch event.Type {
		case comfort.EventStateChange:
			fyne.Do(func() {
				application.applyComfort(event)
			})
		case comfort.EventUsage:
			application.logger.Debug("comfort usage recorded", zap.Int("today_minutes", event.Minutes))
		case comfort.EventStoreError:
			application.logger.Warn("comfort usage not recorded", zap.Error(event.Err))
		}
	}
}

// applyComfort mirrors a filter switch into the UI and keeps switches made outside the window.
func (application *App) applyComfort(event comfort.Event) {
	application.overlay.SetTint(event.Active, event.Tint)
	application.trayMenu.SetComfort(event.Active)
	if event.Reason == comfort.ReasonSettings || application.settings.Comfort.Enabled == event.Active {
		return
	}
	application.settings.Comfort.Enabled = event.Active
	application.persistSettings()
	application.comfortView.UpdateSettings(application.settings.Comfort)
}

func (application *App) toggleReminders() {
	if application.paused {
		application.resumeReminders()
		return
	}
	application.pauseReminders()
}

func (application *App) pauseRemindersFor(duration time.Duration) {
	application.pauseReminders()
	application.pauseTimer = time.AfterFunc(duration, func() {
		fyne.Do(application.resumeReminders)
	})
}

func (application *App) pauseReminders() {
	application.stopPauseTimer()
	application.scheduler.Pause()
	application.paused = true
	application.tray.SetSystemTrayIcon(resources.MustLogo(resources.LogoPaused))
	application.trayMenu.SetPaused(true)
}

func (application *App) resumeReminders() {
	application.stopPauseTimer()
	application.scheduler.Resume()
	application.paused = false
	application.tray.SetSystemTrayIcon(resources.MustLogo(resources.LogoActive))
	application.trayMenu.SetPaused(false)
}

func (application *App) stopPauseTimer() {
	if application.pauseTimer != nil {
		application.pauseTimer.Stop()
		application.pauseTimer = nil
	}
}

func (application *App) followReminders(events <-chan reminder.Event) {
	for event := range events {
		switch event.Type {
		case reminder.EventReminder:
			fyne.Do(func() {
				application.remind(event.Message)
				application.trayMenu.SetStatus(StatusText(event))
			})
		case reminder.EventProgress, reminder.EventStateChange, reminder.EventIdleReset:
			fyne.Do(func() {
				application.trayMenu.SetStatus(StatusText(event))
			})
		case reminder.EventIdleError:
			application.logger.Debug("idle detection unavailable", zap.String("reason", event.Message))
		}
	}
}

func (application *App) remind(message string) {
	if message == "" {
		message = model.DefaultSettings().Reminders.Message
	}
	application.fyneApp.SendNotification(fyne.NewNotification(AppName, message))
	if application.settings.Reminders.SoundEnabled {
		cue.Play(cue.Safe(application.player, application.logger), cue.ToneReminder)
	}
}

func (application *App) quit() {
	if application.overlay.Active() {
		application.overlay.Hide()
	}
	application.stopPauseTimer()
	application.scheduler.Stop()
	application.comfort.Stop()
	application.fyneApp.Quit()
}

// StatusText renders a reminder event for the tray status line.
func StatusText(event reminder.Event) string {
	switch event.State {
	case reminder.StateDisabled:
		return "off"
	case reminder.StateOutOfWindow:
		return "outside active hours"
	case reminder.StatePaused:
		return "paused"
	case reminder.StateStopped:
		return "stopped"
	}
	remaining := event.Remaining
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("next in %02d:%02d", seconds/60, seconds%60)
}
