// Package tray builds the system tray menu.
package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"visionary/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartRoutine  func(routineID string)
	OnCheckIn       func()
	OnAnalytics     func()
	OnToggleComfort func()
	OnComfort       func()
	OnPreferences   func()
	OnToggleReminds func()
	OnPauseFor      func(time.Duration)
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	routines    []model.Routine
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	comfortItem *fyne.MenuItem
	paused      bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, routines []model.Routine, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		routines:    routines,
		statusLabel: "starting...",
	}
	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.pauseItem = fyne.NewMenuItem("Pause reminders", func() {
		if manager.callbacks.OnToggleReminds != nil {
			manager.callbacks.OnToggleReminds()
		}
	})
	manager.comfortItem = fyne.NewMenuItem("Eye comfort filter", func() {
		if manager.callbacks.OnToggleComfort != nil {
			manager.callbacks.OnToggleComfort()
		}
	})
	manager.refreshStatus()
	return manager
}

// Menu builds the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	routineItems := make([]*fyne.MenuItem, 0, len(manager.routines))
	for _, routine := range manager.routines {
		id := routine.ID
		label := fmt.Sprintf("%s (%d min)", routine.Name, routine.Minutes())
		routineItems = append(routineItems, fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnStartRoutine != nil {
				manager.callbacks.OnStartRoutine(id)
			}
		}))
	}
	start := fyne.NewMenuItem("Start routine", nil)
	start.ChildMenu = fyne.NewMenu("", routineItems...)

	pauseFor := fyne.NewMenuItem("Pause reminders for...", nil)
	pauseFor.ChildMenu = fyne.NewMenu("",
		manager.pauseForItem("30 minutes", 30*time.Minute),
		manager.pauseForItem("1 hour", time.Hour),
		manager.pauseForItem("2 hours", 2*time.Hour),
	)

	return fyne.NewMenu("Visionary",
		manager.statusItem,
		start,
		manager.item("Daily check-in", manager.callbacks.OnCheckIn),
		manager.item("Analytics", manager.callbacks.OnAnalytics),
		fyne.NewMenuItemSeparator(),
		manager.comfortItem,
		manager.item("Eye comfort...", manager.callbacks.OnComfort),
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		pauseFor,
		manager.item("Preferences", manager.callbacks.OnPreferences),
		fyne.NewMenuItemSeparator(),
		manager.item("Quit", manager.callbacks.OnQuit),
	)
}

// SetRoutines replaces the routines offered in the menu.
func (manager *Manager) SetRoutines(routines []model.Routine) {
	manager.routines = routines
	manager.refreshMenu()
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume reminders"
	} else {
		manager.pauseItem.Label = "Pause reminders"
	}
	manager.refreshStatus()
}

// SetComfort shows whether the warm filter is on.
func (manager *Manager) SetComfort(active bool) {
	manager.comfortItem.Checked = active
	manager.refreshMenu()
}

func (manager *Manager) item(label string, callback func()) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if callback != nil {
			callback()
		}
	})
}

func (manager *Manager) pauseForItem(label string, duration time.Duration) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnPauseFor != nil {
			manager.callbacks.OnPauseFor(duration)
		}
	})
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Reminders: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
