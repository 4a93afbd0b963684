// Package tray manages the system tray menu, the only user-facing surface of
// the tracker.
package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnTogglePause     func()
	OnPauseFor        func(time.Duration)
	OnOpenReport      func()
	OnToggleAutostart func(enabled bool)
	OnQuit            func()
}

// Manager owns the tray menu state.
type Manager struct {
	app           desktop.App
	statusItem    *fyne.MenuItem
	pauseItem     *fyne.MenuItem
	pauseFor      *fyne.MenuItem
	reportItem    *fyne.MenuItem
	autostartItem *fyne.MenuItem
	callbacks     Callbacks
	paused        bool
	autostart     bool
	statusLabel   string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks, autostart bool) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		autostart: autostart,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.pauseItem = fyne.NewMenuItem("Pause tracking", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})

	manager.pauseFor = fyne.NewMenuItem("Pause for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("",
		manager.pauseForItem(15*time.Minute, "15 minutes"),
		manager.pauseForItem(30*time.Minute, "30 minutes"),
		manager.pauseForItem(60*time.Minute, "1 hour"),
	)

	manager.reportItem = fyne.NewMenuItem("Open today's report", func() {
		if manager.callbacks.OnOpenReport != nil {
			manager.callbacks.OnOpenReport()
		}
	})

	manager.autostartItem = fyne.NewMenuItem("Start with system", func() {
		manager.autostart = !manager.autostart
		if manager.callbacks.OnToggleAutostart != nil {
			manager.callbacks.OnToggleAutostart(manager.autostart)
		}
		manager.refreshMenu()
	})
	manager.autostartItem.Checked = autostart

	manager.refreshMenu()
	return manager
}

func (manager *Manager) pauseForItem(duration time.Duration, label string) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnPauseFor != nil {
			manager.callbacks.OnPauseFor(duration)
		}
	})
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates the pause toggle label.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume tracking"
	} else {
		manager.pauseItem.Label = "Pause tracking"
	}
	manager.pauseFor.Disabled = paused
	manager.refreshStatus()
}

// SetAutostart updates the autostart check mark.
func (manager *Manager) SetAutostart(enabled bool) {
	manager.autostart = enabled
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused && status != "Paused" {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// refreshMenu rebuilds the tray menu. Fyne does not repaint label changes on
// existing items, the menu has to be set again.
func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.autostartItem.Checked = manager.autostart
	manager.app.SetSystemTrayMenu(fyne.NewMenu("StandUpTracker",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.pauseFor,
		fyne.NewMenuItemSeparator(),
		manager.reportItem,
		manager.autostartItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
