package main

import (
	"fmt"
	"log"
	"time"

	"github.com/deni-m/standupTracker/internal/core/activity"
	"github.com/deni-m/standupTracker/internal/core/reminder"
	"github.com/deni-m/standupTracker/internal/core/tracker"
	"github.com/deni-m/standupTracker/internal/platform"
	"github.com/deni-m/standupTracker/internal/report"
	"github.com/deni-m/standupTracker/internal/storage"
	"github.com/deni-m/standupTracker/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appName = "StandUpTracker"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings()
	if err != nil {
		log.Printf("settings: %v (continuing with defaults)", err)
	}

	fyneApp := app.NewWithID("com.standuptracker.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("StandUpTracker is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	presentation := platform.NewPresentationSensor()
	machine := activity.NewMachine(settings.Tracker)
	scheduler := reminder.New(settings.Tracker, presentation)
	activityLog := storage.NewActivityLog(settings.LogDir)
	orchestrator := tracker.New(machine, scheduler, platform.NewIdleSensor(), platform.NewWindowSensor(), activityLog, settings.Tracker)

	autostart, err := platform.NewAutostart()
	if err != nil {
		log.Printf("autostart unavailable: %v", err)
	}
	autostartEnabled := autostart != nil && autostart.Enabled()

	var pauseTimer *time.Timer

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnTogglePause: func() {
			if pauseTimer != nil {
				pauseTimer.Stop()
				pauseTimer = nil
			}
			paused := !orchestrator.Paused()
			orchestrator.SetPaused(paused)
			trayManager.SetPaused(paused)
		},
		OnPauseFor: func(duration time.Duration) {
			if pauseTimer != nil {
				pauseTimer.Stop()
			}
			orchestrator.SetPaused(true)
			trayManager.SetPaused(true)
			pauseTimer = time.AfterFunc(duration, func() {
				orchestrator.SetPaused(false)
				fyne.Do(func() {
					trayManager.SetPaused(false)
				})
			})
		},
		OnOpenReport: func() {
			go openTodayReport(settings)
		},
		OnToggleAutostart: func(enabled bool) {
			if autostart == nil {
				return
			}
			var err error
			if enabled {
				err = autostart.Enable()
			} else {
				err = autostart.Disable()
			}
			if err != nil {
				log.Printf("autostart: %v", err)
				trayManager.SetAutostart(autostart.Enabled())
				return
			}
			settings.Autostart = enabled
			if err := storage.SaveSettings(settings); err != nil {
				log.Printf("settings: %v", err)
			}
		},
		OnQuit: func() {
			orchestrator.Close()
			fyneApp.Quit()
		},
	}, autostartEnabled)

	orchestrator.OnDisplayChange(func(display string) {
		fyne.Do(func() {
			trayManager.SetStatus(display)
		})
	})

	scheduler.Subscribe(func(event reminder.Event) {
		if event.Muted {
			log.Printf("notification muted: %s", event.Reason)
			return
		}
		fyne.Do(func() {
			fyneApp.SendNotification(notificationFor(event))
		})
	})

	orchestrator.Start()
	trayManager.SetStatus(orchestrator.Display())
	fyneApp.Run()
}

func notificationFor(event reminder.Event) *fyne.Notification {
	switch event.Type {
	case reminder.EventGraceWarning:
		return fyne.NewNotification("Break coming up",
			fmt.Sprintf("Idle for %ds. Your break starts in %ds.", event.IdleSeconds, event.SecondsUntilBreak))
	default:
		minutes := int(event.SessionDuration.Minutes())
		return fyne.NewNotification("Time to stand up",
			fmt.Sprintf("You have been active for %d minutes. Take a short break.", minutes))
	}
}

func openTodayReport(settings storage.Settings) {
	parser := report.NewParser(settings.LogDir)
	day, err := parser.ParseDay(time.Now())
	if err != nil {
		log.Printf("report: %v", err)
		return
	}
	outputPath := report.DefaultOutputPath(settings.ReportDir, day.Date)
	written, err := report.RenderHTML(day, outputPath)
	if err != nil {
		log.Printf("report: %v", err)
		return
	}
	if err := platform.OpenPath(written); err != nil {
		log.Printf("report: %v", err)
	}
}
