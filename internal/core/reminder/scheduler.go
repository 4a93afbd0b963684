// Package reminder decides when break reminders and grace warnings become
// due. The scheduler owns no activity state: it consumes the timestamps and
// idle values it is given and emits events.
package reminder

import (
	"sync"
	"time"

	"github.com/deni-m/standupTracker/internal/core/model"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventReminderDue  EventType = "reminder_due"
	EventGraceWarning EventType = "grace_warning"
)

// Event represents a due reminder or grace warning. ReminderDue fires even
// when muted; UI layers must check Muted before surfacing a notification.
type Event struct {
	Type EventType
	// SessionDuration is the length of the running active session on
	// EventReminderDue.
	SessionDuration time.Duration
	// IdleSeconds and SecondsUntilBreak are set on EventGraceWarning.
	IdleSeconds       int
	SecondsUntilBreak int
	Muted             bool
	Reason            string
	At                time.Time
}

// DoNotDisturbChecker reports an active presentation, screen share or
// fullscreen condition.
type DoNotDisturbChecker interface {
	IsDoNotDisturb() bool
}

// Scheduler evaluates reminder and grace thresholds.
type Scheduler struct {
	mu                sync.Mutex
	config            model.TrackerConfig
	dnd               DoNotDisturbChecker
	graceBalloonShown bool
	listeners         []func(Event)
	now               func() time.Time
}

// New creates a scheduler. dnd may be nil, in which case nothing is ever
// muted.
func New(config model.TrackerConfig, dnd DoNotDisturbChecker) *Scheduler {
	config.Normalize()
	return &Scheduler{
		config: config,
		dnd:    dnd,
		now:    time.Now,
	}
}

// Subscribe registers an observer, called synchronously on the goroutine that
// performed the check.
func (scheduler *Scheduler) Subscribe(listener func(Event)) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.listeners = append(scheduler.listeners, listener)
}

// CheckReminder fires a ReminderDue event and returns true when the reminder
// clock has been reached. The event carries the running session duration and
// the mute status so the caller can still advance the schedule while muted.
func (scheduler *Scheduler) CheckReminder(activeStart, nextReminderAt time.Time) bool {
	scheduler.mu.Lock()
	now := scheduler.now()
	if nextReminderAt.IsZero() || now.Before(nextReminderAt) {
		scheduler.mu.Unlock()
		return false
	}
	muted, reason := scheduler.muteStatusLocked()
	event := Event{
		Type:            EventReminderDue,
		SessionDuration: now.Sub(activeStart),
		Muted:           muted,
		Reason:          reason,
		At:              now,
	}
	scheduler.mu.Unlock()

	scheduler.dispatch(event)
	return true
}

// CheckGraceWarning fires a GraceWarningDue event at most once per idle
// excursion while idleSeconds sits inside the grace window below the idle
// threshold. No-op unless the machine is currently Active.
func (scheduler *Scheduler) CheckGraceWarning(idleSeconds int, isActive bool) {
	if !isActive {
		return
	}

	scheduler.mu.Lock()
	thresholdSeconds := int(scheduler.config.IdleThreshold / time.Second)
	graceStart := scheduler.graceStartSecondsLocked()
	if scheduler.graceBalloonShown || idleSeconds < graceStart || idleSeconds >= thresholdSeconds {
		scheduler.mu.Unlock()
		return
	}
	scheduler.graceBalloonShown = true
	muted, reason := scheduler.muteStatusLocked()
	event := Event{
		Type:              EventGraceWarning,
		IdleSeconds:       idleSeconds,
		SecondsUntilBreak: thresholdSeconds - idleSeconds,
		Muted:             muted,
		Reason:            reason,
		At:                scheduler.now(),
	}
	scheduler.mu.Unlock()

	scheduler.dispatch(event)
}

// ResetGraceBalloonIfNeeded clears the shown flag once idle has dropped back
// below the grace window, re-arming the warning for the next excursion.
func (scheduler *Scheduler) ResetGraceBalloonIfNeeded(idleSeconds int) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if idleSeconds < scheduler.graceStartSecondsLocked() {
		scheduler.graceBalloonShown = false
	}
}

// ResetGraceBalloon unconditionally clears the shown flag. Called by the
// orchestrator on state changes into Idle, Locked or Active-from-break.
func (scheduler *Scheduler) ResetGraceBalloon() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.graceBalloonShown = false
}

// CheckMuteStatus reports whether notifications are currently muted and a
// diagnostic reason, empty when not muted.
func (scheduler *Scheduler) CheckMuteStatus() (bool, string) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.muteStatusLocked()
}

func (scheduler *Scheduler) muteStatusLocked() (bool, string) {
	if !scheduler.config.MuteWhenPresenting || scheduler.dnd == nil {
		return false, ""
	}
	if !scheduler.dnd.IsDoNotDisturb() {
		return false, ""
	}
	return true, "presentation or screen share active"
}

// graceStartSecondsLocked returns the idle value at which the grace window
// opens, never below 5 seconds.
func (scheduler *Scheduler) graceStartSecondsLocked() int {
	start := int((scheduler.config.IdleThreshold - scheduler.config.GraceBeforeBreak) / time.Second)
	if start < 5 {
		start = 5
	}
	return start
}

func (scheduler *Scheduler) dispatch(event Event) {
	scheduler.mu.Lock()
	listeners := append(([]func(Event))(nil), scheduler.listeners...)
	scheduler.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
