package model

import "time"

// ActiveSample is one foreground-window observation. It is open while End is
// zero and closed when the orchestrator hands it to the activity log.
type ActiveSample struct {
	Process string
	Title   string
	Start   time.Time
	End     time.Time
}

// SameWindow reports whether two samples describe the same foreground window.
// Identity is process name plus exact title.
func (sample ActiveSample) SameWindow(other ActiveSample) bool {
	return sample.Process == other.Process && sample.Title == other.Title
}

// Duration returns the closed sample's length, zero while still open.
func (sample ActiveSample) Duration() time.Duration {
	if sample.End.IsZero() {
		return 0
	}
	return sample.End.Sub(sample.Start)
}

// TrackerConfig contains runtime settings for the activity tracking core.
type TrackerConfig struct {
	// BreakAfter is how long continuous activity runs before a reminder is due.
	BreakAfter time.Duration
	// IdleThreshold is the idle time that counts as a genuine break.
	IdleThreshold time.Duration
	// GraceBeforeBreak is the lead time for the grace warning before the
	// idle threshold registers a break.
	GraceBeforeBreak time.Duration
	// ReminderRepeat is the re-notify cadence once a reminder is overdue.
	ReminderRepeat time.Duration
	// TickInterval is the sampling cadence of the orchestrator loop.
	TickInterval time.Duration
	// MuteWhenPresenting suppresses notifications while a presentation or
	// screen share is detected.
	MuteWhenPresenting bool
	// ActiveWorkApplications lists process names and window-title markers
	// that suppress the idle timeout while foregrounded.
	ActiveWorkApplications []string
}

// DefaultTrackerConfig returns the stock thresholds.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		BreakAfter:         55 * time.Minute,
		IdleThreshold:      10 * time.Minute,
		GraceBeforeBreak:   20 * time.Second,
		ReminderRepeat:     5 * time.Minute,
		TickInterval:       5 * time.Second,
		MuteWhenPresenting: true,
		ActiveWorkApplications: []string{
			"zoom",
			"teams",
			"webex",
			"obs",
			"vlc",
			"mpv",
		},
	}
}

// Normalize fills non-positive durations with defaults.
func (config *TrackerConfig) Normalize() {
	defaults := DefaultTrackerConfig()
	if config.BreakAfter <= 0 {
		config.BreakAfter = defaults.BreakAfter
	}
	if config.IdleThreshold <= 0 {
		config.IdleThreshold = defaults.IdleThreshold
	}
	if config.GraceBeforeBreak <= 0 {
		config.GraceBeforeBreak = defaults.GraceBeforeBreak
	}
	if config.ReminderRepeat <= 0 {
		config.ReminderRepeat = defaults.ReminderRepeat
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
}
