package activity

import (
	"strings"
	"sync"
	"time"

	"github.com/deni-m/standupTracker/internal/core/model"
)

// titleMarkers flag foreground windows that indicate passive watching such as
// a video call or a stream. Matching is case-insensitive substring.
var titleMarkers = []string{
	"meet.google",
	"zoom meeting",
	"webinar",
	"youtube",
	"twitch",
	"screen sharing",
}

// Machine is the canonical owner of activity state. It decides when an active
// session starts, when a genuine break has been taken and how the reminder
// clock is reset afterwards. All mutation goes through ProcessTick and
// SetPaused, which are mutually exclusive; listeners are invoked after the
// internal lock is released so a handler may safely call back into the
// machine.
type Machine struct {
	mu             sync.Mutex
	config         model.TrackerConfig
	state          State
	activeStart    time.Time
	nextReminderAt time.Time
	breakTaken     bool
	paused         bool
	listeners      []func(Event)
	now            func() time.Time
}

// NewMachine creates a machine in the Idle state.
func NewMachine(config model.TrackerConfig) *Machine {
	config.Normalize()
	return &Machine{
		config: config,
		state:  StateIdle,
		// The first activation must arm the reminder clock even though no
		// prior idle excursion was observed.
		breakTaken: true,
		now:        time.Now,
	}
}

// Subscribe registers an observer. Events are delivered synchronously on the
// goroutine that triggered the transition, in registration order.
func (machine *Machine) Subscribe(listener func(Event)) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.listeners = append(machine.listeners, listener)
}

// State returns the current activity state.
func (machine *Machine) State() State {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.state
}

// ActiveStart returns the start of the current active session. Meaningful
// only while the state is Active.
func (machine *Machine) ActiveStart() time.Time {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.activeStart
}

// NextReminderAt returns the time the next break reminder becomes due.
func (machine *Machine) NextReminderAt() time.Time {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.nextReminderAt
}

// ProcessTick feeds one sampled observation into the machine. idleSeconds
// must already be adjusted for the active-work override; negative input is a
// caller contract violation and is clamped to zero.
func (machine *Machine) ProcessTick(idleSeconds int, isSessionLocked bool) TickResult {
	if idleSeconds < 0 {
		idleSeconds = 0
	}

	machine.mu.Lock()
	now := machine.now()
	previous := machine.state
	var pending []Event

	switch {
	case machine.paused:
		// Pause overrides everything; SetPaused already forced the state.

	case isSessionLocked:
		if machine.state != StateLocked {
			pending = machine.leaveActiveLocked(now, pending)
			machine.state = StateLocked
			pending = append(pending, Event{
				Type:     EventStateChanged,
				OldState: previous,
				State:    StateLocked,
				Reason:   "session locked",
				At:       now,
			})
		}

	case time.Duration(idleSeconds)*time.Second >= machine.config.IdleThreshold:
		if machine.state != StateIdle {
			pending = machine.leaveActiveLocked(now, pending)
			machine.state = StateIdle
			pending = append(pending, Event{
				Type:     EventStateChanged,
				OldState: previous,
				State:    StateIdle,
				Reason:   "idle timeout",
				At:       now,
			})
		}

	default:
		if machine.state != StateActive {
			machine.state = StateActive
			machine.activeStart = now
			if machine.breakTaken {
				machine.nextReminderAt = machine.activeStart.Add(machine.config.BreakAfter)
			}
			machine.breakTaken = false
			pending = append(pending,
				Event{
					Type:  EventSessionStarted,
					State: StateActive,
					At:    now,
				},
				Event{
					Type:     EventStateChanged,
					OldState: previous,
					State:    StateActive,
					Reason:   "activity resumed",
					At:       now,
				})
		}
	}

	result := TickResult{
		State:          machine.state,
		Previous:       previous,
		StateChanged:   machine.state != previous,
		ShouldContinue: machine.state == StateActive,
	}
	machine.mu.Unlock()

	machine.dispatch(pending)
	return result
}

// leaveActiveLocked records the end of an active session when the machine
// moves out of Active into Idle or Locked. Caller must hold the lock.
func (machine *Machine) leaveActiveLocked(now time.Time, pending []Event) []Event {
	if machine.state != StateActive {
		return pending
	}
	machine.breakTaken = true
	return append(pending, Event{
		Type:     EventBreakStarted,
		OldState: StateActive,
		State:    machine.state,
		Duration: now.Sub(machine.activeStart),
		At:       now,
	})
}

// SetPaused toggles the pause override. Idempotent: a no-op when already in
// the requested pause state. Entering pause forces the state to Paused
// immediately; leaving pause does not transition by itself, the next
// ProcessTick evaluates normally as if pause never happened.
func (machine *Machine) SetPaused(paused bool) {
	machine.mu.Lock()
	if machine.paused == paused {
		machine.mu.Unlock()
		return
	}
	machine.paused = paused

	var pending []Event
	if paused {
		now := machine.now()
		previous := machine.state
		machine.state = StatePaused
		pending = append(pending, Event{
			Type:     EventStateChanged,
			OldState: previous,
			State:    StatePaused,
			Reason:   "paused",
			At:       now,
		})
	}
	machine.mu.Unlock()

	machine.dispatch(pending)
}

// Paused reports whether the pause override is set.
func (machine *Machine) Paused() bool {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.paused
}

// OnReminderShown advances the reminder clock by the repeat interval. The
// active session start and the break bookkeeping are untouched.
func (machine *Machine) OnReminderShown() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.nextReminderAt = machine.now().Add(machine.config.ReminderRepeat)
}

// ShouldPreventIdleForActiveWork reports whether the given foreground sample
// represents recognized passive work (video call, stream, player) for which
// the idle timeout must be suppressed. Pure predicate, no state is touched.
func (machine *Machine) ShouldPreventIdleForActiveWork(sample *model.ActiveSample) bool {
	if sample == nil {
		return false
	}
	process := strings.ToLower(sample.Process)
	for _, allowed := range machine.config.ActiveWorkApplications {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed != "" && strings.Contains(process, allowed) {
			return true
		}
	}
	title := strings.ToLower(sample.Title)
	for _, marker := range titleMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

func (machine *Machine) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	machine.mu.Lock()
	listeners := append(([]func(Event))(nil), machine.listeners...)
	machine.mu.Unlock()

	for _, event := range events {
		for _, listener := range listeners {
			listener(event)
		}
	}
}
