package activity

import (
	"testing"
	"time"

	"github.com/deni-m/standupTracker/internal/core/model"
)

func testConfig() model.TrackerConfig {
	return model.TrackerConfig{
		BreakAfter:       55 * time.Minute,
		IdleThreshold:    10 * time.Minute,
		GraceBeforeBreak: 20 * time.Second,
		ReminderRepeat:   5 * time.Minute,
		TickInterval:     5 * time.Second,
	}
}

// testClock lets tests drive the machine's clock tick by tick.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (clock *testClock) now() time.Time {
	return clock.current
}

func (clock *testClock) advance(delta time.Duration) {
	clock.current = clock.current.Add(delta)
}

func newTestMachine() (*Machine, *testClock, *[]Event) {
	clock := newTestClock()
	machine := NewMachine(testConfig())
	machine.now = clock.now

	var events []Event
	machine.Subscribe(func(event Event) {
		events = append(events, event)
	})
	return machine, clock, &events
}

func eventsOfType(events []Event, eventType EventType) []Event {
	var matched []Event
	for _, event := range events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func TestFirstActivationArmsReminderClock(t *testing.T) {
	machine, clock, events := newTestMachine()

	result := machine.ProcessTick(0, false)

	if result.State != StateActive || !result.StateChanged {
		t.Fatalf("expected transition to Active, got %+v", result)
	}
	if got := machine.ActiveStart(); !got.Equal(clock.current) {
		t.Errorf("ActiveStart = %v, want %v", got, clock.current)
	}
	want := clock.current.Add(55 * time.Minute)
	if got := machine.NextReminderAt(); !got.Equal(want) {
		t.Errorf("NextReminderAt = %v, want %v", got, want)
	}
	if started := eventsOfType(*events, EventSessionStarted); len(started) != 1 {
		t.Errorf("expected 1 SessionStarted event, got %d", len(started))
	}
}

func TestGenuineBreakResetsReminderClock(t *testing.T) {
	machine, clock, events := newTestMachine()

	machine.ProcessTick(0, false)
	firstDeadline := machine.NextReminderAt()

	clock.advance(20 * time.Minute)
	result := machine.ProcessTick(600, false)
	if result.State != StateIdle {
		t.Fatalf("expected Idle after threshold, got %v", result.State)
	}
	if breaks := eventsOfType(*events, EventBreakStarted); len(breaks) != 1 {
		t.Fatalf("expected 1 BreakStarted event, got %d", len(breaks))
	} else if breaks[0].Duration != 20*time.Minute {
		t.Errorf("break event duration = %v, want 20m", breaks[0].Duration)
	}

	clock.advance(15 * time.Minute)
	result = machine.ProcessTick(0, false)
	if result.State != StateActive {
		t.Fatalf("expected Active after resume, got %v", result.State)
	}
	want := clock.current.Add(55 * time.Minute)
	got := machine.NextReminderAt()
	if !got.Equal(want) {
		t.Errorf("NextReminderAt = %v, want %v", got, want)
	}
	if got.Equal(firstDeadline) {
		t.Error("reminder clock was not reset after a genuine break")
	}
}

func TestShortIdleDoesNotResetReminderClock(t *testing.T) {
	machine, clock, _ := newTestMachine()

	machine.ProcessTick(0, false)
	deadline := machine.NextReminderAt()
	start := machine.ActiveStart()

	clock.advance(5 * time.Minute)
	result := machine.ProcessTick(300, false)
	if result.State != StateActive || result.StateChanged {
		t.Fatalf("5 minutes of idle must stay Active, got %+v", result)
	}

	clock.advance(time.Minute)
	machine.ProcessTick(0, false)
	if got := machine.NextReminderAt(); !got.Equal(deadline) {
		t.Errorf("NextReminderAt changed to %v after short idle, want %v", got, deadline)
	}
	if got := machine.ActiveStart(); !got.Equal(start) {
		t.Errorf("ActiveStart changed to %v after short idle, want %v", got, start)
	}
}

func TestLockFromActiveCountsAsBreak(t *testing.T) {
	machine, clock, events := newTestMachine()

	machine.ProcessTick(0, false)

	clock.advance(10 * time.Minute)
	result := machine.ProcessTick(0, true)
	if result.State != StateLocked {
		t.Fatalf("expected Locked, got %v", result.State)
	}
	if breaks := eventsOfType(*events, EventBreakStarted); len(breaks) != 1 {
		t.Fatalf("lock while active must emit BreakStarted, got %d", len(breaks))
	}

	clock.advance(5 * time.Minute)
	machine.ProcessTick(0, false)
	want := clock.current.Add(55 * time.Minute)
	if got := machine.NextReminderAt(); !got.Equal(want) {
		t.Errorf("unlock did not reset the reminder clock: got %v, want %v", got, want)
	}
}

func TestIdleFromLockedEmitsNoBreak(t *testing.T) {
	machine, clock, events := newTestMachine()

	machine.ProcessTick(0, false)
	machine.ProcessTick(0, true)
	before := len(eventsOfType(*events, EventBreakStarted))

	clock.advance(time.Hour)
	result := machine.ProcessTick(3600, false)
	if result.State != StateIdle {
		t.Fatalf("expected Idle, got %v", result.State)
	}
	if after := len(eventsOfType(*events, EventBreakStarted)); after != before {
		t.Errorf("Locked to Idle must not emit another BreakStarted, got %d extra", after-before)
	}
}

func TestPauseEmitsExactlyOneStateChange(t *testing.T) {
	machine, _, events := newTestMachine()

	machine.ProcessTick(0, false)
	*events = nil

	machine.SetPaused(true)
	machine.SetPaused(true)

	changes := eventsOfType(*events, EventStateChanged)
	if len(changes) != 1 {
		t.Fatalf("expected exactly 1 StateChanged for double pause, got %d", len(changes))
	}
	if changes[0].State != StatePaused {
		t.Errorf("pause event state = %v, want Paused", changes[0].State)
	}

	result := machine.ProcessTick(0, false)
	if result.State != StatePaused || result.ShouldContinue {
		t.Errorf("ticks while paused must be inert, got %+v", result)
	}

	*events = nil
	machine.SetPaused(false)
	if len(*events) != 0 {
		t.Errorf("unpause alone must not emit events, got %d", len(*events))
	}

	result = machine.ProcessTick(0, false)
	if result.State != StateActive {
		t.Errorf("first tick after unpause should re-evaluate, got %v", result.State)
	}
}

func TestNegativeIdleClamped(t *testing.T) {
	machine, _, _ := newTestMachine()

	result := machine.ProcessTick(-30, false)
	if result.State != StateActive {
		t.Errorf("negative idle must behave as zero, got %v", result.State)
	}
}

func TestShouldPreventIdleForActiveWork(t *testing.T) {
	config := testConfig()
	config.ActiveWorkApplications = []string{"zoom", " OBS "}
	machine := NewMachine(config)

	tests := []struct {
		name   string
		sample *model.ActiveSample
		want   bool
	}{
		{"nil sample", nil, false},
		{"allow-listed process", &model.ActiveSample{Process: "zoom.exe"}, true},
		{"allow-list case and spaces", &model.ActiveSample{Process: "obs64"}, true},
		{"title marker", &model.ActiveSample{Process: "firefox", Title: "Talk - YouTube"}, true},
		{"meeting title", &model.ActiveSample{Process: "chrome", Title: "meet.google.com/abc"}, true},
		{"plain editor", &model.ActiveSample{Process: "code", Title: "main.go"}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := machine.ShouldPreventIdleForActiveWork(test.sample); got != test.want {
				t.Errorf("ShouldPreventIdleForActiveWork(%+v) = %v, want %v", test.sample, got, test.want)
			}
		})
	}
}
