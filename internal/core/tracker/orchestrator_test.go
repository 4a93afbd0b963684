package tracker

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deni-m/standupTracker/internal/core/activity"
	"github.com/deni-m/standupTracker/internal/core/model"
	"github.com/deni-m/standupTracker/internal/core/reminder"
)

type fakeIdleSensor struct {
	seconds int
	err     error
	locked  bool
}

func (sensor *fakeIdleSensor) IdleSeconds() (int, error) {
	return sensor.seconds, sensor.err
}

func (sensor *fakeIdleSensor) IsLocked() bool {
	return sensor.locked
}

type fakeWindowSensor struct {
	sample *model.ActiveSample
	err    error
}

func (sensor *fakeWindowSensor) CaptureActiveSample() (*model.ActiveSample, error) {
	if sensor.err != nil {
		return nil, sensor.err
	}
	if sensor.sample == nil {
		return nil, nil
	}
	snapshot := *sensor.sample
	return &snapshot, nil
}

type memorySink struct {
	mu      sync.Mutex
	samples []model.ActiveSample
	markers []string
}

func (sink *memorySink) Append(sample model.ActiveSample) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.samples = append(sink.samples, sample)
	return nil
}

func (sink *memorySink) LogSessionStart() error {
	return sink.mark("SESSION_START")
}

func (sink *memorySink) LogBreakStart() error {
	return sink.mark("BREAK_START")
}

func (sink *memorySink) LogSessionEndAndDailyTotal() error {
	return sink.mark("SESSION_END")
}

func (sink *memorySink) mark(marker string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.markers = append(sink.markers, marker)
	return nil
}

func (sink *memorySink) markerList() []string {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]string(nil), sink.markers...)
}

func (sink *memorySink) sampleList() []model.ActiveSample {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]model.ActiveSample(nil), sink.samples...)
}

func testConfig() model.TrackerConfig {
	return model.TrackerConfig{
		BreakAfter:             55 * time.Minute,
		IdleThreshold:          10 * time.Minute,
		GraceBeforeBreak:       20 * time.Second,
		ReminderRepeat:         5 * time.Minute,
		TickInterval:           5 * time.Second,
		ActiveWorkApplications: []string{"zoom"},
	}
}

func newTestOrchestrator(idle *fakeIdleSensor, windows *fakeWindowSensor) (*Orchestrator, *memorySink) {
	config := testConfig()
	machine := activity.NewMachine(config)
	scheduler := reminder.New(config, nil)
	sink := &memorySink{}
	return New(machine, scheduler, idle, windows, sink, config), sink
}

func TestTickStartsSessionAndOpensSample(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())

	if got := orchestrator.machine.State(); got != activity.StateActive {
		t.Fatalf("state = %v, want Active", got)
	}
	if markers := sink.markerList(); len(markers) != 1 || markers[0] != "SESSION_START" {
		t.Errorf("markers = %v, want [SESSION_START]", markers)
	}
	if orchestrator.sampleSnapshot() == nil {
		t.Error("no window sample open after session start")
	}
}

func TestActiveWorkOverrideKeepsSessionAlive(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "zoom", Title: "Daily sync"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())

	idle.seconds = 700
	orchestrator.tick(time.Now())

	if got := orchestrator.machine.State(); got != activity.StateActive {
		t.Fatalf("allow-listed window must suppress the idle timeout, state = %v", got)
	}
	for _, marker := range sink.markerList() {
		if marker == "BREAK_START" {
			t.Error("break logged despite active-work override")
		}
	}
}

func TestIdleTimeoutClosesSampleAndLogsBreak(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())

	idle.seconds = 700
	orchestrator.tick(time.Now())

	if got := orchestrator.machine.State(); got != activity.StateIdle {
		t.Fatalf("state = %v, want Idle", got)
	}
	if markers := sink.markerList(); len(markers) != 2 || markers[1] != "BREAK_START" {
		t.Errorf("markers = %v, want [SESSION_START BREAK_START]", markers)
	}
	samples := sink.sampleList()
	if len(samples) != 1 || samples[0].Process != "code" {
		t.Fatalf("samples = %+v, want the open sample flushed once", samples)
	}
	if orchestrator.sampleSnapshot() != nil {
		t.Error("sample still open after the break started")
	}
}

func TestWindowChangeRollsSampleOver(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())
	orchestrator.tick(time.Now())
	if got := len(sink.sampleList()); got != 0 {
		t.Fatalf("unchanged window flushed %d samples", got)
	}

	windows.sample = &model.ActiveSample{Process: "firefox", Title: "docs"}
	orchestrator.tick(time.Now())

	samples := sink.sampleList()
	if len(samples) != 1 || samples[0].Process != "code" {
		t.Fatalf("samples = %+v, want the previous window flushed", samples)
	}
	current := orchestrator.sampleSnapshot()
	if current == nil || current.Process != "firefox" {
		t.Errorf("open sample = %+v, want the new window", current)
	}
}

func TestIdleSensorErrorAbortsTick(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())

	idle.err = errors.New("sensor offline")
	idle.seconds = 700
	orchestrator.tick(time.Now())

	if got := orchestrator.machine.State(); got != activity.StateActive {
		t.Errorf("failed tick must not transition, state = %v", got)
	}
	for _, marker := range sink.markerList() {
		if marker == "BREAK_START" {
			t.Error("failed tick logged a break")
		}
	}
}

func TestSetPausedFlushesSample(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.tick(time.Now())
	orchestrator.SetPaused(true)

	if got := len(sink.sampleList()); got != 1 {
		t.Errorf("pause flushed %d samples, want 1", got)
	}
	if orchestrator.Display() != "Paused" {
		t.Errorf("display = %q, want Paused", orchestrator.Display())
	}
}

func TestCloseWritesSessionEnd(t *testing.T) {
	idle := &fakeIdleSensor{}
	windows := &fakeWindowSensor{sample: &model.ActiveSample{Process: "code", Title: "main.go"}}
	orchestrator, sink := newTestOrchestrator(idle, windows)

	orchestrator.Start()
	orchestrator.tick(time.Now())
	orchestrator.Close()

	markers := sink.markerList()
	if len(markers) == 0 || markers[len(markers)-1] != "SESSION_END" {
		t.Errorf("markers = %v, want SESSION_END last", markers)
	}
	if got := len(sink.sampleList()); got != 1 {
		t.Errorf("close flushed %d samples, want 1", got)
	}
}

func TestDisplayTruncation(t *testing.T) {
	exact := strings.Repeat("a", displayBudget)
	if got := truncateDisplay(exact); got != exact {
		t.Errorf("text at the budget must pass through, got %q", got)
	}

	long := strings.Repeat("a", displayBudget+20)
	got := truncateDisplay(long)
	if len(got) != displayBudget {
		t.Errorf("truncated length = %d, want %d", len(got), displayBudget)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text %q misses the ellipsis", got)
	}
}
