// Package tracker drives the activity state machine and the reminder
// scheduler from a periodic clock and feeds them externally observed idle,
// lock and window signals.
package tracker

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/deni-m/standupTracker/internal/core/activity"
	"github.com/deni-m/standupTracker/internal/core/model"
	"github.com/deni-m/standupTracker/internal/core/reminder"
)

// displayBudget is the character budget of constrained UI surfaces such as
// the tray tooltip.
const displayBudget = 63

// IdleSensor reports user inactivity and the session lock flag.
type IdleSensor interface {
	IdleSeconds() (int, error)
	IsLocked() bool
}

// WindowSensor captures the current foreground window. A nil sample with a
// nil error means no window could be observed.
type WindowSensor interface {
	CaptureActiveSample() (*model.ActiveSample, error)
}

// ActivitySink receives closed samples and session markers. Failures are the
// sink's own concern; the orchestrator logs and continues.
type ActivitySink interface {
	Append(sample model.ActiveSample) error
	LogSessionStart() error
	LogBreakStart() error
	LogSessionEndAndDailyTotal() error
}

// Orchestrator composes the state machine and the reminder scheduler, owns
// the open window sample and publishes the tray display string.
type Orchestrator struct {
	machine   *activity.Machine
	scheduler *reminder.Scheduler
	idle      IdleSensor
	windows   WindowSensor
	sink      ActivitySink
	interval  time.Duration
	threshold time.Duration

	mu               sync.Mutex
	currentSample    *model.ActiveSample
	display          string
	displayListeners []func(string)
	running          bool
	stopCh           chan struct{}
	doneCh           chan struct{}

	now func() time.Time
}

// New wires the orchestrator to its collaborators and subscribes to the
// machine's transitions for the persistence side effects.
func New(machine *activity.Machine, scheduler *reminder.Scheduler, idle IdleSensor, windows WindowSensor, sink ActivitySink, config model.TrackerConfig) *Orchestrator {
	config.Normalize()
	orchestrator := &Orchestrator{
		machine:   machine,
		scheduler: scheduler,
		idle:      idle,
		windows:   windows,
		sink:      sink,
		interval:  config.TickInterval,
		threshold: config.IdleThreshold,
		display:   "Starting...",
		now:       time.Now,
	}
	machine.Subscribe(orchestrator.onMachineEvent)
	return orchestrator
}

// OnDisplayChange registers an observer for the published display string.
func (orchestrator *Orchestrator) OnDisplayChange(listener func(string)) {
	orchestrator.mu.Lock()
	defer orchestrator.mu.Unlock()
	orchestrator.displayListeners = append(orchestrator.displayListeners, listener)
}

// Display returns the current display string.
func (orchestrator *Orchestrator) Display() string {
	orchestrator.mu.Lock()
	defer orchestrator.mu.Unlock()
	return orchestrator.display
}

// Start launches the ticking loop.
func (orchestrator *Orchestrator) Start() {
	orchestrator.mu.Lock()
	if orchestrator.running {
		orchestrator.mu.Unlock()
		return
	}
	orchestrator.running = true
	orchestrator.stopCh = make(chan struct{})
	orchestrator.doneCh = make(chan struct{})
	orchestrator.mu.Unlock()

	go orchestrator.run()
}

// Stop terminates the ticking loop and waits for an in-flight tick to finish
// so collaborators are never torn down underneath one.
func (orchestrator *Orchestrator) Stop() {
	orchestrator.mu.Lock()
	if !orchestrator.running {
		orchestrator.mu.Unlock()
		return
	}
	orchestrator.running = false
	close(orchestrator.stopCh)
	done := orchestrator.doneCh
	orchestrator.mu.Unlock()

	<-done
}

// Close stops the loop, flushes the open sample and writes the session-end
// marker with the daily total.
func (orchestrator *Orchestrator) Close() {
	orchestrator.Stop()
	orchestrator.closeSample(orchestrator.now())
	if err := orchestrator.sink.LogSessionEndAndDailyTotal(); err != nil {
		log.Printf("tracker: session end log: %v", err)
	}
}

// SetPaused toggles the pause override. Pausing flushes the open window
// sample; unpausing lets the next tick re-evaluate from reality.
func (orchestrator *Orchestrator) SetPaused(paused bool) {
	if paused {
		orchestrator.closeSample(orchestrator.now())
	}
	orchestrator.machine.SetPaused(paused)
	orchestrator.publishDisplay(orchestrator.now())
}

// Paused reports the pause override.
func (orchestrator *Orchestrator) Paused() bool {
	return orchestrator.machine.Paused()
}

func (orchestrator *Orchestrator) run() {
	defer close(orchestrator.doneCh)

	ticker := time.NewTicker(orchestrator.interval)
	defer ticker.Stop()

	for {
		select {
		case <-orchestrator.stopCh:
			return
		case tickTime := <-ticker.C:
			orchestrator.tick(tickTime)
		}
	}
}

// tick runs the per-sample pipeline. A failing or panicking sensor aborts
// only the current tick; the next one proceeds from reality as re-sampled.
func (orchestrator *Orchestrator) tick(now time.Time) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("tracker: tick recovered: %v", recovered)
		}
	}()

	idleSeconds, err := orchestrator.idle.IdleSeconds()
	if err != nil {
		log.Printf("tracker: idle sensor: %v", err)
		return
	}
	isLocked := orchestrator.idle.IsLocked()

	wasActive := orchestrator.machine.State() == activity.StateActive
	orchestrator.scheduler.CheckGraceWarning(idleSeconds, wasActive)

	effectiveIdle := idleSeconds
	if wasActive && orchestrator.overThreshold(idleSeconds) &&
		orchestrator.machine.ShouldPreventIdleForActiveWork(orchestrator.sampleSnapshot()) {
		// Treat idle as zero for this tick only; the real counter is left
		// untouched for future ticks.
		effectiveIdle = 0
	}

	result := orchestrator.machine.ProcessTick(effectiveIdle, isLocked)

	if result.StateChanged && (result.State == activity.StateIdle || result.State == activity.StateLocked) {
		orchestrator.scheduler.ResetGraceBalloon()
		orchestrator.closeSample(now)
	}

	if result.ShouldContinue {
		orchestrator.scheduler.ResetGraceBalloonIfNeeded(idleSeconds)
		orchestrator.trackWindow(now)
		if orchestrator.scheduler.CheckReminder(orchestrator.machine.ActiveStart(), orchestrator.machine.NextReminderAt()) {
			orchestrator.machine.OnReminderShown()
		}
	}

	orchestrator.publishDisplay(now)
}

func (orchestrator *Orchestrator) overThreshold(idleSeconds int) bool {
	return time.Duration(idleSeconds)*time.Second >= orchestrator.threshold
}

// onMachineEvent reacts to machine transitions: session markers are persisted
// and a fresh window sample is captured when a session starts.
func (orchestrator *Orchestrator) onMachineEvent(event activity.Event) {
	switch event.Type {
	case activity.EventSessionStarted:
		if err := orchestrator.sink.LogSessionStart(); err != nil {
			log.Printf("tracker: session start log: %v", err)
		}
		orchestrator.captureSample(event.At)
	case activity.EventBreakStarted:
		orchestrator.closeSample(event.At)
		if err := orchestrator.sink.LogBreakStart(); err != nil {
			log.Printf("tracker: break start log: %v", err)
		}
	}
}

// trackWindow compares the captured foreground window against the open
// sample and rolls the sample over on change.
func (orchestrator *Orchestrator) trackWindow(now time.Time) {
	captured, err := orchestrator.windows.CaptureActiveSample()
	if err != nil {
		log.Printf("tracker: window sensor: %v", err)
		return
	}
	if captured == nil {
		return
	}

	orchestrator.mu.Lock()
	current := orchestrator.currentSample
	orchestrator.mu.Unlock()

	if current == nil {
		orchestrator.openSample(captured, now)
		return
	}
	if current.SameWindow(*captured) {
		return
	}
	orchestrator.closeSample(now)
	orchestrator.openSample(captured, now)
}

func (orchestrator *Orchestrator) captureSample(now time.Time) {
	captured, err := orchestrator.windows.CaptureActiveSample()
	if err != nil {
		log.Printf("tracker: window sensor: %v", err)
		return
	}
	if captured == nil {
		return
	}
	orchestrator.closeSample(now)
	orchestrator.openSample(captured, now)
}

func (orchestrator *Orchestrator) openSample(sample *model.ActiveSample, now time.Time) {
	opened := *sample
	opened.Start = now
	opened.End = time.Time{}

	orchestrator.mu.Lock()
	orchestrator.currentSample = &opened
	orchestrator.mu.Unlock()
}

// closeSample flushes the open sample to the sink. Append failures drop the
// sample rather than retrying so logging never destabilizes timing logic.
func (orchestrator *Orchestrator) closeSample(now time.Time) {
	orchestrator.mu.Lock()
	sample := orchestrator.currentSample
	orchestrator.currentSample = nil
	orchestrator.mu.Unlock()

	if sample == nil {
		return
	}
	sample.End = now
	if err := orchestrator.sink.Append(*sample); err != nil {
		log.Printf("tracker: append sample: %v", err)
	}
}

func (orchestrator *Orchestrator) sampleSnapshot() *model.ActiveSample {
	orchestrator.mu.Lock()
	defer orchestrator.mu.Unlock()
	if orchestrator.currentSample == nil {
		return nil
	}
	snapshot := *orchestrator.currentSample
	return &snapshot
}

// publishDisplay recomputes the display string and notifies observers when it
// changed.
func (orchestrator *Orchestrator) publishDisplay(now time.Time) {
	text := orchestrator.displayText(now)

	orchestrator.mu.Lock()
	if text == orchestrator.display {
		orchestrator.mu.Unlock()
		return
	}
	orchestrator.display = text
	listeners := append(([]func(string))(nil), orchestrator.displayListeners...)
	orchestrator.mu.Unlock()

	for _, listener := range listeners {
		listener(text)
	}
}

func (orchestrator *Orchestrator) displayText(now time.Time) string {
	var text string
	switch orchestrator.machine.State() {
	case activity.StateActive:
		text = "Active for " + formatElapsed(now.Sub(orchestrator.machine.ActiveStart()))
	case activity.StatePaused:
		text = "Paused"
	case activity.StateLocked:
		text = "Locked"
	default:
		text = "Taking a break"
	}
	return truncateDisplay(text)
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	total := int(elapsed.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func truncateDisplay(text string) string {
	if len(text) <= displayBudget {
		return text
	}
	return text[:displayBudget-3] + "..."
}
