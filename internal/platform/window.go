package platform

import "github.com/deni-m/standupTracker/internal/core/model"

// WindowSensor captures the current foreground window as an ActiveSample
// carrying process name and title. A nil sample means nothing is focused or
// capture is unsupported here.
type WindowSensor interface {
	CaptureActiveSample() (*model.ActiveSample, error)
}

// NewWindowSensor returns a platform-specific window sensor.
func NewWindowSensor() WindowSensor {
	return newWindowSensor()
}
