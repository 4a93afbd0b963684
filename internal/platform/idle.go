package platform

import "errors"

// ErrSensorUnsupported indicates a sensor is not available on this system.
var ErrSensorUnsupported = errors.New("sensor unsupported")

// IdleSensor reports seconds since last user input and the session lock flag.
type IdleSensor interface {
	IdleSeconds() (int, error)
	IsLocked() bool
}

// NewIdleSensor returns a platform-specific idle/lock sensor.
func NewIdleSensor() IdleSensor {
	return newIdleSensor()
}
