package platform

import (
	"fmt"
	"os"
)

const autostartName = "StandUpTracker"

// Autostart manages launch-at-login registration for the tracker binary.
type Autostart struct {
	execPath string
}

// NewAutostart resolves the running executable for registration.
func NewAutostart() (*Autostart, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &Autostart{execPath: execPath}, nil
}

// Enable registers the tracker to start at login.
func (autostart *Autostart) Enable() error {
	return enableAutostart(autostart.execPath)
}

// Disable removes the login registration.
func (autostart *Autostart) Disable() error {
	return disableAutostart()
}

// Enabled reports whether a login registration currently exists.
func (autostart *Autostart) Enabled() bool {
	return autostartEnabled()
}
