//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// screenLockers are the lock processes scanned for the session-lock flag.
var screenLockers = []string{
	"gnome-screensaver-dialog",
	"kscreenlocker_greet",
	"i3lock",
	"slock",
	"xscreensaver",
	"xsecurelock",
	"swaylock",
}

type idleSensor struct {
	xprintidlePath string
}

func newIdleSensor() IdleSensor {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleSensor{}
	}
	return &idleSensor{xprintidlePath: path}
}

func (sensor *idleSensor) IdleSeconds() (int, error) {
	output, err := exec.Command(sensor.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	value := strings.TrimSpace(string(output))
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return int(idleMillis / 1000), nil
}

func (sensor *idleSensor) IsLocked() bool {
	for _, locker := range screenLockers {
		if exec.Command("pgrep", "-x", locker).Run() == nil {
			return true
		}
	}
	return false
}

type unsupportedIdleSensor struct{}

func (unsupportedIdleSensor) IdleSeconds() (int, error) {
	return 0, ErrSensorUnsupported
}

func (unsupportedIdleSensor) IsLocked() bool {
	return false
}
