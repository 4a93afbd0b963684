//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type idleSensor struct{}

func newIdleSensor() IdleSensor {
	return &idleSensor{}
}

func (sensor *idleSensor) IdleSeconds() (int, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		fields := strings.Fields(line)
		raw := fields[len(fields)-1]
		idleNanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse idle nanoseconds: %w", err)
		}
		return int(idleNanos / 1_000_000_000), nil
	}
	return 0, ErrSensorUnsupported
}

// IsLocked checks the CoreGraphics session for the screen-locked flag.
func (sensor *idleSensor) IsLocked() bool {
	output, err := exec.Command("/usr/sbin/ioreg", "-n", "Root", "-d1", "-a").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(output), "CGSSessionScreenIsLocked")
}
