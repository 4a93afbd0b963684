//go:build windows

package platform

import (
	"os/exec"
	"strings"
)

func meetingProcessRunning() bool {
	output, err := exec.Command("tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return false
	}
	running := strings.ToLower(string(output))
	for _, process := range meetingProcesses {
		if strings.Contains(running, strings.ToLower(process)) {
			return true
		}
	}
	return false
}

// Fullscreen detection is not wired on Windows; the process scan covers the
// common presentation tools.
func fullscreenActive() bool {
	return false
}
