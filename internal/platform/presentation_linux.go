//go:build linux

package platform

import "os/exec"

func meetingProcessRunning() bool {
	for _, process := range meetingProcesses {
		if exec.Command("pgrep", "-xi", process).Run() == nil {
			return true
		}
	}
	return false
}

func fullscreenActive() bool {
	return activeWindowFullscreen()
}
