//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/deni-m/standupTracker/internal/core/model"
)

const frontmostScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set winTitle to ""
	try
		set winTitle to name of front window of frontApp
	end try
	return appName & linefeed & winTitle
end tell`

type windowSensor struct{}

func newWindowSensor() WindowSensor {
	return &windowSensor{}
}

func (sensor *windowSensor) CaptureActiveSample() (*model.ActiveSample, error) {
	output, err := exec.Command("osascript", "-e", frontmostScript).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}
	lines := strings.SplitN(strings.TrimRight(string(output), "\n"), "\n", 2)
	sample := &model.ActiveSample{Process: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		sample.Title = strings.TrimSpace(lines[1])
	}
	if sample.Process == "" && sample.Title == "" {
		return nil, nil
	}
	return sample, nil
}
