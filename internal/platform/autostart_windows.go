//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableAutostart(execPath string) error {
	quoted := `"` + strings.Trim(execPath, `"`) + `"`
	command := exec.Command("reg", "add", registryRunKey,
		"/v", autostartName, "/t", "REG_SZ", "/d", quoted, "/f")
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func disableAutostart() error {
	command := exec.Command("reg", "delete", registryRunKey, "/v", autostartName, "/f")
	output, err := command.CombinedOutput()
	if err != nil && !strings.Contains(string(output), "unable to find") {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func autostartEnabled() bool {
	command := exec.Command("reg", "query", registryRunKey, "/v", autostartName)
	return command.Run() == nil
}
