package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenPath opens a file or URL with the desktop's default handler.
func OpenPath(path string) error {
	var command *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		command = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		command = exec.Command("open", path)
	default:
		command = exec.Command("xdg-open", path)
	}
	if err := command.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}
