package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard holds a PID-file based single-instance lock. A stale file
// left by a crashed process is detected with signal 0 and reclaimed.
type InstanceGuard struct {
	pidFile string
}

// AcquireSingleInstance claims the per-user PID file for the application.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(appName), " ", "-"))
	pidFile := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.pid", name, os.Getuid()))
	guard := &InstanceGuard{pidFile: pidFile}

	if pid := guard.readPID(); pid != 0 && processAlive(pid) {
		return nil, ErrAlreadyRunning
	}

	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	return guard, nil
}

// Release removes the PID file.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	if err := os.Remove(guard.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

func (guard *InstanceGuard) readPID() int {
	data, err := os.ReadFile(guard.pidFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return signalZero(process) == nil
}
