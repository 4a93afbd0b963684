//go:build !windows

package platform

import (
	"os"
	"syscall"
)

func signalZero(process *os.Process) error {
	return process.Signal(syscall.Signal(0))
}
