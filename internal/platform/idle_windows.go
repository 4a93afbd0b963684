//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type idleSensor struct {
	user32           *syscall.LazyDLL
	kernel32         *syscall.LazyDLL
	getLastInputInfo *syscall.LazyProc
	getTickCount64   *syscall.LazyProc
	openInputDesktop *syscall.LazyProc
	closeDesktop     *syscall.LazyProc
}

func newIdleSensor() IdleSensor {
	user32 := syscall.NewLazyDLL("user32.dll")
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	return &idleSensor{
		user32:           user32,
		kernel32:         kernel32,
		getLastInputInfo: user32.NewProc("GetLastInputInfo"),
		getTickCount64:   kernel32.NewProc("GetTickCount64"),
		openInputDesktop: user32.NewProc("OpenInputDesktop"),
		closeDesktop:     user32.NewProc("CloseDesktop"),
	}
}

func (sensor *idleSensor) IdleSeconds() (int, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := sensor.getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err != nil {
			return 0, fmt.Errorf("get last input info: %w", err)
		}
		return 0, fmt.Errorf("get last input info: unknown error")
	}

	tickResult, _, tickErr := sensor.getTickCount64.Call()
	if tickResult == 0 && tickErr != nil {
		return 0, fmt.Errorf("get tick count: %w", tickErr)
	}

	idleMillis := uint64(tickResult) - uint64(info.dwTime)
	return int(idleMillis / 1000), nil
}

// IsLocked probes the input desktop: while the workstation is locked the
// secure desktop holds input and OpenInputDesktop fails.
func (sensor *idleSensor) IsLocked() bool {
	const desktopSwitchDesktop = 0x0100
	handle, _, _ := sensor.openInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if handle == 0 {
		return true
	}
	_, _, _ = sensor.closeDesktop.Call(handle)
	return false
}
