//go:build windows

package platform

import (
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"github.com/deni-m/standupTracker/internal/core/model"
)

type windowSensor struct {
	user32                    *syscall.LazyDLL
	kernel32                  *syscall.LazyDLL
	getForegroundWindow       *syscall.LazyProc
	getWindowTextW            *syscall.LazyProc
	getWindowThreadProcessID  *syscall.LazyProc
	openProcess               *syscall.LazyProc
	queryFullProcessImageName *syscall.LazyProc
	closeHandle               *syscall.LazyProc
}

func newWindowSensor() WindowSensor {
	user32 := syscall.NewLazyDLL("user32.dll")
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	return &windowSensor{
		user32:                    user32,
		kernel32:                  kernel32,
		getForegroundWindow:       user32.NewProc("GetForegroundWindow"),
		getWindowTextW:            user32.NewProc("GetWindowTextW"),
		getWindowThreadProcessID:  user32.NewProc("GetWindowThreadProcessId"),
		openProcess:               kernel32.NewProc("OpenProcess"),
		queryFullProcessImageName: kernel32.NewProc("QueryFullProcessImageNameW"),
		closeHandle:               kernel32.NewProc("CloseHandle"),
	}
}

func (sensor *windowSensor) CaptureActiveSample() (*model.ActiveSample, error) {
	handle, _, _ := sensor.getForegroundWindow.Call()
	if handle == 0 {
		return nil, nil
	}

	var titleBuffer [512]uint16
	length, _, _ := sensor.getWindowTextW.Call(handle, uintptr(unsafe.Pointer(&titleBuffer[0])), uintptr(len(titleBuffer)))
	title := syscall.UTF16ToString(titleBuffer[:length])

	var pid uint32
	_, _, _ = sensor.getWindowThreadProcessID.Call(handle, uintptr(unsafe.Pointer(&pid)))
	process := sensor.processName(pid)

	if title == "" && process == "" {
		return nil, nil
	}
	return &model.ActiveSample{
		Process: process,
		Title:   title,
	}, nil
}

func (sensor *windowSensor) processName(pid uint32) string {
	if pid == 0 {
		return ""
	}
	const queryLimitedInformation = 0x1000
	handle, _, _ := sensor.openProcess.Call(queryLimitedInformation, 0, uintptr(pid))
	if handle == 0 {
		return ""
	}
	defer sensor.closeHandle.Call(handle)

	var pathBuffer [1024]uint16
	size := uint32(len(pathBuffer))
	result, _, _ := sensor.queryFullProcessImageName.Call(handle, 0, uintptr(unsafe.Pointer(&pathBuffer[0])), uintptr(unsafe.Pointer(&size)))
	if result == 0 {
		return ""
	}
	imagePath := syscall.UTF16ToString(pathBuffer[:size])
	return strings.ToLower(filepath.Base(imagePath))
}
