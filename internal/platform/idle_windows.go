package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"visionary/internal/reminder"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLastInputInfo = user32.NewProc("GetLastInputInfo")
	getTickCount64   = kernel32.NewProc("GetTickCount64")
)

// idleProvider compares the last input tick with the system uptime.
type idleProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	if getLastInputInfo.Find() != nil || getTickCount64.Find() != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		// GetLastInputInfo fails without a desktop, e.g. in a service session.
		return 0, fmt.Errorf("get last input info: %w: %v", reminder.ErrIdleUnsupported, err)
	}

	uptime, _, _ := getTickCount64.Call()
	// dwTime is a 32-bit tick count that wraps after ~49.7 days.
	idleMillis := uint32(uint64(uptime)) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
