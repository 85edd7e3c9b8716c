package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"visionary/internal/reminder"
)

var hidIdlePattern = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// idleProvider reads HIDIdleTime from the IOHIDSystem registry entry.
type idleProvider struct {
	ioregPath string
}

func newIdleProvider() IdleProvider {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{ioregPath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.ioregPath, "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	match := hidIdlePattern.FindSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("ioreg reported no HIDIdleTime: %w", reminder.ErrIdleUnsupported)
	}
	nanos, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle nanoseconds: %w", err)
	}
	return time.Duration(nanos), nil
}
