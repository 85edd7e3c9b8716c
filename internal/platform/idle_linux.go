package platform

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"visionary/internal/reminder"
)

var mutterIdlePattern = regexp.MustCompile(`uint64\s+(\d+)`)

// idleProvider prefers xprintidle on X11 and the GNOME Mutter idle monitor on Wayland.
type idleProvider struct {
	xprintidlePath string
	gdbusPath      string
}

func newIdleProvider() IdleProvider {
	xprintidlePath, _ := exec.LookPath("xprintidle")
	gdbusPath, _ := exec.LookPath("gdbus")
	if xprintidlePath == "" && gdbusPath == "" {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{xprintidlePath: xprintidlePath, gdbusPath: gdbusPath}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	wayland := strings.ToLower(os.Getenv("XDG_SESSION_TYPE")) == "wayland"
	switch {
	case wayland && provider.gdbusPath != "":
		return provider.mutterIdle()
	case provider.xprintidlePath != "" && !wayland:
		return provider.xprintIdle()
	case provider.gdbusPath != "":
		return provider.mutterIdle()
	default:
		return 0, reminder.ErrIdleUnsupported
	}
}

func (provider *idleProvider) xprintIdle() (time.Duration, error) {
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(strings.TrimSpace(string(output)))
}

func (provider *idleProvider) mutterIdle() (time.Duration, error) {
	output, err := exec.Command(provider.gdbusPath,
		"call", "--session",
		"--dest", "org.gnome.Mutter.IdleMonitor",
		"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
		"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime",
	).Output()
	if err != nil {
		return 0, fmt.Errorf("query mutter idle monitor: %w: %w", reminder.ErrIdleUnsupported, err)
	}
	match := mutterIdlePattern.FindStringSubmatch(string(output))
	if match == nil {
		return 0, fmt.Errorf("parse mutter idle time %q", strings.TrimSpace(string(output)))
	}
	return parseIdleMillis(match[1])
}

func parseIdleMillis(value string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}
