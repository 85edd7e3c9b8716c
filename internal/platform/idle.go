package platform

import (
	"time"

	"visionary/internal/reminder"
)

// IdleProvider reports how long the user has been away from keyboard and mouse.
// IdleDuration fails with an error matching reminder.ErrIdleUnsupported when the
// desktop offers no way to ask; the reminder scheduler stops polling after that.
type IdleProvider interface {
	reminder.IdleChecker
}

// NewIdleProvider returns the provider for the current desktop session.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

// unsupportedIdleProvider is used where no idle source is available.
type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, reminder.ErrIdleUnsupported
}
