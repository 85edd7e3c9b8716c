package animation

import "time"

// DefaultConfig returns the frame rate and blink rhythm used by the session window.
func DefaultConfig() Config {
	return Config{
		FrameInterval:  33 * time.Millisecond,
		BlinkLongHold:  3 * time.Second,
		BlinkShortHold: time.Second,
	}
}
