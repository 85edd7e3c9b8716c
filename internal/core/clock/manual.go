package clock

import "sync"

// Manual is a Clock advanced explicitly by the caller. Ticks run synchronously on the
// goroutine calling Advance.
type Manual struct {
	mu         sync.Mutex
	generation uint64
	onTick     func()
}

// NewManual creates an unarmed manual clock.
func NewManual() *Manual {
	return &Manual{}
}

// Arm registers onTick as the active callback.
func (manual *Manual) Arm(onTick func()) Handle {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.generation++
	manual.onTick = onTick
	return Handle(manual.generation)
}

// Disarm clears the callback registered for handle.
func (manual *Manual) Disarm(handle Handle) {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	if uint64(handle) != manual.generation {
		return
	}
	manual.generation++
	manual.onTick = nil
}

// Armed reports whether a callback is registered.
func (manual *Manual) Armed() bool {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.onTick != nil
}

// Advance fires up to ticks callbacks and returns how many were delivered.
// Delivery stops early once the clock is disarmed.
func (manual *Manual) Advance(ticks int) int {
	delivered := 0
	for delivered < ticks {
		manual.mu.Lock()
		onTick := manual.onTick
		manual.mu.Unlock()
		if onTick == nil {
			break
		}
		onTick()
		delivered++
	}
	return delivered
}
