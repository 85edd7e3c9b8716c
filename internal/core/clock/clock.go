// Package clock provides the cancellable one-second tick source that drives a session.
package clock

import (
	"sync"
	"time"
)

// Handle identifies one arming of a clock. The zero Handle is never armed.
type Handle uint64

// Clock delivers a callback roughly once per interval while armed.
type Clock interface {
	// Arm starts delivering ticks to onTick, replacing any previous arming.
	Arm(onTick func()) Handle
	// Disarm stops delivery for handle. Stale handles are ignored.
	Disarm(handle Handle)
}

// Config contains runtime options for Ticker.
type Config struct {
	TickInterval time.Duration
}

// Ticker is a Clock backed by time.Ticker running on its own goroutine.
type Ticker struct {
	mu         sync.Mutex
	options    Config
	generation uint64
	stopCh     chan struct{}
	done       chan struct{}
}

// NewTicker creates a Ticker with the provided options.
func NewTicker(options Config) *Ticker {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &Ticker{options: options}
}

// Arm launches the ticking loop.
func (ticker *Ticker) Arm(onTick func()) Handle {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()

	ticker.stopLocked()
	ticker.generation++
	generation := ticker.generation
	stopCh := make(chan struct{})
	done := make(chan struct{})
	ticker.stopCh = stopCh
	ticker.done = done

	go ticker.run(generation, stopCh, done, onTick)
	return Handle(generation)
}

// Disarm terminates the ticking loop started by handle.
func (ticker *Ticker) Disarm(handle Handle) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if uint64(handle) != ticker.generation {
		return
	}
	ticker.generation++
	ticker.stopLocked()
}

// Wait blocks until the most recent ticking loop has exited.
func (ticker *Ticker) Wait() {
	ticker.mu.Lock()
	done := ticker.done
	ticker.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (ticker *Ticker) run(generation uint64, stopCh <-chan struct{}, done chan<- struct{}, onTick func()) {
	defer close(done)
	timer := time.NewTicker(ticker.options.TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timer.C:
			if !ticker.current(generation) {
				return
			}
			onTick()
		}
	}
}

func (ticker *Ticker) current(generation uint64) bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.generation == generation
}

func (ticker *Ticker) stopLocked() {
	if ticker.stopCh != nil {
		close(ticker.stopCh)
		ticker.stopCh = nil
	}
}
