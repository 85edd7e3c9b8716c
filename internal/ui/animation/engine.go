package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains animation timing values.
type Config struct {
	FrameInterval  time.Duration
	BlinkLongHold  time.Duration
	BlinkShortHold time.Duration
}

// Engine drives a guide frame by frame. Time only advances while unpaused, so a paused
// session resumes the motion where it stopped.
type Engine struct {
	mu      sync.Mutex
	config  Config
	update  func(Frame)
	cancel  context.CancelFunc
	done    chan struct{}
	paused  bool
	elapsed time.Duration
}

// New creates a new animation engine.
func New(config Config, update func(Frame)) *Engine {
	defaults := DefaultConfig()
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaults.FrameInterval
	}
	if config.BlinkLongHold <= 0 {
		config.BlinkLongHold = defaults.BlinkLongHold
	}
	if config.BlinkShortHold <= 0 {
		config.BlinkShortHold = defaults.BlinkShortHold
	}
	return &Engine{config: config, update: update}
}

// Start animates guide from its beginning, replacing any running animation.
func (engine *Engine) Start(ctx context.Context, guide Guide) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.elapsed = 0
	engine.mu.Unlock()

	engine.update(engine.frame(guide, 0))
	go engine.run(runCtx, guide, done)
}

// SetPaused freezes or resumes the animation clock.
func (engine *Engine) SetPaused(paused bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.paused = paused
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// Wait blocks until the most recent animation goroutine has exited.
func (engine *Engine) Wait() {
	engine.mu.Lock()
	done := engine.done
	engine.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (engine *Engine) run(ctx context.Context, guide Guide, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(engine.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			engine.mu.Lock()
			if engine.paused {
				engine.mu.Unlock()
				continue
			}
			engine.elapsed += engine.config.FrameInterval
			elapsed := engine.elapsed
			engine.mu.Unlock()

			if ctx.Err() != nil {
				return
			}
			engine.update(engine.frame(guide, elapsed))
		}
	}
}

func (engine *Engine) frame(guide Guide, elapsed time.Duration) Frame {
	frame := Frame{Elapsed: elapsed}
	if guide.Moving() {
		frame.Point = Position(guide.Pattern, elapsed, guide.Period)
	}
	if guide.Blink {
		frame.EyesClosed = EyesClosed(elapsed, engine.config)
	}
	return frame
}

// EyesClosed follows the blink rhythm: open and closed for the long hold, then open and
// closed for the short hold, repeating.
func EyesClosed(elapsed time.Duration, config Config) bool {
	long, short := config.BlinkLongHold, config.BlinkShortHold
	cycle := 2*long + 2*short
	if cycle <= 0 {
		return false
	}
	offset := elapsed % cycle
	switch {
	case offset < long:
		return false
	case offset < 2*long:
		return true
	case offset < 2*long+short:
		return false
	default:
		return true
	}
}
