// Package reminder schedules recurring "rest your eyes" reminders inside a daily window.
package reminder

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Config contains runtime options for Scheduler.
type Config struct {
	TickInterval time.Duration
	Logger       *zap.Logger
}

// Scheduler counts down to the next reminder while the local time is inside the
// configured window.
type Scheduler struct {
	mu            sync.Mutex
	config        model.ReminderConfig
	options       Config
	logger        *zap.Logger
	state         State
	previousState State
	remaining     time.Duration
	idleChecker   IdleChecker
	lastIdleCheck time.Time
	events        []chan Event
	stopCh        chan struct{}
	done          chan struct{}
	running       bool
	paused        bool
}

// New creates a Scheduler with the provided configuration.
func New(config model.ReminderConfig, options Config) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	normalize(&config)

	scheduler := &Scheduler{
		config:  config,
		options: options,
		logger:  options.Logger.Named("reminder"),
		state:   StateStopped,
	}
	scheduler.remaining = config.Interval
	return scheduler
}

// SetIdleChecker injects an idle checker.
func (scheduler *Scheduler) SetIdleChecker(checker IdleChecker) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.idleChecker = checker
}

// Subscribe registers a new observer channel.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.mu.Lock()
	scheduler.events = append(scheduler.events, ch)
	scheduler.mu.Unlock()
	return ch
}

// State returns the current scheduler mode.
func (scheduler *Scheduler) State() State {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.state
}

// Remaining returns the time left until the next reminder.
func (scheduler *Scheduler) Remaining() time.Duration {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.remaining
}

// Start launches the ticking loop.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	if scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = true
	scheduler.paused = false
	scheduler.remaining = scheduler.config.Interval
	scheduler.lastIdleCheck = time.Time{}
	scheduler.stopCh = make(chan struct{})
	scheduler.done = make(chan struct{})
	scheduler.setStateLocked(scheduler.activeStateLocked(time.Now()), time.Now())
	stopCh, done := scheduler.stopCh, scheduler.done
	scheduler.mu.Unlock()

	scheduler.logger.Info("reminders started",
		zap.Bool("enabled", scheduler.config.Enabled),
		zap.Duration("interval", scheduler.config.Interval))
	go scheduler.run(stopCh, done)
}

// Stop terminates the ticking loop and closes observers.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	close(scheduler.stopCh)
	scheduler.running = false
	scheduler.state = StateStopped
	done := scheduler.done
	events := scheduler.events
	scheduler.events = nil
	scheduler.mu.Unlock()

	<-done
	for _, ch := range events {
		close(ch)
	}
}

// Pause freezes the countdown.
func (scheduler *Scheduler) Pause() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.paused {
		return
	}
	scheduler.paused = true
	scheduler.previousState = scheduler.state
	scheduler.setStateLocked(StatePaused, time.Now())
}

// Resume unfreezes the countdown.
func (scheduler *Scheduler) Resume() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.paused {
		return
	}
	scheduler.paused = false
	scheduler.setStateLocked(scheduler.previousState, time.Now())
}

// UpdateConfig applies new settings and restarts the countdown.
func (scheduler *Scheduler) UpdateConfig(config model.ReminderConfig) {
	normalize(&config)
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.config = config
	scheduler.remaining = config.Interval
	if scheduler.running && !scheduler.paused {
		now := time.Now()
		scheduler.setStateLocked(scheduler.activeStateLocked(now), now)
	}
}

// ResetForIdle restarts the countdown.
func (scheduler *Scheduler) ResetForIdle() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.remaining = scheduler.config.Interval
}

func (scheduler *Scheduler) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(scheduler.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			scheduler.tick(tickTime)
		}
	}
}

func (scheduler *Scheduler) tick(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.running || scheduler.paused {
		return
	}

	state := scheduler.activeStateLocked(now)
	if state != scheduler.state {
		scheduler.remaining = scheduler.config.Interval
		scheduler.setStateLocked(state, now)
	}
	if state != StateActive {
		return
	}

	if scheduler.handleIdleCheckLocked(now) {
		return
	}
	scheduler.remaining -= scheduler.options.TickInterval
	if scheduler.remaining > 0 {
		scheduler.emitLocked(Event{
			Type:      EventProgress,
			State:     state,
			Remaining: scheduler.remaining,
			Progress:  scheduler.progressLocked(),
			At:        now,
		})
		return
	}

	scheduler.remaining = scheduler.config.Interval
	scheduler.logger.Info("reminder due", zap.Time("at", now))
	scheduler.emitLocked(Event{
		Type:      EventReminder,
		State:     state,
		Remaining: scheduler.remaining,
		Message:   scheduler.config.Message,
		At:        now,
	})
}

// handleIdleCheckLocked reports whether the countdown was reset because the user is away.
func (scheduler *Scheduler) handleIdleCheckLocked(now time.Time) bool {
	if !scheduler.config.IdleResetEnabled || scheduler.idleChecker == nil {
		return false
	}
	if !scheduler.lastIdleCheck.IsZero() && now.Sub(scheduler.lastIdleCheck) < scheduler.config.IdleCheckInterval {
		return false
	}
	scheduler.lastIdleCheck = now

	idleDuration, err := scheduler.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			scheduler.config.IdleResetEnabled = false
		}
		scheduler.logger.Warn("idle check failed", zap.Error(err))
		scheduler.emitLocked(Event{
			Type:    EventIdleError,
			State:   scheduler.state,
			Message: err.Error(),
			At:      now,
		})
		return false
	}
	if idleDuration < scheduler.config.IdleResetAfter {
		return false
	}
	scheduler.remaining = scheduler.config.Interval
	scheduler.logger.Debug("reminder reset after idle", zap.Duration("idle", idleDuration))
	scheduler.emitLocked(Event{
		Type:      EventIdleReset,
		State:     scheduler.state,
		Remaining: scheduler.remaining,
		Message:   "idle reset",
		At:        now,
	})
	return true
}

func (scheduler *Scheduler) activeStateLocked(now time.Time) State {
	if !scheduler.config.Enabled {
		return StateDisabled
	}
	if !InWindow(now, scheduler.config.WindowStart, scheduler.config.WindowEnd) {
		return StateOutOfWindow
	}
	return StateActive
}

func (scheduler *Scheduler) setStateLocked(state State, now time.Time) {
	scheduler.state = state
	scheduler.emitLocked(Event{
		Type:      EventStateChange,
		State:     state,
		Remaining: scheduler.remaining,
		At:        now,
	})
}

func (scheduler *Scheduler) progressLocked() float64 {
	if scheduler.config.Interval <= 0 {
		return 0
	}
	progress := float64(scheduler.config.Interval-scheduler.remaining) / float64(scheduler.config.Interval)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (scheduler *Scheduler) emitLocked(event Event) {
	for _, ch := range scheduler.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// InWindow reports whether the local clock time of now lies in [start, end).
// Equal bounds mean all day; start after end wraps past midnight.
func InWindow(now time.Time, start, end time.Duration) bool {
	if start == end {
		return true
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := now.Sub(midnight)
	if start < end {
		return offset >= start && offset < end
	}
	return offset >= start || offset < end
}

func normalize(config *model.ReminderConfig) {
	if config.Interval <= 0 {
		config.Interval = 20 * time.Minute
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
}
