package comfort

import (
	"context"
	"image/color"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/model"
)

// EventType describes controller notifications.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventUsage       EventType = "usage"
	EventStoreError  EventType = "store_error"
)

// Reason tells observers what switched the filter.
type Reason string

const (
	ReasonManual   Reason = "manual"
	ReasonSchedule Reason = "schedule"
	ReasonSettings Reason = "settings"
)

// Event is emitted on every filter change and usage flush.
type Event struct {
	Type   EventType
	Active bool
	Tint   color.NRGBA
	Reason Reason
	// Minutes is the day's usage total after a flush.
	Minutes int
	Err     error
	At      time.Time
}

// Config contains runtime options for Controller.
type Config struct {
	TickInterval time.Duration
	Store        UsageStore
	Logger       *zap.Logger
	Now          func() time.Time
}

// Controller owns the filter switch. The schedule flips it at window edges only,
// so a manual change inside the window sticks until the next edge.
type Controller struct {
	mu       sync.Mutex
	settings model.ComfortSettings
	options  Config
	logger   *zap.Logger

	scheduleKnown bool
	scheduled     bool
	lastTick      time.Time
	pending       time.Duration

	events  []chan Event
	stopCh  chan struct{}
	done    chan struct{}
	running bool
}

// New creates a Controller with the provided settings.
func New(settings model.ComfortSettings, options Config) *Controller {
	if options.TickInterval <= 0 {
		options.TickInterval = 15 * time.Second
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Controller{
		settings: cloneSettings(settings),
		options:  options,
		logger:   options.Logger.Named("comfort"),
	}
}

// Subscribe registers a new observer channel.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// Settings returns a copy of the current settings.
func (controller *Controller) Settings() model.ComfortSettings {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return cloneSettings(controller.settings)
}

// Active reports whether the filter is on.
func (controller *Controller) Active() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.settings.Enabled
}

// SetEnabled switches the filter by hand.
func (controller *Controller) SetEnabled(enabled bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.switchLocked(enabled, ReasonManual, controller.options.Now())
}

// Toggle flips the filter and returns the new state.
func (controller *Controller) Toggle() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	enabled := !controller.settings.Enabled
	controller.switchLocked(enabled, ReasonManual, controller.options.Now())
	return enabled
}

// UpdateSettings replaces the settings. A changed schedule is re-evaluated on the next tick.
func (controller *Controller) UpdateSettings(settings model.ComfortSettings) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	now := controller.options.Now()

	if !sameSchedule(controller.settings.Schedule, settings.Schedule) {
		controller.scheduleKnown = false
	}
	enabled := settings.Enabled
	settings = cloneSettings(settings)
	settings.Enabled = controller.settings.Enabled
	controller.settings = settings
	if enabled != controller.settings.Enabled {
		controller.switchLocked(enabled, ReasonSettings, now)
		return
	}
	controller.emitStateLocked(ReasonSettings, now)
}

// Start launches the ticking loop.
func (controller *Controller) Start() {
	controller.mu.Lock()
	if controller.running {
		controller.mu.Unlock()
		return
	}
	controller.running = true
	controller.scheduleKnown = false
	controller.lastTick = time.Time{}
	controller.stopCh = make(chan struct{})
	controller.done = make(chan struct{})
	stopCh, done := controller.stopCh, controller.done
	controller.mu.Unlock()

	controller.logger.Info("comfort filter started",
		zap.Bool("enabled", controller.Active()),
		zap.Bool("scheduled", controller.Settings().Schedule.Enabled))
	go controller.run(stopCh, done)
}

// Stop terminates the ticking loop and closes observers.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	if !controller.running {
		controller.mu.Unlock()
		return
	}
	close(controller.stopCh)
	controller.running = false
	done := controller.done
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	<-done
	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(controller.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			controller.tick(controller.options.Now())
		}
	}
}

func (controller *Controller) tick(now time.Time) {
	controller.mu.Lock()
	if !controller.running {
		controller.mu.Unlock()
		return
	}
	controller.applyScheduleLocked(now)
	minutes := controller.accrueLocked(now)
	store := controller.options.Store
	controller.mu.Unlock()

	if minutes == 0 || store == nil {
		return
	}
	log, err := store.AddComfortMinutes(context.Background(), model.DateKey(now), minutes)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if err != nil {
		controller.logger.Warn("record comfort usage failed", zap.Error(err))
		controller.emitLocked(Event{Type: EventStoreError, Active: controller.settings.Enabled, Err: err, At: now})
		return
	}
	controller.emitLocked(Event{
		Type:    EventUsage,
		Active:  controller.settings.Enabled,
		Tint:    controller.settings.TintColor(),
		Minutes: log.MinutesActive,
		At:      now,
	})
}

func (controller *Controller) applyScheduleLocked(now time.Time) {
	if !controller.settings.Schedule.Enabled {
		controller.scheduleKnown = false
		return
	}
	scheduled := Scheduled(controller.settings.Schedule, now)
	if !controller.scheduleKnown {
		controller.scheduleKnown = true
		controller.scheduled = scheduled
		if scheduled {
			controller.switchLocked(true, ReasonSchedule, now)
		}
		return
	}
	if scheduled == controller.scheduled {
		return
	}
	controller.scheduled = scheduled
	controller.switchLocked(scheduled, ReasonSchedule, now)
}

// accrueLocked returns the whole minutes of activity ready to be recorded.
func (controller *Controller) accrueLocked(now time.Time) int {
	previous := controller.lastTick
	controller.lastTick = now
	if !controller.settings.Enabled || previous.IsZero() {
		return 0
	}

	elapsed := now.Sub(previous)
	if elapsed < 0 {
		elapsed = 0
	}
	// Longer gaps mean the machine slept.
	if maxGap := 2 * controller.options.TickInterval; elapsed > maxGap {
		elapsed = maxGap
	}
	controller.pending += elapsed
	minutes := int(controller.pending / time.Minute)
	controller.pending -= time.Duration(minutes) * time.Minute
	return minutes
}

func (controller *Controller) switchLocked(enabled bool, reason Reason, now time.Time) {
	if controller.settings.Enabled == enabled {
		return
	}
	controller.settings.Enabled = enabled
	if enabled {
		controller.lastTick = now
	}
	controller.logger.Info("comfort filter switched",
		zap.Bool("enabled", enabled),
		zap.String("reason", string(reason)))
	controller.emitStateLocked(reason, now)
}

func (controller *Controller) emitStateLocked(reason Reason, now time.Time) {
	controller.emitLocked(Event{
		Type:   EventStateChange,
		Active: controller.settings.Enabled,
		Tint:   controller.settings.TintColor(),
		Reason: reason,
		At:     now,
	})
}

func (controller *Controller) emitLocked(event Event) {
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func sameSchedule(a, b model.ComfortSchedule) bool {
	return a.Enabled == b.Enabled &&
		a.StartTime == b.StartTime &&
		a.EndTime == b.EndTime &&
		slices.Equal(a.Days, b.Days)
}

func cloneSettings(settings model.ComfortSettings) model.ComfortSettings {
	settings.Schedule.Days = slices.Clone(settings.Schedule.Days)
	settings.Profiles = slices.Clone(settings.Profiles)
	return settings
}
