// Package session implements the guided routine runtime: a state machine that walks a
// routine through timed exercises and fixed breaks, driven by a one-second clock.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/clock"
	"visionary/internal/core/cue"
	"visionary/internal/core/model"
)

// BreakSeconds is the length of the pause inserted between exercises.
const BreakSeconds = 5

const (
	breakUtterance      = "Take a short break."
	completionUtterance = "Session complete. Great job."
)

// ErrSessionFinished indicates an operation on a completed or exited session.
var ErrSessionFinished = errors.New("session finished")

// Options contains the collaborators of a session.
type Options struct {
	Clock      clock.Clock
	Cues       cue.Emitter
	OnComplete func()
	Settings   model.UserSettings
	Logger     *zap.Logger
	Now        func() time.Time
}

// Session drives one run-through of a routine.
type Session struct {
	mu       sync.Mutex
	routine  model.Routine
	options  Options
	cues     cue.Emitter
	logger   *zap.Logger
	index    int
	timeLeft int
	isBreak  bool
	playing  bool
	phase    Phase
	handle   clock.Handle
	epoch    uint64
	events   []chan Event

	completePending bool
}

// New validates routine and starts playing its first exercise immediately.
func New(routine model.Routine, options Options) (*Session, error) {
	if err := routine.Validate(); err != nil {
		return nil, fmt.Errorf("start session %q: %w", routine.Name, err)
	}
	if options.Clock == nil {
		options.Clock = clock.NewTicker(clock.Config{TickInterval: time.Second})
	}
	if options.Cues == nil {
		options.Cues = cue.Nop{}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	session := &Session{
		routine:  routine,
		options:  options,
		cues:     cue.Safe(options.Cues, options.Logger),
		logger:   options.Logger.With(zap.String("routine", routine.ID)),
		timeLeft: routine.Exercises[0].DurationSeconds,
		phase:    PhaseExercise,
	}

	session.mu.Lock()
	session.announceExerciseLocked()
	session.playing = true
	session.armLocked()
	session.mu.Unlock()

	session.logger.Info("session started",
		zap.String("name", routine.Name),
		zap.Int("exercises", len(routine.Exercises)))
	return session, nil
}

// Routine returns the routine being played.
func (session *Session) Routine() model.Routine {
	return session.routine
}

// Subscribe registers a new observer channel. Channels are closed when the session ends.
func (session *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.finishedLocked() {
		close(ch)
		return ch
	}
	session.events = append(session.events, ch)
	return ch
}

// Snapshot returns the current rendering state.
func (session *Session) Snapshot() Snapshot {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshotLocked()
}

// SetSettings updates the settings used for color derivation.
func (session *Session) SetSettings(settings model.UserSettings) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.options.Settings = settings
}

// TogglePlay pauses or resumes the countdown.
func (session *Session) TogglePlay() Snapshot {
	return session.apply(func() {
		if session.finishedLocked() {
			return
		}
		session.playing = !session.playing
		cue.Play(session.cues, cue.ToneToggle)
		if session.playing {
			session.armLocked()
		} else {
			session.disarmLocked()
		}
		session.logger.Debug("playback toggled", zap.Bool("playing", session.playing))
		session.emitLocked(EventPlayback)
	})
}

// Tick applies one elapsed second. It is a no-op while paused or finished.
func (session *Session) Tick() Snapshot {
	return session.apply(session.tickLocked)
}

// Skip forces the current phase to end now. Skipping the final exercise completes the
// session without a break.
func (session *Session) Skip() error {
	var err error
	session.apply(func() {
		if session.finishedLocked() {
			err = ErrSessionFinished
			return
		}
		session.cues.CancelSpeech()
		cue.Play(session.cues, cue.ToneSkip)
		session.logger.Debug("phase skipped",
			zap.Int("index", session.index),
			zap.Bool("break", session.isBreak),
			zap.Int("time_left", session.timeLeft))
		session.advanceLocked()
	})
	return err
}

// Exit abandons the session without invoking the completion callback.
func (session *Session) Exit() {
	session.apply(func() {
		if session.finishedLocked() {
			return
		}
		session.disarmLocked()
		session.cues.CancelSpeech()
		session.playing = false
		session.phase = PhaseExited
		session.logger.Info("session exited", zap.Int("index", session.index))
		session.emitLocked(EventExited)
	})
}

// apply runs mutate under the lock, then closes observers and runs the completion
// callback outside of it.
func (session *Session) apply(mutate func()) Snapshot {
	session.mu.Lock()
	mutate()
	snapshot := session.snapshotLocked()
	completed := session.completePending
	session.completePending = false
	var closing []chan Event
	if session.finishedLocked() {
		closing = session.events
		session.events = nil
	}
	session.mu.Unlock()

	for _, ch := range closing {
		close(ch)
	}
	if completed && session.options.OnComplete != nil {
		session.options.OnComplete()
	}
	return snapshot
}

func (session *Session) onClockTick(epoch uint64) {
	session.apply(func() {
		if epoch != session.epoch {
			return
		}
		session.tickLocked()
	})
}

func (session *Session) tickLocked() {
	if !session.playing || session.finishedLocked() || session.timeLeft <= 0 {
		return
	}
	session.timeLeft--
	if session.timeLeft >= 1 && session.timeLeft <= 3 && !session.isBreak {
		cue.Play(session.cues, cue.ToneWarning)
	}
	if session.timeLeft == 0 {
		session.advanceLocked()
		return
	}
	session.emitLocked(EventTick)
}

// advanceLocked is the single phase-exhausted transition shared by tick and skip.
func (session *Session) advanceLocked() {
	switch {
	case session.isBreak:
		session.isBreak = false
		session.index++
		session.timeLeft = session.routine.Exercises[session.index].DurationSeconds
		session.announceExerciseLocked()
	case session.index < session.routine.LastIndex():
		session.isBreak = true
		session.timeLeft = BreakSeconds
		session.phase = PhaseBreak
		cue.Play(session.cues, cue.ToneBreak)
		session.cues.CancelSpeech()
		session.cues.Speak(breakUtterance, false)
	default:
		session.completeLocked()
		return
	}
	session.logger.Debug("phase changed",
		zap.Int("index", session.index),
		zap.Bool("break", session.isBreak),
		zap.Int("time_left", session.timeLeft))
	session.emitLocked(EventPhaseChange)
}

func (session *Session) announceExerciseLocked() {
	exercise := session.routine.Exercises[session.index]
	session.phase = PhaseExercise
	cue.Play(session.cues, cue.ToneExercise)
	session.cues.CancelSpeech()
	session.cues.Speak(fmt.Sprintf("%s. %s", exercise.Name, exercise.Instruction()), true)
}

func (session *Session) completeLocked() {
	session.disarmLocked()
	session.playing = false
	session.phase = PhaseCompleted
	session.completePending = true
	cue.Play(session.cues, cue.ToneComplete)
	session.cues.CancelSpeech()
	session.cues.Speak(completionUtterance, true)
	session.logger.Info("session completed", zap.Int("minutes", session.routine.Minutes()))
	session.emitLocked(EventCompleted)
}

func (session *Session) armLocked() {
	session.epoch++
	epoch := session.epoch
	session.handle = session.options.Clock.Arm(func() {
		session.onClockTick(epoch)
	})
}

func (session *Session) disarmLocked() {
	session.epoch++
	if session.handle != 0 {
		session.options.Clock.Disarm(session.handle)
		session.handle = 0
	}
}

func (session *Session) finishedLocked() bool {
	return session.phase == PhaseCompleted || session.phase == PhaseExited
}

func (session *Session) snapshotLocked() Snapshot {
	exercise := session.routine.Exercises[session.index]
	snapshot := Snapshot{
		Index:    session.index,
		Total:    len(session.routine.Exercises),
		Exercise: exercise,
		TimeLeft: session.timeLeft,
		Duration: exercise.DurationSeconds,
		IsBreak:  session.isBreak,
		Playing:  session.playing,
		Phase:    session.phase,
		Color:    AccentColor(session.options.Settings, exercise, session.isBreak),
	}
	if session.isBreak {
		snapshot.Duration = BreakSeconds
	}
	if session.index < session.routine.LastIndex() {
		next := session.routine.Exercises[session.index+1]
		snapshot.Next = &next
	}
	snapshot.Progress = progress(snapshot)
	return snapshot
}

func progress(snapshot Snapshot) float64 {
	if snapshot.Phase == PhaseCompleted {
		return 1
	}
	if snapshot.Duration <= 0 {
		return 0
	}
	value := float64(snapshot.Duration-snapshot.TimeLeft) / float64(snapshot.Duration)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func (session *Session) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Snapshot: session.snapshotLocked(),
		At:       session.options.Now(),
	}
	for _, ch := range session.events {
		select {
		case ch <- event:
		default:
		}
	}
}
