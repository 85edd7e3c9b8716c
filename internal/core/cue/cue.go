// Package cue defines the best-effort audio and speech side channel used by sessions.
package cue

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/model"
)

// Waveform selects the oscillator shape of a tone.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
	WaveSawtooth Waveform = "sawtooth"
)

// Emitter plays tones and speaks text. Calls never block on playback and never fail
// visibly; an emitter without audio or speech simply stays silent.
type Emitter interface {
	Tone(frequency float64, wave Waveform, duration time.Duration)
	Speak(text string, interrupt bool)
	CancelSpeech()
}

// Tone describes a short beep.
type Tone struct {
	Frequency float64
	Wave      Waveform
	Duration  time.Duration
}

// Tones used by the session runtime.
var (
	ToneExercise = Tone{Frequency: 880, Wave: WaveSine, Duration: 100 * time.Millisecond}
	ToneBreak    = Tone{Frequency: 660, Wave: WaveSine, Duration: 200 * time.Millisecond}
	ToneComplete = Tone{Frequency: 1200, Wave: WaveSine, Duration: 500 * time.Millisecond}
	ToneWarning  = Tone{Frequency: 440, Wave: WaveSine, Duration: 50 * time.Millisecond}
	ToneToggle   = Tone{Frequency: 500, Wave: WaveSine, Duration: 50 * time.Millisecond}
	ToneSkip     = Tone{Frequency: 700, Wave: WaveSine, Duration: 50 * time.Millisecond}
	ToneReminder = Tone{Frequency: 880, Wave: WaveTriangle, Duration: 300 * time.Millisecond}
)

// Play emits tone on emitter.
func Play(emitter Emitter, tone Tone) {
	emitter.Tone(tone.Frequency, tone.Wave, tone.Duration)
}

// Nop is an Emitter that does nothing.
type Nop struct{}

func (Nop) Tone(float64, Waveform, time.Duration) {}
func (Nop) Speak(string, bool)                    {}
func (Nop) CancelSpeech()                         {}

// Gated forwards to an emitter only when the user enabled sound or voice guidance.
type Gated struct {
	mu      sync.RWMutex
	emitter Emitter
	sound   bool
	voice   bool
}

// NewGated wraps emitter with the sound and voice switches from settings.
func NewGated(emitter Emitter, settings model.UserSettings) *Gated {
	return &Gated{
		emitter: emitter,
		sound:   settings.SoundEnabled,
		voice:   settings.VoiceGuidanceEnabled,
	}
}

// Update applies new settings.
func (gated *Gated) Update(settings model.UserSettings) {
	gated.mu.Lock()
	defer gated.mu.Unlock()
	gated.sound = settings.SoundEnabled
	gated.voice = settings.VoiceGuidanceEnabled
}

func (gated *Gated) Tone(frequency float64, wave Waveform, duration time.Duration) {
	gated.mu.RLock()
	enabled := gated.sound
	gated.mu.RUnlock()
	if enabled {
		gated.emitter.Tone(frequency, wave, duration)
	}
}

func (gated *Gated) Speak(text string, interrupt bool) {
	gated.mu.RLock()
	enabled := gated.voice
	gated.mu.RUnlock()
	if enabled {
		gated.emitter.Speak(text, interrupt)
	}
}

// CancelSpeech is always forwarded so that disabling voice mid-utterance still silences it.
func (gated *Gated) CancelSpeech() {
	gated.emitter.CancelSpeech()
}

type safe struct {
	emitter Emitter
	logger  *zap.Logger
}

// Safe wraps emitter so that a panicking backend is logged and swallowed.
func Safe(emitter Emitter, logger *zap.Logger) Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &safe{emitter: emitter, logger: logger}
}

func (s *safe) Tone(frequency float64, wave Waveform, duration time.Duration) {
	defer s.recover("tone")
	s.emitter.Tone(frequency, wave, duration)
}

func (s *safe) Speak(text string, interrupt bool) {
	defer s.recover("speak")
	s.emitter.Speak(text, interrupt)
}

func (s *safe) CancelSpeech() {
	defer s.recover("cancel speech")
	s.emitter.CancelSpeech()
}

func (s *safe) recover(operation string) {
	if value := recover(); value != nil {
		s.logger.Debug("cue emitter failed",
			zap.String("operation", operation),
			zap.String("panic", fmt.Sprint(value)))
	}
}

type logged struct {
	emitter Emitter
	logger  *zap.Logger
}

// Logged traces every cue at debug level before forwarding it.
func Logged(emitter Emitter, logger *zap.Logger) Emitter {
	if logger == nil {
		return emitter
	}
	return &logged{emitter: emitter, logger: logger}
}

func (l *logged) Tone(frequency float64, wave Waveform, duration time.Duration) {
	l.logger.Debug("tone",
		zap.Float64("frequency", frequency),
		zap.String("wave", string(wave)),
		zap.Duration("duration", duration))
	l.emitter.Tone(frequency, wave, duration)
}

func (l *logged) Speak(text string, interrupt bool) {
	l.logger.Debug("speak", zap.String("text", text), zap.Bool("interrupt", interrupt))
	l.emitter.Speak(text, interrupt)
}

func (l *logged) CancelSpeech() {
	l.logger.Debug("cancel speech")
	l.emitter.CancelSpeech()
}
