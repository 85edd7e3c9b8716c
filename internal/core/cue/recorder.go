package cue

import (
	"sync"
	"time"
)

// Call is one recorded emitter invocation.
type Call struct {
	Op        string
	Frequency float64
	Text      string
	Interrupt bool
}

// Recorder is an Emitter that remembers every call, for tests and dry runs.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (recorder *Recorder) Tone(frequency float64, _ Waveform, _ time.Duration) {
	recorder.append(Call{Op: "tone", Frequency: frequency})
}

func (recorder *Recorder) Speak(text string, interrupt bool) {
	recorder.append(Call{Op: "speak", Text: text, Interrupt: interrupt})
}

func (recorder *Recorder) CancelSpeech() {
	recorder.append(Call{Op: "cancel"})
}

// Calls returns a copy of the recorded calls.
func (recorder *Recorder) Calls() []Call {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Call(nil), recorder.calls...)
}

// Tones returns the recorded tone frequencies in order.
func (recorder *Recorder) Tones() []float64 {
	var tones []float64
	for _, call := range recorder.Calls() {
		if call.Op == "tone" {
			tones = append(tones, call.Frequency)
		}
	}
	return tones
}

// Spoken returns the recorded utterances in order.
func (recorder *Recorder) Spoken() []string {
	var spoken []string
	for _, call := range recorder.Calls() {
		if call.Op == "speak" {
			spoken = append(spoken, call.Text)
		}
	}
	return spoken
}

// Reset forgets all recorded calls.
func (recorder *Recorder) Reset() {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.calls = nil
}

func (recorder *Recorder) append(call Call) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.calls = append(recorder.calls, call)
}
