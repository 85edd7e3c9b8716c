package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"visionary/internal/core/clock"
	"visionary/internal/core/cue"
	"visionary/internal/core/model"
)

func routineOf(durations ...int) model.Routine {
	routine := model.Routine{ID: "test", Name: "Test"}
	for index, duration := range durations {
		routine.Exercises = append(routine.Exercises, model.Exercise{
			ID:              string(rune('a' + index)),
			Name:            string(rune('A' + index)),
			Description:     "Follow the guide.",
			DurationSeconds: duration,
			Kind:            model.KindMovingDot,
			Pattern:         model.PatternHorizontal,
		})
	}
	return routine
}

type harness struct {
	session   *Session
	clock     *clock.Manual
	cues      *cue.Recorder
	completed *atomic.Int32
}

func newHarness(t *testing.T, routine model.Routine) harness {
	t.Helper()
	manual := clock.NewManual()
	recorder := &cue.Recorder{}
	completed := &atomic.Int32{}
	session, err := New(routine, Options{
		Clock:      manual,
		Cues:       recorder,
		OnComplete: func() { completed.Add(1) },
	})
	require.NoError(t, err)
	return harness{session: session, clock: manual, cues: recorder, completed: completed}
}

type step struct {
	index    int
	timeLeft int
	isBreak  bool
	phase    Phase
}

func stepOf(snapshot Snapshot) step {
	return step{snapshot.Index, snapshot.TimeLeft, snapshot.IsBreak, snapshot.Phase}
}

func TestNewStartsPlayingFirstExercise(t *testing.T) {
	h := newHarness(t, routineOf(30, 45))
	snapshot := h.session.Snapshot()

	assert.Equal(t, 0, snapshot.Index)
	assert.Equal(t, 30, snapshot.TimeLeft)
	assert.False(t, snapshot.IsBreak)
	assert.True(t, snapshot.Playing)
	assert.Equal(t, PhaseExercise, snapshot.Phase)
	assert.Equal(t, 0.0, snapshot.Progress)
	require.NotNil(t, snapshot.Next)
	assert.Equal(t, "b", snapshot.Next.ID)
	assert.True(t, h.clock.Armed())
	assert.Equal(t, []string{"A. Follow the guide."}, h.cues.Spoken())
	assert.Equal(t, []float64{880}, h.cues.Tones())
}

func TestNewRejectsInvalidRoutine(t *testing.T) {
	manual := clock.NewManual()

	_, err := New(model.Routine{Name: "empty"}, Options{Clock: manual})
	assert.ErrorIs(t, err, model.ErrEmptyRoutine)

	_, err = New(routineOf(30, 0), Options{Clock: manual})
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	assert.False(t, manual.Armed())
}

func TestTicksToCompletion(t *testing.T) {
	tests := []struct {
		name      string
		durations []int
	}{
		{"single", []int{10}},
		{"pair", []int{30, 30}},
		{"three", []int{3, 4, 5}},
		{"one second exercises", []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, routineOf(tt.durations...))
			want := BreakSeconds * (len(tt.durations) - 1)
			for _, duration := range tt.durations {
				want += duration
			}

			delivered := h.clock.Advance(10000)

			assert.Equal(t, want, delivered)
			assert.Equal(t, PhaseCompleted, h.session.Snapshot().Phase)
			assert.Equal(t, int32(1), h.completed.Load())
			assert.False(t, h.clock.Armed())
		})
	}
}

func TestEndToEndTwoExercises(t *testing.T) {
	h := newHarness(t, routineOf(30, 30))

	h.clock.Advance(30)
	assert.Equal(t, step{0, BreakSeconds, true, PhaseBreak}, stepOf(h.session.Snapshot()))

	h.clock.Advance(5)
	assert.Equal(t, step{1, 30, false, PhaseExercise}, stepOf(h.session.Snapshot()))

	assert.Equal(t, 30, h.clock.Advance(30))
	assert.Equal(t, PhaseCompleted, h.session.Snapshot().Phase)
	assert.Equal(t, int32(1), h.completed.Load())
	assert.Equal(t, 0, h.clock.Advance(10))
}

func TestProgressWithinPhase(t *testing.T) {
	h := newHarness(t, routineOf(4, 6, 3))
	previous := h.session.Snapshot()

	for !previous.Finished() {
		require.Equal(t, 1, h.clock.Advance(1))
		current := h.session.Snapshot()
		assert.GreaterOrEqual(t, current.Progress, 0.0)
		assert.LessOrEqual(t, current.Progress, 1.0)

		samePhase := current.Index == previous.Index && current.IsBreak == previous.IsBreak
		switch {
		case current.Finished():
			assert.Equal(t, 1.0, current.Progress)
		case samePhase:
			assert.GreaterOrEqual(t, current.Progress, previous.Progress)
		default:
			assert.Equal(t, 0.0, current.Progress, "new phase must start at zero")
		}
		previous = current
	}
}

func TestBreakProgress(t *testing.T) {
	h := newHarness(t, routineOf(2, 2))
	h.clock.Advance(2)
	h.clock.Advance(2)

	snapshot := h.session.Snapshot()
	assert.True(t, snapshot.IsBreak)
	assert.Equal(t, 3, snapshot.TimeLeft)
	assert.InDelta(t, 0.4, snapshot.Progress, 1e-9)
	assert.Equal(t, BreakAccent, snapshot.Color)
}

func TestPauseDoesNotChangeTrajectory(t *testing.T) {
	reference := newHarness(t, routineOf(5, 3))
	paused := newHarness(t, routineOf(5, 3))

	var want, got []step
	for !reference.session.Snapshot().Finished() {
		reference.clock.Advance(1)
		want = append(want, stepOf(reference.session.Snapshot()))
	}

	for tick := 0; !paused.session.Snapshot().Finished(); tick++ {
		if tick == 2 || tick == 7 {
			before := paused.session.Snapshot()
			paused.session.TogglePlay()
			assert.False(t, paused.clock.Armed())
			assert.Equal(t, 0, paused.clock.Advance(5))
			assert.Equal(t, stepOf(before), stepOf(paused.session.Snapshot()))
			paused.session.TogglePlay()
		}
		paused.clock.Advance(1)
		got = append(got, stepOf(paused.session.Snapshot()))
	}

	assert.Equal(t, want, got)
	assert.Equal(t, int32(1), paused.completed.Load())
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	h := newHarness(t, routineOf(5))
	snapshot := h.session.TogglePlay()
	assert.False(t, snapshot.Playing)

	snapshot = h.session.Tick()
	assert.Equal(t, 5, snapshot.TimeLeft)
	assert.Equal(t, []float64{880, 500}, h.cues.Tones())
}

func TestSkipFromExerciseMatchesExhaustion(t *testing.T) {
	for index := 0; index < 2; index++ {
		skipped := newHarness(t, routineOf(8, 6, 4))
		natural := newHarness(t, routineOf(8, 6, 4))

		for current := 0; current < index; current++ {
			require.NoError(t, skipped.session.Skip())
			require.NoError(t, skipped.session.Skip())
		}
		natural.clock.Advance(8)
		if index == 1 {
			natural.clock.Advance(BreakSeconds + 6)
		}

		skipped.clock.Advance(1)
		require.NoError(t, skipped.session.Skip())

		assert.Equal(t, stepOf(natural.session.Snapshot()), stepOf(skipped.session.Snapshot()))
		assert.Equal(t, step{index, BreakSeconds, true, PhaseBreak}, stepOf(skipped.session.Snapshot()))
	}
}

func TestSkipFromBreakStartsNextExercise(t *testing.T) {
	h := newHarness(t, routineOf(3, 7))
	h.clock.Advance(3)
	require.True(t, h.session.Snapshot().IsBreak)

	require.NoError(t, h.session.Skip())
	assert.Equal(t, step{1, 7, false, PhaseExercise}, stepOf(h.session.Snapshot()))
	assert.Equal(t, int32(0), h.completed.Load())
}

func TestSkipFinalExerciseCompletes(t *testing.T) {
	h := newHarness(t, routineOf(3, 7))
	require.NoError(t, h.session.Skip())
	require.NoError(t, h.session.Skip())
	require.Equal(t, 1, h.session.Snapshot().Index)

	require.NoError(t, h.session.Skip())
	snapshot := h.session.Snapshot()
	assert.Equal(t, PhaseCompleted, snapshot.Phase)
	assert.False(t, snapshot.IsBreak)
	assert.Equal(t, int32(1), h.completed.Load())
	assert.False(t, h.clock.Armed())

	assert.ErrorIs(t, h.session.Skip(), ErrSessionFinished)
	assert.Equal(t, int32(1), h.completed.Load())
}

func TestSkipWhilePausedStaysPaused(t *testing.T) {
	h := newHarness(t, routineOf(3, 7))
	h.session.TogglePlay()

	require.NoError(t, h.session.Skip())
	snapshot := h.session.Snapshot()
	assert.True(t, snapshot.IsBreak)
	assert.False(t, snapshot.Playing)
	assert.False(t, h.clock.Armed())
}

func TestExitDiscardsSession(t *testing.T) {
	h := newHarness(t, routineOf(3, 7))
	events := h.session.Subscribe(8)
	h.clock.Advance(1)
	h.cues.Reset()

	h.session.Exit()

	assert.Equal(t, PhaseExited, h.session.Snapshot().Phase)
	assert.False(t, h.clock.Armed())
	assert.Equal(t, []cue.Call{{Op: "cancel"}}, h.cues.Calls())
	assert.ErrorIs(t, h.session.Skip(), ErrSessionFinished)
	assert.Equal(t, int32(0), h.completed.Load())

	var types []EventType
	for event := range events {
		types = append(types, event.Type)
	}
	assert.Equal(t, []EventType{EventTick, EventExited}, types)

	h.session.Exit()
	h.session.TogglePlay()
	assert.False(t, h.clock.Armed())
}

func TestWarningTonesOnlyDuringExercises(t *testing.T) {
	h := newHarness(t, routineOf(5, 2))
	h.cues.Reset()

	h.clock.Advance(5)
	assert.Equal(t, []float64{440, 440, 440, 660}, h.cues.Tones())

	h.cues.Reset()
	h.clock.Advance(BreakSeconds)
	assert.Equal(t, []float64{880}, h.cues.Tones())

	h.cues.Reset()
	h.clock.Advance(2)
	assert.Equal(t, []float64{440, 1200}, h.cues.Tones())
}

func TestTransitionsCancelSpeechBeforeSpeaking(t *testing.T) {
	h := newHarness(t, routineOf(1, 1))
	h.cues.Reset()

	h.clock.Advance(1)
	assert.Equal(t, []cue.Call{
		{Op: "tone", Frequency: 660},
		{Op: "cancel"},
		{Op: "speak", Text: "Take a short break.", Interrupt: false},
	}, h.cues.Calls())

	h.cues.Reset()
	h.clock.Advance(BreakSeconds)
	assert.Equal(t, []cue.Call{
		{Op: "tone", Frequency: 880},
		{Op: "cancel"},
		{Op: "speak", Text: "B. Follow the guide.", Interrupt: true},
	}, h.cues.Calls())

	h.cues.Reset()
	h.clock.Advance(1)
	assert.Equal(t, []cue.Call{
		{Op: "tone", Frequency: 1200},
		{Op: "cancel"},
		{Op: "speak", Text: "Session complete. Great job.", Interrupt: true},
	}, h.cues.Calls())
}

type brokenEmitter struct{}

func (brokenEmitter) Tone(float64, cue.Waveform, time.Duration) { panic("no audio") }
func (brokenEmitter) Speak(string, bool)                        { panic("no speech") }
func (brokenEmitter) CancelSpeech()                             { panic("no speech") }

func TestCueFailuresDoNotAffectTiming(t *testing.T) {
	manual := clock.NewManual()
	var completed atomic.Int32
	session, err := New(routineOf(3, 2), Options{
		Clock:      manual,
		Cues:       brokenEmitter{},
		OnComplete: func() { completed.Add(1) },
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Equal(t, 3+BreakSeconds+2, manual.Advance(100))
	})
	assert.Equal(t, int32(1), completed.Load())
	assert.True(t, session.Snapshot().Finished())
}

// retainingClock keeps every callback it was ever armed with.
type retainingClock struct {
	callbacks []func()
}

func (c *retainingClock) Arm(onTick func()) clock.Handle {
	c.callbacks = append(c.callbacks, onTick)
	return clock.Handle(len(c.callbacks))
}

func (c *retainingClock) Disarm(clock.Handle) {}

func TestStaleClockCallbacksAreDropped(t *testing.T) {
	retaining := &retainingClock{}
	session, err := New(routineOf(10), Options{Clock: retaining})
	require.NoError(t, err)

	session.TogglePlay()
	session.TogglePlay()
	require.Len(t, retaining.callbacks, 2)

	retaining.callbacks[0]()
	assert.Equal(t, 10, session.Snapshot().TimeLeft)

	retaining.callbacks[1]()
	assert.Equal(t, 9, session.Snapshot().TimeLeft)

	session.TogglePlay()
	retaining.callbacks[1]()
	assert.Equal(t, 9, session.Snapshot().TimeLeft)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	h := newHarness(t, routineOf(2, 1))
	events := h.session.Subscribe(32)

	h.clock.Advance(100)

	var types []EventType
	for event := range events {
		types = append(types, event.Type)
	}
	assert.Equal(t, []EventType{
		EventTick,
		EventPhaseChange,
		EventTick, EventTick, EventTick, EventTick,
		EventPhaseChange,
		EventCompleted,
	}, types)

	late := h.session.Subscribe(1)
	_, open := <-late
	assert.False(t, open)
}

func TestAccentColor(t *testing.T) {
	settings := model.DefaultSettings()
	exercise := model.Exercise{Color: "#f472b6"}

	assert.Equal(t, "#f472b6", AccentColor(settings, exercise, false))
	assert.Equal(t, DefaultAccent, AccentColor(settings, model.Exercise{}, false))
	assert.Equal(t, BreakAccent, AccentColor(settings, exercise, true))

	settings.UsePreferredColor = true
	settings.PreferredColor = "#22c55e"
	assert.Equal(t, "#22c55e", AccentColor(settings, exercise, false))
}

func TestParseHexColor(t *testing.T) {
	parsed, err := ParseHexColor("#38bdf8")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x38), parsed.R)
	assert.Equal(t, uint8(0xbd), parsed.G)
	assert.Equal(t, uint8(0xf8), parsed.B)
	assert.Equal(t, uint8(255), parsed.A)

	short, err := ParseHexColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), short.G)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}

func TestRealTickerCompletesWithoutLeaks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := clock.NewTicker(clock.Config{TickInterval: 2 * time.Millisecond})
	done := make(chan struct{})
	session, err := New(routineOf(2, 1), Options{
		Clock:      ticker,
		OnComplete: func() { close(done) },
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}
	ticker.Wait()
	assert.Equal(t, PhaseCompleted, session.Snapshot().Phase)
}

func TestConcurrentSkipsCompleteOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := clock.NewTicker(clock.Config{TickInterval: time.Millisecond})
	var completed atomic.Int32
	session, err := New(routineOf(2, 2, 2), Options{
		Clock:      ticker,
		OnComplete: func() { completed.Add(1) },
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for session.Skip() == nil {
			}
		}()
	}
	wg.Wait()
	ticker.Wait()

	assert.Equal(t, PhaseCompleted, session.Snapshot().Phase)
	assert.Equal(t, int32(1), completed.Load())
}
