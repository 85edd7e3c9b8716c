package platform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"visionary/internal/core/cue"
)

const (
	// SampleRate is the sample rate of synthesized tones.
	SampleRate = 44100
	// maxQueuedSpeech bounds utterances waiting behind the current one; older ones are dropped.
	maxQueuedSpeech = 4
)

// commandSpec describes one external player that may be installed.
type commandSpec struct {
	name string
	args func(input string) []string
	// cancel, when set, are the arguments that stop speech owned by a daemon.
	cancel []string
}

type resolvedCommand struct {
	path   string
	args   func(input string) []string
	cancel []string
}

func resolveCommand(candidates []commandSpec) *resolvedCommand {
	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate.name); err == nil {
			return &resolvedCommand{path: path, args: candidate.args, cancel: candidate.cancel}
		}
	}
	return nil
}

// CuePlayer is a cue.Emitter backed by the operating system's audio and speech tools.
// Missing tools leave the corresponding cue silent.
type CuePlayer struct {
	mu      sync.Mutex
	logger  *zap.Logger
	tones   *resolvedCommand
	speech  *resolvedCommand
	dir     string
	cache   map[string]string
	// speaker is the utterance in progress; queue holds the ones waiting behind it.
	speaker  *exec.Cmd
	queue    []string
	speaking bool
	// flush asks the speech goroutine to run the cancel command before the next utterance.
	flush bool
}

var _ cue.Emitter = (*CuePlayer)(nil)

// NewCuePlayer detects the available player and speech tools.
func NewCuePlayer(logger *zap.Logger) *CuePlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	player := &CuePlayer{
		logger: logger.Named("cues"),
		tones:  resolveCommand(toneCandidates()),
		speech: resolveCommand(speechCandidates()),
		cache:  make(map[string]string),
	}
	player.logger.Debug("cue tools detected",
		zap.Bool("tones", player.tones != nil),
		zap.Bool("speech", player.speech != nil))
	return player
}

// Tone plays a synthesized tone without waiting for playback to finish.
func (player *CuePlayer) Tone(frequency float64, wave cue.Waveform, duration time.Duration) {
	if player.tones == nil {
		return
	}
	path, err := player.toneFile(frequency, wave, duration)
	if err != nil {
		player.logger.Debug("tone synthesis failed", zap.Error(err))
		return
	}
	command := exec.Command(player.tones.path, player.tones.args(path)...)
	if err := command.Start(); err != nil {
		player.logger.Debug("tone playback failed", zap.Error(err))
		return
	}
	go command.Wait()
}

// Speak reads text aloud. Without interrupt the text waits for earlier utterances;
// with interrupt, queued and in-progress speech is dropped first.
func (player *CuePlayer) Speak(text string, interrupt bool) {
	if player.speech == nil || text == "" {
		return
	}
	player.mu.Lock()
	defer player.mu.Unlock()
	if interrupt {
		player.cancelLocked()
	}
	if len(player.queue) == maxQueuedSpeech {
		player.logger.Debug("speech queue full, dropping oldest", zap.String("text", player.queue[0]))
		player.queue = player.queue[1:]
	}
	player.queue = append(player.queue, text)
	if !player.speaking {
		player.speaking = true
		go player.speakQueued()
	}
}

// speakQueued runs queued utterances one at a time until the queue is empty.
func (player *CuePlayer) speakQueued() {
	for {
		player.mu.Lock()
		if len(player.queue) == 0 {
			player.speaking = false
			player.mu.Unlock()
			return
		}
		text := player.queue[0]
		player.queue = player.queue[1:]
		command := exec.Command(player.speech.path, player.speech.args(text)...)
		if err := command.Start(); err != nil {
			player.logger.Debug("speech failed", zap.Error(err))
			player.mu.Unlock()
			continue
		}
		player.speaker = command
		player.mu.Unlock()

		command.Wait()

		player.mu.Lock()
		if player.speaker == command {
			player.speaker = nil
		}
		flush := player.flush
		player.flush = false
		player.mu.Unlock()

		if flush {
			// Killing the client leaves daemon-side speech running.
			if err := exec.Command(player.speech.path, player.speech.cancel...).Run(); err != nil {
				player.logger.Debug("cancel speech failed", zap.Error(err))
			}
		}
	}
}

// CancelSpeech stops the utterance in progress and drops queued ones.
func (player *CuePlayer) CancelSpeech() {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.cancelLocked()
}

// Close stops speech and removes synthesized tone files.
func (player *CuePlayer) Close() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.cancelLocked()
	if player.dir == "" {
		return nil
	}
	if err := os.RemoveAll(player.dir); err != nil {
		return fmt.Errorf("remove tone cache: %w", err)
	}
	player.dir = ""
	player.cache = make(map[string]string)
	return nil
}

func (player *CuePlayer) cancelLocked() {
	player.queue = nil
	if player.speaker == nil || player.speaker.Process == nil {
		return
	}
	if err := player.speaker.Process.Kill(); err != nil {
		player.logger.Debug("cancel speech failed", zap.Error(err))
	}
	player.speaker = nil
	player.flush = player.speech != nil && len(player.speech.cancel) > 0
}

func (player *CuePlayer) toneFile(frequency float64, wave cue.Waveform, duration time.Duration) (string, error) {
	key := fmt.Sprintf("%s-%.0f-%d", wave, frequency, duration.Milliseconds())

	player.mu.Lock()
	defer player.mu.Unlock()
	if path, ok := player.cache[key]; ok {
		return path, nil
	}
	if player.dir == "" {
		dir, err := os.MkdirTemp("", "visionary-tones-")
		if err != nil {
			return "", fmt.Errorf("create tone cache: %w", err)
		}
		player.dir = dir
	}

	path := filepath.Join(player.dir, key+".wav")
	if err := os.WriteFile(path, SynthesizeWAV(frequency, wave, duration), 0o644); err != nil {
		return "", fmt.Errorf("write tone: %w", err)
	}
	player.cache[key] = path
	return path, nil
}

// SynthesizeWAV renders a mono 16-bit PCM tone with a short exponential fade-out.
func SynthesizeWAV(frequency float64, wave cue.Waveform, duration time.Duration) []byte {
	samples := int(duration.Seconds() * SampleRate)
	if samples < 0 {
		samples = 0
	}
	dataSize := samples * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	const volume = 0.1
	for index := 0; index < samples; index++ {
		t := float64(index) / SampleRate
		phase := math.Mod(t*frequency, 1)
		envelope := volume * math.Pow(0.01/volume, float64(index)/float64(samples))
		sample := oscillator(wave, phase) * envelope
		binary.Write(&buf, binary.LittleEndian, int16(sample*math.MaxInt16))
	}
	return buf.Bytes()
}

func oscillator(wave cue.Waveform, phase float64) float64 {
	switch wave {
	case cue.WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case cue.WaveTriangle:
		return 4*math.Abs(phase-0.5) - 1
	case cue.WaveSawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
