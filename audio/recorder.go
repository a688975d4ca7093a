package audio

import (
	"errors"
	"io"
	"sync"
	"time"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

// levelHistorySize is the number of recent RMS values kept for waveform display.
const levelHistorySize = 48

// State is the recorder's lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	SampleRate int
	Channels   int
	// Device is the preferred input device ID. Empty selects the default.
	Device string
}

// Recorder accumulates microphone samples into a Buffer.
//
// The capture goroutine only moves blocks; amplitude computation happens
// on a separate goroutine so a slow waveform consumer can never stall
// sample accumulation.
type Recorder struct {
	inventory DeviceInventory
	config    RecorderConfig
	log       *logger.Logger

	mu            sync.Mutex
	state         State
	stream        SampleStream
	buf           *Buffer
	paused        bool
	deviceInUse   string
	segmentStart  time.Time
	elapsedFrozen time.Duration
	currentRMS    float64
	history       []float64
	done          chan struct{}
}

// NewRecorder creates a recorder reading from the given device inventory.
func NewRecorder(inventory DeviceInventory, cfg RecorderConfig) *Recorder {
	return &Recorder{
		inventory: inventory,
		config:    cfg,
		log:       logger.WithComponent("audio.recorder"),
		state:     StateIdle,
	}
}

// State returns the current recorder state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// DeviceInUse returns the device that was actually opened, which may
// differ from the configured device when fallback occurred.
func (r *Recorder) DeviceInUse() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deviceInUse
}

// CurrentRMS returns the most recent normalized input level.
func (r *Recorder) CurrentRMS() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentRMS
}

// LevelHistory returns recent RMS levels for waveform display, newest last.
func (r *Recorder) LevelHistory() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.history))
	copy(out, r.history)
	return out
}

// Duration returns the elapsed recording time, excluding paused spans.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateRecording:
		return r.elapsedFrozen + time.Since(r.segmentStart)
	case StatePaused:
		return r.elapsedFrozen
	default:
		if r.buf != nil {
			return r.buf.Duration()
		}
		return 0
	}
}

// Start opens the input device and begins accumulating samples.
// If the configured device cannot be opened, the system default is used
// and DeviceInUse reports the substitution.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return apperrors.RecorderState("start", string(r.state))
	}

	stream, device, err := r.openStream()
	if err != nil {
		return err
	}

	r.stream = stream
	r.deviceInUse = device
	r.buf = NewBuffer(r.config.SampleRate, r.config.Channels)
	r.paused = false
	r.currentRMS = 0
	r.history = r.history[:0]
	r.segmentStart = time.Now()
	r.elapsedFrozen = 0
	r.done = make(chan struct{})
	r.state = StateRecording

	blocks := make(chan []int16, 256)
	go r.captureLoop(stream, blocks)
	go r.levelLoop(blocks, r.done)

	r.log.Info("recording started", logger.Fields(logger.FieldDevice, device))
	return nil
}

// openStream opens the configured device, falling back to the default.
func (r *Recorder) openStream() (SampleStream, string, error) {
	if r.config.Device != "" {
		stream, err := r.inventory.Open(r.config.Device, r.config.SampleRate, r.config.Channels)
		if err == nil {
			return stream, r.config.Device, nil
		}
		r.log.Warn("configured device unavailable, falling back to default",
			logger.Fields(logger.FieldDevice, r.config.Device, logger.FieldError, err))
	}

	stream, device, err := r.inventory.OpenDefault(r.config.SampleRate, r.config.Channels)
	if err != nil {
		return nil, "", apperrors.DeviceUnavailable(r.config.Device).WithCause(err)
	}
	return stream, device.ID, nil
}

// captureLoop moves blocks from the device stream to the level goroutine.
// It does no per-sample work of its own.
func (r *Recorder) captureLoop(stream SampleStream, blocks chan<- []int16) {
	defer close(blocks)
	for {
		block, err := stream.ReadBlock()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.log.Error("capture stream error", logger.Fields(logger.FieldError, err))
			}
			return
		}
		r.mu.Lock()
		paused := r.paused
		r.mu.Unlock()
		if paused || len(block) == 0 {
			continue
		}
		blocks <- block
	}
}

// levelLoop computes per-block amplitude and appends blocks to the buffer.
func (r *Recorder) levelLoop(blocks <-chan []int16, done chan<- struct{}) {
	defer close(done)
	for block := range blocks {
		level := BlockLevel(block)
		r.mu.Lock()
		if r.buf != nil {
			r.buf.Append(block, level)
		}
		r.currentRMS = level.RMS
		r.history = append(r.history, level.RMS)
		if len(r.history) > levelHistorySize {
			r.history = r.history[len(r.history)-levelHistorySize:]
		}
		r.mu.Unlock()
	}
}

// Pause suspends sample accumulation without closing the device, so
// Resume has near-zero latency. The elapsed timer freezes.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return apperrors.RecorderState("pause", string(r.state))
	}
	r.paused = true
	r.elapsedFrozen += time.Since(r.segmentStart)
	r.state = StatePaused
	return nil
}

// Resume continues a paused recording.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return apperrors.RecorderState("resume", string(r.state))
	}
	r.paused = false
	r.segmentStart = time.Now()
	r.state = StateRecording
	return nil
}

// Stop closes the stream and returns the accumulated buffer. The
// recorder gives up ownership; the buffer is never mutated afterwards.
func (r *Recorder) Stop() (*Buffer, error) {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return nil, apperrors.RecorderState("stop", string(StateIdle))
	}
	stream := r.stream
	done := r.done
	r.stream = nil
	r.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
	}
	if done != nil {
		<-done // wait for remaining blocks to land in the buffer
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	buf := r.buf
	r.buf = nil
	r.state = StateIdle
	r.paused = false

	r.log.Info("recording stopped", logger.Fields(
		logger.FieldDevice, r.deviceInUse,
		logger.FieldDuration, buf.Duration().Milliseconds()))
	return buf, nil
}

// Cancel aborts an in-progress capture and discards all samples.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return
	}
	stream := r.stream
	done := r.done
	r.stream = nil
	r.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
	}
	if done != nil {
		<-done
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = nil
	r.state = StateIdle
	r.paused = false
	r.log.Info("recording cancelled", logger.Fields(logger.FieldDevice, r.deviceInUse))
}
