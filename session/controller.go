package session

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/scribe/audio"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/transcription"
)

// Command is an abstract control signal, typically derived from a hotkey.
type Command string

const (
	CommandStart  Command = "start"
	CommandStop   Command = "stop"
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandCancel Command = "cancel"
	// CommandToggle maps Idle to start and Recording/Paused to stop;
	// it is ignored while Transcribing.
	CommandToggle Command = "toggle"
	// CommandAcknowledge collapses a terminal state back to Idle after the
	// observer has shown the result.
	CommandAcknowledge Command = "acknowledge"
)

// Recorder is the capture surface the controller drives.
type Recorder interface {
	Start() error
	Pause() error
	Resume() error
	Stop() (*audio.Buffer, error)
	Cancel()
	Duration() time.Duration
	DeviceInUse() string
}

// Chunker prepares a recorded buffer for upload.
type Chunker interface {
	Prepare(ctx context.Context, buf *audio.Buffer) ([]audio.Segment, error)
}

// Transcriber turns prepared segments into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, segments []audio.Segment) (*transcription.TranscriptResult, error)
}

// Config configures the session controller.
type Config struct {
	// MinDuration fails a recording stopped before this length instead of
	// spending network calls on it. Zero disables the floor.
	MinDuration time.Duration
	// CommandBuffer is the command queue depth. Defaults to 16.
	CommandBuffer int
	// EventBuffer is the event channel depth. Defaults to 64.
	EventBuffer int
}

// Controller owns the session state machine. Commands enter through a
// buffered queue and are applied one at a time by the Run loop; every
// (state, command) pair outside the transition table is a no-op. Reads
// go through Snapshot and never block command processing for long.
type Controller struct {
	recorder    Recorder
	chunker     Chunker
	transcriber Transcriber
	cfg         Config

	mu         sync.Mutex
	state      State
	session    *Session
	generation uint64
	cancelJob  context.CancelFunc

	commands chan Command
	events   chan Event

	log     *logger.Logger
	metrics *sessionMetrics
}

// New creates an idle controller.
func New(recorder Recorder, chunker Chunker, transcriber Transcriber, cfg Config) *Controller {
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = 16
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	return &Controller{
		recorder:    recorder,
		chunker:     chunker,
		transcriber: transcriber,
		cfg:         cfg,
		state:       StateIdle,
		commands:    make(chan Command, cfg.CommandBuffer),
		events:      make(chan Event, cfg.EventBuffer),
		log:         logger.WithComponent("session"),
		metrics:     newSessionMetrics(),
	}
}

// Events is the outbound event stream for observers.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Dispatch enqueues a command and returns immediately. The hotkey source
// must never stall on controller logic; when the queue is full the command
// is dropped and a rejection event is pushed back instead.
func (c *Controller) Dispatch(cmd Command) {
	select {
	case c.commands <- cmd:
	default:
		c.log.Warn("command queue full, dropping command", logger.Fields(
			logger.FieldOperation, string(cmd),
		))
		c.emit(Event{
			Kind:      EventCommandRejected,
			Timestamp: time.Now(),
			Err:       apperrors.CommandDropped(string(cmd)),
		})
	}
}

// Run processes commands until ctx is cancelled. Any active recording or
// transcription is aborted on shutdown.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case cmd := <-c.commands:
			c.apply(ctx, cmd)
		}
	}
}

// Snapshot is a copy of the current state for observers; it never exposes
// the live session.
type Snapshot struct {
	State     State
	SessionID string
	Device    string
	Elapsed   time.Duration
	StartedAt time.Time
}

// Snapshot returns a consistent copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{State: c.state}
	if c.session != nil {
		snap.SessionID = c.session.ID
		snap.Device = c.session.Device
		snap.StartedAt = c.session.StartedAt
		snap.Elapsed = c.elapsedLocked()
	}
	return snap
}

func (c *Controller) apply(ctx context.Context, cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cmd == CommandToggle {
		switch c.state {
		case StateIdle:
			cmd = CommandStart
		case StateRecording, StatePaused:
			cmd = CommandStop
		default:
			return
		}
	}

	switch cmd {
	case CommandStart:
		c.startLocked(ctx)
	case CommandStop:
		c.stopLocked(ctx)
	case CommandPause:
		c.pauseLocked()
	case CommandResume:
		c.resumeLocked()
	case CommandCancel:
		c.cancelLocked(ctx)
	case CommandAcknowledge:
		c.acknowledgeLocked()
	default:
		c.log.Debug("unknown command ignored", logger.Fields(logger.FieldOperation, string(cmd)))
	}
}

func (c *Controller) startLocked(ctx context.Context) {
	if c.state != StateIdle {
		id := ""
		if c.session != nil {
			id = c.session.ID
		}
		c.emit(Event{
			Kind:      EventCommandRejected,
			SessionID: id,
			State:     c.state,
			Timestamp: time.Now(),
			Err:       apperrors.SessionAlreadyActive(id),
		})
		return
	}

	c.session = newSession()
	c.generation++
	if err := c.recorder.Start(); err != nil {
		c.session.Err = err
		c.toTerminalLocked(ctx, StateFailed)
		return
	}
	c.session.Device = c.recorder.DeviceInUse()
	c.setStateLocked(StateRecording)
}

func (c *Controller) stopLocked(ctx context.Context) {
	if c.state != StateRecording && c.state != StatePaused {
		return
	}

	elapsed := c.recorder.Duration()
	if c.cfg.MinDuration > 0 && elapsed < c.cfg.MinDuration {
		c.recorder.Cancel()
		c.session.Elapsed = elapsed
		c.session.Err = apperrors.RecordingTooShort(elapsed, c.cfg.MinDuration)
		c.toTerminalLocked(ctx, StateFailed)
		return
	}

	buf, err := c.recorder.Stop()
	if err != nil {
		c.session.Err = err
		c.toTerminalLocked(ctx, StateFailed)
		return
	}
	c.session.Elapsed = buf.Duration()
	c.metrics.recordingStopped(ctx, c.session.Elapsed)
	c.setStateLocked(StateTranscribing)

	jobCtx, cancel := context.WithCancel(ctx)
	c.cancelJob = cancel
	gen := c.generation
	go c.transcribe(jobCtx, gen, buf)
}

func (c *Controller) pauseLocked() {
	if c.state != StateRecording {
		return
	}
	if err := c.recorder.Pause(); err != nil {
		c.log.Warn("pause failed", logger.ErrorFields("pause", err))
		return
	}
	c.setStateLocked(StatePaused)
}

func (c *Controller) resumeLocked() {
	if c.state != StatePaused {
		return
	}
	if err := c.recorder.Resume(); err != nil {
		c.log.Warn("resume failed", logger.ErrorFields("resume", err))
		return
	}
	c.setStateLocked(StateRecording)
}

func (c *Controller) cancelLocked(ctx context.Context) {
	switch c.state {
	case StateRecording, StatePaused:
		c.recorder.Cancel()
	case StateTranscribing:
		if c.cancelJob != nil {
			c.cancelJob()
			c.cancelJob = nil
		}
	default:
		return
	}

	// Invalidate the generation so a late transcription result for this
	// session is discarded on arrival.
	c.generation++
	c.session.Err = apperrors.SessionCancelled(c.session.ID)
	c.toTerminalLocked(ctx, StateCancelled)
}

func (c *Controller) acknowledgeLocked() {
	if !c.state.Terminal() {
		return
	}
	c.session = nil
	c.setStateLocked(StateIdle)
}

// transcribe runs off the command loop; network latency must never delay
// command processing.
func (c *Controller) transcribe(ctx context.Context, gen uint64, buf *audio.Buffer) {
	segments, err := c.chunker.Prepare(ctx, buf)
	if err != nil {
		c.finishTranscription(ctx, gen, nil, err)
		return
	}
	start := time.Now()
	result, err := c.transcriber.Transcribe(ctx, segments)
	if err == nil {
		c.log.Debug("transcription finished", logger.DurationFields("transcribe", time.Since(start)))
	}
	c.finishTranscription(ctx, gen, result, err)
}

func (c *Controller) finishTranscription(ctx context.Context, gen uint64, result *transcription.TranscriptResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != StateTranscribing {
		c.log.Debug("discarding transcription result for superseded session")
		return
	}
	c.cancelJob = nil

	if err != nil {
		c.session.Err = err
		c.toTerminalLocked(ctx, StateFailed)
		return
	}
	c.session.Transcript = result
	c.toTerminalLocked(ctx, StateCompleted)
}

// toTerminalLocked enters a terminal state and emits the result event.
// The session stays in place until an acknowledge collapses it to Idle.
func (c *Controller) toTerminalLocked(ctx context.Context, state State) {
	c.setStateLocked(state)
	c.metrics.sessionEnded(ctx, state)
	c.emit(Event{
		Kind:       EventResult,
		SessionID:  c.session.ID,
		State:      state,
		Timestamp:  time.Now(),
		Device:     c.session.Device,
		Elapsed:    c.session.Elapsed,
		Transcript: c.session.Transcript,
		Err:        c.session.Err,
	})
}

func (c *Controller) setStateLocked(state State) {
	prev := c.state
	c.state = state

	ev := Event{
		Kind:      EventStateChanged,
		State:     state,
		Timestamp: time.Now(),
	}
	if c.session != nil {
		ev.SessionID = c.session.ID
		ev.Device = c.session.Device
		ev.Elapsed = c.elapsedLocked()
	}
	c.emit(ev)

	c.log.Info("session state changed", logger.Fields(
		logger.FieldSessionID, ev.SessionID,
		logger.FieldState, string(state),
		"previous", string(prev),
	))
}

// elapsedLocked reports recorded time. While capture is live it tracks the
// recorder's pause-aware clock; afterwards it is fixed at stop time.
func (c *Controller) elapsedLocked() time.Duration {
	switch c.state {
	case StateRecording, StatePaused:
		return c.recorder.Duration()
	default:
		return c.session.Elapsed
	}
}

// emit never blocks the state machine; if the observer falls behind the
// buffer, the event is dropped.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("event buffer full, dropping event", logger.Fields(
			logger.FieldState, string(ev.State),
			"kind", string(ev.Kind),
		))
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRecording, StatePaused:
		c.recorder.Cancel()
	case StateTranscribing:
		if c.cancelJob != nil {
			c.cancelJob()
			c.cancelJob = nil
		}
	}
	c.generation++
}
