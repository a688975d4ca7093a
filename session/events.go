package session

import (
	"time"

	"github.com/kbukum/scribe/transcription"
)

// State is a session lifecycle state.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StatePaused       State = "paused"
	StateTranscribing State = "transcribing"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
	StateCancelled    State = "cancelled"
)

// Terminal reports whether the state ends a session. Terminal states
// collapse back to Idle once an observer acknowledges the result.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// EventKind discriminates controller events.
type EventKind string

const (
	// EventStateChanged is emitted on every state transition.
	EventStateChanged EventKind = "state_changed"
	// EventResult is emitted exactly once per session when it reaches a
	// terminal state, carrying the transcript or the error.
	EventResult EventKind = "result"
	// EventCommandRejected is emitted when a command is refused without a
	// state change (start while active, full command queue).
	EventCommandRejected EventKind = "command_rejected"
)

// Event is delivered to observers over the controller's event channel.
// Observers must not call back into the controller from the goroutine
// consuming events while holding up delivery.
type Event struct {
	Kind      EventKind
	SessionID string
	State     State
	Timestamp time.Time
	// Device is the input device actually in use, which may differ from
	// the requested one after fallback.
	Device string
	// Elapsed is the recorded time with pauses excluded.
	Elapsed time.Duration
	// Transcript is set on EventResult for completed sessions.
	Transcript *transcription.TranscriptResult
	// Err is set on EventResult for failed or cancelled sessions and on
	// EventCommandRejected.
	Err error
}
