package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/scribe/transcription"
)

// Session is one recording-to-transcript attempt. It is owned by the
// controller and mutated only under the controller's lock.
type Session struct {
	// ID identifies the session in events and logs.
	ID string
	// StartedAt is when recording began.
	StartedAt time.Time
	// Device is the input device actually opened.
	Device string
	// Elapsed is the recorded duration with pauses excluded, fixed at
	// stop time.
	Elapsed time.Duration
	// Transcript holds the result once the session completes.
	Transcript *transcription.TranscriptResult
	// Err holds the failure once the session fails or is cancelled.
	Err error
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}
