package transcription

import (
	"context"

	"github.com/kbukum/scribe/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends one audio segment for transcription. Errors are
	// classified AppErrors so the caller can decide between retrying the
	// same backend and falling through to the next one.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
