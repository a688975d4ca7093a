// Package errors provides unified error handling for the dictation pipeline.
// It implements structured error types with machine-readable codes and
// retryable detection so the transcription retry loop and the session
// controller branch on classification instead of string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried against the same provider.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Capture Error Constructors ---

// DeviceUnavailable creates a new AppError for a missing input device.
func DeviceUnavailable(device string) *AppError {
	return &AppError{
		Code: ErrCodeDeviceUnavailable, Message: "No usable audio input device found.",
		Retryable: false,
		Details:   map[string]any{"device": device},
	}
}

// RecordingTooShort creates a new AppError for a recording under the minimum duration.
func RecordingTooShort(got, minimum time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeRecordingTooShort, Message: fmt.Sprintf("Recording of %s is shorter than the %s minimum.", got, minimum),
		Retryable: false,
		Details:   map[string]any{"duration_ms": got.Milliseconds(), "minimum_ms": minimum.Milliseconds()},
	}
}

// RecorderState creates a new AppError for a recorder call in the wrong state.
func RecorderState(op, state string) *AppError {
	return &AppError{
		Code: ErrCodeRecorderState, Message: fmt.Sprintf("Recorder cannot %s while %s.", op, state),
		Retryable: false,
		Details:   map[string]any{"operation": op, "state": state},
	}
}

// --- Chunking Error Constructors ---

// SegmentSizeExceeded creates a new AppError for a segment that cannot fit under the ceiling.
func SegmentSizeExceeded(size, ceiling int) *AppError {
	return &AppError{
		Code: ErrCodeSegmentSizeExceeded, Message: "Audio segment exceeds the provider size ceiling even after fallback splitting.",
		Retryable: false,
		Details:   map[string]any{"size_bytes": size, "ceiling_bytes": ceiling},
	}
}

// --- Provider Error Constructors ---

// ProviderAuth creates a non-retryable AppError for an authentication failure.
func ProviderAuth(provider string) *AppError {
	return &AppError{
		Code: ErrCodeProviderAuth, Message: fmt.Sprintf("Authentication with %s failed. Check the API key.", provider),
		Retryable: false,
		Details:   map[string]any{"provider": provider},
	}
}

// ProviderRateLimited creates a retryable AppError for a rate-limited request.
func ProviderRateLimited(provider string) *AppError {
	return &AppError{
		Code: ErrCodeProviderRateLimited, Message: fmt.Sprintf("%s rate limited the request.", provider),
		Retryable: true,
		Details:   map[string]any{"provider": provider},
	}
}

// ProviderTransient creates a retryable AppError for a transient network failure.
func ProviderTransient(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderTransient, Message: fmt.Sprintf("Transient failure talking to %s.", provider),
		Retryable: true, Cause: cause,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderServer creates a retryable AppError for a server-side provider failure.
func ProviderServer(provider string, status int) *AppError {
	return &AppError{
		Code: ErrCodeProviderServer, Message: fmt.Sprintf("%s returned a server error.", provider),
		Retryable: true,
		Details:   map[string]any{"provider": provider, "status": status},
	}
}

// EmptyTranscript creates a retryable AppError for an empty provider response.
func EmptyTranscript(provider string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyTranscript, Message: fmt.Sprintf("%s returned an empty transcription.", provider),
		Retryable: true,
		Details:   map[string]any{"provider": provider},
	}
}

// AllProvidersExhausted creates a fatal AppError after every provider ran out of retries.
func AllProvidersExhausted(segment int, last error) *AppError {
	return &AppError{
		Code: ErrCodeAllProvidersExhausted, Message: "All transcription providers failed.",
		Retryable: false, Cause: last,
		Details: map[string]any{"segment": segment},
	}
}

// MergeGap creates a new AppError for a missing segment transcript at merge time.
func MergeGap(index int) *AppError {
	return &AppError{
		Code: ErrCodeMergeGap, Message: fmt.Sprintf("Transcript for segment %d is missing.", index),
		Retryable: false,
		Details:   map[string]any{"segment": index},
	}
}

// --- Post-processing Error Constructors ---

// PostProcess creates a non-fatal AppError for a failed or rejected cleanup pass.
func PostProcess(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodePostProcess, Message: fmt.Sprintf("Transcript cleanup failed: %s.", reason),
		Retryable: false, Cause: cause,
	}
}

// --- Session Error Constructors ---

// SessionAlreadyActive creates a new AppError for a start command during an active session.
func SessionAlreadyActive(sessionID string) *AppError {
	return &AppError{
		Code: ErrCodeSessionAlreadyActive, Message: "A recording session is already active.",
		Retryable: false,
		Details:   map[string]any{"session_id": sessionID},
	}
}

// SessionCancelled creates a new AppError marking a cancelled session.
func SessionCancelled(sessionID string) *AppError {
	return &AppError{
		Code: ErrCodeSessionCancelled, Message: "The recording session was cancelled.",
		Retryable: false,
		Details:   map[string]any{"session_id": sessionID},
	}
}

// CommandDropped creates a new AppError for a command lost to queue backpressure.
func CommandDropped(command string) *AppError {
	return &AppError{
		Code: ErrCodeCommandDropped, Message: "Command queue is full; the command was dropped.",
		Retryable: true,
		Details:   map[string]any{"command": command},
	}
}

// NotConfigured creates a new AppError for a missing provider configuration.
func NotConfigured() *AppError {
	return &AppError{
		Code: ErrCodeNotConfigured, Message: "No transcription provider configured. Set GROQ_API_KEY or OPENAI_API_KEY.",
		Retryable: false,
	}
}

// InvalidConfig creates a new AppError for settings that fail validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
		Retryable: false,
	}
}

// --- Helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether an error chain is retryable.
// Unknown error types are treated as transient and therefore retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

// HasCode checks if an error chain contains an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
