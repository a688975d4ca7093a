package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Capture errors
const (
	// ErrCodeDeviceUnavailable indicates no usable input device exists.
	ErrCodeDeviceUnavailable ErrorCode = "DEVICE_UNAVAILABLE"
	// ErrCodeRecordingTooShort indicates the recording ended before the configured minimum length.
	ErrCodeRecordingTooShort ErrorCode = "RECORDING_TOO_SHORT"
	// ErrCodeRecorderState indicates a recorder operation in an invalid state (e.g. stop after stop).
	ErrCodeRecorderState ErrorCode = "RECORDER_STATE"
)

// Chunking errors
const (
	// ErrCodeSegmentSizeExceeded indicates a segment could not be brought under the provider ceiling.
	ErrCodeSegmentSizeExceeded ErrorCode = "SEGMENT_SIZE_EXCEEDED"
)

// Provider errors
const (
	// ErrCodeProviderAuth indicates an authentication failure against a provider.
	ErrCodeProviderAuth ErrorCode = "PROVIDER_AUTH"
	// ErrCodeProviderRateLimited indicates the provider rejected the request due to rate limiting.
	ErrCodeProviderRateLimited ErrorCode = "PROVIDER_RATE_LIMITED"
	// ErrCodeProviderTransient indicates a transient network or connection failure.
	ErrCodeProviderTransient ErrorCode = "PROVIDER_TRANSIENT"
	// ErrCodeProviderServer indicates a server-side (5xx) provider failure.
	ErrCodeProviderServer ErrorCode = "PROVIDER_SERVER"
	// ErrCodeEmptyTranscript indicates the provider returned an empty transcription.
	ErrCodeEmptyTranscript ErrorCode = "EMPTY_TRANSCRIPT"
	// ErrCodeAllProvidersExhausted indicates every configured provider ran out of retry budget.
	ErrCodeAllProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"
	// ErrCodeMergeGap indicates a segment transcript was missing at merge time.
	ErrCodeMergeGap ErrorCode = "MERGE_GAP"
)

// Post-processing errors (never fatal for a session)
const (
	// ErrCodePostProcess indicates the text-cleanup pass failed or was rejected.
	ErrCodePostProcess ErrorCode = "POST_PROCESS_FAILED"
)

// Session errors
const (
	// ErrCodeSessionAlreadyActive indicates a start command arrived while a session was active.
	ErrCodeSessionAlreadyActive ErrorCode = "SESSION_ALREADY_ACTIVE"
	// ErrCodeSessionCancelled indicates the session was cancelled before producing a result.
	ErrCodeSessionCancelled ErrorCode = "SESSION_CANCELLED"
	// ErrCodeCommandDropped indicates a command was dropped because the queue was full.
	ErrCodeCommandDropped ErrorCode = "COMMAND_DROPPED"
	// ErrCodeNotConfigured indicates no transcription provider is configured.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates settings that fail structural validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderRateLimited: true,
	ErrCodeProviderTransient:   true,
	ErrCodeProviderServer:      true,
	ErrCodeEmptyTranscript:     true,
	ErrCodeProviderAuth:        false,
	ErrCodeDeviceUnavailable:   false,
	ErrCodeRecordingTooShort:   false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
