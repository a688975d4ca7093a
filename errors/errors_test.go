package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeDeviceUnavailable, "no device")
	if err.Code != ErrCodeDeviceUnavailable {
		t.Errorf("expected code %s, got %s", ErrCodeDeviceUnavailable, err.Code)
	}
	if err.Message != "no device" {
		t.Errorf("expected message 'no device', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("DEVICE_UNAVAILABLE should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeProviderTransient, "connection reset")
	if !err.Retryable {
		t.Error("PROVIDER_TRANSIENT should be retryable")
	}
}

func TestAppError_RecordingTooShort(t *testing.T) {
	err := RecordingTooShort(200*time.Millisecond, 500*time.Millisecond)
	if err.Code != ErrCodeRecordingTooShort {
		t.Errorf("expected RECORDING_TOO_SHORT, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("RecordingTooShort should not be retryable")
	}
	if err.Details["duration_ms"] != int64(200) {
		t.Errorf("expected duration_ms=200, got %v", err.Details["duration_ms"])
	}
	if err.Details["minimum_ms"] != int64(500) {
		t.Errorf("expected minimum_ms=500, got %v", err.Details["minimum_ms"])
	}
}

func TestAppError_ProviderAuth_NotRetryable(t *testing.T) {
	err := ProviderAuth("groq")
	if err.Retryable {
		t.Error("ProviderAuth must short-circuit the retry budget")
	}
	if err.Details["provider"] != "groq" {
		t.Errorf("expected provider=groq, got %v", err.Details["provider"])
	}
}

func TestAppError_ProviderRateLimited_Retryable(t *testing.T) {
	err := ProviderRateLimited("openai")
	if !err.Retryable {
		t.Error("ProviderRateLimited should be retryable")
	}
}

func TestAppError_ProviderServer_Details(t *testing.T) {
	err := ProviderServer("groq", 503)
	if !err.Retryable {
		t.Error("ProviderServer should be retryable")
	}
	if err.Details["status"] != 503 {
		t.Errorf("expected status=503, got %v", err.Details["status"])
	}
}

func TestAppError_AllProvidersExhausted_CarriesCause(t *testing.T) {
	cause := ProviderRateLimited("openai")
	err := AllProvidersExhausted(0, cause)
	if err.Retryable {
		t.Error("AllProvidersExhausted is terminal, not retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected the last provider error in the chain")
	}
	if err.Details["segment"] != 0 {
		t.Errorf("expected segment=0, got %v", err.Details["segment"])
	}
}

func TestAppError_PostProcess_NotRetryable(t *testing.T) {
	err := PostProcess("length ratio out of range", nil)
	if err.Retryable {
		t.Error("PostProcess failures fall back to raw text, not a retry")
	}
	if err.Code != ErrCodePostProcess {
		t.Errorf("expected %s, got %s", ErrCodePostProcess, err.Code)
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ProviderTransient("groq", cause)
	msg := err.Error()
	if !strings.Contains(msg, "PROVIDER_TRANSIENT") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(ErrCodeProviderTransient, "transient").WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := New(ErrCodeMergeGap, "gap").WithDetail("segment", 3)
	if err.Details["segment"] != 3 {
		t.Errorf("expected segment=3, got %v", err.Details["segment"])
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	orig := ProviderAuth("groq")
	wrapped := fmt.Errorf("transcribe segment 0: %w", orig)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeProviderAuth {
		t.Errorf("expected PROVIDER_AUTH, got %s", got.Code)
	}

	_, ok = AsAppError(fmt.Errorf("not an app error"))
	if ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth", ProviderAuth("groq"), false},
		{"rate limited", ProviderRateLimited("groq"), true},
		{"wrapped transient", fmt.Errorf("send: %w", ProviderTransient("openai", nil)), true},
		{"unknown error treated as transient", fmt.Errorf("weird failure"), true},
		{"too short", RecordingTooShort(time.Millisecond, time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", SessionAlreadyActive("abc"))
	if !HasCode(err, ErrCodeSessionAlreadyActive) {
		t.Error("expected HasCode to match SESSION_ALREADY_ACTIVE")
	}
	if HasCode(err, ErrCodeProviderAuth) {
		t.Error("expected HasCode to reject mismatched code")
	}
	if HasCode(stderrors.New("plain"), ErrCodeProviderAuth) {
		t.Error("expected HasCode to reject plain errors")
	}
}
