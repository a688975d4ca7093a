package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/transcription"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
}

func wavRequest() transcription.Request {
	return transcription.Request{
		Audio:    []byte("RIFFfake"),
		FileName: "recording.wav",
		Format:   "wav",
		Language: "en",
	}
}

func TestTranscribe(t *testing.T) {
	var gotModel, gotFileName string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, hdr, err := r.FormFile("file"); err == nil {
			gotFileName = hdr.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello from openai"}`))
	})

	resp, err := p.Transcribe(context.Background(), wavRequest())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if resp.Text != "hello from openai" {
		t.Errorf("Text = %q", resp.Text)
	}
	if gotModel != defaultModel {
		t.Errorf("model = %q, want %q", gotModel, defaultModel)
	}
	if gotFileName != "recording.wav" {
		t.Errorf("file name = %q", gotFileName)
	}
}

func TestTranscribeServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	_, err := p.Transcribe(context.Background(), wavRequest())
	if !apperrors.HasCode(err, apperrors.ErrCodeProviderServer) {
		t.Errorf("error = %v, want PROVIDER_SERVER", err)
	}
}

func TestTranscribeRateLimited(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`))
	})
	_, err := p.Transcribe(context.Background(), wavRequest())
	if !apperrors.HasCode(err, apperrors.ErrCodeProviderRateLimited) {
		t.Errorf("error = %v, want PROVIDER_RATE_LIMITED", err)
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":""}`))
	})
	_, err := p.Transcribe(context.Background(), wavRequest())
	if !apperrors.HasCode(err, apperrors.ErrCodeEmptyTranscript) {
		t.Errorf("error = %v, want EMPTY_TRANSCRIPT", err)
	}
}

func TestTranscribeWithoutKey(t *testing.T) {
	p := NewProvider(Config{})
	if p.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true without API key")
	}
	if _, err := p.Transcribe(context.Background(), wavRequest()); !apperrors.HasCode(err, apperrors.ErrCodeProviderAuth) {
		t.Errorf("error = %v, want PROVIDER_AUTH", err)
	}
}

func TestFactory(t *testing.T) {
	factory := Factory()
	p, err := factory(map[string]any{"api_key": "k", "model": "whisper-1"})
	if err != nil {
		t.Fatalf("factory error = %v", err)
	}
	if p.Name() != ProviderName {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false with API key set")
	}
}
