package groq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/transcription"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewProvider(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return p
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
	var gotAuth, gotContentType string
	var gotModel, gotLanguage, gotFileName string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if _, hdr, err := r.FormFile("file"); err == nil {
			gotFileName = hdr.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello from groq"}`))
	})

	resp, err := p.Transcribe(context.Background(), wavRequest())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if resp.Text != "hello from groq" {
		t.Errorf("Text = %q", resp.Text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Errorf("Content-Type = %q, want multipart", gotContentType)
	}
	if gotModel != defaultModel {
		t.Errorf("model = %q, want %q", gotModel, defaultModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language = %q", gotLanguage)
	}
	if gotFileName != "recording.wav" {
		t.Errorf("file name = %q", gotFileName)
	}
}

func TestTranscribeModelOverride(t *testing.T) {
	var gotModel string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		gotModel = r.FormValue("model")
		w.Write([]byte(`{"text":"ok"}`))
	})

	req := wavRequest()
	req.Model = "whisper-large-v3-turbo"
	if _, err := p.Transcribe(context.Background(), req); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestTranscribeErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode apperrors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrCodeProviderAuth},
		{"forbidden", http.StatusForbidden, apperrors.ErrCodeProviderAuth},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrCodeProviderRateLimited},
		{"server error", http.StatusInternalServerError, apperrors.ErrCodeProviderServer},
		{"bad gateway", http.StatusBadGateway, apperrors.ErrCodeProviderServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := p.Transcribe(context.Background(), wavRequest())
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"   "}`))
	})
	_, err := p.Transcribe(context.Background(), wavRequest())
	if !apperrors.HasCode(err, apperrors.ErrCodeEmptyTranscript) {
		t.Errorf("error = %v, want EMPTY_TRANSCRIPT", err)
	}
}

func TestTranscribeWithoutKey(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true without API key")
	}
	if _, err := p.Transcribe(context.Background(), wavRequest()); !apperrors.HasCode(err, apperrors.ErrCodeProviderAuth) {
		t.Errorf("error = %v, want PROVIDER_AUTH", err)
	}
}

func TestFactory(t *testing.T) {
	factory := Factory()
	p, err := factory(map[string]any{
		"api_key": "k",
		"model":   "whisper-large-v3-turbo",
	})
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
