// Package groq implements transcription against Groq-hosted Whisper models
// over Groq's OpenAI-compatible audio API.
package groq

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
)

const (
	// ProviderName is the registered name for the Groq provider.
	ProviderName = "groq"

	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "whisper-large-v3"
	defaultTimeout = 120 * time.Second

	transcriptionsPath = "/audio/transcriptions"
)

// Config holds configuration for the Groq transcription provider.
type Config struct {
	APIKey  string        `json:"-" yaml:"-"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcription.Provider against the Groq API.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new Groq transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		BearerToken: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates Groq Provider instances
// from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		gc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			gc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			gc.BaseURL = v
		}
		if v, ok := cfg["model"].(string); ok {
			gc.Model = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			gc.Timeout = v
		}
		return NewProvider(gc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider has credentials to use.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.cfg.APIKey != ""
}

// Transcribe uploads one audio segment and returns its transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if p.cfg.APIKey == "" {
		return nil, apperrors.ProviderAuth(ProviderName)
	}

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	fields := map[string]string{
		"model":           model,
		"response_format": "json",
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Prompt != "" {
		fields["prompt"] = req.Prompt
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: "POST",
		Path:   transcriptionsPath,
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    req.FileName,
				ContentType: contentType(req.Format),
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, apperrors.ProviderTransient(ProviderName, err)
	}
	if strings.TrimSpace(body.Text) == "" {
		return nil, apperrors.EmptyTranscript(ProviderName)
	}
	return &transcription.Response{Text: body.Text}, nil
}

func contentType(format string) string {
	switch format {
	case "mp3":
		return "audio/mpeg"
	default:
		return "audio/wav"
	}
}

// classify maps transport-level errors onto the app error taxonomy so the
// caller's retry/fallback policy can act on them.
func classify(err error) error {
	switch {
	case httpclient.IsAuth(err):
		return apperrors.ProviderAuth(ProviderName).WithCause(err)
	case httpclient.IsRateLimit(err):
		return apperrors.ProviderRateLimited(ProviderName).WithCause(err)
	case httpclient.IsServerError(err):
		var herr *httpclient.Error
		status := 0
		if errors.As(err, &herr) {
			status = herr.StatusCode
		}
		return apperrors.ProviderServer(ProviderName, status).WithCause(err)
	default:
		return apperrors.ProviderTransient(ProviderName, err)
	}
}
