// Package openai implements transcription against OpenAI's Whisper API.
package openai

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
)

const (
	// ProviderName is the registered name for the OpenAI provider.
	ProviderName = "openai"

	defaultModel   = "whisper-1"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the OpenAI transcription provider.
type Config struct {
	APIKey  string        `json:"-" yaml:"-"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcription.Provider against the OpenAI API.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new OpenAI transcription provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}
}

// Factory returns a provider.Factory that creates OpenAI Provider instances
// from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		oc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			oc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			oc.BaseURL = v
		}
		if v, ok := cfg["model"].(string); ok {
			oc.Model = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			oc.Timeout = v
		}
		return NewProvider(oc), nil
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

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: req.FileName,
		Reader:   bytes.NewReader(req.Audio),
		Language: req.Language,
		Prompt:   req.Prompt,
	})
	if err != nil {
		return nil, classify(err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, apperrors.EmptyTranscript(ProviderName)
	}
	return &transcription.Response{Text: resp.Text}, nil
}

// classify maps SDK errors onto the app error taxonomy so the caller's
// retry/fallback policy can act on them.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return apperrors.ProviderAuth(ProviderName).WithCause(err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return apperrors.ProviderRateLimited(ProviderName).WithCause(err)
		case apiErr.HTTPStatusCode >= 500:
			return apperrors.ProviderServer(ProviderName, apiErr.HTTPStatusCode).WithCause(err)
		}
	}
	return apperrors.ProviderTransient(ProviderName, err)
}
