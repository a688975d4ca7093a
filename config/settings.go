package config

import (
	"fmt"
	"time"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/validation"
)

// Settings is the full application configuration.
type Settings struct {
	Name          string              `yaml:"name" mapstructure:"name"`
	Environment   string              `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug         bool                `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Audio         AudioConfig         `yaml:"audio" mapstructure:"audio"`
	Transcription TranscriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	PostProcess   PostProcessConfig   `yaml:"post_process" mapstructure:"post_process"`
}

// AudioConfig controls microphone capture.
type AudioConfig struct {
	// SampleRate in Hz. Speech models expect 16000.
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=8000,lte=48000"`
	// Channels of capture. Mono keeps uploads small.
	Channels int `yaml:"channels" mapstructure:"channels" validate:"gte=1,lte=2"`
	// InputDevice names the capture device. Empty selects the system default.
	InputDevice string `yaml:"input_device" mapstructure:"input_device"`
	// MinDuration below which a recording is rejected as too short.
	MinDuration time.Duration `yaml:"min_duration" mapstructure:"min_duration"`
}

// TranscriptionConfig controls the provider chain and retry behavior.
type TranscriptionConfig struct {
	// PrimaryProvider is tried first; the other configured provider is the fallback.
	PrimaryProvider string `yaml:"primary_provider" mapstructure:"primary_provider" validate:"oneof=groq openai"`
	// Model is the speech-to-text model name.
	Model string `yaml:"model" mapstructure:"model" validate:"required"`
	// Language hint for the model (ISO 639-1). Empty lets the model detect.
	Language string `yaml:"language" mapstructure:"language"`
	// Prompt biases the model toward domain vocabulary.
	Prompt string `yaml:"prompt" mapstructure:"prompt"`
	// MaxAttempts per provider before falling back.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	// InitialBackoff before the first retry.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	// MaxBackoff caps the exponential backoff growth.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	// AttemptTimeout bounds a single provider request.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	// Workers bounds concurrent segment uploads.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1,lte=16"`
	// CompressBitrate is the MP3 bitrate used when a recording exceeds
	// the provider size ceiling, e.g. "64k".
	CompressBitrate string `yaml:"compress_bitrate" mapstructure:"compress_bitrate"`

	// API keys are populated from the environment, never from config files.
	GroqAPIKey   string `yaml:"-" mapstructure:"-"`
	OpenAIAPIKey string `yaml:"-" mapstructure:"-"`
}

// PostProcessConfig controls the optional LLM transcript cleanup pass.
type PostProcessConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Settings) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "scribe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()

	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.MinDuration == 0 {
		c.Audio.MinDuration = 500 * time.Millisecond
	}

	if c.Transcription.PrimaryProvider == "" {
		c.Transcription.PrimaryProvider = "groq"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-large-v3"
	}
	if c.Transcription.MaxAttempts == 0 {
		c.Transcription.MaxAttempts = 3
	}
	if c.Transcription.InitialBackoff == 0 {
		c.Transcription.InitialBackoff = 500 * time.Millisecond
	}
	if c.Transcription.MaxBackoff == 0 {
		c.Transcription.MaxBackoff = 4 * time.Second
	}
	if c.Transcription.AttemptTimeout == 0 {
		c.Transcription.AttemptTimeout = 60 * time.Second
	}
	if c.Transcription.Workers == 0 {
		c.Transcription.Workers = 3
	}
	if c.Transcription.CompressBitrate == "" {
		c.Transcription.CompressBitrate = "64k"
	}

	if c.PostProcess.Model == "" {
		c.PostProcess.Model = "llama-3.3-70b-versatile"
	}
}

// Validate validates the configuration. Call ApplyDefaults first.
func (c *Settings) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}

	// Cross-field rules that struct tags cannot express.
	v := validation.New()
	v.Custom(c.Audio.MinDuration >= 0, "audio.min_duration", "must not be negative")
	v.Custom(c.Transcription.InitialBackoff <= c.Transcription.MaxBackoff,
		"transcription.initial_backoff", "must not exceed max_backoff")
	if err := v.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// APIKey returns the key for the named provider, or empty when unset.
func (c *TranscriptionConfig) APIKey(provider string) string {
	switch provider {
	case "groq":
		return c.GroqAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}

// Providers returns the provider order: primary first, then the fallback
// if its API key is configured.
func (c *TranscriptionConfig) Providers() []string {
	fallback := "openai"
	if c.PrimaryProvider == "openai" {
		fallback = "groq"
	}
	order := []string{c.PrimaryProvider}
	if c.APIKey(fallback) != "" {
		order = append(order, fallback)
	}
	return order
}
