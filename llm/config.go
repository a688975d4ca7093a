package llm

import "time"

// Config holds configuration for creating an LLM client.
// Any OpenAI-compatible chat endpoint works; Groq exposes one at
// https://api.groq.com/openai/v1.
type Config struct {
	// Name identifies this client instance (e.g., "groq-cleanup").
	Name string `yaml:"name" json:"name"`

	// BaseURL is the provider's API base URL. Empty uses the OpenAI default.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIKey authenticates against the provider.
	APIKey string `yaml:"-" json:"-"`

	// Model is the default model (e.g., "llama-3.3-70b-versatile").
	Model string `yaml:"model" json:"model"`

	// Temperature is the default sampling temperature (0.0-1.0).
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// MaxTokens is the default maximum tokens for responses. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// Timeout for HTTP requests. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// applyDefaults sets default values for unset config fields.
func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Name == "" {
		c.Name = "llm"
	}
}
