package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when the provider responds without any completion.
var ErrNoChoices = errors.New("llm: response contained no choices")

// Completer is the interface consumed by transcript post-processing.
type Completer interface {
	// Name identifies the backing provider.
	Name() string

	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	api    *openai.Client
	config Config
}

var _ Completer = (*Client)(nil)

// New creates an LLM client from config.
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: %s: api key is required", cfg.Name)
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		config: cfg,
	}, nil
}

// Name returns the client's configured name.
func (c *Client) Name() string {
	return c.config.Name
}

// Complete sends a chat completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}
	temp := req.Temperature
	if temp == 0 {
		temp = c.config.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(temp),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %s: %w", c.config.Name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return &CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Complete is a convenience helper: sends system + user prompts and returns
// the text response.
func Complete(ctx context.Context, c Completer, system, user string) (string, error) {
	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
