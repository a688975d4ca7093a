// Package llm provides a chat completion client for OpenAI-compatible
// endpoints.
//
// It wraps the go-openai SDK with universal request/response types so the
// rest of the codebase never touches provider-specific structs. Groq's chat
// API is OpenAI-compatible, so the same client serves both providers by
// switching BaseURL.
//
// # Usage
//
//	client, err := llm.New(llm.Config{
//	    Name:    "groq-cleanup",
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    APIKey:  apiKey,
//	    Model:   "llama-3.3-70b-versatile",
//	})
//
//	text, err := llm.Complete(ctx, client, systemPrompt, transcript)
package llm
