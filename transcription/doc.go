// Package transcription turns chunked audio into text.
//
// Backends implement the Provider interface and register through the
// pluggable registry. The Client orchestrates the full pass: segments are
// transcribed concurrently under a bulkhead, each segment walks the ordered
// provider list with per-provider retries, and the per-segment results are
// merged in index order. An optional LLM cleanup pass formats the merged
// text; cleanup never fails a transcription.
//
// # Backends
//
//   - transcription/groq: Groq-hosted Whisper over the OpenAI-compatible API
//   - transcription/openai: OpenAI Whisper
//
// # Usage
//
//	client := transcription.NewClient(transcription.ClientConfig{
//		Providers: []transcription.Provider{groqProvider, openaiProvider},
//	})
//	result, err := client.Transcribe(ctx, segments)
package transcription
