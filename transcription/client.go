package transcription

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/scribe/audio"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/llm"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/resilience"
)

// ClientConfig configures the transcription client.
type ClientConfig struct {
	// Providers is the ordered backend list. The first entry is the
	// primary; later entries are fallbacks tried in order after the
	// primary's retry budget is spent.
	Providers []Provider

	// MaxAttempts is the per-provider retry budget, including the first call.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential backoff.
	MaxBackoff time.Duration
	// AttemptTimeout bounds each individual provider call.
	AttemptTimeout time.Duration

	// Workers bounds how many segments are transcribed concurrently.
	Workers int

	// Language and Prompt are forwarded to every provider call.
	Language string
	Prompt   string

	// Cleanup, when set, runs a text-formatting pass over the merged
	// transcript. Cleanup failures never fail the transcription.
	Cleanup llm.Completer
	// CleanupModel overrides the completer's configured model.
	CleanupModel string
}

func (c *ClientConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 4 * time.Second
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 60 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 3
	}
}

// Client turns a chunked recording into a single transcript. Segments are
// transcribed concurrently under a bulkhead; each segment walks the provider
// list with per-provider retries and the results are merged in index order.
type Client struct {
	cfg      ClientConfig
	byName   map[string]Provider
	selector provider.Selector[Provider]
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
}

// NewClient creates a transcription client.
func NewClient(cfg ClientConfig) *Client {
	cfg.applyDefaults()
	priority := make([]string, 0, len(cfg.Providers))
	byName := make(map[string]Provider, len(cfg.Providers))
	for _, p := range cfg.Providers {
		priority = append(priority, p.Name())
		byName[p.Name()] = p
	}
	return &Client{
		cfg:      cfg,
		byName:   byName,
		selector: &provider.PrioritySelector[Provider]{Priority: priority},
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "transcription",
			MaxConcurrent: cfg.Workers,
		}),
		log: logger.WithComponent("transcription"),
	}
}

// Configured reports whether at least one provider can accept requests.
func (c *Client) Configured(ctx context.Context) bool {
	_, err := c.selector.Select(ctx, c.byName)
	return err == nil
}

// Transcribe transcribes all segments and merges them into one transcript.
// A segment that exhausts every provider fails the whole call; no partial
// transcript is returned.
func (c *Client) Transcribe(ctx context.Context, segments []audio.Segment) (*TranscriptResult, error) {
	if !c.Configured(ctx) {
		return nil, apperrors.NotConfigured()
	}
	if len(segments) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeEmptyTranscript, "no audio segments to transcribe")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*SegmentTranscript, len(segments))
	errs := make(chan error, len(segments))
	var wg sync.WaitGroup

	for i, seg := range segments {
		wg.Add(1)
		go func(i int, seg audio.Segment) {
			defer wg.Done()
			st, err := resilience.ExecuteWithResult(c.bulkhead, ctx, func() (SegmentTranscript, error) {
				return c.transcribeSegment(ctx, seg)
			})
			if err != nil {
				errs <- err
				cancel() // abandon the remaining segments
				return
			}
			results[i] = &st
		}(i, seg)
	}
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}

	merged, err := mergeSegments(results)
	if err != nil {
		return nil, err
	}

	result := &TranscriptResult{Text: merged.text, Segments: merged.segments}
	if c.cfg.Cleanup != nil {
		if cleaned, ok := c.cleanupTranscript(ctx, merged.text); ok {
			result.Text = cleaned
			result.PostProcessed = true
		}
	}
	return result, nil
}

// transcribeSegment walks the provider list in priority order. Retryable
// failures consume the provider's retry budget; non-retryable ones (auth,
// bad request) skip straight to the next provider. Each exhausted provider
// is removed from the candidate set before re-selecting.
func (c *Client) transcribeSegment(ctx context.Context, seg audio.Segment) (SegmentTranscript, error) {
	var zero SegmentTranscript
	var lastErr error

	remaining := make(map[string]Provider, len(c.byName))
	for name, p := range c.byName {
		remaining[name] = p
	}

	for len(remaining) > 0 {
		p, selErr := c.selector.Select(ctx, remaining)
		if selErr != nil {
			break // nothing left reports available
		}
		delete(remaining, p.Name())

		attempts := 0
		resp, err := resilience.Retry(ctx, resilience.RetryConfig{
			MaxAttempts:    c.cfg.MaxAttempts,
			InitialBackoff: c.cfg.InitialBackoff,
			MaxBackoff:     c.cfg.MaxBackoff,
			BackoffFactor:  2.0,
			AttemptTimeout: c.cfg.AttemptTimeout,
			RetryIf:        apperrors.IsRetryable,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				c.log.Warn("transcription attempt failed, retrying", logger.Fields(
					logger.FieldProvider, p.Name(),
					logger.FieldSegment, seg.Index,
					logger.FieldAttempt, attempt,
					logger.FieldError, err.Error(),
					"backoff_ms", backoff.Milliseconds(),
				))
			},
		}, func(ctx context.Context) (*Response, error) {
			attempts++
			return p.Transcribe(ctx, Request{
				Audio:    seg.Data,
				FileName: seg.FileName,
				Format:   seg.Format,
				Language: c.cfg.Language,
				Prompt:   c.cfg.Prompt,
			})
		})
		if err == nil {
			return SegmentTranscript{
				Index:    seg.Index,
				Text:     strings.TrimSpace(resp.Text),
				Provider: p.Name(),
				Attempts: attempts,
			}, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		lastErr = err
		c.log.Warn("provider failed for segment, trying next", logger.MergeWithError(logger.Fields(
			logger.FieldProvider, p.Name(),
			logger.FieldSegment, seg.Index,
		), err))
	}

	if lastErr == nil {
		return zero, apperrors.NotConfigured()
	}
	return zero, apperrors.AllProvidersExhausted(seg.Index, lastErr)
}

type mergedTranscript struct {
	text     string
	segments []SegmentTranscript
}

// mergeSegments joins per-segment transcripts in index order. A missing
// slot means an accounting bug upstream and fails loudly rather than
// silently dropping audio.
func mergeSegments(results []*SegmentTranscript) (mergedTranscript, error) {
	var merged mergedTranscript
	parts := make([]string, 0, len(results))
	for i, r := range results {
		if r == nil {
			return merged, apperrors.MergeGap(i)
		}
		if r.Text != "" {
			parts = append(parts, r.Text)
		}
		merged.segments = append(merged.segments, *r)
	}
	merged.text = strings.TrimSpace(strings.Join(parts, " "))
	if merged.text == "" {
		return merged, apperrors.New(apperrors.ErrCodeEmptyTranscript, "merged transcript is empty")
	}
	return merged, nil
}
