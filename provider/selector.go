package provider

import (
	"context"
	"sort"

	apperrors "github.com/kbukum/scribe/errors"
)

// Selector picks a backend from the available options. The transcription
// client re-selects after each exhausted backend, so a selector must treat
// the map it receives as the remaining candidates, not the full fleet.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// PrioritySelector walks a fixed priority order and returns the first
// candidate that is present and reports available. Names missing from the
// candidate map are skipped, which is how an already-exhausted backend is
// excluded from re-selection.
type PrioritySelector[T Provider] struct {
	// Priority is the ordered list of provider names, primary first.
	Priority []string
}

// Select returns the highest-priority available candidate.
func (s *PrioritySelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	for _, name := range s.Priority {
		if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, apperrors.NotConfigured()
}

// HealthCheckSelector picks the first available candidate in name order.
// It is the default strategy when no priority has been configured.
type HealthCheckSelector[T Provider] struct{}

// Select returns the first provider that reports as available.
func (s *HealthCheckSelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, apperrors.NotConfigured()
}
