package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/scribe/logger"
)

// Manager owns the lifecycle of a set of backends: factories go in through
// Register, configured instances come out through Initialize, and the
// selector answers "which backend now" for callers that want one.
type Manager[T Provider] struct {
	mu        sync.RWMutex
	registry  *Registry[T]
	selector  Selector[T]
	providers map[string]T
	log       *logger.Logger
}

// NewManager creates a Manager backed by the given registry and selector.
func NewManager[T Provider](registry *Registry[T], selector Selector[T]) *Manager[T] {
	return &Manager[T]{
		registry:  registry,
		selector:  selector,
		providers: make(map[string]T),
		log:       logger.WithComponent("provider"),
	}
}

// Register adds a factory to the underlying registry.
func (m *Manager[T]) Register(name string, factory Factory[T]) {
	m.registry.RegisterFactory(name, factory)
}

// Initialize creates a backend from its factory and stores it for use.
func (m *Manager[T]) Initialize(name string, cfg map[string]any) error {
	instance, err := m.registry.Create(name, cfg)
	if err != nil {
		return fmt.Errorf("initialize provider %q: %w", name, err)
	}
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.registry.Set(name, instance)
	m.log.Info("provider initialized", map[string]interface{}{"provider": name})
	return nil
}

// Get returns a backend chosen by the selector.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	return m.selector.Select(ctx, m.snapshot())
}

// GetByName returns a specific initialized backend.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("provider %q not found", name)
}

// Ordered returns initialized backends in the given name order. Every name
// must have been initialized; availability is the caller's runtime concern.
func (m *Manager[T]) Ordered(names []string) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ordered := make([]T, 0, len(names))
	for _, name := range names {
		p, ok := m.providers[name]
		if !ok {
			return nil, fmt.Errorf("provider %q not initialized", name)
		}
		ordered = append(ordered, p)
	}
	return ordered, nil
}

// Available returns the names of all initialized backends.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

func (m *Manager[T]) snapshot() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string]T, len(m.providers))
	for k, v := range m.providers {
		cp[k] = v
	}
	return cp
}
