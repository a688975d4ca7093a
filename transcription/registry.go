package transcription

import "github.com/kbukum/scribe/provider"

// NewRegistry creates a new provider registry for transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// ManagerOption configures the transcription provider manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	selector provider.Selector[Provider]
}

// WithSelector sets the provider selection strategy for the manager.
func WithSelector(s provider.Selector[Provider]) ManagerOption {
	return func(c *managerConfig) {
		c.selector = s
	}
}

// NewManager creates a new provider manager for transcription backends.
// The default selector prefers the first available provider.
func NewManager(opts ...ManagerOption) *provider.Manager[Provider] {
	cfg := &managerConfig{
		selector: &provider.HealthCheckSelector[Provider]{},
	}
	for _, o := range opts {
		o(cfg)
	}
	return provider.NewManager(NewRegistry(), cfg.selector)
}
