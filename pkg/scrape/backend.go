package scrape

import "context"

// Backend is the adapter contract implemented once per scraping
// service. Ordinary failures (timeouts, non-2xx, blocked pages) come
// back as errors; the orchestrator records them and moves on.
type Backend interface {
	Strategy() Strategy
	Scrape(ctx context.Context, req Request) (*Page, error)
}

// Backends is the fixed strategy-to-adapter table built once at
// startup. A missing entry means the backend is not configured for
// this deployment; the orchestrator synthesizes the failure without
// calling into anything.
type Backends map[Strategy]Backend

// BuildBackends constructs adapters for every backend the config
// enables and has credentials for.
func BuildBackends(cfg *Config) Backends {
	cfg = cfg.WithDefaults()
	backends := make(Backends, 3)
	if b := newNativeBackend(cfg); b != nil {
		backends[b.Strategy()] = b
	}
	if b := newManagedBackend(cfg); b != nil {
		backends[b.Strategy()] = b
	}
	if b := newProxyBackend(cfg); b != nil {
		backends[b.Strategy()] = b
	}
	return backends
}

// Get returns the adapter for a strategy, or nil if it is absent.
func (b Backends) Get(s Strategy) Backend {
	if b == nil {
		return nil
	}
	return b[s]
}
