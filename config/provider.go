package config

import "sync/atomic"

// Provider hands out the current Config snapshot. Handlers read a consistent
// snapshot per request; Update atomically swaps the whole pointer, so readers
// never see a half written config.
type Provider struct {
	cfg atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		panic("config: provider requires a non-nil initial config")
	}
	p := &Provider{}
	p.cfg.Store(cfg)
	return p
}

// Get returns the current config snapshot. Callers must not mutate it.
func (p *Provider) Get() *Config {
	return p.cfg.Load()
}

// Update replaces the current config snapshot.
func (p *Provider) Update(cfg *Config) {
	if cfg == nil {
		panic("config: cannot update provider with nil config")
	}
	p.cfg.Store(cfg)
}
