package config

import (
	"errors"
	"sync"
)

var ErrAlreadyConfigured = errors.New("config: already configured")

// Holder keeps the process configuration. It can be initialized once;
// components receive the returned pointer at construction.
type Holder struct {
	mu  sync.Mutex
	cfg *Config
}

// Init stores a copy of cfg. A second call fails with ErrAlreadyConfigured
// and leaves the first configuration in place.
func (h *Holder) Init(cfg Config) (*Config, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg != nil {
		return nil, ErrAlreadyConfigured
	}
	h.cfg = &cfg
	return h.cfg, nil
}
