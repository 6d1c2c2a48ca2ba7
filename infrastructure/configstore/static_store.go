package configstore

import (
	"github.com/mexbridge/mexbridge/application/validation"
	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/ports"
)

// StaticStore serves a configuration held in memory. It suits hosts that
// compute the runtime location themselves.
type StaticStore struct {
	cfg entities.RuntimeConfig
}

// NewStaticStore returns a store that always loads cfg.
func NewStaticStore(cfg entities.RuntimeConfig) ports.ConfigStore {
	return &StaticStore{cfg: cfg}
}

// Load validates and returns a copy of the held configuration.
func (s *StaticStore) Load() (*entities.RuntimeConfig, error) {
	cfg := s.cfg
	if err := validation.ValidateRuntimeConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save replaces the held configuration.
func (s *StaticStore) Save(cfg *entities.RuntimeConfig) error {
	if err := validation.ValidateRuntimeConfig(cfg); err != nil {
		return err
	}
	s.cfg = *cfg
	return nil
}

// ConfigPath reports that the configuration is not file backed.
func (s *StaticStore) ConfigPath() string {
	return "(in-memory)"
}
