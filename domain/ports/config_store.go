package ports

import "github.com/mexbridge/mexbridge/domain/entities"

// ConfigStore provides persistence for the runtime configuration.
type ConfigStore interface {
	// Load retrieves the runtime configuration.
	Load() (*entities.RuntimeConfig, error)

	// Save persists the runtime configuration.
	Save(cfg *entities.RuntimeConfig) error

	// ConfigPath returns the path to the backing store (for user messaging).
	ConfigPath() string
}
