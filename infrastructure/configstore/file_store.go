// Package configstore persists the runtime configuration.
package configstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mexbridge/mexbridge/application/validation"
	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
	"github.com/mexbridge/mexbridge/domain/ports"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string
	dirPerm  os.FileMode
	filePerm os.FileMode
	validate bool
}

func defaultFileStoreConfig() fileStoreConfig {
	home, _ := os.UserHomeDir()
	return fileStoreConfig{
		path:     filepath.Join(home, ".mexbridge", "runtime.yaml"),
		dirPerm:  0o755,
		filePerm: 0o644,
		validate: true,
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the configuration file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.path = path
	}
}

// WithFilePermissions sets the file permissions for the configuration file.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithValidation enables/disables validating the configuration on Load and Save.
func WithValidation(enabled bool) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.validate = enabled
	}
}

// FileStore keeps the runtime configuration in a YAML file.
type FileStore struct {
	config fileStoreConfig
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) ports.ConfigStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load reads and validates the runtime configuration.
func (s *FileStore) Load() (*entities.RuntimeConfig, error) {
	data, err := os.ReadFile(s.config.path)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("failed to read runtime config: %w", err)}
	}

	var cfg entities.RuntimeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("failed to parse runtime config %s: %w", s.config.path, err)}
	}

	if s.config.validate {
		if err := validation.ValidateRuntimeConfig(&cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Save persists the runtime configuration.
func (s *FileStore) Save(cfg *entities.RuntimeConfig) error {
	if s.config.validate {
		if err := validation.ValidateRuntimeConfig(cfg); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal runtime config: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write runtime config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the backing store.
func (s *FileStore) ConfigPath() string {
	return s.config.path
}
