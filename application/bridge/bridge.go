package bridge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/ports"
	"github.com/mexbridge/mexbridge/infrastructure/configstore"
)

// Environment variables touched during initialization.
const (
	// HostRootEnv is exported so the embedded runtime can find the host's
	// interop support files.
	HostRootEnv = entities.HostRootEnv

	// CIEnv, when non-empty, makes initialization install the interop package.
	CIEnv = "CI"
)

// config holds configuration for the Bridge.
type config struct {
	store         ports.ConfigStore
	script        *entities.BootstrapScript
	logger        *slog.Logger
	hostRoot      string
	switchWorkdir bool
}

func defaultConfig() config {
	return config{
		hostRoot:      defaultHostRoot(),
		switchWorkdir: runtime.GOOS == "windows",
	}
}

// Option configures the Bridge.
type Option func(*config)

// WithConfigStore sets where the runtime configuration is loaded from.
// Defaults to the YAML file store at $HOME/.mexbridge/runtime.yaml.
func WithConfigStore(store ports.ConfigStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithBootstrapScript overrides the expressions run after the low-level
// bootstrap, taking precedence over a ports.ScriptProvider endpoint.
func WithBootstrapScript(script entities.BootstrapScript) Option {
	return func(c *config) {
		c.script = &script
	}
}

// WithLogger sets the logger used for debug tracing of initialization and calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHostRoot sets the host installation root exported in HostRootEnv.
func WithHostRoot(dir string) Option {
	return func(c *config) {
		c.hostRoot = dir
	}
}

// WithWorkdirSwitch forces (or suppresses) switching the working directory to
// the runtime home during bootstrap. It is on by default only on Windows,
// where the runtime's DLLs resolve relative to the working directory.
func WithWorkdirSwitch(enabled bool) Option {
	return func(c *config) {
		c.switchWorkdir = enabled
	}
}

// Bridge is the handle to one embedded runtime reached through an endpoint.
// The zero value is not usable; create one with New or Open.
type Bridge struct {
	endpoint ports.Endpoint
	config   config
	logger   *slog.Logger

	mu          sync.Mutex
	initialized bool
}

// New creates a Bridge over endpoint. Nothing is started until the first
// call or an explicit EnsureInitialized.
func New(endpoint ports.Endpoint, opts ...Option) *Bridge {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.store == nil {
		cfg.store = configstore.NewFileStore()
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger.With("endpoint", endpoint.Name()),
	}
}

// Open creates a Bridge and initializes it immediately.
func Open(ctx context.Context, endpoint ports.Endpoint, opts ...Option) (*Bridge, error) {
	b := New(endpoint, opts...)
	if err := b.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Initialized reports whether the runtime has been brought up.
func (b *Bridge) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Endpoint returns the endpoint the bridge calls through.
func (b *Bridge) Endpoint() ports.Endpoint {
	return b.endpoint
}

func (b *Bridge) bootstrapScript() entities.BootstrapScript {
	if b.config.script != nil {
		return *b.config.script
	}
	if sp, ok := b.endpoint.(ports.ScriptProvider); ok {
		return sp.BootstrapScript()
	}
	return entities.DefaultBootstrapScript()
}

// defaultHostRoot is the installation root of the running executable: the
// parent of the directory holding it.
func defaultHostRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(filepath.Dir(exe))
}
