// Package yaegi implements the call endpoint over an in-process Go
// interpreter. Runtime code is Go source evaluated by yaegi; the host's
// callbacks are importable from it as package "mexhost".
package yaegi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
	"github.com/mexbridge/mexbridge/hostfuncs"
)

// Name identifies this endpoint.
const Name = "yaegi"

type endpointConfig struct {
	registry *hostfuncs.Registry
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

func defaultEndpointConfig() endpointConfig {
	return endpointConfig{
		logger: slog.Default(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Option configures an Endpoint.
type Option func(*endpointConfig)

// WithRegistry sets the host callbacks exposed as package mexhost.
// Defaults to the built-in callbacks.
func WithRegistry(reg *hostfuncs.Registry) Option {
	return func(c *endpointConfig) {
		c.registry = reg
	}
}

// WithLogger sets the logger for runtime log_message callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *endpointConfig) {
		c.logger = logger
	}
}

// WithOutput redirects the interpreter's standard output and error.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *endpointConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// Endpoint runs runtime code in a yaegi interpreter. The interpreter is not
// safe for concurrent use, so every operation holds the endpoint's lock.
type Endpoint struct {
	config endpointConfig

	mu     sync.Mutex
	interp *interp.Interpreter
}

// New creates an Endpoint. The interpreter is created by Bootstrap.
func New(opts ...Option) *Endpoint {
	cfg := defaultEndpointConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Endpoint{config: cfg}
}

// Name implements ports.Endpoint.
func (e *Endpoint) Name() string { return Name }

// Linked implements ports.Endpoint. The interpreter is compiled in.
func (e *Endpoint) Linked() bool { return true }

// BootstrapScript implements ports.ScriptProvider.
func (e *Endpoint) BootstrapScript() entities.BootstrapScript {
	return entities.BootstrapScript{
		Startup: `import (
	"fmt"
	"math"
	"strconv"
	"strings"
)`,
		LoadInterop: []string{`import "mexhost"`},
	}
}

// Bootstrap implements ports.Endpoint. A fresh interpreter replaces any
// previous one, so a retried initialization starts clean. SysImage, when
// set, is a Go source file or package evaluated before anything else.
func (e *Endpoint) Bootstrap(ctx context.Context, cfg entities.RuntimeConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg, err := e.registry()
	if err != nil {
		return err
	}

	i := interp.New(interp.Options{
		GoPath: cfg.RuntimeHome,
		Stdout: e.config.stdout,
		Stderr: e.config.stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if err := i.Use(hostExports(reg)); err != nil {
		return fmt.Errorf("failed to load mexhost symbols: %w", err)
	}

	if cfg.SysImage != "" {
		if _, err := i.EvalPathWithContext(ctx, cfg.SysImage); err != nil {
			return &errors.RuntimeCallError{Target: cfg.SysImage, Payload: err}
		}
	}

	e.interp = i
	return nil
}

func (e *Endpoint) registry() (*hostfuncs.Registry, error) {
	if e.config.registry != nil {
		return e.config.registry, nil
	}
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(hostfuncs.RecoverPanics(), hostfuncs.LogCalls(e.config.logger)),
		hostfuncs.WithBuiltins(e.config.logger, hostfuncs.HostInfoResponse{
			HostRoot: os.Getenv(entities.HostRootEnv),
			Version:  entities.Version,
			Endpoint: Name,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build host callbacks: %w", err)
	}
	return reg, nil
}

// Exec implements ports.Endpoint.
func (e *Endpoint) Exec(ctx context.Context, expr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.interp == nil {
		return fmt.Errorf("yaegi: runtime not bootstrapped")
	}
	if _, err := e.interp.EvalWithContext(ctx, expr); err != nil {
		return &errors.RuntimeCallError{Payload: err}
	}
	return nil
}

// Live implements ports.Endpoint.
func (e *Endpoint) Live(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.interp == nil {
		return false
	}
	v, err := e.interp.EvalWithContext(ctx, "true")
	return err == nil && v.IsValid() && v.Kind() == reflect.Bool && v.Bool()
}

// Mex implements ports.Endpoint. Runtime failures come back as a tuple whose
// first value is the error; only a missing interpreter is a Go error.
func (e *Endpoint) Mex(ctx context.Context, req entities.CallRequest) ([]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.interp == nil {
		return nil, fmt.Errorf("yaegi: runtime not bootstrapped")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Target {
	case entities.EvalEntry:
		return e.evalEach(ctx, req.Arguments), nil
	case entities.KeywordCallEntry:
		return e.keywordCall(ctx, req.Arguments), nil
	default:
		return e.call(ctx, req.Target, req.Arguments, nil), nil
	}
}
