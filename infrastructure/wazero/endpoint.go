package wazero

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
	"github.com/mexbridge/mexbridge/hostfuncs"
	"github.com/mexbridge/mexbridge/wireformat"
)

// Name identifies this endpoint.
const Name = "wasm"

// guestModuleName is the instance name of the runtime module.
const guestModuleName = "runtime"

type endpointConfig struct {
	registry *hostfuncs.Registry
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
	adapter  []AdapterOption
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

// WithRegistry sets the host callbacks importable by the guest.
// Defaults to the built-in callbacks.
func WithRegistry(reg *hostfuncs.Registry) Option {
	return func(c *endpointConfig) {
		c.registry = reg
	}
}

// WithLogger sets the logger for guest log_message callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *endpointConfig) {
		c.logger = logger
	}
}

// WithOutput redirects the guest's standard output and error.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *endpointConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithAdapterOptions passes options to host module registration.
func WithAdapterOptions(opts ...AdapterOption) Option {
	return func(c *endpointConfig) {
		c.adapter = append(c.adapter, opts...)
	}
}

// Endpoint runs the runtime as a wazero guest. A guest instance is not safe
// for concurrent calls, so every operation holds the endpoint's lock.
type Endpoint struct {
	config endpointConfig

	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
}

// New creates an Endpoint. Nothing is compiled until Bootstrap.
func New(opts ...Option) *Endpoint {
	cfg := defaultEndpointConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Endpoint{config: cfg}
}

// Name implements ports.Endpoint.
func (e *Endpoint) Name() string { return Name }

// Linked implements ports.Endpoint. wazero is compiled in; a missing or
// invalid guest is reported by Bootstrap.
func (e *Endpoint) Linked() bool { return true }

// Bootstrap implements ports.Endpoint. cfg.LibPath names the guest module.
// Any previous instance is closed first.
func (e *Endpoint) Bootstrap(ctx context.Context, cfg entities.RuntimeConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_ = e.closeLocked(ctx)

	if cfg.LibPath == "" {
		return fmt.Errorf("wasm endpoint requires lib_path to name the runtime module")
	}
	wasmBytes, err := os.ReadFile(cfg.LibPath)
	if err != nil {
		return fmt.Errorf("failed to read runtime module: %w", err)
	}

	reg, err := e.registry()
	if err != nil {
		return err
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := e.instantiate(ctx, rt, reg, wasmBytes, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return err
	}

	input, err := wireformat.Encode(wireformat.NewBootstrapWire(cfg, os.Getenv(entities.HostRootEnv)), "BootstrapWire")
	if err != nil {
		_ = rt.Close(ctx)
		return err
	}
	if err := statusCall(ctx, mod, exportBootstrap, input); err != nil {
		_ = rt.Close(ctx)
		return err
	}

	e.runtime = rt
	e.module = mod
	return nil
}

func (e *Endpoint) instantiate(ctx context.Context, rt wazero.Runtime, reg *hostfuncs.Registry, wasmBytes []byte, cfg entities.RuntimeConfig) (api.Module, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}
	if err := RegisterHostModule(ctx, rt, reg, e.config.adapter...); err != nil {
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile runtime module: %w", err)
	}

	modCfg := wazero.NewModuleConfig().
		WithName(guestModuleName).
		WithStdout(e.config.stdout).
		WithStderr(e.config.stderr).
		WithEnv(entities.HostRootEnv, os.Getenv(entities.HostRootEnv)).
		WithFSConfig(wazero.NewFSConfig().WithDirMount(cfg.RuntimeHome, "/")).
		WithStartFunctions()

	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate runtime module: %w", err)
	}
	if init := mod.ExportedFunction(exportInit); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, fmt.Errorf("failed to call %s: %w", exportInit, err)
		}
	}
	return mod, nil
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

	if e.module == nil {
		return fmt.Errorf("wasm: runtime not bootstrapped")
	}
	input, err := wireformat.Encode(wireformat.ExecWire{Expr: expr}, "ExecWire")
	if err != nil {
		return err
	}
	return statusCall(ctx, e.module, exportExec, input)
}

// Live implements ports.Endpoint.
func (e *Endpoint) Live(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil {
		return false
	}
	fn := e.module.ExportedFunction(exportLive)
	if fn == nil {
		return false
	}
	res, err := fn.Call(ctx)
	return err == nil && len(res) > 0 && res[0] != 0
}

// Mex implements ports.Endpoint. A trap or malformed answer is a Go error;
// runtime failures arrive inside the tuple.
func (e *Endpoint) Mex(ctx context.Context, req entities.CallRequest) ([]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil {
		return nil, fmt.Errorf("wasm: runtime not bootstrapped")
	}
	input, err := wireformat.Encode(wireformat.NewCallWire(req), "CallWire")
	if err != nil {
		return nil, err
	}
	out, err := callJSON(ctx, e.module, exportCall, input)
	if err != nil {
		return nil, err
	}
	return wireformat.DecodeTuple(out)
}

// Close releases the guest and its runtime.
func (e *Endpoint) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeLocked(ctx)
}

func (e *Endpoint) closeLocked(ctx context.Context) error {
	if e.runtime == nil {
		return nil
	}
	err := e.runtime.Close(ctx)
	e.runtime = nil
	e.module = nil
	return err
}

// statusCall runs a bootstrap or exec export. A reported runtime error
// becomes *errors.RuntimeCallError.
func statusCall(ctx context.Context, mod api.Module, export string, input []byte) error {
	out, err := callJSON(ctx, mod, export, input)
	if err != nil {
		return err
	}
	status, err := wireformat.DecodeStatus(out)
	if err != nil {
		return err
	}
	if status.Error != nil {
		return &errors.RuntimeCallError{Payload: status.Error}
	}
	return nil
}
