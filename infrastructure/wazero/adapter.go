package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/mexbridge/mexbridge/hostfuncs"
)

// HostModuleName is the import module guests use for host callbacks.
const HostModuleName = "mexbridge_host"

// adapterConfig holds configuration for host module registration.
type adapterConfig struct {
	moduleName     string
	maxRequestSize uint32
}

func defaultAdapterConfig() adapterConfig {
	return adapterConfig{
		moduleName:     HostModuleName,
		maxRequestSize: hostfuncs.MaxRequestSize,
	}
}

// AdapterOption configures host module registration.
type AdapterOption func(*adapterConfig)

// WithModuleName overrides the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *adapterConfig) {
		c.moduleName = name
	}
}

// WithMaxRequestSize bounds the request a guest may pass to a callback.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *adapterConfig) {
		c.maxRequestSize = size
	}
}

// RegisterHostModule instantiates a host module exporting every callback in
// reg. Each export reads its JSON request from guest memory, runs the
// callback and writes the response back through the guest's allocate.
func RegisterHostModule(ctx context.Context, rt wazero.Runtime, reg *hostfuncs.Registry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := rt.NewHostModuleBuilder(cfg.moduleName)
	for _, name := range reg.Names() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				stack[0] = handleCallback(ctx, mod, stack[0], reg, name, cfg.maxRequestSize)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate host module %s: %w", cfg.moduleName, err)
	}
	return nil
}

func handleCallback(ctx context.Context, mod api.Module, packed uint64, reg *hostfuncs.Registry, name string, maxRequestSize uint32) uint64 {
	ptr, length := unpackPtrLen(packed)
	if length > maxRequestSize {
		msg := fmt.Sprintf("request size %d exceeds maximum %d bytes", length, maxRequestSize)
		slog.ErrorContext(ctx, "wazero: "+msg, "callback", name)
		return writeGuestResponse(ctx, mod, hostfuncs.NewValidationError(msg).ToJSON())
	}

	req, ok := mod.Memory().Read(ptr, length)
	if !ok {
		slog.ErrorContext(ctx, "wazero: failed to read callback request from guest memory", "callback", name)
		return writeGuestResponse(ctx, mod, hostfuncs.NewInternalError("failed to read request from guest memory").ToJSON())
	}

	resp, err := reg.Invoke(ctx, name, req)
	if err != nil {
		slog.ErrorContext(ctx, "wazero: callback failed", "callback", name, "error", err)
		resp = hostfuncs.NewInternalError(err.Error()).ToJSON()
	}
	return writeGuestResponse(ctx, mod, resp)
}

// writeGuestResponse copies data into guest memory, returning the packed
// location or 0 when the guest cannot take it.
func writeGuestResponse(ctx context.Context, mod api.Module, data []byte) uint64 {
	ptr, err := writeGuest(ctx, mod, data)
	if err != nil {
		slog.ErrorContext(ctx, "wazero: failed to write callback response", "error", err)
		return 0
	}
	return packPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: bounded by guest memory size
}
