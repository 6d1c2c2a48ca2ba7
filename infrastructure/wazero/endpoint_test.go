package wazero

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/ports"
	"github.com/mexbridge/mexbridge/hostfuncs"
)

var _ ports.Endpoint = (*Endpoint)(nil)

// emptyModule is the smallest valid wasm binary: magic and version only.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func quietEndpoint() *Endpoint {
	return New(
		WithOutput(io.Discard, io.Discard),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestEndpoint_BeforeBootstrap(t *testing.T) {
	ep := quietEndpoint()
	ctx := context.Background()

	assert.Equal(t, Name, ep.Name())
	assert.True(t, ep.Linked())
	assert.False(t, ep.Live(ctx))
	assert.Error(t, ep.Exec(ctx, "1"))

	_, err := ep.Mex(ctx, entities.CallRequest{Target: entities.EvalEntry})
	assert.Error(t, err)
	assert.NoError(t, ep.Close(ctx))
}

func TestBootstrap_RequiresLibPath(t *testing.T) {
	err := quietEndpoint().Bootstrap(context.Background(), entities.RuntimeConfig{RuntimeHome: t.TempDir()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib_path")
}

func TestBootstrap_MissingModule(t *testing.T) {
	home := t.TempDir()
	err := quietEndpoint().Bootstrap(context.Background(), entities.RuntimeConfig{
		RuntimeHome: home,
		LibPath:     filepath.Join(home, "runtime.wasm"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read runtime module")
}

func TestBootstrap_InvalidModule(t *testing.T) {
	home := t.TempDir()
	lib := filepath.Join(home, "runtime.wasm")
	require.NoError(t, os.WriteFile(lib, []byte("not wasm"), 0o600))

	err := quietEndpoint().Bootstrap(context.Background(), entities.RuntimeConfig{RuntimeHome: home, LibPath: lib})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile runtime module")
}

func TestBootstrap_GuestWithoutExports(t *testing.T) {
	home := t.TempDir()
	lib := filepath.Join(home, "runtime.wasm")
	require.NoError(t, os.WriteFile(lib, emptyModule, 0o600))

	ep := quietEndpoint()
	err := ep.Bootstrap(context.Background(), entities.RuntimeConfig{RuntimeHome: home, LibPath: lib})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `guest does not export "mex_bootstrap"`)
	assert.False(t, ep.Live(context.Background()))
}

func TestRegisterHostModule(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer func() { _ = rt.Close(ctx) }()

	reg, err := hostfuncs.NewRegistry(hostfuncs.WithBuiltins(slog.Default(), hostfuncs.HostInfoResponse{}))
	require.NoError(t, err)

	require.NoError(t, RegisterHostModule(ctx, rt, reg))

	mod := rt.Module(HostModuleName)
	require.NotNil(t, mod)
	defs := mod.ExportedFunctionDefinitions()
	assert.Contains(t, defs, hostfuncs.LogMessage)
	assert.Contains(t, defs, hostfuncs.HostInfo)
}

func TestRegisterHostModule_CustomName(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer func() { _ = rt.Close(ctx) }()

	reg, err := hostfuncs.NewRegistry()
	require.NoError(t, err)

	require.NoError(t, RegisterHostModule(ctx, rt, reg, WithModuleName("custom_host")))
	assert.NotNil(t, rt.Module("custom_host"))

	assert.Error(t, RegisterHostModule(ctx, rt, reg, WithModuleName("custom_host")))
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, HostModuleName, cfg.moduleName)
	assert.Equal(t, uint32(hostfuncs.MaxRequestSize), cfg.maxRequestSize)

	WithMaxRequestSize(2048)(&cfg)
	assert.Equal(t, uint32(2048), cfg.maxRequestSize)
}

func TestPackUnpackPtrLen(t *testing.T) {
	tests := []struct {
		ptr    uint32
		length uint32
	}{
		{0, 0},
		{1, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
		{100, 50},
	}

	for _, tt := range tests {
		gotPtr, gotLen := unpackPtrLen(packPtrLen(tt.ptr, tt.length))
		assert.Equal(t, tt.ptr, gotPtr)
		assert.Equal(t, tt.length, gotLen)
	}
}
