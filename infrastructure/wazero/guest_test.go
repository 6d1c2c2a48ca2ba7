package wazero_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mexbridge/mexbridge/application/bridge"
	"github.com/mexbridge/mexbridge/domain/entities"
	domainerrors "github.com/mexbridge/mexbridge/domain/errors"
	"github.com/mexbridge/mexbridge/infrastructure/configstore"
	"github.com/mexbridge/mexbridge/infrastructure/wazero"
	"github.com/mexbridge/mexbridge/wireformat"
)

// newGuestBridge runs testdata/guest.wasm (see guest.wat) behind a bridge.
func newGuestBridge(t *testing.T, script entities.BootstrapScript) (*bridge.Bridge, *wazero.Endpoint) {
	t.Helper()
	t.Setenv(entities.HostRootEnv, "")
	t.Setenv(bridge.CIEnv, "")

	lib, err := filepath.Abs(filepath.Join("testdata", "guest.wasm"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ep := wazero.New(wazero.WithOutput(io.Discard, io.Discard), wazero.WithLogger(logger))
	t.Cleanup(func() { _ = ep.Close(context.Background()) })

	b := bridge.New(ep,
		bridge.WithConfigStore(configstore.NewStaticStore(entities.RuntimeConfig{
			RuntimeHome: t.TempDir(),
			LibPath:     lib,
		})),
		bridge.WithBootstrapScript(script),
		bridge.WithWorkdirSwitch(false),
		bridge.WithHostRoot("/opt/mexbridge"),
		bridge.WithLogger(logger),
	)
	return b, ep
}

func TestGuest_InitializesAndStaysLive(t *testing.T) {
	ctx := context.Background()
	b, ep := newGuestBridge(t, entities.BootstrapScript{Startup: "startup()", LoadInterop: []string{"using MexInterop"}})

	require.NoError(t, b.EnsureInitialized(ctx))
	assert.True(t, b.Initialized())
	assert.True(t, ep.Live(ctx))

	require.NoError(t, ep.Close(ctx))
	assert.False(t, ep.Live(ctx))
}

func TestGuest_RawCallDecodesTuple(t *testing.T) {
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	got, err := b.RawCall(context.Background(), 3, "strings.Repeat", "ab", 2)

	require.NoError(t, err)
	assert.Equal(t, []any{"ok", int64(42), 2.5}, got)
}

func TestGuest_RawCallShapesOutputs(t *testing.T) {
	ctx := context.Background()
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	padded, err := b.RawCall(ctx, 5, "g")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok", int64(42), 2.5, nil, nil}, padded)

	truncated, err := b.RawCall(ctx, 1, "g")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, truncated)
}

func TestGuest_KeywordCallAndEvaluate(t *testing.T) {
	ctx := context.Background()
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	got, err := b.CallKeyword(ctx, "f", 1, "a", "k", "v")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, got)

	values, err := b.Evaluate(ctx, "1+1")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, values)
}

func TestGuest_NonBoolDiscriminantIsRuntimeError(t *testing.T) {
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	_, err := b.RawCall(context.Background(), 1, "fails")

	var rce *domainerrors.RuntimeCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "fails", rce.Target)
	assert.Equal(t, "DomainError: f failed", rce.Payload)
}

func TestGuest_EmptyTupleIsRuntimeError(t *testing.T) {
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	_, err := b.RawCall(context.Background(), 1, "empty")

	var rce *domainerrors.RuntimeCallError
	require.True(t, errors.As(err, &rce))
	assert.Nil(t, rce.Payload)
}

func TestGuest_TrapIsNotRuntimeError(t *testing.T) {
	b, _ := newGuestBridge(t, entities.BootstrapScript{})

	_, err := b.RawCall(context.Background(), 1, "xtrap")

	require.Error(t, err)
	var rce *domainerrors.RuntimeCallError
	assert.False(t, errors.As(err, &rce))
	assert.Contains(t, err.Error(), "mex_call failed")
}

func TestGuest_StatusErrorFailsInitialization(t *testing.T) {
	ctx := context.Background()
	b, _ := newGuestBridge(t, entities.BootstrapScript{Startup: "!boom"})

	err := b.EnsureInitialized(ctx)

	var initErr *domainerrors.InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, bridge.StepStartup, initErr.Step)

	var rce *domainerrors.RuntimeCallError
	require.True(t, errors.As(err, &rce))
	payload, ok := rce.Payload.(*wireformat.ErrorWire)
	require.True(t, ok, "payload is %T", rce.Payload)
	assert.Equal(t, "UndefVarError", payload.Type)
	assert.Equal(t, "boom not defined", payload.Message)

	assert.False(t, b.Initialized())
}

func TestGuest_ExecDirect(t *testing.T) {
	ctx := context.Background()
	_, ep := newGuestBridge(t, entities.BootstrapScript{})

	home := t.TempDir()
	lib, err := filepath.Abs(filepath.Join("testdata", "guest.wasm"))
	require.NoError(t, err)
	require.NoError(t, ep.Bootstrap(ctx, entities.RuntimeConfig{RuntimeHome: home, LibPath: lib}))

	assert.NoError(t, ep.Exec(ctx, "x = 1"))

	err = ep.Exec(ctx, "!x")
	var rce *domainerrors.RuntimeCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "UndefVarError: boom not defined", rce.Error())
}
