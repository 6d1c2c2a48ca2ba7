package bridge

import (
	"context"
	"os"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
)

// Initialization steps, as reported in errors.InitializationError.
const (
	StepLoadConfig     = "load-config"
	StepWorkdir        = "workdir"
	StepHostRoot       = "host-root"
	StepBootstrap      = "bootstrap"
	StepStartup        = "startup"
	StepInstallInterop = "install-interop"
	StepLoadInterop    = "load-interop"
)

// EnsureInitialized brings the runtime up if it is not already. Once the
// runtime's self-check has passed this is a no-op. When the self-check fails
// the bridge stays uninitialized and the next call runs the full sequence
// again; there is no sticky failure state.
func (b *Bridge) EnsureInitialized(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := b.initialize(ctx); err != nil {
		return err
	}

	b.initialized = b.endpoint.Live(ctx)
	if !b.initialized {
		b.logger.DebugContext(ctx, "bridge: runtime self-check failed, will retry on next call")
	}
	return nil
}

// initialize runs the bootstrap sequence once, in order.
func (b *Bridge) initialize(ctx context.Context) error {
	if !b.endpoint.Linked() {
		return &errors.MissingBindingError{Endpoint: b.endpoint.Name()}
	}

	cfg, err := b.config.store.Load()
	if err != nil {
		return &errors.InitializationError{Step: StepLoadConfig, Err: err}
	}
	b.logger.DebugContext(ctx, "bridge: loaded runtime config",
		"runtime_home", cfg.RuntimeHome,
		"sys_image", cfg.SysImage,
		"lib_path", cfg.LibPath,
		"source", b.config.store.ConfigPath(),
	)

	if err := b.bootstrap(ctx, *cfg); err != nil {
		return err
	}

	script := b.bootstrapScript()
	if script.Startup != "" {
		if err := b.exec(ctx, StepStartup, script.Startup); err != nil {
			return err
		}
	}
	if os.Getenv(CIEnv) != "" && script.InstallInterop != "" {
		if err := b.exec(ctx, StepInstallInterop, script.InstallInterop); err != nil {
			return err
		}
	}
	for _, expr := range script.LoadInterop {
		if err := b.exec(ctx, StepLoadInterop, expr); err != nil {
			return err
		}
	}
	return nil
}

// bootstrap exports the host root and performs the endpoint's low-level
// startup, inside the runtime home when the platform needs it.
func (b *Bridge) bootstrap(ctx context.Context, cfg entities.RuntimeConfig) error {
	run := func() error {
		if err := os.Setenv(HostRootEnv, b.config.hostRoot); err != nil {
			return &errors.InitializationError{Step: StepHostRoot, Err: err}
		}
		b.logger.DebugContext(ctx, "bridge: bootstrapping runtime", "host_root", b.config.hostRoot)
		if err := b.endpoint.Bootstrap(ctx, cfg); err != nil {
			return &errors.InitializationError{Step: StepBootstrap, Err: err}
		}
		return nil
	}

	if !b.config.switchWorkdir {
		return run()
	}

	var stepErr error
	err := withWorkdir(cfg.RuntimeHome, func() error {
		stepErr = run()
		return stepErr
	})
	if err != nil && stepErr == nil {
		return &errors.InitializationError{Step: StepWorkdir, Err: err}
	}
	return err
}

func (b *Bridge) exec(ctx context.Context, step, expr string) error {
	b.logger.DebugContext(ctx, "bridge: running bootstrap expression", "step", step)
	if err := b.endpoint.Exec(ctx, expr); err != nil {
		return &errors.InitializationError{Step: step, Err: err}
	}
	return nil
}
