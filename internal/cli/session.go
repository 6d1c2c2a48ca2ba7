package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mexbridge/mexbridge/application/bridge"
	"github.com/mexbridge/mexbridge/domain/ports"
	"github.com/mexbridge/mexbridge/infrastructure/configstore"
	"github.com/mexbridge/mexbridge/infrastructure/wazero"
	"github.com/mexbridge/mexbridge/infrastructure/yaegi"
)

// session is one command's bridge and the endpoint behind it.
type session struct {
	bridge   *bridge.Bridge
	endpoint ports.Endpoint
}

func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) store(validate bool) ports.ConfigStore {
	opts := []configstore.FileStoreOption{configstore.WithValidation(validate)}
	if o.ConfigPath != "" {
		opts = append(opts, configstore.WithPath(o.ConfigPath))
	}
	return configstore.NewFileStore(opts...)
}

func (o *RootOptions) endpoint(cmd *cobra.Command, logger *slog.Logger) ports.Endpoint {
	if o.Backend == BackendWasm {
		return wazero.New(
			wazero.WithLogger(logger),
			wazero.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		)
	}
	return yaegi.New(
		yaegi.WithLogger(logger),
		yaegi.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
}

// openSession creates an uninitialized bridge; the first call brings the
// runtime up.
func (o *RootOptions) openSession(cmd *cobra.Command) *session {
	logger := o.logger(cmd)
	ep := o.endpoint(cmd, logger)
	return &session{
		endpoint: ep,
		bridge: bridge.New(ep,
			bridge.WithConfigStore(o.store(true)),
			bridge.WithLogger(logger),
		),
	}
}

// Close releases endpoints that hold resources.
func (s *session) Close(ctx context.Context) error {
	if c, ok := s.endpoint.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
