// Package cli implements the mexbridge command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mexbridge/mexbridge/domain/errors"
)

// Backends that can host the runtime.
const (
	BackendYaegi = "yaegi"
	BackendWasm  = "wasm"
)

// ValidBackends lists the accepted --backend values.
var ValidBackends = []string{BackendYaegi, BackendWasm}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Backend    string
	Format     string
	Verbose    bool
}

// Execute runs the command tree, reports any error on stderr and returns
// the process exit code.
func Execute() int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	if err := cmd.Execute(); err != nil {
		reportError(cmd.ErrOrStderr(), opts.Format, err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mexbridge",
		Short: "Call into an embedded runtime",
		Long: `mexbridge calls functions in an embedded interpreter runtime, evaluates
expressions in it and runs an interactive loop against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidBackends, opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "runtime config file (default $HOME/.mexbridge/runtime.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", BackendYaegi, "runtime backend (yaegi|wasm)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// reportError prints err as text, or as an errors.ErrorDetail document in
// json format.
func reportError(w io.Writer, format string, err error) {
	if format == "json" {
		if data, merr := json.Marshal(errors.ToErrorDetail(err)); merr == nil {
			_, _ = fmt.Fprintln(w, string(data))
			return
		}
	}
	_, _ = fmt.Fprintln(w, "Error:", err)
}
