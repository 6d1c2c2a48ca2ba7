package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mexbridge/mexbridge/domain/entities"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	NPos int
	NOut int
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{}

	cmd := &cobra.Command{
		Use:   "call <function> [args...]",
		Short: "Call a runtime function",
		Long: `Call a runtime function and print its results, one per line.

Arguments are read as JSON scalars when they parse as one (42, 2.5, true,
"quoted", null) and as plain strings otherwise. With --npos N the first N
arguments are positional and the rest alternate key, value.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s := rootOpts.openSession(cmd)
			defer func() {
				if cerr := s.Close(cmd.Context()); cerr != nil && err == nil {
					err = cerr
				}
			}()

			callArgs := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				callArgs = append(callArgs, parseArg(a))
			}

			values, err := s.bridge.CallKeywordN(cmd.Context(), opts.NOut, args[0], opts.NPos, callArgs...)
			if err != nil {
				return err
			}
			return printValues(cmd.OutOrStdout(), rootOpts.Format, values)
		},
	}

	cmd.Flags().IntVar(&opts.NPos, "npos", entities.AllPositional, "number of positional arguments (-1: all)")
	cmd.Flags().IntVar(&opts.NOut, "nout", 1, "number of results to print")

	return cmd
}

// parseArg reads s as a JSON scalar, falling back to the raw string.
// Integral numbers become int64.
func parseArg(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return s
	case string, bool, nil:
		return val
	default:
		return s
	}
}
