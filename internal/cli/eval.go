package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expr>...",
		Short: "Evaluate expressions in the runtime",
		Long:  "Evaluate each expression in the runtime and print one result per line, in order.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s := rootOpts.openSession(cmd)
			defer func() {
				if cerr := s.Close(cmd.Context()); cerr != nil && err == nil {
					err = cerr
				}
			}()

			values, err := s.bridge.Evaluate(cmd.Context(), args...)
			if err != nil {
				return err
			}
			return printValues(cmd.OutOrStdout(), rootOpts.Format, values)
		},
	}
}

// printValues writes one value per line, or a single JSON array in json format.
func printValues(w io.Writer, format string, values []any) error {
	if format == "json" {
		data, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
