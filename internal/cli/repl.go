package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mexbridge/mexbridge/application/repl"
	"github.com/mexbridge/mexbridge/domain/ports"
	"github.com/mexbridge/mexbridge/infrastructure/linereader"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	Prompt string
	Done   string
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive loop against the runtime",
		Long: `Read expressions line by line, evaluate each in the runtime and print the
result. A line starting with the terminator (default ";") or end of input
ends the loop. An evaluation error ends it too and is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if opts.Done == "" {
				return errors.New("--done must not be empty: it would end the loop on every line")
			}

			s := rootOpts.openSession(cmd)
			defer func() {
				if cerr := s.Close(cmd.Context()); cerr != nil && err == nil {
					err = cerr
				}
			}()

			reader := newLineReader(cmd)
			defer func() {
				if cerr := reader.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			loop := repl.New(reader, s.bridge,
				repl.WithPrompt(opts.Prompt),
				repl.WithDoneFunc(repl.StartsWith(opts.Done)),
				repl.WithOutput(cmd.OutOrStdout()),
			)
			return loop.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", repl.DefaultPrompt, "prompt shown before each line")
	cmd.Flags().StringVar(&opts.Done, "done", repl.DefaultTerminator, "a line starting with this ends the loop")

	return cmd
}

// newLineReader edits lines on a terminal and scans anything else.
func newLineReader(cmd *cobra.Command) ports.LineReader {
	in := cmd.InOrStdin()
	if in == os.Stdin && linereader.IsTerminal(in) {
		var opts []linereader.LinerOption
		if home, err := os.UserHomeDir(); err == nil {
			opts = append(opts, linereader.WithHistoryFile(filepath.Join(home, ".mexbridge", "history")))
		}
		return linereader.NewLinerReader(opts...)
	}
	return linereader.NewScannerReader(in, cmd.OutOrStdout())
}
