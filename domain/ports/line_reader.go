package ports

import "context"

// LineReader reads interactive input one line at a time.
type LineReader interface {
	// ReadLine shows prompt and returns the next line without its newline.
	// It returns io.EOF when input is exhausted.
	ReadLine(prompt string) (string, error)

	// Close releases the terminal, if any.
	Close() error
}

// Evaluator evaluates expression text in the embedded runtime.
type Evaluator interface {
	Evaluate(ctx context.Context, exprs ...string) ([]any, error)
}
