// Package repl runs a read-eval-print loop against the embedded runtime.
package repl

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/mexbridge/mexbridge/domain/ports"
)

// DefaultPrompt is shown before each line when no prompt is configured.
const DefaultPrompt = "jl> "

// DefaultTerminator ends the loop when a line starts with it.
const DefaultTerminator = ";"

// State is the loop's position in its two-state machine.
type State int

const (
	// Reading waits for the next line of input.
	Reading State = iota
	// Terminated is final; Run has returned.
	Terminated
)

func (s State) String() string {
	switch s {
	case Reading:
		return "reading"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DoneFunc reports whether a raw input line ends the loop.
type DoneFunc func(line string) bool

// StartsWith returns a DoneFunc matching lines that begin with prefix.
func StartsWith(prefix string) DoneFunc {
	return func(line string) bool {
		return strings.HasPrefix(line, prefix)
	}
}

type loopConfig struct {
	prompt string
	isDone DoneFunc
	output io.Writer
}

func defaultLoopConfig() loopConfig {
	return loopConfig{
		prompt: DefaultPrompt,
		isDone: StartsWith(DefaultTerminator),
	}
}

// Option configures a Loop.
type Option func(*loopConfig)

// WithPrompt sets the prompt shown before each line.
func WithPrompt(prompt string) Option {
	return func(c *loopConfig) {
		c.prompt = prompt
	}
}

// WithDoneFunc sets the termination predicate. A nil predicate keeps the default.
func WithDoneFunc(fn DoneFunc) Option {
	return func(c *loopConfig) {
		if fn != nil {
			c.isDone = fn
		}
	}
}

// WithOutput sets where evaluation results are printed, one per line.
// Without it results are discarded.
func WithOutput(w io.Writer) Option {
	return func(c *loopConfig) {
		c.output = w
	}
}

// Loop reads lines, evaluates each through the bridge and stops when the
// done predicate matches. It is single-use and not safe for concurrent use.
type Loop struct {
	reader    ports.LineReader
	evaluator ports.Evaluator
	config    loopConfig
	state     State
}

// New creates a Loop in the Reading state.
func New(reader ports.LineReader, evaluator ports.Evaluator, opts ...Option) *Loop {
	cfg := defaultLoopConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loop{
		reader:    reader,
		evaluator: evaluator,
		config:    cfg,
		state:     Reading,
	}
}

// State returns the loop's current state.
func (l *Loop) State() State {
	return l.state
}

// Run loops until the done predicate matches a line or input ends, both of
// which return nil. Evaluation and read errors are returned as-is and also
// terminate the loop; nothing is retried.
//
// A trailing ";" on a line does not suppress evaluation or output.
func (l *Loop) Run(ctx context.Context) error {
	if l.state == Terminated {
		return fmt.Errorf("repl: loop already terminated")
	}
	defer func() { l.state = Terminated }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := l.reader.ReadLine(l.config.prompt)
		if stdErrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: failed to read input: %w", err)
		}

		if l.config.isDone(line) {
			return nil
		}

		values, err := l.evaluator.Evaluate(ctx, line)
		if err != nil {
			return err
		}
		l.display(values)
	}
}

func (l *Loop) display(values []any) {
	if l.config.output == nil {
		return
	}
	for _, v := range values {
		_, _ = fmt.Fprintln(l.config.output, v)
	}
}
