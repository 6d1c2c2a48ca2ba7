package linereader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
)

// LinerReader is a terminal reader with line editing and history.
type LinerReader struct {
	state       *liner.State
	historyPath string
}

// LinerOption configures a LinerReader.
type LinerOption func(*LinerReader)

// WithHistoryFile loads history from path on open and writes it back on Close.
func WithHistoryFile(path string) LinerOption {
	return func(r *LinerReader) {
		r.historyPath = path
	}
}

// NewLinerReader takes over the terminal. Callers must Close it to restore
// the terminal mode.
func NewLinerReader(opts ...LinerOption) *LinerReader {
	r := &LinerReader{state: liner.NewLiner()}
	for _, opt := range opts {
		opt(r)
	}
	r.state.SetCtrlCAborts(true)

	if r.historyPath != "" {
		if f, err := os.Open(r.historyPath); err == nil {
			_, _ = r.state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return r
}

// ReadLine implements ports.LineReader. Ctrl-C is reported as io.EOF.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal and saves history.
func (r *LinerReader) Close() error {
	var histErr error
	if r.historyPath != "" {
		histErr = saveHistory(r.historyPath, r.state)
	}
	if err := r.state.Close(); err != nil {
		return err
	}
	return histErr
}

type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// saveHistory writes h to path, creating the parent directory if needed.
func saveHistory(path string, h historyWriter) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := h.WriteHistory(f); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
