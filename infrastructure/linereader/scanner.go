// Package linereader provides ports.LineReader implementations for the REPL:
// a line-editing reader for terminals and a plain scanner for pipes and tests.
package linereader

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ScannerReader reads lines from any io.Reader. The prompt is written to out
// when out is non-nil.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader creates a ScannerReader over in.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

// ReadLine implements ports.LineReader.
func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	if r.out != nil {
		_, _ = fmt.Fprint(r.out, prompt)
	}
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close implements ports.LineReader.
func (r *ScannerReader) Close() error {
	return nil
}

// IsTerminal reports whether in is an interactive terminal.
func IsTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}
