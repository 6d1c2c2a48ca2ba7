package bridge

import (
	"fmt"
	"os"
)

// withWorkdir runs fn with dir as the working directory. The original
// directory is restored on every exit path, including errors and panics.
func withWorkdir(dir string, fn func() error) (err error) {
	orig, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to read working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to enter runtime home: %w", err)
	}
	defer func() {
		if cerr := os.Chdir(orig); cerr != nil && err == nil {
			err = fmt.Errorf("failed to restore working directory: %w", cerr)
		}
	}()

	return fn()
}
