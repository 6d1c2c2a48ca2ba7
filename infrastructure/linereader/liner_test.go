package linereader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	lines string
	err   error
}

func (h fakeHistory) WriteHistory(w io.Writer) (int, error) {
	if h.err != nil {
		return 0, h.err
	}
	return io.WriteString(w, h.lines)
}

func TestSaveHistory_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-initialized", ".mexbridge", "history")

	require.NoError(t, saveHistory(path, fakeHistory{lines: "1+1\n2+2\n"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1+1\n2+2\n", string(data))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveHistory_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("old\nlines\nhere\n"), 0o600))

	require.NoError(t, saveHistory(path, fakeHistory{lines: "new\n"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestSaveHistory_WriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	err := saveHistory(path, fakeHistory{err: errors.New("disk full")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save history: disk full")
}

func TestSaveHistory_ParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o600))

	err := saveHistory(filepath.Join(parent, "history"), fakeHistory{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save history")
}
