package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReal_OpenFile_CreatesAndRoundTrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")

	fs := NewReal()

	f, err := fs.OpenFile(path)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(f, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))

	require.NoError(t, f.Close())
}

func TestReal_OpenFile_DoesNotTruncateExistingContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")

	fs := NewReal()

	f1, err := fs.OpenFile(path)
	require.NoError(t, err)
	_, err = f1.Write([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, f1.Close())

	f2, err := fs.OpenFile(path)
	require.NoError(t, err)

	buf := make([]byte, len("persisted"))
	_, err = io.ReadFull(f2, buf)
	require.NoError(t, err)
	require.Equal(t, "persisted", string(buf))
	require.NoError(t, f2.Close())
}
