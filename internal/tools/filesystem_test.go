package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemReadWrite(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), true)
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile("nested/dir/file.txt", "hello"))

	content, err := fs.ReadFile("nested/dir/file.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", content)

	entries, err := fs.ListDir("nested")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFilesystemWriteDisabled(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), false)
	require.NoError(t, err)

	err = fs.WriteFile("file.txt", "nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disabled")
}

func TestFilesystemEscapeDenied(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), true)
	require.NoError(t, err)

	err = fs.WriteFile("../outside.txt", "nope")
	require.Error(t, err)

	_, err = fs.ReadFile("../../etc/passwd")
	require.Error(t, err)
}
