package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_AbsentFileMeansNoSession(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)
	require.Equal(t, "", s.Get())
}

func TestFileStore_SetGetClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("tok-123"))
	require.Equal(t, "tok-123", s.Get())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	require.Equal(t, "", s.Get())
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set("persisted"))

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, "persisted", s2.Get())
}

func TestFileStore_ClearTwiceIsNoError(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)
	require.NoError(t, s.Set("x"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestFileStore_TrimsStoredWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok-456\n"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, "tok-456", s.Get())
}
