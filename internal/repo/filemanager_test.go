package repo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coldstore/internal/logging"
	"github.com/aretw0/coldstore/internal/repo"
)

func TestFileManager_Idempotence(t *testing.T) {
	fm := &repo.FileManager{Logger: logging.NewNop()}
	dir := t.TempDir()

	t.Run("MakeIfNotExists Twice", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "inner")
		require.NoError(t, fm.MakeIfNotExists(path))
		require.NoError(t, fm.MakeIfNotExists(path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("RemoveIfExists Twice", func(t *testing.T) {
		path := filepath.Join(dir, "victim.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		require.NoError(t, fm.RemoveIfExists(path))
		require.NoError(t, fm.RemoveIfExists(path))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("RemoveDirIfExists Twice", func(t *testing.T) {
		path := filepath.Join(dir, "tree")
		require.NoError(t, os.MkdirAll(filepath.Join(path, "deep"), 0o750))
		require.NoError(t, fm.RemoveDirIfExists(path))
		require.NoError(t, fm.RemoveDirIfExists(path))
	})
}

func TestFileManager_MoveAndCopy(t *testing.T) {
	fm := &repo.FileManager{Logger: logging.NewNop()}
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	copied := filepath.Join(dir, "out", "copy.txt")
	require.NoError(t, fm.Copy(src, copied))
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	moved := filepath.Join(dir, "out", "moved.txt")
	require.NoError(t, fm.Move(src, moved))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err = os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
