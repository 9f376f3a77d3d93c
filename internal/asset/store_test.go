// AngelaMos | 2026
// store_test.go

package asset

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "public", "uploads")
	s := NewDirStore(dir)

	require.NoError(t, s.Ping(ctx))

	n, err := s.Write(ctx, "a.png", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	ok, err := s.Exists(ctx, "a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	f, err := s.Open(ctx, "a.png")
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "hello", string(b))

	require.NoError(t, s.Delete(ctx, "a.png"))
	ok, err = s.Exists(ctx, "a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Delete(ctx, "a.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDirStoreEnsureDirIdempotent(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), "x"))
	require.NoError(t, s.EnsureDir(context.Background()))
	require.NoError(t, s.EnsureDir(context.Background()))
}

func TestDirStoreRejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewDirStore(filepath.Join(root, "uploads"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	for _, name := range []string{"", ".", "..", "../secret.txt", "a/b.png", `a\b.png`, ".hidden"} {
		_, err := s.Write(ctx, name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)

		_, err = s.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)

		assert.ErrorIs(t, s.Delete(ctx, name), ErrInvalidName, name)
	}

	_, err := os.Stat(filepath.Join(root, "secret.txt"))
	assert.NoError(t, err)
}

func TestDirStorePingNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.Error(t, NewDirStore(path).Ping(context.Background()))
}
