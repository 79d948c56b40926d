package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oshalog/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilesystemForTest(t *testing.T) Store {
	t.Helper()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"filesystem": newFilesystemForTest,
		"memory":     func(t *testing.T) Store { return NewMemory() },
		"s3":         func(t *testing.T) Store { return newMockS3(t) },
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			info, err := store.Put(ctx, "incidents/1/photo.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
			require.NoError(t, err)
			assert.Equal(t, int64(len("jpeg bytes")), info.Size)

			_, err = store.Put(ctx, "incidents/1/photo.jpg", strings.NewReader("again"), "")
			assert.ErrorIs(t, err, ErrExists)

			body, err := store.Get(ctx, "incidents/1/photo.jpg")
			require.NoError(t, err)
			data, err := io.ReadAll(body)
			require.NoError(t, body.Close())
			require.NoError(t, err)
			assert.Equal(t, "jpeg bytes", string(data))

			require.NoError(t, store.Delete(ctx, "incidents/1/photo.jpg"))

			_, err = store.Get(ctx, "incidents/1/photo.jpg")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFilesystem_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	store := newFilesystemForTest(t)

	for _, key := range []string{"", "  ", "../escape", "/etc/passwd", `a\..\b`} {
		t.Run(key, func(t *testing.T) {
			_, err := store.Put(ctx, key, bytes.NewReader(nil), "")
			assert.Error(t, err)
		})
	}
}

func TestFilesystem_WritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "a/b/c.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "a", "b", "c.txt"))

	entries, err := os.ReadDir(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestMemory_DeleteMissing(t *testing.T) {
	err := NewMemory().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, config.Config{BlobDriver: "memory"})
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, store.Driver())
	})

	t.Run("filesystem by default", func(t *testing.T) {
		store, err := Open(ctx, config.Config{BlobRoot: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, DriverFilesystem, store.Driver())
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := Open(ctx, config.Config{BlobDriver: "s3"})
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, config.Config{BlobDriver: "tape"})
		assert.Error(t, err)
	})
}
