package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutOpen(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "a", []byte("payload")))

	b, err := s.Open(ctx, "a")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(7), b.Size())

	p := make([]byte, 4)
	n, err := b.ReadAt(ctx, p, 3)
	require.NoError(t, err)
	assert.Equal(t, "load", string(p[:n]))
}

func TestMemoryStoreCreateCommitsOnClose(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	w, err := s.Create(ctx, "streamed")
	require.NoError(t, err)
	_, err = w.Write([]byte("part1-"))
	require.NoError(t, err)
	_, err = w.Write([]byte("part2"))
	require.NoError(t, err)

	// Not visible until Close.
	_, err = s.Open(ctx, "streamed")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	b, err := s.Open(ctx, "streamed")
	require.NoError(t, err)
	defer b.Close()

	rc, err := b.ReadRange(ctx, 0, b.Size())
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "part1-part2", string(data))
}

func TestMemoryStoreOpenSnapshotsContents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, "a", []byte("old")))

	b, err := s.Open(ctx, "a")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, s.Put(ctx, "a", []byte("new")))

	p := make([]byte, 3)
	_, err = b.ReadAt(ctx, p, 0)
	require.NoError(t, err)
	assert.Equal(t, "old", string(p), "open handle must not observe later writes")
}

func TestMemoryStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, "snap/b", nil))
	require.NoError(t, s.Put(ctx, "snap/a", nil))
	require.NoError(t, s.Put(ctx, "other", nil))

	names, err := s.List(ctx, "snap/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snap/a", "snap/b"}, names)

	require.NoError(t, s.Delete(ctx, "snap/a"))
	require.NoError(t, s.Delete(ctx, "snap/a"), "double delete is not an error")

	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "snap/b"}, names)
}
