package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newLocalStore(t)

	data := []byte("mapped snapshot bytes")
	require.NoError(t, s.Put(ctx, "snap/0001.ak", data))

	b, err := s.Open(ctx, "snap/0001.ak")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(len(data)), b.Size())

	p := make([]byte, 8)
	n, err := b.ReadAt(ctx, p, 7)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(p[:n]))

	// Local blobs expose the mapping for zero-copy reads.
	m, ok := b.(Mappable)
	require.True(t, ok)
	raw, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestLocalStoreOpenMissing(t *testing.T) {
	s := newLocalStore(t)
	_, err := s.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	w, err := s.Create(ctx, "snap.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("half"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	// Target name must not exist before Close.
	_, statErr := os.Stat(filepath.Join(dir, "snap.bin"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, w.Close())

	got, err := os.ReadFile(filepath.Join(dir, "snap.bin"))
	require.NoError(t, err)
	assert.Equal(t, "half", string(got))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestLocalStoreListDelete(t *testing.T) {
	ctx := context.Background()
	s := newLocalStore(t)
	require.NoError(t, s.Put(ctx, "a/x", []byte("1")))
	require.NoError(t, s.Put(ctx, "a/y", []byte("2")))
	require.NoError(t, s.Put(ctx, "b/z", []byte("3")))

	names, err := s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x", "a/y"}, names)

	require.NoError(t, s.Delete(ctx, "a/x"))
	require.NoError(t, s.Delete(ctx, "a/x"))

	names, err = s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/y"}, names)
}
