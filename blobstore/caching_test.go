package blobstore

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/arraykit/internal/cache"
)

// countingStore records backend ReadAt calls.
type countingStore struct {
	Store
	mu    sync.Mutex
	reads int
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.Store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, store: s}, nil
}

type countingBlob struct {
	Blob
	store *countingStore
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.store.mu.Lock()
	b.store.reads++
	b.store.mu.Unlock()
	return b.Blob.ReadAt(ctx, p, off)
}

func (s *countingStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func TestCachingStoreServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: NewMemoryStore()}

	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, backend.Put(ctx, "blob", data))

	c := cache.NewLRU(1 << 20)
	s := NewCachingStore(backend, c, 256)

	b, err := s.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	p := make([]byte, 1000)
	n, err := b.ReadAt(ctx, p, 100)
	require.NoError(t, err)
	assert.Equal(t, data[100:1100], p[:n])

	first := backend.readCount()
	require.Greater(t, first, 0)

	// Same range again: no new backend reads.
	_, err = b.ReadAt(ctx, p, 100)
	require.NoError(t, err)
	assert.Equal(t, first, backend.readCount())

	hits, _ := c.Stats()
	assert.Greater(t, hits, int64(0))
}

func TestCachingStoreCoalescesMissingBlocks(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: NewMemoryStore()}
	require.NoError(t, backend.Put(ctx, "blob", make([]byte, 64*1024)))

	s := NewCachingStore(backend, cache.NewLRU(1<<20), 4096)
	b, err := s.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	// A read spanning 8 blocks should issue one coalesced backend read.
	p := make([]byte, 8*4096)
	_, err = b.ReadAt(ctx, p, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.readCount())
}

func TestCachingStoreReadPastEnd(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "small", []byte("only-10b!!")))

	s := NewCachingStore(backend, cache.NewLRU(1<<20), 4)
	b, err := s.Open(ctx, "small")
	require.NoError(t, err)
	defer b.Close()

	p := make([]byte, 20)
	n, err := b.ReadAt(ctx, p, 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)
	assert.Equal(t, "0b!!", string(p[:n]))
}

func TestCachingStoreWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "blob", []byte("version-1")))

	c := cache.NewLRU(1 << 20)
	s := NewCachingStore(backend, c, 4)

	b, err := s.Open(ctx, "blob")
	require.NoError(t, err)
	p := make([]byte, 9)
	_, err = b.ReadAt(ctx, p, 0)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	require.NoError(t, s.Put(ctx, "blob", []byte("version-2")))

	b, err = s.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()
	_, err = b.ReadAt(ctx, p, 0)
	require.NoError(t, err)
	assert.Equal(t, "version-2", string(p))
}

func TestCachingStoreReadRange(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "blob", []byte("0123456789")))

	s := NewCachingStore(backend, cache.NewLRU(1<<20), 4)
	b, err := s.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	rc, err := b.ReadRange(ctx, 2, 5)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "23456", string(got))
}
