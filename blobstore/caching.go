package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/arraykit/arraykit/internal/cache"
)

// CachingStore wraps a Store with a block-level read cache. Writes pass
// through and invalidate cached blocks for the written name.
type CachingStore struct {
	inner     Store
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore wraps inner with block caching. blockSize defaults to
// 4KB when <= 0.
func NewCachingStore(inner Store, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 4096
	}
	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool { return key.Path == name })
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize
	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * b.blockSize
		lo := max(blkStart, off)
		hi := min(blkStart+b.blockSize, off+int64(len(p)))

		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}

		srcOff := lo - blkStart
		n := min(hi-lo, int64(len(data))-srcOff)
		if n <= 0 {
			break
		}
		total += copy(p[lo-off:], data[srcOff:srcOff+n])
	}
	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&blobSectionReader{ctx: ctx, blob: b, off: off, limit: off + length}), nil
}

// fillCache loads the missing blocks in [startBlock, endBlock],
// coalescing contiguous gaps into single backend reads.
func (b *cachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct{ start, count int64 }
	var missing []run

	cur := run{start: -1}
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(ctx, cache.Key{Path: b.name, Block: uint64(blk)}); ok {
			if cur.start != -1 {
				missing = append(missing, cur)
				cur = run{start: -1}
			}
			continue
		}
		if cur.start == -1 {
			cur = run{start: blk, count: 1}
		} else {
			cur.count++
		}
	}
	if cur.start != -1 {
		missing = append(missing, cur)
	}
	if len(missing) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			byteLen := r.count * b.blockSize
			size := b.inner.Size()
			if byteStart >= size {
				return nil
			}
			byteLen = min(byteLen, size-byteStart)

			buf := make([]byte, byteLen)
			n, err := b.inner.ReadAt(ctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(n) {
					break
				}
				hi := min(lo+b.blockSize, int64(n))
				// Copy so the run buffer is not pinned by one block.
				block := make([]byte, hi-lo)
				copy(block, buf[lo:hi])
				b.cache.Set(ctx, cache.Key{Path: b.name, Block: uint64(r.start + i)}, block)
			}
			return nil
		})
	}
	return g.Wait()
}

func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	key := cache.Key{Path: b.name, Block: uint64(blk)}
	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n > 0 {
		b.cache.Set(ctx, key, buf[:n])
	}
	return buf[:n], nil
}

type blobSectionReader struct {
	ctx   context.Context
	blob  *cachingBlob
	off   int64
	limit int64
}

func (r *blobSectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	return n, err
}
