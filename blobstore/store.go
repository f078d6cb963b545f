package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error satisfying
// errors.Is(err, ErrNotFound). The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction over immutable blob storage. Snapshots are
// written once under a name and read back whole or by range.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create starts a streaming write. The blob becomes visible under
	// name when the returned writer is closed without error.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a small blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off. Returns io.EOF when the
	// read reaches the end of the blob before filling p.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over [off, off+length), clamped to the
	// blob size.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the blob size in bytes.
	Size() int64
	io.Closer
}

// WritableBlob is a streaming write handle. Data is committed on Close.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered data to durable storage where the backend
	// supports it; a no-op for backends that commit only on Close.
	Sync() error
}

// Mappable is an optional Blob interface for zero-copy access.
type Mappable interface {
	// Bytes returns the blob contents without copying. The slice is
	// valid until the blob is closed.
	Bytes() ([]byte, error)
}
