package serialization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/arraykit/blobstore"
	"github.com/arraykit/arraykit/dtype"
)

func saveLoad[T any](t *testing.T, values []T, opts SaveOptions) []T {
	t.Helper()
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	b, err := dtype.AllocateBlock[T](int64(len(values)), dtype.DefaultInit)
	require.NoError(t, err)
	defer b.Release()
	copy(dtype.Slice[T](b), values)

	require.NoError(t, Save(ctx, store, "snap.ak", b, opts))

	loaded, err := Load(ctx, store, "snap.ak", LoadOptions{})
	require.NoError(t, err)
	defer loaded.Release()

	assert.Equal(t, b.DataType(), loaded.DataType())
	out := make([]T, loaded.Len())
	copy(out, dtype.Slice[T](loaded))
	return out
}

func TestSnapshotRoundTrip(t *testing.T) {
	values := make([]float32, 10000)
	for i := range values {
		values[i] = float32(i) * 0.5
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			got := saveLoad(t, values, SaveOptions{Compression: c})
			assert.Equal(t, values, got)
		})
	}
}

func TestSnapshotRoundTripStrings(t *testing.T) {
	values := []dtype.Ustring{"alpha", "", "β", "delta"}
	assert.Equal(t, values, saveLoad(t, values, SaveOptions{Compression: CompressionZSTD}))
}

func TestSnapshotRoundTripEmptyBlock(t *testing.T) {
	got := saveLoad(t, []int64{}, SaveOptions{})
	assert.Empty(t, got)
}

func TestSnapshotRejectsCustomTypes(t *testing.T) {
	type custom struct{ V int64 }
	ctx := context.Background()
	b, err := dtype.AllocateBlock[custom](2, dtype.DefaultInit)
	require.NoError(t, err)
	defer b.Release()

	err = Save(ctx, blobstore.NewMemoryStore(), "x", b, SaveOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedDataType)
}

func TestLoadDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	b, err := dtype.AllocateBlock[int32](100, dtype.DefaultInit)
	require.NoError(t, err)
	defer b.Release()
	require.NoError(t, Save(ctx, store, "snap", b, SaveOptions{}))

	blob, err := store.Open(ctx, "snap")
	require.NoError(t, err)
	raw := make([]byte, blob.Size())
	_, err = blob.ReadAt(ctx, raw, 0)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	// Flip one payload byte.
	raw[len(raw)/2] ^= 0xFF
	require.NoError(t, store.Put(ctx, "snap", raw))

	_, err = Load(ctx, store, "snap", LoadOptions{})
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestLoadRejectsForeignData(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "junk", []byte("definitely not a snapshot")))

	_, err := Load(ctx, store, "junk", LoadOptions{})
	assert.Error(t, err)

	_, err = Load(ctx, store, "missing", LoadOptions{})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSaveDefaultsCompressionNone(t *testing.T) {
	// The zero-value options must produce a loadable snapshot.
	got := saveLoad(t, []uint64{1, 2, 3}, SaveOptions{})
	assert.Equal(t, []uint64{1, 2, 3}, got)
}
