package serialization

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"

	"github.com/arraykit/arraykit/blobstore"
	"github.com/arraykit/arraykit/codec"
	"github.com/arraykit/arraykit/dtype"
)

// Snapshot file layout:
//
//	[magic u32][version u32][headerLen u32][header][payload][crc32 u32]
//
// The header is codec-encoded JSON naming the data type, codec,
// compression, and element count, so a file describes itself. The
// trailing CRC32 (IEEE) covers everything before it.
const (
	// snapshotMagic is ASCII "AKS0".
	snapshotMagic   = 0x414B5330
	snapshotVersion = 0x00010000
)

var (
	// ErrInvalidMagic is returned for data that is not a snapshot.
	ErrInvalidMagic = errors.New("serialization: invalid magic number")
	// ErrInvalidVersion is returned for snapshot versions this build
	// cannot read.
	ErrInvalidVersion = errors.New("serialization: unsupported version")
	// ErrChecksum is returned when the stored CRC32 does not match.
	ErrChecksum = errors.New("serialization: checksum mismatch")
	// ErrUnsupportedDataType is returned when saving a custom data
	// type, which has no wire form.
	ErrUnsupportedDataType = errors.New("serialization: data type has no wire form")
)

type snapshotHeader struct {
	DataType    string `json:"dtype"`
	Codec       string `json:"codec"`
	Compression string `json:"compression"`
	Count       int64  `json:"count"`
}

// SaveOptions configures Save. The zero value uses the default codec,
// zstd compression, and the default logger.
type SaveOptions struct {
	Codec       codec.Codec
	Compression Compression
	Logger      *slog.Logger
}

// Save writes the block's elements to the store under name as a
// self-describing snapshot.
func Save(ctx context.Context, store blobstore.Store, name string, b *dtype.Block, opts SaveOptions) error {
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	wire, ok := Wire(b.DataType())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDataType, b.DataType())
	}

	payload, err := wire.Encode(nil, b.BasePointer(), b.Len())
	if err != nil {
		return err
	}
	payload, err = compressBlock(payload, opts.Compression)
	if err != nil {
		return err
	}

	hdr, err := opts.Codec.Marshal(snapshotHeader{
		DataType:    b.DataType().Name(),
		Codec:       opts.Codec.Name(),
		Compression: opts.Compression.String(),
		Count:       b.Len(),
	})
	if err != nil {
		return err
	}

	out := binary.LittleEndian.AppendUint32(nil, snapshotMagic)
	out = binary.LittleEndian.AppendUint32(out, snapshotVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(hdr)))
	out = append(out, hdr...)
	out = append(out, payload...)
	out = binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out))

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	opts.Logger.InfoContext(ctx, "snapshot saved",
		slog.String("name", name),
		slog.String("dtype", b.DataType().Name()),
		slog.Int64("elements", b.Len()),
		slog.Int("bytes", len(out)),
		slog.String("compression", opts.Compression.String()),
	)
	return nil
}

// LoadOptions configures Load.
type LoadOptions struct {
	Logger *slog.Logger
}

// Load reads the named snapshot and allocates a block holding its
// elements. The caller owns the returned block.
func Load(ctx context.Context, store blobstore.Store, name string, opts LoadOptions) (*dtype.Block, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	b, err := decodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}

	opts.Logger.InfoContext(ctx, "snapshot loaded",
		slog.String("name", name),
		slog.String("dtype", b.DataType().Name()),
		slog.Int64("elements", b.Len()),
	)
	return b, nil
}

func decodeSnapshot(raw []byte) (*dtype.Block, error) {
	if len(raw) < 16 {
		return nil, ErrInvalidMagic
	}
	body, trailer := raw[:len(raw)-4], raw[len(raw)-4:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(trailer) {
		return nil, ErrChecksum
	}
	if binary.LittleEndian.Uint32(body) != snapshotMagic {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(body[4:]) != snapshotVersion {
		return nil, ErrInvalidVersion
	}

	hdrLen := binary.LittleEndian.Uint32(body[8:])
	if uint32(len(body)-12) < hdrLen {
		return nil, ErrShortBuffer
	}
	var hdr snapshotHeader
	c := codec.Default
	if err := c.Unmarshal(body[12:12+hdrLen], &hdr); err != nil {
		return nil, err
	}
	if _, ok := codec.ByName(hdr.Codec); !ok {
		return nil, fmt.Errorf("serialization: unknown codec %q", hdr.Codec)
	}
	compression, ok := CompressionByName(hdr.Compression)
	if !ok {
		return nil, fmt.Errorf("serialization: unknown compression %q", hdr.Compression)
	}

	dt, err := dtype.FromName(hdr.DataType)
	if err != nil {
		return nil, err
	}
	wire, ok := Wire(dt)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataType, dt)
	}

	payload, err := decompressBlock(body[12+hdrLen:], compression)
	if err != nil {
		return nil, err
	}

	b, err := dtype.Allocate(dt, hdr.Count, dtype.DefaultInit)
	if err != nil {
		return nil, err
	}
	rest, err := wire.Decode(payload, b.BasePointer(), b.Len())
	if err != nil {
		b.Release()
		return nil, err
	}
	if len(rest) != 0 {
		b.Release()
		return nil, errors.New("serialization: trailing payload bytes")
	}
	return b, nil
}
