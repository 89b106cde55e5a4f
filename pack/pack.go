// Package pack implements the compressed container format used for
// entity map files on disk: an 8-byte little-endian uncompressed-size
// field, an 8-byte little-endian compressed-size field, then the
// compressed payload. The payload is zstd-encoded.
package pack

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const headerSize = 16

var (
	// ErrNotCompressed reports a byte stream not recognized as a
	// compressed container.
	ErrNotCompressed = errors.New("pack: data is not a compressed container")

	// ErrSizeMismatch reports a container whose declared uncompressed
	// size does not match the actual decompressed size.
	ErrSizeMismatch = errors.New("pack: declared size does not match payload")
)

// IsCompressed reports whether the data looks like a compressed
// container: the declared compressed size must match the byte count
// after the fixed header.
func IsCompressed(data []byte) bool {
	if len(data) < headerSize {
		return false
	}
	compressedSize := binary.LittleEndian.Uint64(data[8:headerSize])
	return compressedSize == uint64(len(data)-headerSize)
}

// Decompress unpacks a compressed container and returns the raw text
// bytes. The declared uncompressed size is verified against the actual
// decoded length.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return nil, ErrNotCompressed
	}
	uncompressedSize := binary.LittleEndian.Uint64(data[0:8])

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("pack: init decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data[headerSize:], make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("pack: decode: %w", err)
	}
	if uint64(len(out)) != uncompressedSize {
		return nil, ErrSizeMismatch
	}
	return out, nil
}

// Compress packs raw bytes into a compressed container.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("pack: init encoder: %w", err)
	}
	payload := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("pack: close encoder: %w", err)
	}

	out := make([]byte, headerSize, headerSize+len(payload))
	binary.LittleEndian.PutUint64(out[0:8], uint64(len(data)))
	binary.LittleEndian.PutUint64(out[8:headerSize], uint64(len(payload)))
	return append(out, payload...), nil
}
