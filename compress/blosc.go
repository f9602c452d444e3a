package compress

import (
	"encoding/binary"
	"fmt"
)

// InnerCodec selects the entropy codec used inside a blosc container.
// The numeric values match the c-blosc codec table so containers remain
// recognizable to readers familiar with that format.
type InnerCodec uint8

const (
	InnerLZ4  InnerCodec = 1
	InnerZstd InnerCodec = 5
)

const (
	bloscVersion    = 1
	bloscHeaderSize = 12

	// flagShuffle marks payloads that were byte-shuffled before compression.
	flagShuffle = 0x01
	// flagStored marks payloads kept verbatim because the inner codec could
	// not shrink them.
	flagStored = 0x02
)

// BloscCodec is the block-compression backend. It byte-shuffles the payload
// by element width (grouping the i-th byte of every element together, which
// is what makes fixed-width numeric data compress well) and then runs an
// inner block codec over the result.
//
// Container layout:
//
//	offset 0     format version
//	offset 1     flags: bit0 shuffle, bit1 stored, high nibble inner codec id
//	offset 2     element byte width used for shuffling
//	offset 3     reserved
//	offset 4-11  uncompressed length, little endian
//	offset 12-   inner codec payload
type BloscCodec struct {
	// Shuffle enables the byte-shuffle filter for multi-byte elements.
	Shuffle bool
	// Inner selects the entropy codec run after the filter.
	Inner InnerCodec
}

var _ Codec = BloscCodec{}

// NewBloscCodec returns a blosc codec with shuffling enabled and the LZ4
// inner codec, the conventional default.
func NewBloscCodec() BloscCodec {
	return BloscCodec{Shuffle: true, Inner: InnerLZ4}
}

// Available always reports true; both inner codecs are compiled in.
func (c BloscCodec) Available() bool {
	return true
}

// Compress compresses the payload. itemSize is the element byte width used
// for the shuffle filter; values that do not evenly divide the payload
// disable shuffling for that payload.
func (c BloscCodec) Compress(data []byte, itemSize int) ([]byte, error) {
	if itemSize <= 1 || itemSize > 255 || len(data)%itemSize != 0 {
		itemSize = 1
	}

	shuffled := c.Shuffle && itemSize > 1
	src := data
	if shuffled {
		src = shuffleBytes(data, itemSize)
	}

	var (
		packed []byte
		stored bool
		err    error
	)
	switch c.Inner {
	case InnerLZ4:
		packed, err = lz4BlockCompress(src)
		if err == nil && packed == nil && len(src) > 0 {
			// incompressible; keep the filtered bytes verbatim
			packed = src
			stored = true
		}
	case InnerZstd:
		packed = zstdCompress(src)
	default:
		err = fmt.Errorf("blosc: unknown inner codec %d", c.Inner)
	}
	if err != nil {
		return nil, fmt.Errorf("blosc compression failed: %w", err)
	}

	flags := byte(c.Inner) << 4
	if shuffled {
		flags |= flagShuffle
	}
	if stored {
		flags |= flagStored
	}

	out := make([]byte, bloscHeaderSize, bloscHeaderSize+len(packed))
	out[0] = bloscVersion
	out[1] = flags
	out[2] = byte(itemSize)
	binary.LittleEndian.PutUint64(out[4:12], uint64(len(data)))

	return append(out, packed...), nil
}

// Decompress restores a blosc container produced by Compress.
func (c BloscCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) < bloscHeaderSize {
		return nil, fmt.Errorf("blosc: truncated container header (%d bytes)", len(data))
	}
	if data[0] != bloscVersion {
		return nil, fmt.Errorf("blosc: unsupported container version %d", data[0])
	}

	flags := data[1]
	itemSize := int(data[2])
	nbytes := binary.LittleEndian.Uint64(data[4:12])
	payload := data[bloscHeaderSize:]

	var (
		raw []byte
		err error
	)
	switch {
	case flags&flagStored != 0:
		raw = append([]byte(nil), payload...)
	case InnerCodec(flags>>4) == InnerLZ4:
		raw, err = lz4BlockDecompress(payload, int(nbytes))
	case InnerCodec(flags>>4) == InnerZstd:
		raw, err = zstdDecompress(payload)
	default:
		err = fmt.Errorf("blosc: unknown inner codec %d", flags>>4)
	}
	if err != nil {
		return nil, fmt.Errorf("blosc decompression failed: %w", err)
	}
	if uint64(len(raw)) != nbytes {
		return nil, fmt.Errorf("blosc: decompressed %d bytes, container declares %d", len(raw), nbytes)
	}

	if flags&flagShuffle != 0 && itemSize > 1 {
		raw = unshuffleBytes(raw, itemSize)
	}

	return raw, nil
}

// shuffleBytes transposes elements so that the j-th byte of every element is
// stored contiguously. len(src) must be a multiple of itemSize.
func shuffleBytes(src []byte, itemSize int) []byte {
	n := len(src) / itemSize
	dst := make([]byte, len(src))
	for i := range n {
		for j := range itemSize {
			dst[j*n+i] = src[i*itemSize+j]
		}
	}

	return dst
}

// unshuffleBytes is the inverse of shuffleBytes.
func unshuffleBytes(src []byte, itemSize int) []byte {
	n := len(src) / itemSize
	dst := make([]byte, len(src))
	for i := range n {
		for j := range itemSize {
			dst[i*itemSize+j] = src[j*n+i]
		}
	}

	return dst
}
