package compress

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Type identifies a compression backend for flattened array payloads.
//
// The selected backend is threaded down as an explicit parameter to every
// conversion call and recorded in each converted payload's compress field;
// it is never process-wide state.
type Type uint8

const (
	// None disables compression; payloads are wrapped raw.
	None Type = iota

	// Zlib is the general-purpose deflate-style backend.
	Zlib

	// Blosc is the block-compression backend. It additionally wants the
	// element byte width as a hint so it can byte-shuffle before compressing.
	Blosc
)

// String returns the name of the compression type. For Zlib and Blosc this
// is also the value recorded on the wire.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zlib:
		return "zlib"
	case Blosc:
		return "blosc"
	default:
		return "unknown"
	}
}

// Parse maps a recorded compression name back to its type. The empty string
// and "none" mean no compression.
func Parse(name string) (Type, error) {
	switch name {
	case "", "none":
		return None, nil
	case "zlib":
		return Zlib, nil
	case "blosc":
		return Blosc, nil
	default:
		return None, fmt.Errorf("%w: got %q", errs.ErrUnknownCompression, name)
	}
}

// Compressor compresses a flattened payload. itemSize is the element byte
// width of the payload's dtype; backends that do not need the hint ignore it.
type Compressor interface {
	Compress(data []byte, itemSize int) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor.
//
// Memory management: unless the implementation also implements BufferCaching,
// the returned slice is newly allocated and owned by the caller.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression with an availability check.
type Codec interface {
	Compressor
	Decompressor

	// Available reports whether the backend is usable in this build.
	// Selecting an unavailable backend is a fatal error reported before any
	// conversion is attempted.
	Available() bool
}

// BufferCaching is implemented by decompressors whose Decompress may return a
// buffer owned by an internal cache. Callers that need exclusive ownership
// must copy, and should surface a performance warning when they do.
type BufferCaching interface {
	CachesDecompressed() bool
}

// ForType returns the Codec for the given compression type.
func ForType(t Type) (Codec, error) {
	switch t {
	case None:
		return NoOpCodec{}, nil
	case Zlib:
		return ZlibCodec{}, nil
	case Blosc:
		return NewBloscCodec(), nil
	default:
		return nil, fmt.Errorf("%w: type %d", errs.ErrUnknownCompression, t)
	}
}

// Check verifies that the backend for t exists and is available. It is called
// once up front, before any payload is produced.
func Check(t Type) error {
	codec, err := ForType(t)
	if err != nil {
		return err
	}
	if !codec.Available() {
		return fmt.Errorf("%w: %s", errs.ErrCompressionUnavailable, t)
	}

	return nil
}
