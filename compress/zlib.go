package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriterPool pools zlib writers for reuse. The writer keeps sizable
// internal state that benefits from reuse across payloads.
var zlibWriterPool = sync.Pool{
	New: func() any {
		return zlib.NewWriter(io.Discard)
	},
}

// ZlibCodec is the general-purpose deflate-style backend.
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// Available always reports true; the backend is pure Go and compiled in.
func (ZlibCodec) Available() bool {
	return true
}

// Compress compresses the payload with zlib. The element size hint is not
// used by this backend.
func (ZlibCodec) Compress(data []byte, _ int) ([]byte, error) {
	var buf bytes.Buffer

	zw, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(zw)
	zw.Reset(&buf)

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress restores a zlib-compressed payload.
func (ZlibCodec) Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}
