//go:build gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// zstdCompress compresses data as a zstd frame via the cgo implementation.
func zstdCompress(data []byte) []byte {
	return gozstd.CompressLevel(nil, data, 3)
}

// zstdDecompress restores a zstd frame via the cgo implementation.
func zstdDecompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
