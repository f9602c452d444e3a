package codec

import (
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// rawBlobExtID is the msgpack extension subtype for flattened array
// payloads. Compressed and uncompressed payloads share the same subtype;
// the sibling "compress" field of the enclosing record is authoritative.
const rawBlobExtID = 0

// RawBlob carries a flattened (and possibly compressed) array payload as an
// extension-typed msgpack value with subtype 0.
type RawBlob struct {
	Data []byte
}

var (
	_ msgpack.Marshaler   = (*RawBlob)(nil)
	_ msgpack.Unmarshaler = (*RawBlob)(nil)
)

// MarshalMsgpack returns the payload bytes verbatim.
func (b *RawBlob) MarshalMsgpack() ([]byte, error) {
	return b.Data, nil
}

// UnmarshalMsgpack stores a copy of the payload; the msgpack decoder may
// reuse its buffer after this call returns.
func (b *RawBlob) UnmarshalMsgpack(data []byte) error {
	b.Data = slices.Clone(data)
	return nil
}

func init() {
	msgpack.RegisterExt(rawBlobExtID, (*RawBlob)(nil))
}
