package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clxdsjyx/pandas-msgpack/errs"
)

func repetitivePayload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 16)
	}

	return out
}

func randomPayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	out := make([]byte, n)
	rng.Read(out)

	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"zlib", Zlib},
		{"blosc", Blosc},
	}
	for _, tt := range tests {
		got, err := Parse(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := Parse("snappy")
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
	_, err = Parse("")
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(None))
	require.NoError(t, Check(Zlib))
	require.NoError(t, Check(Blosc))
	require.ErrorIs(t, Check(Type(200)), errs.ErrUnknownCompression)
}

func TestForTypeUnknown(t *testing.T) {
	_, err := ForType(Type(200))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestNoOpRoundTrip(t *testing.T) {
	codec, err := ForType(None)
	require.NoError(t, err)
	require.True(t, codec.Available())

	payload := repetitivePayload(1024)
	packed, err := codec.Compress(payload, 8)
	require.NoError(t, err)
	require.Equal(t, payload, packed)

	restored, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestZlibRoundTrip(t *testing.T) {
	codec, err := ForType(Zlib)
	require.NoError(t, err)
	require.True(t, codec.Available())

	payload := repetitivePayload(64 * 1024)
	packed, err := codec.Compress(payload, 8)
	require.NoError(t, err)
	require.Less(t, len(packed), len(payload))

	restored, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestZlibCorruptInput(t *testing.T) {
	codec, err := ForType(Zlib)
	require.NoError(t, err)

	_, err = codec.Decompress([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Error(t, err)
}

func TestBloscRoundTrip(t *testing.T) {
	codec, err := ForType(Blosc)
	require.NoError(t, err)
	require.True(t, codec.Available())

	for _, itemSize := range []int{1, 2, 4, 8, 16} {
		payload := repetitivePayload(itemSize * 512)
		packed, err := codec.Compress(payload, itemSize)
		require.NoError(t, err)

		restored, err := codec.Decompress(packed)
		require.NoError(t, err)
		require.Equal(t, payload, restored, "item size %d", itemSize)
	}
}

func TestBloscIncompressibleStoredVerbatim(t *testing.T) {
	codec := NewBloscCodec()
	codec.Shuffle = false

	payload := randomPayload(4096)
	packed, err := codec.Compress(payload, 1)
	require.NoError(t, err)
	require.Equal(t, byte(flagStored), packed[1]&flagStored)
	require.True(t, bytes.Equal(payload, packed[bloscHeaderSize:]))

	restored, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestBloscEmptyPayload(t *testing.T) {
	codec := NewBloscCodec()

	packed, err := codec.Compress(nil, 8)
	require.NoError(t, err)

	restored, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Empty(t, restored)
}

func TestBloscTruncatedHeader(t *testing.T) {
	codec := NewBloscCodec()

	_, err := codec.Decompress([]byte{bloscVersion, 0x00, 0x08})
	require.Error(t, err)
}

func TestBloscShuffleRoundTrip(t *testing.T) {
	payload := repetitivePayload(8 * 256)
	shuffled := shuffleBytes(payload, 8)
	require.Len(t, shuffled, len(payload))
	require.Equal(t, payload, unshuffleBytes(shuffled, 8))
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "zlib", Zlib.String())
	require.Equal(t, "blosc", Blosc.String())
}
