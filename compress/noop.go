package compress

// NoOpCodec bypasses data without compression. It backs the "no compression"
// choice so conversion code can treat every choice uniformly.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// Available always reports true.
func (NoOpCodec) Available() bool {
	return true
}

// Compress returns the input slice as-is, without copying.
//
// The returned slice shares the input's memory; callers must not modify the
// input afterwards if they keep the result.
func (NoOpCodec) Compress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
