package pool

import "sync"

const (
	// PayloadBufferDefaultSize is the initial capacity of a pooled payload
	// buffer, sized for typical flattened column payloads.
	PayloadBufferDefaultSize = 16 * 1024

	// payloadBufferMaxThreshold is the largest buffer returned to the pool.
	// Oversized buffers are dropped so one huge payload does not pin memory.
	payloadBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a reusable byte slice wrapper handed out by the pool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

var payloadBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, PayloadBufferDefaultSize)}
	},
}

// GetPayloadBuffer retrieves an empty scratch buffer from the pool.
//
// The caller must return it with PutPayloadBuffer once the contents have been
// consumed or copied; the buffer must not escape after that.
func GetPayloadBuffer() *ByteBuffer {
	bb, _ := payloadBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutPayloadBuffer returns a buffer to the pool.
func PutPayloadBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > payloadBufferMaxThreshold {
		return
	}
	payloadBufferPool.Put(bb)
}
