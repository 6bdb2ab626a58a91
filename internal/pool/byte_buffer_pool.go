// Package pool provides pooled byte buffers for the encoder, so encoding
// many variables in a row does not reallocate per value.
package pool

import "sync"

const (
	// BufferDefaultSize is the initial capacity of pooled buffers. BHV2
	// variables are usually a few KiB of header plus payload.
	BufferDefaultSize = 16 * 1024

	// BufferMaxThreshold is the largest buffer returned to the pool.
	// Oversized buffers from one huge variable are dropped instead of
	// pinning memory for the rest of the process.
	BufferMaxThreshold = 128 * 1024
)

// ByteBuffer is a growable byte slice with append-style write helpers.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Reset empties the buffer while retaining its allocation.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can hold n more bytes without reallocating.
// Small buffers grow by BufferDefaultSize; larger ones by 25% of capacity.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := BufferDefaultSize
	if cap(bb.B) > 4*BufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

var bufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(BufferDefaultSize)
	},
}

// GetBuffer obtains a reset ByteBuffer from the pool.
func GetBuffer() *ByteBuffer {
	bb, _ := bufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutBuffer returns a ByteBuffer to the pool unless it grew past
// BufferMaxThreshold.
func PutBuffer(bb *ByteBuffer) {
	if bb == nil || bb.Cap() > BufferMaxThreshold {
		return
	}
	bufferPool.Put(bb)
}
