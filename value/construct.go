package value

import (
	"math"

	"github.com/prestolab/bhv2/format"
)

// Typed constructors for building values in memory, used by the encoder and
// by callers assembling BHV2 files. Each encodes its elements into the
// little-endian wire layout up front so the value is indistinguishable from
// a decoded one.

// NewFloat64 creates a double value from data; len(data) must equal
// product(dims).
func NewFloat64(dims []uint64, data []float64) (*Value, error) {
	raw := make([]byte, 0, len(data)*8)
	for _, d := range data {
		raw = wireEngine.AppendUint64(raw, math.Float64bits(d))
	}

	return NewNumericRaw(format.KindFloat64, dims, raw)
}

// NewFloat32 creates a single value from data.
func NewFloat32(dims []uint64, data []float32) (*Value, error) {
	raw := make([]byte, 0, len(data)*4)
	for _, d := range data {
		raw = wireEngine.AppendUint32(raw, math.Float32bits(d))
	}

	return NewNumericRaw(format.KindFloat32, dims, raw)
}

// NewUint8 creates a uint8 value from data.
func NewUint8(dims []uint64, data []uint8) (*Value, error) {
	return NewNumericRaw(format.KindUint8, dims, append([]byte(nil), data...))
}

// NewUint16 creates a uint16 value from data.
func NewUint16(dims []uint64, data []uint16) (*Value, error) {
	raw := make([]byte, 0, len(data)*2)
	for _, d := range data {
		raw = wireEngine.AppendUint16(raw, d)
	}

	return NewNumericRaw(format.KindUint16, dims, raw)
}

// NewUint32 creates a uint32 value from data.
func NewUint32(dims []uint64, data []uint32) (*Value, error) {
	raw := make([]byte, 0, len(data)*4)
	for _, d := range data {
		raw = wireEngine.AppendUint32(raw, d)
	}

	return NewNumericRaw(format.KindUint32, dims, raw)
}

// NewUint64 creates a uint64 value from data.
func NewUint64(dims []uint64, data []uint64) (*Value, error) {
	raw := make([]byte, 0, len(data)*8)
	for _, d := range data {
		raw = wireEngine.AppendUint64(raw, d)
	}

	return NewNumericRaw(format.KindUint64, dims, raw)
}

// NewInt8 creates an int8 value from data.
func NewInt8(dims []uint64, data []int8) (*Value, error) {
	raw := make([]byte, len(data))
	for i, d := range data {
		raw[i] = byte(d)
	}

	return NewNumericRaw(format.KindInt8, dims, raw)
}

// NewInt16 creates an int16 value from data.
func NewInt16(dims []uint64, data []int16) (*Value, error) {
	raw := make([]byte, 0, len(data)*2)
	for _, d := range data {
		raw = wireEngine.AppendUint16(raw, uint16(d))
	}

	return NewNumericRaw(format.KindInt16, dims, raw)
}

// NewInt32 creates an int32 value from data.
func NewInt32(dims []uint64, data []int32) (*Value, error) {
	raw := make([]byte, 0, len(data)*4)
	for _, d := range data {
		raw = wireEngine.AppendUint32(raw, uint32(d))
	}

	return NewNumericRaw(format.KindInt32, dims, raw)
}

// NewInt64 creates an int64 value from data.
func NewInt64(dims []uint64, data []int64) (*Value, error) {
	raw := make([]byte, 0, len(data)*8)
	for _, d := range data {
		raw = wireEngine.AppendUint64(raw, uint64(d))
	}

	return NewNumericRaw(format.KindInt64, dims, raw)
}

// NewLogical creates a logical value from data; true encodes as 1.
func NewLogical(dims []uint64, data []bool) (*Value, error) {
	raw := make([]byte, len(data))
	for i, d := range data {
		if d {
			raw[i] = 1
		}
	}

	return NewNumericRaw(format.KindLogical, dims, raw)
}

// Scalar creates a 1x1 double value, the most common shape in BHV2 files.
func Scalar(v float64) *Value {
	val, _ := NewFloat64([]uint64{1, 1}, []float64{v})
	return val
}

// Chars creates a 1xN char value from a string.
func Chars(s string) *Value {
	val, _ := NewChar([]uint64{1, uint64(len(s))}, s)
	return val
}
