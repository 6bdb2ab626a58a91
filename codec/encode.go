package codec

import (
	"fmt"

	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/internal/pool"
	"github.com/prestolab/bhv2/value"
)

// Encoder serializes values and named variables into the BHV2 wire layout.
// It is the write-side mirror of Decode: appending a value and decoding the
// resulting bytes yields an identical tree.
//
// The encoder is not safe for concurrent use and not reusable after Reset.
type Encoder struct {
	buf *pool.ByteBuffer
}

// NewEncoder creates an encoder backed by a pooled buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: pool.GetBuffer()}
}

func (e *Encoder) appendUint64(v uint64) {
	e.buf.B = wireEngine.AppendUint64(e.buf.B, v)
}

func (e *Encoder) appendName(name string) error {
	if len(name) > format.MaxNameLength {
		return fmt.Errorf("%w: %d bytes", errs.ErrNameTooLong, len(name))
	}

	e.buf.Grow(8 + len(name))
	e.appendUint64(uint64(len(name)))
	e.buf.MustWrite([]byte(name))

	return nil
}

// AppendVariable appends one top-level named variable: the length-prefixed
// name followed by the encoded value.
func (e *Encoder) AppendVariable(name string, v *value.Value) error {
	if err := e.appendName(name); err != nil {
		return err
	}

	return e.AppendValue(v)
}

// AppendValue appends one value production: type name, dimensions, payload.
//
// Struct values containing hole slots cannot be encoded; the skipped
// content is gone and the bytes cannot be reproduced.
func (e *Encoder) AppendValue(v *value.Value) error {
	typeName := v.Kind().String()
	e.buf.Grow(8 + len(typeName) + 8 + 8*len(v.Dims()))
	e.appendUint64(uint64(len(typeName)))
	e.buf.MustWrite([]byte(typeName))

	e.appendUint64(uint64(len(v.Dims())))
	for _, d := range v.Dims() {
		e.appendUint64(d)
	}

	switch {
	case v.Kind().IsNumeric():
		raw, err := v.Bytes()
		if err != nil {
			return err
		}
		e.buf.Grow(len(raw))
		e.buf.MustWrite(raw)

	case v.Kind() == format.KindChar:
		text, err := v.Text()
		if err != nil {
			return err
		}
		e.buf.Grow(len(text))
		e.buf.MustWrite([]byte(text))

	case v.Kind() == format.KindStruct:
		e.appendUint64(v.FieldWidth())
		for elem := uint64(0); elem < v.ElementCount(); elem++ {
			for slot := uint64(0); slot < v.FieldWidth(); slot++ {
				fs, err := v.FieldAt(elem, slot)
				if err != nil {
					return err
				}
				if fs.IsHole() {
					return fmt.Errorf("cannot encode struct element %d: slot %d is a hole", elem, slot)
				}
				if err := e.appendName(fs.Name); err != nil {
					return err
				}
				if err := e.AppendValue(fs.Value); err != nil {
					return err
				}
			}
		}

	default: // format.KindCell
		for i := uint64(0); i < v.ElementCount(); i++ {
			child, err := v.Cell(i)
			if err != nil {
				return err
			}
			if child == nil {
				return fmt.Errorf("cannot encode cell element %d: no value", i)
			}
			name, _ := v.CellName(i)
			if err := e.appendName(name); err != nil {
				return err
			}
			if err := e.AppendValue(child); err != nil {
				return err
			}
		}
	}

	return nil
}

// Bytes returns the encoded data. The slice shares the encoder's buffer and
// is invalid after Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset returns the buffer to the pool. The encoder must not be used again.
func (e *Encoder) Reset() {
	if e.buf != nil {
		pool.PutBuffer(e.buf)
		e.buf = nil
	}
}
