// Package value implements the in-memory tree for decoded BHV2 values.
//
// A Value is one node of the recursive model: a numeric, logical or char
// array, a struct array of named field slots, or a cell array of child
// values. Composite values own their children exclusively; the tree has no
// back-references and no sharing, so lifetime management is left entirely to
// the garbage collector.
//
// Numeric payloads are kept in wire order (little-endian, contiguous) and
// converted on access. Struct field slots may be "holes": positions that
// were structurally skipped during a selective decode. A hole has neither
// name nor value and every accessor treats it as absent.
package value

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/prestolab/bhv2/endian"
	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
)

// FieldSlot is one (name, value) position in a struct's flattened field
// table, or one element of a cell array. The zero value is a hole.
type FieldSlot struct {
	Name  string
	Value *Value
}

// IsHole reports whether the slot was skipped during selective decoding.
func (s FieldSlot) IsHole() bool {
	return s.Value == nil
}

// Value is one decoded (or partially decoded) BHV2 value.
type Value struct {
	kind  format.ElementKind
	dims  []uint64
	count uint64

	raw        []byte      // numeric/logical payload, wire order
	text       string      // char payload, flattened
	fieldWidth uint64      // struct: field slots per element
	fields     []FieldSlot // struct: count * fieldWidth slots
	cells      []FieldSlot // cell: count entries, names conventionally empty
}

var wireEngine = endian.GetLittleEndianEngine()

// ElementCount returns the product of dims, checking for uint64 overflow.
// An empty dims slice yields 1 (a scalar with rank 0).
func ElementCount(dims []uint64) (uint64, error) {
	count := uint64(1)
	for _, d := range dims {
		hi, lo := bits.Mul64(count, d)
		if hi != 0 {
			return 0, fmt.Errorf("%w: dims %v", errs.ErrCountOverflow, dims)
		}
		count = lo
	}

	return count, nil
}

func newValue(kind format.ElementKind, dims []uint64) (*Value, error) {
	count, err := ElementCount(dims)
	if err != nil {
		return nil, err
	}

	return &Value{
		kind:  kind,
		dims:  append([]uint64(nil), dims...),
		count: count,
	}, nil
}

// NewNumericRaw creates a numeric or logical value from its wire-order
// payload bytes. The payload length must equal Width(kind) * product(dims).
func NewNumericRaw(kind format.ElementKind, dims []uint64, raw []byte) (*Value, error) {
	if !kind.IsNumeric() {
		return nil, fmt.Errorf("%w: %s is not a numeric kind", errs.ErrKindMismatch, kind)
	}

	v, err := newValue(kind, dims)
	if err != nil {
		return nil, err
	}

	want := v.count * uint64(kind.Width())
	if uint64(len(raw)) != want {
		return nil, fmt.Errorf("%w: payload %d bytes, want %d", errs.ErrKindMismatch, len(raw), want)
	}
	v.raw = raw

	return v, nil
}

// NewChar creates a char value. The format flattens char matrices into a
// single string, so text length must equal product(dims).
func NewChar(dims []uint64, text string) (*Value, error) {
	v, err := newValue(format.KindChar, dims)
	if err != nil {
		return nil, err
	}
	if uint64(len(text)) != v.count {
		return nil, fmt.Errorf("%w: text %d bytes, want %d", errs.ErrKindMismatch, len(text), v.count)
	}
	v.text = text

	return v, nil
}

// NewStruct creates a struct value shell with count*fieldWidth hole slots.
// Slots are filled afterward with SetField; unfilled slots remain holes.
func NewStruct(dims []uint64, fieldWidth uint64) (*Value, error) {
	v, err := newValue(format.KindStruct, dims)
	if err != nil {
		return nil, err
	}

	hi, slots := bits.Mul64(v.count, fieldWidth)
	if hi != 0 {
		return nil, fmt.Errorf("%w: %d elements x %d fields", errs.ErrCountOverflow, v.count, fieldWidth)
	}
	v.fieldWidth = fieldWidth
	v.fields = make([]FieldSlot, slots)

	return v, nil
}

// NewCell creates a cell value shell with count empty children. Children are
// filled afterward with SetCell.
func NewCell(dims []uint64) (*Value, error) {
	v, err := newValue(format.KindCell, dims)
	if err != nil {
		return nil, err
	}
	v.cells = make([]FieldSlot, v.count)

	return v, nil
}

// SetField stores a decoded field into slot `slot` of struct element `elem`.
func (v *Value) SetField(elem, slot uint64, name string, child *Value) error {
	if v.kind != format.KindStruct {
		return fmt.Errorf("%w: SetField on %s", errs.ErrKindMismatch, v.kind)
	}
	if elem >= v.count || slot >= v.fieldWidth {
		return fmt.Errorf("%w: element %d slot %d", errs.ErrIndexOutOfRange, elem, slot)
	}
	v.fields[elem*v.fieldWidth+slot] = FieldSlot{Name: name, Value: child}

	return nil
}

// SetCell stores a decoded child at cell index i. The name is the raw
// cell-element name from the wire, conventionally empty; it is carried
// verbatim, never interpreted.
func (v *Value) SetCell(i uint64, name string, child *Value) error {
	if v.kind != format.KindCell {
		return fmt.Errorf("%w: SetCell on %s", errs.ErrKindMismatch, v.kind)
	}
	if i >= v.count {
		return fmt.Errorf("%w: cell %d of %d", errs.ErrIndexOutOfRange, i, v.count)
	}
	v.cells[i] = FieldSlot{Name: name, Value: child}

	return nil
}

// Kind returns the element kind of the value.
func (v *Value) Kind() format.ElementKind { return v.kind }

// Dims returns the dimension sizes. The returned slice is shared with the
// value and must not be modified.
func (v *Value) Dims() []uint64 { return v.dims }

// Rank returns the number of dimensions.
func (v *Value) Rank() int { return len(v.dims) }

// ElementCount returns the total number of elements (product of Dims).
func (v *Value) ElementCount() uint64 { return v.count }

// FieldWidth returns the number of field slots per struct element, or 0 for
// non-struct values.
func (v *Value) FieldWidth() uint64 { return v.fieldWidth }

// IsScalar reports whether the value holds exactly one element.
func (v *Value) IsScalar() bool { return v.count == 1 }

// String returns a short human-readable description such as "1x1 double" or
// "1x180 struct (24 fields)". It never returns payload data; use Text for
// char payloads.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}

	shape := ""
	if len(v.dims) == 0 {
		shape = "scalar"
	} else {
		for i, d := range v.dims {
			if i > 0 {
				shape += "x"
			}
			shape += fmt.Sprintf("%d", d)
		}
	}

	if v.kind == format.KindStruct {
		return fmt.Sprintf("%s struct (%d fields)", shape, v.fieldWidth)
	}

	return fmt.Sprintf("%s %s", shape, v.kind)
}

// float64At converts element i of a numeric payload without bounds checking.
func (v *Value) float64At(i uint64) float64 {
	w := uint64(v.kind.Width())
	b := v.raw[i*w : (i+1)*w]

	switch v.kind {
	case format.KindFloat64:
		return math.Float64frombits(wireEngine.Uint64(b))
	case format.KindFloat32:
		return float64(math.Float32frombits(wireEngine.Uint32(b)))
	case format.KindUint8:
		return float64(b[0])
	case format.KindUint16:
		return float64(wireEngine.Uint16(b))
	case format.KindUint32:
		return float64(wireEngine.Uint32(b))
	case format.KindUint64:
		return float64(wireEngine.Uint64(b))
	case format.KindInt8:
		return float64(int8(b[0]))
	case format.KindInt16:
		return float64(int16(wireEngine.Uint16(b)))
	case format.KindInt32:
		return float64(int32(wireEngine.Uint32(b)))
	case format.KindInt64:
		return float64(int64(wireEngine.Uint64(b)))
	case format.KindLogical:
		if b[0] != 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}
