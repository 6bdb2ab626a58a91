package value

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/prestolab/bhv2/endian"
	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
)

// Bytes returns the raw wire-order payload of a numeric or logical value.
// The returned slice is shared with the value and must not be modified.
func (v *Value) Bytes() ([]byte, error) {
	if !v.kind.IsNumeric() {
		return nil, fmt.Errorf("%w: Bytes on %s", errs.ErrKindMismatch, v.kind)
	}

	return v.raw, nil
}

// Float64At returns element i of any numeric or logical value, widened to
// float64. Logical elements convert to 0 or 1.
func (v *Value) Float64At(i uint64) (float64, error) {
	if !v.kind.IsNumeric() {
		return 0, fmt.Errorf("%w: Float64At on %s", errs.ErrKindMismatch, v.kind)
	}
	if i >= v.count {
		return 0, fmt.Errorf("%w: element %d of %d", errs.ErrIndexOutOfRange, i, v.count)
	}

	return v.float64At(i), nil
}

// Int64At returns element i truncated to int64, for count-like fields such
// as TrialError or Condition.
func (v *Value) Int64At(i uint64) (int64, error) {
	f, err := v.Float64At(i)
	if err != nil {
		return 0, err
	}

	return int64(f), nil
}

// Float64s materializes the whole numeric payload as a []float64.
//
// For float64 payloads on little-endian hosts the elements are copied
// directly without per-element bit conversion.
func (v *Value) Float64s() ([]float64, error) {
	if !v.kind.IsNumeric() {
		return nil, fmt.Errorf("%w: Float64s on %s", errs.ErrKindMismatch, v.kind)
	}

	out := make([]float64, v.count)
	if v.count == 0 {
		return out, nil
	}

	if v.kind == format.KindFloat64 && endian.IsNativeLittleEndian() {
		src := unsafe.Slice((*float64)(unsafe.Pointer(&v.raw[0])), v.count)
		copy(out, src)

		return out, nil
	}

	for i := uint64(0); i < v.count; i++ {
		out[i] = v.float64At(i)
	}

	return out, nil
}

// Text returns the flattened string payload of a char value.
func (v *Value) Text() (string, error) {
	if v.kind != format.KindChar {
		return "", fmt.Errorf("%w: Text on %s", errs.ErrKindMismatch, v.kind)
	}

	return v.text, nil
}

// Field returns the value of the named field of struct element elem.
// Hole slots are skipped; a name only present as a hole reports
// errs.ErrFieldNotFound, exactly as if the field had never existed.
func (v *Value) Field(name string, elem uint64) (*Value, error) {
	if v.kind != format.KindStruct {
		return nil, fmt.Errorf("%w: Field on %s", errs.ErrKindMismatch, v.kind)
	}
	if elem >= v.count {
		return nil, fmt.Errorf("%w: element %d of %d", errs.ErrIndexOutOfRange, elem, v.count)
	}

	base := elem * v.fieldWidth
	for _, slot := range v.fields[base : base+v.fieldWidth] {
		if slot.IsHole() {
			continue
		}
		if slot.Name == name {
			return slot.Value, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrFieldNotFound, name)
}

// FieldAt returns the slot at position (elem, slot) of a struct value,
// including holes.
func (v *Value) FieldAt(elem, slot uint64) (FieldSlot, error) {
	if v.kind != format.KindStruct {
		return FieldSlot{}, fmt.Errorf("%w: FieldAt on %s", errs.ErrKindMismatch, v.kind)
	}
	if elem >= v.count || slot >= v.fieldWidth {
		return FieldSlot{}, fmt.Errorf("%w: element %d slot %d", errs.ErrIndexOutOfRange, elem, slot)
	}

	return v.fields[elem*v.fieldWidth+slot], nil
}

// FieldNames returns the names of the present (non-hole) fields of struct
// element elem, in slot order.
func (v *Value) FieldNames(elem uint64) ([]string, error) {
	if v.kind != format.KindStruct {
		return nil, fmt.Errorf("%w: FieldNames on %s", errs.ErrKindMismatch, v.kind)
	}
	if elem >= v.count {
		return nil, fmt.Errorf("%w: element %d of %d", errs.ErrIndexOutOfRange, elem, v.count)
	}

	base := elem * v.fieldWidth
	names := make([]string, 0, v.fieldWidth)
	for _, slot := range v.fields[base : base+v.fieldWidth] {
		if !slot.IsHole() {
			names = append(names, slot.Name)
		}
	}

	return names, nil
}

// Cell returns the child value at cell index i.
func (v *Value) Cell(i uint64) (*Value, error) {
	if v.kind != format.KindCell {
		return nil, fmt.Errorf("%w: Cell on %s", errs.ErrKindMismatch, v.kind)
	}
	if i >= v.count {
		return nil, fmt.Errorf("%w: cell %d of %d", errs.ErrIndexOutOfRange, i, v.count)
	}

	return v.cells[i].Value, nil
}

// CellName returns the wire name of cell element i. Names are conventionally
// empty; a nonempty name is surfaced unchanged, with no meaning attached.
func (v *Value) CellName(i uint64) (string, error) {
	if v.kind != format.KindCell {
		return "", fmt.Errorf("%w: CellName on %s", errs.ErrKindMismatch, v.kind)
	}
	if i >= v.count {
		return "", fmt.Errorf("%w: cell %d of %d", errs.ErrIndexOutOfRange, i, v.count)
	}

	return v.cells[i].Name, nil
}

// ScalarFloat returns the first element of v widened to float64, or NaN
// when v is absent, empty or not numeric. Useful for optional metadata
// fields where absence is expected.
func ScalarFloat(v *Value) float64 {
	if v == nil || !v.kind.IsNumeric() || v.count == 0 {
		return math.NaN()
	}

	return v.float64At(0)
}
