package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestolab/bhv2/endian"
	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/value"
)

var engine = endian.GetLittleEndianEngine()

func seekCursor(data []byte) *SeekCursor {
	return NewSeekCursor(bytes.NewReader(data), int64(len(data)))
}

func readerCursor(data []byte) *ReaderCursor {
	return NewReaderCursor(bytes.NewReader(data))
}

func encodeValue(t *testing.T, v *value.Value) []byte {
	t.Helper()
	enc := NewEncoder()
	defer enc.Reset()
	require.NoError(t, enc.AppendValue(v))

	return append([]byte(nil), enc.Bytes()...)
}

// testStruct builds a 1x1 struct with fields A, B, C holding doubles 1, 2, 3.
func testStruct(t *testing.T) *value.Value {
	t.Helper()
	s, err := value.NewStruct([]uint64{1, 1}, 3)
	require.NoError(t, err)
	require.NoError(t, s.SetField(0, 0, "A", value.Scalar(1)))
	require.NoError(t, s.SetField(0, 1, "B", value.Scalar(2)))
	require.NoError(t, s.SetField(0, 2, "C", value.Scalar(3)))

	return s
}

// deepValue builds a struct containing a cell containing a struct, to
// exercise the grammar at depth.
func deepValue(t *testing.T) *value.Value {
	t.Helper()

	inner, err := value.NewStruct([]uint64{1, 1}, 2)
	require.NoError(t, err)
	require.NoError(t, inner.SetField(0, 0, "Name", value.Chars("probe")))
	f64s, err := value.NewFloat64([]uint64{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, inner.SetField(0, 1, "Samples", f64s))

	cell, err := value.NewCell([]uint64{1, 2})
	require.NoError(t, err)
	require.NoError(t, cell.SetCell(0, "", inner))
	require.NoError(t, cell.SetCell(1, "", value.Chars("tail")))

	outer, err := value.NewStruct([]uint64{1, 1}, 3)
	require.NoError(t, err)
	require.NoError(t, outer.SetField(0, 0, "Meta", value.Scalar(7)))
	require.NoError(t, outer.SetField(0, 1, "Data", cell))
	logical, err := value.NewLogical([]uint64{1, 3}, []bool{true, false, true})
	require.NoError(t, err)
	require.NoError(t, outer.SetField(0, 2, "Mask", logical))

	return outer
}

func TestDecode_ScalarDouble_ExactBytes(t *testing.T) {
	// [len=6]["double"][rank=2][dims=1,1][1F 85 EB 51 B8 1E 09 40]
	var data []byte
	data = engine.AppendUint64(data, 6)
	data = append(data, "double"...)
	data = engine.AppendUint64(data, 2)
	data = engine.AppendUint64(data, 1)
	data = engine.AppendUint64(data, 1)
	data = append(data, 0x1F, 0x85, 0xEB, 0x51, 0xB8, 0x1E, 0x09, 0x40)

	c := seekCursor(data)
	v, err := Decode(c)
	require.NoError(t, err)
	require.Equal(t, format.KindFloat64, v.Kind())
	require.Equal(t, []uint64{1, 1}, v.Dims())
	require.Equal(t, uint64(1), v.ElementCount())

	f, err := v.Float64At(0)
	require.NoError(t, err)
	require.Equal(t, 3.14, f)
	require.Equal(t, int64(len(data)), c.Offset(), "decode must consume the value exactly")

	// Skip over the same bytes must land on end of input.
	sc := seekCursor(data)
	require.NoError(t, Skip(sc))
	require.Equal(t, int64(len(data)), sc.Offset())
}

func TestSkipDecode_ByteLengthEquality(t *testing.T) {
	u16s, err := value.NewUint16([]uint64{3, 2}, []uint16{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	i8s, err := value.NewInt8([]uint64{1, 4}, []int8{-1, 0, 1, 2})
	require.NoError(t, err)
	emptyF64, err := value.NewFloat64([]uint64{0, 5}, nil)
	require.NoError(t, err)
	emptyCell, err := value.NewCell([]uint64{0, 0})
	require.NoError(t, err)

	values := map[string]*value.Value{
		"scalar double": value.Scalar(3.14),
		"uint16 matrix": u16s,
		"int8 row":      i8s,
		"char":          value.Chars("hello world"),
		"empty double":  emptyF64,
		"empty cell":    emptyCell,
		"flat struct":   testStruct(t),
		"nested":        deepValue(t),
	}

	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			data := encodeValue(t, v)

			dc := seekCursor(data)
			_, err := Decode(dc)
			require.NoError(t, err)

			sc := seekCursor(data)
			require.NoError(t, Skip(sc))
			require.Equal(t, dc.Offset(), sc.Offset(), "skip and decode must consume identical bytes")
			require.Equal(t, int64(len(data)), sc.Offset())

			// Same property on the discard-read cursor.
			rc := readerCursor(data)
			require.NoError(t, Skip(rc))
			require.Equal(t, dc.Offset(), rc.Offset())
		})
	}
}

func TestDecodeSelective_Subsetting(t *testing.T) {
	data := encodeValue(t, testStruct(t))

	full := seekCursor(data)
	_, err := Decode(full)
	require.NoError(t, err)

	sel := seekCursor(data)
	v, err := DecodeSelective(sel, NewFieldSet("A", "C"))
	require.NoError(t, err)
	require.Equal(t, full.Offset(), sel.Offset(), "selective decode must consume identical bytes")

	require.Equal(t, uint64(3), v.FieldWidth())

	slotA, err := v.FieldAt(0, 0)
	require.NoError(t, err)
	require.False(t, slotA.IsHole())
	require.Equal(t, "A", slotA.Name)
	require.Equal(t, 1.0, value.ScalarFloat(slotA.Value))

	slotB, err := v.FieldAt(0, 1)
	require.NoError(t, err)
	require.True(t, slotB.IsHole(), "unwanted field must be a hole")
	require.Empty(t, slotB.Name)

	slotC, err := v.FieldAt(0, 2)
	require.NoError(t, err)
	require.Equal(t, "C", slotC.Name)
	require.Equal(t, 3.0, value.ScalarFloat(slotC.Value))

	// Holes are invisible to name lookup.
	_, err = v.Field("B", 0)
	require.ErrorIs(t, err, errs.ErrFieldNotFound)
}

func TestDecodeSelective_NestedWantedFieldDecodesFully(t *testing.T) {
	data := encodeValue(t, deepValue(t))

	c := seekCursor(data)
	v, err := DecodeSelective(c, NewFieldSet("Data"))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), c.Offset())

	cell, err := v.Field("Data", 0)
	require.NoError(t, err)
	require.Equal(t, format.KindCell, cell.Kind())

	inner, err := cell.Cell(0)
	require.NoError(t, err)
	name, err := inner.Field("Name", 0)
	require.NoError(t, err)
	text, err := name.Text()
	require.NoError(t, err)
	require.Equal(t, "probe", text)

	// Unwanted siblings are holes.
	_, err = v.Field("Meta", 0)
	require.ErrorIs(t, err, errs.ErrFieldNotFound)
}

func TestDecodeSelective_NonStructDecodesFully(t *testing.T) {
	data := encodeValue(t, value.Chars("not a struct"))

	c := seekCursor(data)
	v, err := DecodeSelective(c, NewFieldSet("anything"))
	require.NoError(t, err)
	require.Equal(t, format.KindChar, v.Kind())

	text, err := v.Text()
	require.NoError(t, err)
	require.Equal(t, "not a struct", text)
}

func TestDecode_StructArray_SlotTableShape(t *testing.T) {
	s, err := value.NewStruct([]uint64{1, 3}, 2)
	require.NoError(t, err)
	for elem := uint64(0); elem < 3; elem++ {
		require.NoError(t, s.SetField(elem, 0, "X", value.Scalar(float64(elem))))
		require.NoError(t, s.SetField(elem, 1, "Y", value.Scalar(float64(elem)*10)))
	}

	data := encodeValue(t, s)
	v, err := Decode(seekCursor(data))
	require.NoError(t, err)
	require.Equal(t, uint64(3), v.ElementCount())
	require.Equal(t, uint64(2), v.FieldWidth())

	for elem := uint64(0); elem < 3; elem++ {
		y, err := v.Field("Y", elem)
		require.NoError(t, err)
		require.Equal(t, float64(elem)*10, value.ScalarFloat(y))
	}
}

func TestDecode_CellNamePreserved(t *testing.T) {
	cell, err := value.NewCell([]uint64{1, 1})
	require.NoError(t, err)
	require.NoError(t, cell.SetCell(0, "surprise", value.Scalar(1)))

	data := encodeValue(t, cell)
	v, err := Decode(seekCursor(data))
	require.NoError(t, err)

	// A nonempty cell-element name is carried verbatim, with no meaning
	// attached.
	name, err := v.CellName(0)
	require.NoError(t, err)
	require.Equal(t, "surprise", name)

	// Skip still walks past it correctly.
	sc := seekCursor(data)
	require.NoError(t, Skip(sc))
	require.Equal(t, int64(len(data)), sc.Offset())
}

func TestDecode_UnknownType(t *testing.T) {
	var data []byte
	data = engine.AppendUint64(data, 7)
	data = append(data, "complex"...)

	_, err := Decode(seekCursor(data))
	require.ErrorIs(t, err, errs.ErrUnknownType)
	require.True(t, errs.IsFormat(err))

	require.ErrorIs(t, Skip(seekCursor(data)), errs.ErrUnknownType)
}

func TestDecode_BoundsRejection(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
		want error
	}{
		{
			name: "type name too long",
			data: func() []byte {
				return engine.AppendUint64(nil, format.MaxTypeLength+1)
			},
			want: errs.ErrTypeNameTooLong,
		},
		{
			name: "rank too large",
			data: func() []byte {
				var b []byte
				b = engine.AppendUint64(b, 6)
				b = append(b, "double"...)
				b = engine.AppendUint64(b, format.MaxRank+1)

				return b
			},
			want: errs.ErrTooManyDimensions,
		},
		{
			name: "field name too long",
			data: func() []byte {
				var b []byte
				b = engine.AppendUint64(b, 6)
				b = append(b, "struct"...)
				b = engine.AppendUint64(b, 2)
				b = engine.AppendUint64(b, 1)
				b = engine.AppendUint64(b, 1)
				b = engine.AppendUint64(b, 1) // field_width
				b = engine.AppendUint64(b, format.MaxNameLength+1)

				return b
			},
			want: errs.ErrNameTooLong,
		},
		{
			name: "too many fields",
			data: func() []byte {
				var b []byte
				b = engine.AppendUint64(b, 6)
				b = append(b, "struct"...)
				b = engine.AppendUint64(b, 2)
				b = engine.AppendUint64(b, 1)
				b = engine.AppendUint64(b, 1)
				b = engine.AppendUint64(b, format.MaxFieldCount+1)

				return b
			},
			want: errs.ErrTooManyFields,
		},
		{
			name: "element count overflow",
			data: func() []byte {
				var b []byte
				b = engine.AppendUint64(b, 6)
				b = append(b, "double"...)
				b = engine.AppendUint64(b, 2)
				b = engine.AppendUint64(b, 1<<33)
				b = engine.AppendUint64(b, 1<<33)

				return b
			},
			want: errs.ErrCountOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data()

			_, err := Decode(seekCursor(data))
			require.ErrorIs(t, err, tt.want)
			require.True(t, errs.IsFormat(err))

			require.ErrorIs(t, Skip(seekCursor(data)), tt.want)

			_, err = DecodeSelective(seekCursor(data), NewFieldSet("A"))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_TruncationSafety(t *testing.T) {
	data := encodeValue(t, deepValue(t))

	// Every proper prefix must fail with an IO error, never a crash.
	for cut := 0; cut < len(data); cut++ {
		_, err := Decode(seekCursor(data[:cut]))
		require.Error(t, err, "truncated at %d of %d bytes", cut, len(data))
		require.True(t, errsIsUnexpectedEOF(err),
			"truncated at %d: want an IO error, got %v", cut, err)

		require.Error(t, Skip(seekCursor(data[:cut])), "skip truncated at %d", cut)
	}
}

func errsIsUnexpectedEOF(err error) bool {
	for e := err; e != nil; {
		if e == io.ErrUnexpectedEOF || e == io.EOF {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}

	return false
}

func TestEncoder_VariableRoundTrip(t *testing.T) {
	enc := NewEncoder()
	defer enc.Reset()

	require.NoError(t, enc.AppendVariable("X", value.Scalar(3.14)))
	require.NoError(t, enc.AppendVariable("Y", testStruct(t)))

	c := seekCursor(enc.Bytes())

	name, err := ReadName(c)
	require.NoError(t, err)
	require.Equal(t, "X", name)
	x, err := Decode(c)
	require.NoError(t, err)
	require.Equal(t, 3.14, value.ScalarFloat(x))

	name, err = ReadName(c)
	require.NoError(t, err)
	require.Equal(t, "Y", name)
	require.NoError(t, Skip(c))

	require.Equal(t, int64(enc.Len()), c.Offset())
}

func TestEncoder_RejectsHoles(t *testing.T) {
	data := encodeValue(t, testStruct(t))
	v, err := DecodeSelective(seekCursor(data), NewFieldSet("A"))
	require.NoError(t, err)

	enc := NewEncoder()
	defer enc.Reset()
	require.Error(t, enc.AppendValue(v), "a selectively decoded struct has holes and cannot be re-encoded")
}

func TestReaderCursor_Decode(t *testing.T) {
	data := encodeValue(t, deepValue(t))

	v, err := Decode(readerCursor(data))
	require.NoError(t, err)

	meta, err := v.Field("Meta", 0)
	require.NoError(t, err)
	require.Equal(t, 7.0, value.ScalarFloat(meta))
}

func TestFieldSet(t *testing.T) {
	s := NewFieldSet("TrialError", "Condition")
	require.True(t, s.Contains("TrialError"))
	require.True(t, s.containsBytes([]byte("Condition")))
	require.False(t, s.Contains("Block"))

	s.Add("Block")
	require.True(t, s.Contains("Block"))
}
