package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
)

func TestElementCount(t *testing.T) {
	tests := []struct {
		dims  []uint64
		count uint64
	}{
		{nil, 1},
		{[]uint64{1, 1}, 1},
		{[]uint64{3, 4}, 12},
		{[]uint64{2, 3, 4}, 24},
		{[]uint64{5, 0}, 0},
		{[]uint64{0}, 0},
	}

	for _, tt := range tests {
		count, err := ElementCount(tt.dims)
		require.NoError(t, err)
		require.Equal(t, tt.count, count, "dims %v", tt.dims)
	}
}

func TestElementCount_Overflow(t *testing.T) {
	_, err := ElementCount([]uint64{math.MaxUint64, 2})
	require.ErrorIs(t, err, errs.ErrCountOverflow)
}

func TestNewFloat64_Scalar(t *testing.T) {
	v, err := NewFloat64([]uint64{1, 1}, []float64{3.14})
	require.NoError(t, err)
	require.Equal(t, format.KindFloat64, v.Kind())
	require.Equal(t, []uint64{1, 1}, v.Dims())
	require.Equal(t, uint64(1), v.ElementCount())
	require.True(t, v.IsScalar())

	f, err := v.Float64At(0)
	require.NoError(t, err)
	require.Equal(t, 3.14, f)

	// 3.14 wire bytes, IEEE-754 little-endian.
	raw, err := v.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x1F, 0x85, 0xEB, 0x51, 0xB8, 0x1E, 0x09, 0x40}, raw)
}

func TestNumericWidening(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want []float64
	}{
		{"uint8", mustVal(NewUint8([]uint64{1, 3}, []uint8{0, 7, 255})), []float64{0, 7, 255}},
		{"uint16", mustVal(NewUint16([]uint64{1, 2}, []uint16{1, 65535})), []float64{1, 65535}},
		{"uint32", mustVal(NewUint32([]uint64{1, 2}, []uint32{2, 4000000000})), []float64{2, 4000000000}},
		{"uint64", mustVal(NewUint64([]uint64{1, 1}, []uint64{42})), []float64{42}},
		{"int8", mustVal(NewInt8([]uint64{1, 2}, []int8{-128, 127})), []float64{-128, 127}},
		{"int16", mustVal(NewInt16([]uint64{1, 2}, []int16{-300, 300})), []float64{-300, 300}},
		{"int32", mustVal(NewInt32([]uint64{1, 2}, []int32{-70000, 70000})), []float64{-70000, 70000}},
		{"int64", mustVal(NewInt64([]uint64{1, 1}, []int64{-1})), []float64{-1}},
		{"single", mustVal(NewFloat32([]uint64{1, 2}, []float32{1.5, -2.25})), []float64{1.5, -2.25}},
		{"logical", mustVal(NewLogical([]uint64{1, 3}, []bool{true, false, true})), []float64{1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Float64s()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			for i, want := range tt.want {
				f, err := tt.v.Float64At(uint64(i))
				require.NoError(t, err)
				require.Equal(t, want, f)
			}
		})
	}
}

func mustVal(v *Value, err error) *Value {
	if err != nil {
		panic(err)
	}
	return v
}

func TestFloat64At_Errors(t *testing.T) {
	v := Chars("abc")
	_, err := v.Float64At(0)
	require.ErrorIs(t, err, errs.ErrKindMismatch)

	n := Scalar(1)
	_, err = n.Float64At(1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestChar(t *testing.T) {
	v := Chars("hello")
	require.Equal(t, format.KindChar, v.Kind())
	require.Equal(t, uint64(5), v.ElementCount())

	text, err := v.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	_, err = Scalar(1).Text()
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}

func TestNewChar_LengthMismatch(t *testing.T) {
	_, err := NewChar([]uint64{1, 3}, "toolong")
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}

func TestStructFields(t *testing.T) {
	s, err := NewStruct([]uint64{1, 2}, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), s.FieldWidth())

	require.NoError(t, s.SetField(0, 0, "A", Scalar(1)))
	require.NoError(t, s.SetField(0, 2, "C", Scalar(3)))
	require.NoError(t, s.SetField(1, 0, "A", Scalar(10)))

	// Present field.
	a, err := s.Field("A", 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, ScalarFloat(a))

	a1, err := s.Field("A", 1)
	require.NoError(t, err)
	require.Equal(t, 10.0, ScalarFloat(a1))

	// Slot 1 of element 0 was never filled: it is a hole.
	slot, err := s.FieldAt(0, 1)
	require.NoError(t, err)
	require.True(t, slot.IsHole())
	require.Empty(t, slot.Name)

	// A hole never matches by name.
	_, err = s.Field("B", 0)
	require.ErrorIs(t, err, errs.ErrFieldNotFound)

	names, err := s.FieldNames(0)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, names)

	// Bounds.
	_, err = s.Field("A", 2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	require.Error(t, s.SetField(0, 3, "D", Scalar(4)))
}

func TestCells(t *testing.T) {
	c, err := NewCell([]uint64{1, 2})
	require.NoError(t, err)

	require.NoError(t, c.SetCell(0, "", Chars("x")))
	require.NoError(t, c.SetCell(1, "oddname", Scalar(9)))

	first, err := c.Cell(0)
	require.NoError(t, err)
	text, err := first.Text()
	require.NoError(t, err)
	require.Equal(t, "x", text)

	// A nonempty cell-element name is carried verbatim.
	name, err := c.CellName(1)
	require.NoError(t, err)
	require.Equal(t, "oddname", name)

	_, err = c.Cell(2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = Scalar(1).Cell(0)
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}

func TestScalarFloat(t *testing.T) {
	require.Equal(t, 2.5, ScalarFloat(Scalar(2.5)))
	require.True(t, math.IsNaN(ScalarFloat(nil)))
	require.True(t, math.IsNaN(ScalarFloat(Chars("no"))))

	empty, err := NewFloat64([]uint64{0}, nil)
	require.NoError(t, err)
	require.True(t, math.IsNaN(ScalarFloat(empty)))
}

func TestString(t *testing.T) {
	require.Equal(t, "1x1 double", Scalar(1).String())
	require.Equal(t, "1x3 char", Chars("abc").String())

	s, err := NewStruct([]uint64{1, 180}, 24)
	require.NoError(t, err)
	require.Equal(t, "1x180 struct (24 fields)", s.String())

	v3, err := NewFloat64([]uint64{2, 3, 4}, make([]float64, 24))
	require.NoError(t, err)
	require.Equal(t, "2x3x4 double", v3.String())
}
