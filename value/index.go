package value

import (
	"fmt"

	"github.com/prestolab/bhv2/errs"
)

// Sub2Ind converts 1-based column-major subscripts to a 0-based linear
// index. The first dimension varies fastest, matching the source
// ecosystem's native array layout.
//
// The number of subscripts must equal the rank, and every subscript must be
// within [1, dim].
func Sub2Ind(dims []uint64, subs []uint64) (uint64, error) {
	if len(subs) != len(dims) {
		return 0, fmt.Errorf("%w: %d subscripts for rank %d", errs.ErrIndexOutOfRange, len(subs), len(dims))
	}

	index := uint64(0)
	stride := uint64(1)
	for i, sub := range subs {
		if sub < 1 || sub > dims[i] {
			return 0, fmt.Errorf("%w: subscript %d is %d, dimension size %d", errs.ErrIndexOutOfRange, i+1, sub, dims[i])
		}
		index += (sub - 1) * stride
		stride *= dims[i]
	}

	return index, nil
}

// Ind2Sub converts a 0-based linear index to 1-based column-major
// subscripts, one per dimension.
func Ind2Sub(dims []uint64, index uint64) ([]uint64, error) {
	count, err := ElementCount(dims)
	if err != nil {
		return nil, err
	}
	if index >= count {
		return nil, fmt.Errorf("%w: linear index %d, element count %d", errs.ErrIndexOutOfRange, index, count)
	}

	subs := make([]uint64, len(dims))
	for i, d := range dims {
		subs[i] = index%d + 1
		index /= d
	}

	return subs, nil
}

// Sub2Ind converts 1-based subscripts to a 0-based linear index for this
// value's shape.
func (v *Value) Sub2Ind(subs []uint64) (uint64, error) {
	return Sub2Ind(v.dims, subs)
}

// Ind2Sub converts a 0-based linear index to 1-based subscripts for this
// value's shape.
func (v *Value) Ind2Sub(index uint64) ([]uint64, error) {
	return Ind2Sub(v.dims, index)
}
