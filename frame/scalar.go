package frame

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Scalar is a single numeric value with an explicit dtype, preserving the
// exact element type across a round trip. Value holds int64 for signed
// integer dtypes, uint64 for unsigned, float64 for floats, and complex128
// for complex dtypes.
type Scalar struct {
	DType dtype.DType
	Value any
}

// NewScalar validates that the value's representation matches the dtype kind.
func NewScalar(dt dtype.DType, value any) (Scalar, error) {
	ok := false
	switch {
	case dt.IsInteger() && !dt.IsUnsigned():
		_, ok = value.(int64)
	case dt.IsUnsigned():
		_, ok = value.(uint64)
	case dt.IsFloat():
		_, ok = value.(float64)
	case dt.IsComplex():
		_, ok = value.(complex128)
	}
	if !ok {
		return Scalar{}, fmt.Errorf("%w: %s cannot hold %T", errs.ErrInvalidScalar, dt, value)
	}

	return Scalar{DType: dt, Value: value}, nil
}
