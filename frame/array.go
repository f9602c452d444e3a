package frame

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Array is an n-dimensional homogeneous array. Data is the flat backing
// storage; Shape describes the logical dimensions and must multiply out to
// the storage length.
//
// The storage type is fixed per dtype:
//
//	bool                       []bool
//	int8/16/32/64              []int8, []int16, []int32, []int64
//	uint8/16/32/64             []uint8, []uint16, []uint32, []uint64
//	float32/64                 []float32, []float64
//	complex64/128              []complex64, []complex128
//	datetime64[ns]             []int64 (epoch nanoseconds)
//	timedelta64[ns]            []int64 (nanoseconds)
//	object                     []any
//
// Categorical values are not arrays; see Categorical.
type Array struct {
	DType dtype.DType
	Shape []int
	Data  any
}

// NewArray builds an array after validating that the storage type matches the
// dtype and that the shape multiplies out to the storage length.
func NewArray(dt dtype.DType, shape []int, data any) (*Array, error) {
	n, err := storageLen(dt, data)
	if err != nil {
		return nil, err
	}
	if size := Size(shape); size != n {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, storage has %d", errs.ErrShapeMismatch, shape, size, n)
	}

	return &Array{DType: dt, Shape: shape, Data: data}, nil
}

// Vector builds a 1-dimensional array; the shape is derived from the storage
// length.
func Vector(dt dtype.DType, data any) (*Array, error) {
	n, err := storageLen(dt, data)
	if err != nil {
		return nil, err
	}

	return &Array{DType: dt, Shape: []int{n}, Data: data}, nil
}

// Len returns the number of elements in the flat storage.
func (a *Array) Len() int {
	n, _ := storageLen(a.DType, a.Data)
	return n
}

// NDim returns the number of logical dimensions.
func (a *Array) NDim() int {
	return len(a.Shape)
}

// Size multiplies out a shape. An empty shape denotes a scalar-shaped array
// of one element.
func Size(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}

	return size
}

// Elements returns the flat storage as a generic element slice.
func (a *Array) Elements() []any {
	if elems, ok := a.Data.([]any); ok {
		return elems
	}

	out := make([]any, 0, a.Len())
	switch data := a.Data.(type) {
	case []bool:
		for _, v := range data {
			out = append(out, v)
		}
	case []int8:
		for _, v := range data {
			out = append(out, v)
		}
	case []int16:
		for _, v := range data {
			out = append(out, v)
		}
	case []int32:
		for _, v := range data {
			out = append(out, v)
		}
	case []int64:
		for _, v := range data {
			out = append(out, v)
		}
	case []uint8:
		for _, v := range data {
			out = append(out, v)
		}
	case []uint16:
		for _, v := range data {
			out = append(out, v)
		}
	case []uint32:
		for _, v := range data {
			out = append(out, v)
		}
	case []uint64:
		for _, v := range data {
			out = append(out, v)
		}
	case []float32:
		for _, v := range data {
			out = append(out, v)
		}
	case []float64:
		for _, v := range data {
			out = append(out, v)
		}
	case []complex64:
		for _, v := range data {
			out = append(out, v)
		}
	case []complex128:
		for _, v := range data {
			out = append(out, v)
		}
	}

	return out
}

// Int64s returns the storage as []int64 for dtypes backed by 8-byte integers.
func (a *Array) Int64s() ([]int64, bool) {
	data, ok := a.Data.([]int64)
	return data, ok
}

func storageLen(dt dtype.DType, data any) (int, error) {
	bad := func() (int, error) {
		return 0, fmt.Errorf("%w: dtype %s cannot be stored as %T", errs.ErrShapeMismatch, dt, data)
	}

	switch dt {
	case dtype.Bool:
		v, ok := data.([]bool)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Int8:
		v, ok := data.([]int8)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Int16:
		v, ok := data.([]int16)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Int32:
		v, ok := data.([]int32)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Int64, dtype.Datetime64, dtype.Timedelta64:
		v, ok := data.([]int64)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Uint8:
		v, ok := data.([]uint8)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Uint16:
		v, ok := data.([]uint16)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Uint32:
		v, ok := data.([]uint32)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Uint64:
		v, ok := data.([]uint64)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Float32:
		v, ok := data.([]float32)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Float64:
		v, ok := data.([]float64)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Complex64:
		v, ok := data.([]complex64)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Complex128:
		v, ok := data.([]complex128)
		if !ok {
			return bad()
		}
		return len(v), nil
	case dtype.Object:
		v, ok := data.([]any)
		if !ok {
			return bad()
		}
		return len(v), nil
	default:
		return 0, fmt.Errorf("%w: %s has no array storage", errs.ErrUnknownDType, dt)
	}
}

// appendStorage concatenates two flat storages of the same dtype.
func appendStorage(dt dtype.DType, dst, src any) (any, error) {
	switch dt {
	case dtype.Bool:
		return append(dst.([]bool), src.([]bool)...), nil
	case dtype.Int8:
		return append(dst.([]int8), src.([]int8)...), nil
	case dtype.Int16:
		return append(dst.([]int16), src.([]int16)...), nil
	case dtype.Int32:
		return append(dst.([]int32), src.([]int32)...), nil
	case dtype.Int64, dtype.Datetime64, dtype.Timedelta64:
		return append(dst.([]int64), src.([]int64)...), nil
	case dtype.Uint8:
		return append(dst.([]uint8), src.([]uint8)...), nil
	case dtype.Uint16:
		return append(dst.([]uint16), src.([]uint16)...), nil
	case dtype.Uint32:
		return append(dst.([]uint32), src.([]uint32)...), nil
	case dtype.Uint64:
		return append(dst.([]uint64), src.([]uint64)...), nil
	case dtype.Float32:
		return append(dst.([]float32), src.([]float32)...), nil
	case dtype.Float64:
		return append(dst.([]float64), src.([]float64)...), nil
	case dtype.Complex64:
		return append(dst.([]complex64), src.([]complex64)...), nil
	case dtype.Complex128:
		return append(dst.([]complex128), src.([]complex128)...), nil
	case dtype.Object:
		return append(dst.([]any), src.([]any)...), nil
	default:
		return nil, fmt.Errorf("%w: %s has no array storage", errs.ErrUnknownDType, dt)
	}
}
