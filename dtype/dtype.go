// Package dtype defines the closed set of element types the codec
// understands, their wire names, and their fixed-width byte sizes.
package dtype

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// DType identifies an element type.
type DType uint8

const (
	Invalid DType = iota

	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128

	// Datetime64 and Timedelta64 are nanosecond-resolution and carry their
	// values as 8-byte integers on the wire.
	Datetime64
	Timedelta64

	// Object arrays hold heterogeneous elements and are always carried as an
	// explicit element sequence, never as a binary payload.
	Object

	// Category marks categorical values; their storage is delegated to the
	// dispatcher (codes + categories), not flattened.
	Category
)

var names = map[DType]string{
	Bool:        "bool",
	Int8:        "int8",
	Int16:       "int16",
	Int32:       "int32",
	Int64:       "int64",
	Uint8:       "uint8",
	Uint16:      "uint16",
	Uint32:      "uint32",
	Uint64:      "uint64",
	Float32:     "float32",
	Float64:     "float64",
	Complex64:   "complex64",
	Complex128:  "complex128",
	Datetime64:  "datetime64[ns]",
	Timedelta64: "timedelta64[ns]",
	Object:      "object",
	Category:    "category",
}

var byName = func() map[string]DType {
	m := make(map[string]DType, len(names))
	for dt, name := range names {
		m[name] = dt
	}

	return m
}()

// String returns the wire name of the dtype, e.g. "int64" or "datetime64[ns]".
func (d DType) String() string {
	if name, ok := names[d]; ok {
		return name
	}

	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// Parse maps a wire name back to its dtype.
func Parse(name string) (DType, error) {
	if dt, ok := byName[name]; ok {
		return dt, nil
	}

	return Invalid, fmt.Errorf("%w: %q", errs.ErrUnknownDType, name)
}

// ItemSize returns the number of bytes one element occupies in a flattened
// payload. Object and categorical dtypes have no fixed width and return 0.
func (d DType) ItemSize() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64, Datetime64, Timedelta64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// IsInteger reports whether the dtype is a signed or unsigned integer.
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether the dtype is an unsigned integer.
func (d DType) IsUnsigned() bool {
	switch d {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the dtype is a floating point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsComplex reports whether the dtype is a complex type.
func (d DType) IsComplex() bool {
	return d == Complex64 || d == Complex128
}

// NeedsInt64View reports whether values of this dtype are reinterpreted as
// 8-byte integers before flattening.
func (d DType) NeedsInt64View() bool {
	return d == Datetime64 || d == Timedelta64
}

// Bits returns the mantissa/width hint used when formatting and parsing the
// textual representation of typed scalars.
func (d DType) Bits() int {
	switch d {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32, Complex64:
		return 32
	default:
		return 64
	}
}
