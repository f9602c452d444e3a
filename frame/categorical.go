package frame

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Categorical is a finite-vocabulary encoded column: an integer code array
// indexing into a category label sequence. Code -1 is the "no category"
// sentinel.
type Categorical struct {
	Name       any
	Codes      *Array
	Categories Index
	Ordered    bool
}

// NewCategorical validates that the code array has an integer dtype and that
// every code falls in [-1, len(categories)). Out-of-range codes are invalid
// and rejected, never repaired.
func NewCategorical(codes *Array, categories Index, ordered bool) (*Categorical, error) {
	if !codes.DType.IsInteger() || codes.DType.IsUnsigned() {
		return nil, fmt.Errorf("%w: codes must have a signed integer dtype, got %s", errs.ErrInvalidCodes, codes.DType)
	}

	n := int64(categories.Len())
	for i, code := range categoricalCodes(codes) {
		if code < -1 || code >= n {
			return nil, fmt.Errorf("%w: code %d at position %d, %d categories", errs.ErrInvalidCodes, code, i, n)
		}
	}

	return &Categorical{Codes: codes, Categories: categories, Ordered: ordered}, nil
}

// Len returns the number of encoded values.
func (c *Categorical) Len() int { return c.Codes.Len() }

func categoricalCodes(codes *Array) []int64 {
	switch data := codes.Data.(type) {
	case []int8:
		out := make([]int64, len(data))
		for i, v := range data {
			out[i] = int64(v)
		}
		return out
	case []int16:
		out := make([]int64, len(data))
		for i, v := range data {
			out[i] = int64(v)
		}
		return out
	case []int32:
		out := make([]int64, len(data))
		for i, v := range data {
			out[i] = int64(v)
		}
		return out
	case []int64:
		return data
	default:
		return nil
	}
}
