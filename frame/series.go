package frame

// Series is a single labeled column: an axis index plus values. Values is
// either an *Array or a *Categorical.
type Series struct {
	Name   any
	Index  Index
	Values any
}

// Len returns the number of values.
func (s *Series) Len() int {
	switch v := s.Values.(type) {
	case *Array:
		return v.Len()
	case *Categorical:
		return v.Len()
	default:
		return 0
	}
}
