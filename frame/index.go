package frame

// Index is the closed set of axis label sequences.
type Index interface {
	// Len returns the number of labels on the axis.
	Len() int

	index()
}

// PlainIndex is an axis backed by a materialized 1-dimensional array of
// labels.
type PlainIndex struct {
	Name   any
	Values *Array
}

func (ix *PlainIndex) Len() int { return ix.Values.Len() }

// Label returns the i-th label.
func (ix *PlainIndex) Label(i int) any { return ix.Values.Elements()[i] }

func (*PlainIndex) index() {}

// RangeIndex is an axis representable purely by start/stop/step. It never
// materializes its labels.
type RangeIndex struct {
	Name  any
	Start int64
	Stop  int64
	Step  int64
}

func (ix *RangeIndex) Len() int {
	if ix.Step == 0 {
		return 0
	}
	n := (ix.Stop - ix.Start + ix.Step - 1) / ix.Step
	if ix.Step < 0 {
		n = (ix.Stop - ix.Start + ix.Step + 1) / ix.Step
	}
	if n < 0 {
		return 0
	}

	return int(n)
}

// Label returns the i-th label.
func (ix *RangeIndex) Label(i int) any { return ix.Start + int64(i)*ix.Step }

func (*RangeIndex) index() {}

// MultiIndex is a hierarchical axis; each row is one tuple of per-level
// labels. Names holds the per-level names and may be nil.
type MultiIndex struct {
	Names []any
	Rows  [][]any
}

func (ix *MultiIndex) Len() int { return len(ix.Rows) }

func (*MultiIndex) index() {}

// PeriodIndex is an axis of ordinal-counted periods sharing one frequency.
type PeriodIndex struct {
	Name     any
	Freq     string
	Ordinals []int64
}

func (ix *PeriodIndex) Len() int { return len(ix.Ordinals) }

func (*PeriodIndex) index() {}

// DatetimeIndex is a time axis. Values are always epoch nanoseconds on a
// zone-free UTC baseline; TZ is the separately recorded display zone, so
// re-localization never rewrites the values.
type DatetimeIndex struct {
	Name   any
	Freq   string
	TZ     string // empty means naive
	Values []int64
}

func (ix *DatetimeIndex) Len() int { return len(ix.Values) }

func (*DatetimeIndex) index() {}

// Localize attaches a zone identifier to a naive index. The values are
// already on the zone-free baseline, so only the identifier changes.
func (ix *DatetimeIndex) Localize(tz string) *DatetimeIndex {
	out := *ix
	out.TZ = tz

	return &out
}

// ConvertZone changes the display zone of an aware index. Values stay on the
// UTC baseline.
func (ix *DatetimeIndex) ConvertZone(tz string) *DatetimeIndex {
	out := *ix
	out.TZ = tz

	return &out
}

// CategoricalIndex is an axis whose labels are categorical values.
type CategoricalIndex struct {
	Name   any
	Values *Categorical
}

func (ix *CategoricalIndex) Len() int { return ix.Values.Len() }

func (*CategoricalIndex) index() {}
