package frame

import "time"

// Temporal is the sealed set of time-like scalar values the codec encodes.
// A value reaching the encoder through this interface without matching one
// of the concrete variants (for example a type embedding one of them) is
// rejected rather than encoded with a guessed representation.
type Temporal interface {
	temporal()
}

// Timestamp is an absolute instant with an optional zone identifier and
// frequency. Value is epoch nanoseconds; the zone is a separately recorded
// opaque identifier, not baked into the value.
type Timestamp struct {
	Value int64
	TZ    string // empty means naive
	Freq  string
}

func (Timestamp) temporal() {}

// NaTType is the canonical missing-temporal sentinel. It carries no payload
// and is distinct from a zero-valued timestamp.
type NaTType struct{}

func (NaTType) temporal() {}

// NaT is the single missing-temporal value.
var NaT = NaTType{}

// Datetime64 is a naive instant in epoch nanoseconds.
type Datetime64 int64

func (Datetime64) temporal() {}

// Timedelta64 is a fixed-unit duration in nanoseconds.
type Timedelta64 int64

func (Timedelta64) temporal() {}

// Timedelta is a calendar-component duration.
type Timedelta struct {
	Days         int64
	Seconds      int64
	Microseconds int64
}

func (Timedelta) temporal() {}

// Date is a calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) temporal() {}

// DateOf returns the calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Period is an ordinal-counted span with a frequency, e.g. ordinal 600 at
// frequency "M" is the 601st month since the epoch.
type Period struct {
	Ordinal int64
	Freq    string
}
