package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/frame"
)

func roundTrip(t *testing.T, v any, opts ...EncoderOption) any {
	t.Helper()

	enc := newTestEncoder(t, opts...)
	dec := newTestDecoder(t)

	rec, err := enc.Encode(v)
	require.NoError(t, err)
	out, err := dec.Decode(rec)
	require.NoError(t, err)

	return out
}

func TestRoundTripTemporalScalars(t *testing.T) {
	values := []any{
		frame.Timestamp{Value: 1_600_000_000_000_000_000, TZ: "US/Eastern", Freq: "D"},
		frame.NaT,
		frame.Datetime64(1_600_000_000_123_456_789),
		frame.Timedelta64(987_654_321),
		frame.Timedelta{Days: 3, Seconds: 71, Microseconds: 9},
		frame.Date{Year: 1999, Month: time.December, Day: 31},
		frame.Period{Ordinal: 480, Freq: "M"},
	}
	for _, v := range values {
		require.Equal(t, v, roundTrip(t, v), "%T", v)
	}
}

func TestRoundTripDatetime(t *testing.T) {
	src := time.Date(2020, time.March, 14, 15, 9, 26, 535_897_932, time.UTC)
	out := roundTrip(t, src)

	decoded, ok := out.(time.Time)
	require.True(t, ok)
	require.True(t, src.Equal(decoded))
}

func TestRoundTripComplexValues(t *testing.T) {
	out := roundTrip(t, complex(2.5, -0.5))
	require.Equal(t, complex(2.5, -0.5), out)

	s, err := frame.NewScalar(dtype.Complex64, complex128(complex(float32(1.25), float32(0.75))))
	require.NoError(t, err)
	require.Equal(t, s, roundTrip(t, s))
}

func TestRoundTripScalars(t *testing.T) {
	scalars := []struct {
		dt    dtype.DType
		value any
	}{
		{dtype.Int8, int64(-128)},
		{dtype.Int64, int64(1) << 62},
		{dtype.Uint64, uint64(1) << 63},
		{dtype.Float32, float64(0.5)},
		{dtype.Float64, 2.718281828459045},
	}
	for _, tt := range scalars {
		s, err := frame.NewScalar(tt.dt, tt.value)
		require.NoError(t, err)
		require.Equal(t, s, roundTrip(t, s), "dtype %s", tt.dt)
	}
}

func TestRoundTripIndexes(t *testing.T) {
	labels := mustVector(t, dtype.Object, []any{"a", "b", "c"})
	codes := mustVector(t, dtype.Int8, []int8{2, 0, -1, 1})
	cat, err := frame.NewCategorical(codes, &frame.PlainIndex{Values: labels}, false)
	require.NoError(t, err)

	indexes := []frame.Index{
		&frame.PlainIndex{Name: "plain", Values: mustVector(t, dtype.Int64, []int64{10, 20, 30})},
		&frame.RangeIndex{Name: "r", Start: 5, Stop: 50, Step: 5},
		&frame.PeriodIndex{Name: "p", Freq: "Q", Ordinals: []int64{200, 201, 202}},
		&frame.DatetimeIndex{Name: "dt", Freq: "H", TZ: "Asia/Tokyo", Values: []int64{1, 2, 3}},
		&frame.MultiIndex{Names: []any{"lvl0", "lvl1"}, Rows: [][]any{{"a", int64(1)}, {"b", int64(2)}}},
		&frame.CategoricalIndex{Name: "c", Values: cat},
	}
	for _, ix := range indexes {
		require.Equal(t, ix, roundTrip(t, ix), "%T", ix)
	}
}

func TestRoundTripSeries(t *testing.T) {
	series := &frame.Series{
		Name:   "temps",
		Index:  &frame.DatetimeIndex{Values: []int64{100, 200, 300}},
		Values: mustVector(t, dtype.Float64, []float64{21.5, 22.0, 19.75}),
	}
	require.Equal(t, series, roundTrip(t, series, WithCompression(compress.Blosc)))
}

func TestRoundTripCategoricalSeries(t *testing.T) {
	labels := mustVector(t, dtype.Object, []any{"low", "high"})
	codes := mustVector(t, dtype.Int8, []int8{0, 1, 1, -1})
	cat, err := frame.NewCategorical(codes, &frame.PlainIndex{Values: labels}, true)
	require.NoError(t, err)

	series := &frame.Series{
		Name:   "level",
		Index:  &frame.RangeIndex{Start: 0, Stop: 4, Step: 1},
		Values: cat,
	}

	out := roundTrip(t, series)
	decoded, ok := out.(*frame.Series)
	require.True(t, ok)

	decodedCat, ok := decoded.Values.(*frame.Categorical)
	require.True(t, ok)
	require.True(t, decodedCat.Ordered)
	require.Equal(t, cat.Codes, decodedCat.Codes)
	require.Equal(t, cat.Categories, decodedCat.Categories)
}

func TestRoundTripTable(t *testing.T) {
	ints, err := frame.NewArray(dtype.Int64, []int{3, 2}, []int64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	floats, err := frame.NewArray(dtype.Float64, []int{3, 1}, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	objects, err := frame.NewArray(dtype.Object, []int{3, 1}, []any{"x", nil, "z"})
	require.NoError(t, err)

	cols := mustVector(t, dtype.Object, []any{"a", "b", "c", "d"})
	table, err := frame.NewTable(
		[]frame.Index{&frame.PlainIndex{Values: cols}, &frame.RangeIndex{Start: 0, Stop: 3, Step: 1}},
		[]*frame.Block{
			{Placement: []int{0, 2}, Values: ints},
			{Placement: []int{1}, Values: floats},
			{Placement: []int{3}, Values: objects},
		},
	)
	require.NoError(t, err)

	for _, comp := range []compress.Type{compress.None, compress.Zlib, compress.Blosc} {
		out := roundTrip(t, table, WithCompression(comp))

		decoded, ok := out.(*frame.Table)
		require.True(t, ok, "%s", comp)
		require.NoError(t, decoded.Validate())
		require.Equal(t, table.NumCols(), decoded.NumCols())
		require.Equal(t, table.NumRows(), decoded.NumRows())
		require.Equal(t, table.Axes, decoded.Axes)
		require.Len(t, decoded.Blocks, 3)

		for _, src := range table.Blocks {
			match := findBlock(t, decoded, src.Placement[0])
			require.Equal(t, src.Placement, match.Placement, "%s", comp)
			require.Equal(t, src.Values, match.Values, "%s", comp)
		}
	}
}

func findBlock(t *testing.T, table *frame.Table, firstCol int) *frame.Block {
	t.Helper()

	for _, b := range table.Blocks {
		if len(b.Placement) > 0 && b.Placement[0] == firstCol {
			return b
		}
	}
	t.Fatalf("no block starting at column %d", firstCol)

	return nil
}

func TestRoundTripTableWithCategoricalBlock(t *testing.T) {
	labels := mustVector(t, dtype.Object, []any{"s", "m", "l"})
	codes := mustVector(t, dtype.Int8, []int8{0, 2, 1})
	cat, err := frame.NewCategorical(codes, &frame.PlainIndex{Values: labels}, false)
	require.NoError(t, err)

	nums, err := frame.NewArray(dtype.Int32, []int{3, 1}, []int32{7, 8, 9})
	require.NoError(t, err)

	cols := mustVector(t, dtype.Object, []any{"size", "count"})
	table, err := frame.NewTable(
		[]frame.Index{&frame.PlainIndex{Values: cols}, &frame.RangeIndex{Start: 0, Stop: 3, Step: 1}},
		[]*frame.Block{
			{Placement: []int{0}, Values: cat},
			{Placement: []int{1}, Values: nums},
		},
	)
	require.NoError(t, err)

	out := roundTrip(t, table)
	decoded, ok := out.(*frame.Table)
	require.True(t, ok)

	catBlock := findBlock(t, decoded, 0)
	decodedCat, ok := catBlock.Values.(*frame.Categorical)
	require.True(t, ok)
	require.Equal(t, cat.Codes, decodedCat.Codes)
}

func TestRoundTripNestedContainers(t *testing.T) {
	v := map[string]any{
		"stamp": frame.Timestamp{Value: 42},
		"list":  []any{frame.Period{Ordinal: 1, Freq: "D"}, "plain"},
	}
	out := roundTrip(t, v)
	require.Equal(t, map[string]any{
		"stamp": frame.Timestamp{Value: 42},
		"list":  []any{frame.Period{Ordinal: 1, Freq: "D"}, "plain"},
	}, out)
}
