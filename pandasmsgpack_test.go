package pandasmsgpack_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pandasmsgpack "github.com/clxdsjyx/pandas-msgpack"
	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/frame"
)

func sampleSeries(t *testing.T) *frame.Series {
	t.Helper()

	values, err := frame.Vector(dtype.Float64, []float64{1.5, 2.5, 3.5})
	require.NoError(t, err)

	return &frame.Series{
		Name:   "readings",
		Index:  &frame.RangeIndex{Start: 0, Stop: 3, Step: 1},
		Values: values,
	}
}

func sampleTable(t *testing.T) *frame.Table {
	t.Helper()

	ints, err := frame.NewArray(dtype.Int64, []int{2, 2}, []int64{1, 2, 3, 4})
	require.NoError(t, err)
	cols, err := frame.Vector(dtype.Object, []any{"a", "b"})
	require.NoError(t, err)

	table, err := frame.NewTable(
		[]frame.Index{&frame.PlainIndex{Values: cols}, &frame.RangeIndex{Start: 0, Stop: 2, Step: 1}},
		[]*frame.Block{{Placement: []int{0, 1}, Values: ints}},
	)
	require.NoError(t, err)

	return table
}

func TestMarshalUnmarshalSingle(t *testing.T) {
	series := sampleSeries(t)

	data, err := pandasmsgpack.Marshal(series)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	out, err := pandasmsgpack.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, series, out)
}

func TestMarshalUnmarshalWithCompression(t *testing.T) {
	table := sampleTable(t)

	for _, comp := range []compress.Type{compress.Zlib, compress.Blosc} {
		data, err := pandasmsgpack.Marshal(table, pandasmsgpack.WithCompression(comp))
		require.NoError(t, err)

		out, err := pandasmsgpack.Unmarshal(data)
		require.NoError(t, err)

		decoded, ok := out.(*frame.Table)
		require.True(t, ok, "%s", comp)
		require.Equal(t, table.Axes, decoded.Axes)
		require.Equal(t, table.Blocks[0].Values, decoded.Blocks[0].Values)
	}
}

func TestMarshalMultiYieldsSlice(t *testing.T) {
	series := sampleSeries(t)
	stamp := frame.Timestamp{Value: 1_600_000_000_000_000_000, TZ: "UTC"}

	data, err := pandasmsgpack.MarshalMulti([]any{series, stamp, "trailer"})
	require.NoError(t, err)

	out, err := pandasmsgpack.Unmarshal(data)
	require.NoError(t, err)

	objs, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, objs, 3)
	require.Equal(t, series, objs[0])
	require.Equal(t, stamp, objs[1])
	require.Equal(t, "trailer", objs[2])
}

func TestMarshalUnmarshalIntegerWidths(t *testing.T) {
	arr, err := frame.Vector(dtype.Object, []any{"a", int64(1), int64(-5), int64(1_600_000_000)})
	require.NoError(t, err)

	data, err := pandasmsgpack.Marshal(arr)
	require.NoError(t, err)
	out, err := pandasmsgpack.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, arr, out)

	ix := &frame.MultiIndex{
		Names: []any{"label", "count"},
		Rows:  [][]any{{"a", int64(1)}, {"b", int64(1) << 40}},
	}
	data, err = pandasmsgpack.Marshal(ix)
	require.NoError(t, err)
	out, err = pandasmsgpack.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, ix, out)
}

func TestUnmarshalEmptyInput(t *testing.T) {
	_, err := pandasmsgpack.Unmarshal(nil)
	require.ErrorIs(t, err, errs.ErrEmptyInput)

	_, err = pandasmsgpack.Unmarshal([]byte{})
	require.ErrorIs(t, err, errs.ErrEmptyInput)
}

func TestMarshalUnknownCompression(t *testing.T) {
	_, err := pandasmsgpack.Marshal(sampleSeries(t), pandasmsgpack.WithCompression(compress.Type(77)))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.msg")
	series := sampleSeries(t)

	require.NoError(t, pandasmsgpack.WriteFile(path, []any{series}))

	out, err := pandasmsgpack.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, series, out)
}

func TestWriteFileReplacesByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.msg")

	require.NoError(t, pandasmsgpack.WriteFile(path, []any{frame.Period{Ordinal: 1, Freq: "D"}}))
	require.NoError(t, pandasmsgpack.WriteFile(path, []any{frame.Period{Ordinal: 2, Freq: "D"}}))

	out, err := pandasmsgpack.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, frame.Period{Ordinal: 2, Freq: "D"}, out)
}

func TestWriteFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.msg")

	require.NoError(t, pandasmsgpack.WriteFile(path, []any{frame.Period{Ordinal: 1, Freq: "D"}}))
	require.NoError(t, pandasmsgpack.WriteFile(path,
		[]any{frame.Period{Ordinal: 2, Freq: "D"}},
		pandasmsgpack.WithAppend(true),
	))

	out, err := pandasmsgpack.ReadFile(path)
	require.NoError(t, err)

	objs, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, objs, 2)
	require.Equal(t, frame.Period{Ordinal: 1, Freq: "D"}, objs[0])
	require.Equal(t, frame.Period{Ordinal: 2, Freq: "D"}, objs[1])
}

func TestIterateFileStreamsMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.msg")
	objs := []any{
		frame.Timestamp{Value: 1},
		frame.Timestamp{Value: 2},
		frame.Timestamp{Value: 3},
	}
	require.NoError(t, pandasmsgpack.WriteFile(path, objs))

	var got []any
	for obj, err := range pandasmsgpack.IterateFile(path) {
		require.NoError(t, err)
		got = append(got, obj)
	}
	require.Equal(t, objs, got)
}

func TestIterateFileEarlyBreakAndRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.msg")
	require.NoError(t, pandasmsgpack.WriteFile(path, []any{
		frame.Timestamp{Value: 1},
		frame.Timestamp{Value: 2},
	}))

	seq := pandasmsgpack.IterateFile(path)

	var first any
	for obj, err := range seq {
		require.NoError(t, err)
		first = obj
		break
	}
	require.Equal(t, frame.Timestamp{Value: 1}, first)

	// each range starts over from the beginning of the file
	var count int
	for _, err := range seq {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 2, count)
}

func TestIterateFileMissing(t *testing.T) {
	var got []error
	for _, err := range pandasmsgpack.IterateFile(filepath.Join(t.TempDir(), "absent.msg")) {
		got = append(got, err)
	}
	require.Len(t, got, 1)
	require.Error(t, got[0])
}

func TestIterateTruncatedStream(t *testing.T) {
	data, err := pandasmsgpack.Marshal(sampleTable(t), pandasmsgpack.WithCompression(compress.Zlib))
	require.NoError(t, err)

	_, err = pandasmsgpack.Unmarshal(data[:len(data)/2])
	require.Error(t, err)
}
