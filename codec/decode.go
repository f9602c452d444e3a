package codec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/endian"
	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/frame"
	"github.com/clxdsjyx/pandas-msgpack/internal/options"
)

// WarningHandler receives recoverable decode conditions. The default handler
// collects them on the decoder; fatal conditions are returned as errors and
// never routed here.
type WarningHandler func(error)

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*Decoder]

// WithWarningHandler replaces the default warning collector.
func WithWarningHandler(fn WarningHandler) DecoderOption {
	return options.NoError(func(d *Decoder) { d.warnFn = fn })
}

// Decoder reconstructs in-memory values from tagged record trees.
type Decoder struct {
	engine   endian.EndianEngine
	warnFn   WarningHandler
	warnings []error

	// codecFor resolves a compression backend per payload; swapped in tests
	// to exercise the buffer-copy path.
	codecFor func(compress.Type) (compress.Codec, error)
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{
		engine:   endian.GetLittleEndianEngine(),
		codecFor: compress.ForType,
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Warnings returns the conditions collected by the default warning handler,
// in occurrence order.
func (d *Decoder) Warnings() []error { return d.warnings }

func (d *Decoder) warn(err error) {
	if d.warnFn != nil {
		d.warnFn(err)
		return
	}
	d.warnings = append(d.warnings, err)
}

// Decode walks v bottom-up: children are reconstructed first, then any map
// carrying a "typ" tag is turned into its in-memory entity. Untagged maps,
// sequences, and primitives pass through with only their children decoded.
func (d *Decoder) Decode(v any) (any, error) {
	switch obj := v.(type) {
	case map[string]any:
		rec := make(map[string]any, len(obj))
		for k, child := range obj {
			dec, err := d.Decode(child)
			if err != nil {
				return nil, err
			}
			rec[k] = dec
		}
		if _, ok := rec["typ"].(string); !ok {
			return rec, nil
		}
		return d.decodeRecord(rec)

	case map[any]any:
		// non-string keys keep the map out of record dispatch
		out := make(map[any]any, len(obj))
		for k, child := range obj {
			dec, err := d.Decode(child)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil

	case []any:
		out := make([]any, len(obj))
		for i, child := range obj {
			dec, err := d.Decode(child)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil

	default:
		return normalizeInteger(v), nil
	}
}

// normalizeInteger folds the framing library's width-preserving integer
// decoding (fixints come back as int8, compact positives as uint32/uint64)
// onto the storage widths the data model uses: signed values become int64,
// unsigned values int64 when they fit. Without this, integer elements would
// not round-trip identically through a real byte stream.
func normalizeInteger(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		if uint64(n) > math.MaxInt64 {
			return uint64(n)
		}
		return int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return n
		}
		return int64(n)
	default:
		return v
	}
}

func (d *Decoder) decodeRecord(rec map[string]any) (any, error) {
	typ := rec["typ"].(string)

	switch typ {
	case "timestamp":
		value, err := reqInt(rec, "value")
		if err != nil {
			return nil, err
		}
		freq := optString(rec, "freq")
		if _, present := rec["freq"]; !present {
			// older writers recorded the frequency under "offset"
			freq = optString(rec, "offset")
		}

		return frame.Timestamp{Value: value, TZ: optString(rec, "tz"), Freq: freq}, nil

	case "nat":
		return frame.NaT, nil

	case "period":
		ordinal, err := reqInt(rec, "ordinal")
		if err != nil {
			return nil, err
		}

		return frame.Period{Ordinal: ordinal, Freq: optString(rec, "freq")}, nil

	case "index":
		return d.decodeIndex(rec)

	case "range_index":
		start, err := reqInt(rec, "start")
		if err != nil {
			return nil, err
		}
		stop, err := reqInt(rec, "stop")
		if err != nil {
			return nil, err
		}
		step, err := reqInt(rec, "step")
		if err != nil {
			return nil, err
		}

		return &frame.RangeIndex{Name: rec["name"], Start: start, Stop: stop, Step: step}, nil

	case "multi_index":
		data, ok := rec["data"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: multi_index data is %T, want sequence", errs.ErrMalformedRecord, rec["data"])
		}
		rows := make([][]any, len(data))
		for i, row := range data {
			tuple, ok := row.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: multi_index row %d is %T, want tuple", errs.ErrMalformedRecord, i, row)
			}
			rows[i] = tuple
		}
		names, _ := rec["names"].([]any)

		return &frame.MultiIndex{Names: names, Rows: rows}, nil

	case "period_index":
		freq := optString(rec, "freq")
		if freq == "" {
			return nil, errs.ErrMissingFreq
		}
		ordinals, err := d.unconvertInt64(rec, "data")
		if err != nil {
			return nil, err
		}

		return &frame.PeriodIndex{Name: rec["name"], Freq: freq, Ordinals: ordinals}, nil

	case "datetime_index":
		values, err := d.unconvertInt64(rec, "data")
		if err != nil {
			return nil, err
		}
		idx := &frame.DatetimeIndex{Name: rec["name"], Freq: optString(rec, "freq"), Values: values}
		if tz := optString(rec, "tz"); tz != "" {
			idx = idx.Localize("UTC").ConvertZone(tz)
		}

		return idx, nil

	case "category":
		codes, ok := rec["codes"].(*frame.Array)
		if !ok {
			return nil, fmt.Errorf("%w: category codes are %T, want array", errs.ErrMalformedRecord, rec["codes"])
		}
		categories, ok := rec["categories"].(frame.Index)
		if !ok {
			return nil, fmt.Errorf("%w: category labels are %T, want index", errs.ErrMalformedRecord, rec["categories"])
		}
		ordered, _ := rec["ordered"].(bool)

		cat, err := frame.NewCategorical(codes, categories, ordered)
		if err != nil {
			return nil, err
		}
		cat.Name = rec["name"]

		return cat, nil

	case "series":
		return d.decodeSeries(rec)

	case "block_manager":
		return d.decodeTable(rec)

	case "datetime":
		text, err := reqString(rec, "data")
		if err != nil {
			return nil, err
		}

		return parseDatetimeText(text)

	case "datetime64":
		text, err := reqString(rec, "data")
		if err != nil {
			return nil, err
		}
		t, err := parseDatetimeText(text)
		if err != nil {
			return nil, err
		}

		return frame.Datetime64(t.UnixNano()), nil

	case "date":
		text, err := reqString(rec, "data")
		if err != nil {
			return nil, err
		}

		return parseDate(text)

	case "timedelta":
		parts, ok := rec["data"].([]any)
		if !ok || len(parts) != 3 {
			return nil, fmt.Errorf("%w: timedelta data is %T, want 3 components", errs.ErrMalformedRecord, rec["data"])
		}
		days, err := toInt64(parts[0])
		if err != nil {
			return nil, err
		}
		seconds, err := toInt64(parts[1])
		if err != nil {
			return nil, err
		}
		micros, err := toInt64(parts[2])
		if err != nil {
			return nil, err
		}

		return frame.Timedelta{Days: days, Seconds: seconds, Microseconds: micros}, nil

	case "timedelta64":
		ns, err := reqInt(rec, "data")
		if err != nil {
			return nil, err
		}

		return frame.Timedelta64(ns), nil

	case "ndarray":
		return d.decodeArray(rec)

	case "np_scalar":
		return d.decodeScalar(rec)

	case "np_complex":
		re, err := reqFloat(rec, "real")
		if err != nil {
			return nil, err
		}
		im, err := reqFloat(rec, "imag")
		if err != nil {
			return nil, err
		}

		return complex(re, im), nil

	default:
		// unknown tags are foreign data, not corruption
		return rec, nil
	}
}

func (d *Decoder) decodeIndex(rec map[string]any) (any, error) {
	dt, comp, err := recMeta(rec)
	if err != nil {
		return nil, err
	}

	if dt == dtype.Category {
		cat, ok := rec["data"].(*frame.Categorical)
		if !ok {
			return nil, fmt.Errorf("%w: categorical index data is %T", errs.ErrMalformedRecord, rec["data"])
		}

		return &frame.CategoricalIndex{Name: rec["name"], Values: cat}, nil
	}

	storage, err := d.unconvert(rec["data"], dt, comp)
	if err != nil {
		return nil, err
	}
	values, err := frame.Vector(dt, storage)
	if err != nil {
		return nil, err
	}

	return &frame.PlainIndex{Name: rec["name"], Values: values}, nil
}

func (d *Decoder) decodeSeries(rec map[string]any) (any, error) {
	index, ok := rec["index"].(frame.Index)
	if !ok {
		return nil, fmt.Errorf("%w: series index is %T", errs.ErrMalformedRecord, rec["index"])
	}
	dt, comp, err := recMeta(rec)
	if err != nil {
		return nil, err
	}

	var values any
	if dt == dtype.Category {
		cat, ok := rec["data"].(*frame.Categorical)
		if !ok {
			return nil, fmt.Errorf("%w: categorical series data is %T", errs.ErrMalformedRecord, rec["data"])
		}
		values = cat
	} else {
		storage, err := d.unconvert(rec["data"], dt, comp)
		if err != nil {
			return nil, err
		}
		arr, err := frame.Vector(dt, storage)
		if err != nil {
			return nil, err
		}
		values = arr
	}

	return &frame.Series{Name: rec["name"], Index: index, Values: values}, nil
}

func (d *Decoder) decodeArray(rec map[string]any) (*frame.Array, error) {
	dt, comp, err := recMeta(rec)
	if err != nil {
		return nil, err
	}
	shape, err := intSlice(rec["shape"])
	if err != nil {
		return nil, err
	}
	storage, err := d.unconvert(rec["data"], dt, comp)
	if err != nil {
		return nil, err
	}

	return frame.NewArray(dt, shape, storage)
}

func (d *Decoder) decodeScalar(rec map[string]any) (any, error) {
	name, err := reqString(rec, "dtype")
	if err != nil {
		return nil, err
	}
	dt, err := dtype.Parse(name)
	if err != nil {
		return nil, err
	}

	if sub := optString(rec, "sub_typ"); sub == "np_complex" {
		re, err := reqFloat(rec, "real")
		if err != nil {
			return nil, err
		}
		im, err := reqFloat(rec, "imag")
		if err != nil {
			return nil, err
		}

		return frame.NewScalar(dt, complex(re, im))
	}

	text, err := reqString(rec, "data")
	if err != nil {
		return nil, err
	}

	switch {
	case dt.IsUnsigned():
		u, err := strconv.ParseUint(text, 10, dt.Bits())
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return nil, fmt.Errorf("%w: %s scalar %q", errs.ErrInvalidScalar, dt, text)
			}
			u = uint64(f)
		}
		return frame.NewScalar(dt, u)
	case dt.IsInteger():
		i, err := strconv.ParseInt(text, 10, dt.Bits())
		if err != nil {
			// writers may record integral values in float notation
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return nil, fmt.Errorf("%w: %s scalar %q", errs.ErrInvalidScalar, dt, text)
			}
			i = int64(f)
		}
		return frame.NewScalar(dt, i)
	case dt.IsFloat():
		f, err := strconv.ParseFloat(text, dt.Bits())
		if err != nil {
			return nil, fmt.Errorf("%w: %s scalar %q", errs.ErrInvalidScalar, dt, text)
		}
		return frame.NewScalar(dt, f)
	default:
		return nil, fmt.Errorf("%w: scalar dtype %s", errs.ErrInvalidScalar, dt)
	}
}

func (d *Decoder) decodeTable(rec map[string]any) (*frame.Table, error) {
	rawAxes, ok := rec["axes"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: block_manager axes are %T", errs.ErrMalformedRecord, rec["axes"])
	}
	axes := make([]frame.Index, len(rawAxes))
	for i, raw := range rawAxes {
		axis, ok := raw.(frame.Index)
		if !ok {
			return nil, fmt.Errorf("%w: axis %d is %T, want index", errs.ErrMalformedRecord, i, raw)
		}
		axes[i] = axis
	}

	rawBlocks, ok := rec["blocks"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: block_manager blocks are %T", errs.ErrMalformedRecord, rec["blocks"])
	}
	blocks := make([]*frame.Block, len(rawBlocks))
	for i, raw := range rawBlocks {
		brec, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: block %d is %T, want record", errs.ErrMalformedRecord, i, raw)
		}
		block, err := d.decodeBlock(brec, axes)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	return frame.NewTable(axes, blocks)
}

func (d *Decoder) decodeBlock(rec map[string]any, axes []frame.Index) (*frame.Block, error) {
	if klass := optString(rec, "klass"); klass == "DatetimeTZBlock" {
		return nil, fmt.Errorf("%w: zone-aware column blocks must travel as datetime_index axes", errs.ErrTZBlockUnsupported)
	}

	dt, comp, err := recMeta(rec)
	if err != nil {
		return nil, err
	}

	placement, err := d.blockPlacement(rec, axes)
	if err != nil {
		return nil, err
	}

	if dt == dtype.Category {
		cat, ok := rec["values"].(*frame.Categorical)
		if !ok {
			return nil, fmt.Errorf("%w: categorical block values are %T", errs.ErrMalformedRecord, rec["values"])
		}

		return &frame.Block{Placement: placement, Values: cat}, nil
	}

	shape, err := intSlice(rec["shape"])
	if err != nil {
		return nil, err
	}
	storage, err := d.unconvert(rec["values"], dt, comp)
	if err != nil {
		return nil, err
	}
	values, err := frame.NewArray(dt, shape, storage)
	if err != nil {
		return nil, err
	}

	return &frame.Block{Placement: placement, Values: values}, nil
}

// blockPlacement reads the block's column positions. Current writers record
// them under "locs"; older ones recorded the column labels under "items",
// which are resolved against the column axis.
func (d *Decoder) blockPlacement(rec map[string]any, axes []frame.Index) ([]int, error) {
	if locs, present := rec["locs"]; present {
		switch v := locs.(type) {
		case *frame.Array:
			ints, ok := v.Int64s()
			if !ok {
				return nil, fmt.Errorf("%w: locs dtype %s", errs.ErrBadPlacement, v.DType)
			}
			out := make([]int, len(ints))
			for i, p := range ints {
				out[i] = int(p)
			}
			return out, nil
		case []any:
			return intSlice(v)
		default:
			return nil, fmt.Errorf("%w: locs are %T", errs.ErrBadPlacement, locs)
		}
	}

	items, ok := rec["items"].(frame.Index)
	if !ok {
		return nil, fmt.Errorf("%w: block carries neither locs nor items", errs.ErrBadPlacement)
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("%w: no column axis to resolve items against", errs.ErrBadPlacement)
	}

	return lookupPlacement(items, axes[0])
}

// lookupPlacement maps each item label to its position on the column axis.
func lookupPlacement(items, columns frame.Index) ([]int, error) {
	labelAt := func(ix frame.Index, i int) (any, bool) {
		switch v := ix.(type) {
		case *frame.PlainIndex:
			return v.Label(i), true
		case *frame.RangeIndex:
			return v.Label(i), true
		default:
			return nil, false
		}
	}

	positions := make(map[any]int, columns.Len())
	for i := 0; i < columns.Len(); i++ {
		label, ok := labelAt(columns, i)
		if !ok {
			return nil, fmt.Errorf("%w: cannot resolve labels against %T axis", errs.ErrBadPlacement, columns)
		}
		positions[label] = i
	}

	out := make([]int, items.Len())
	for i := 0; i < items.Len(); i++ {
		label, ok := labelAt(items, i)
		if !ok {
			return nil, fmt.Errorf("%w: cannot read labels from %T items", errs.ErrBadPlacement, items)
		}
		pos, found := positions[label]
		if !found {
			return nil, fmt.Errorf("%w: item %v not on column axis", errs.ErrBadPlacement, label)
		}
		out[i] = pos
	}

	return out, nil
}

func (d *Decoder) unconvertInt64(rec map[string]any, key string) ([]int64, error) {
	dt, comp, err := recMeta(rec)
	if err != nil {
		return nil, err
	}
	if !dt.NeedsInt64View() && dt != dtype.Int64 {
		return nil, fmt.Errorf("%w: dtype %s, want an int64 view", errs.ErrMalformedRecord, dt)
	}

	storage, err := d.unconvert(rec[key], dt, comp)
	if err != nil {
		return nil, err
	}
	values, ok := storage.([]int64)
	if !ok {
		return nil, fmt.Errorf("%w: %s storage is %T", errs.ErrMalformedRecord, dt, storage)
	}

	return values, nil
}

// recMeta reads the dtype and compression backend of a payload-carrying
// record. An unknown backend name is fatal here, before any payload bytes
// are touched.
func recMeta(rec map[string]any) (dtype.DType, compress.Type, error) {
	name, err := reqString(rec, "dtype")
	if err != nil {
		return dtype.Invalid, compress.None, err
	}
	dt, err := dtype.Parse(name)
	if err != nil {
		return dtype.Invalid, compress.None, err
	}

	comp := compress.None
	if s := optString(rec, "compress"); s != "" {
		comp, err = compress.Parse(s)
		if err != nil {
			return dtype.Invalid, compress.None, err
		}
	}

	return dt, comp, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", errs.ErrMalformedRecord, v)
	}
}

func intSlice(v any) ([]int, error) {
	switch seq := v.(type) {
	case []int:
		return seq, nil
	case []any:
		out := make([]int, len(seq))
		for i, el := range seq {
			n, err := toInt64(el)
			if err != nil {
				return nil, err
			}
			out[i] = int(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not an integer sequence", errs.ErrMalformedRecord, v)
	}
}

func reqInt(rec map[string]any, key string) (int64, error) {
	v, present := rec[key]
	if !present {
		return 0, fmt.Errorf("%w: missing %q", errs.ErrMalformedRecord, key)
	}

	return toInt64(v)
}

func reqFloat(rec map[string]any, key string) (float64, error) {
	switch n := rec[key].(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", errs.ErrMalformedRecord, n)
		}
		return f, nil
	default:
		i, err := toInt64(rec[key])
		if err != nil {
			return 0, fmt.Errorf("%w: missing or non-numeric %q", errs.ErrMalformedRecord, key)
		}
		return float64(i), nil
	}
}

func reqString(rec map[string]any, key string) (string, error) {
	s, ok := rec[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing %q", errs.ErrMalformedRecord, key)
	}

	return s, nil
}

func optString(rec map[string]any, key string) string {
	s, _ := rec[key].(string)

	return s
}
