package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/endian"
	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/frame"
	"github.com/clxdsjyx/pandas-msgpack/internal/options"
)

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithCompression selects the compression backend applied to flattened
// payloads. The backend is resolved and availability-checked when the
// encoder is constructed, before any conversion happens.
func WithCompression(t compress.Type) EncoderOption {
	return options.NoError(func(e *Encoder) { e.compression = t })
}

// Encoder produces tagged record trees for in-memory values.
//
// An Encoder is immutable after construction and safe for concurrent use;
// its compression choice is fixed per instance rather than process-wide, so
// concurrent encodes with different choices cannot interfere.
type Encoder struct {
	compression compress.Type
	codec       compress.Codec
	engine      endian.EndianEngine
}

// NewEncoder creates an encoder. Selecting a compression backend that is
// unknown or unavailable fails here, before any value is converted.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		compression: compress.None,
		engine:      endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	if err := compress.Check(e.compression); err != nil {
		return nil, err
	}
	codec, err := compress.ForType(e.compression)
	if err != nil {
		return nil, err
	}
	e.codec = codec

	return e, nil
}

// Encode returns the tagged record tree for v. Values outside the codec's
// entity set (strings, plain numbers, booleans, containers of those) are
// returned unchanged and left to the framing layer's own primitive handling.
func (e *Encoder) Encode(v any) (any, error) {
	switch obj := v.(type) {
	case *frame.RangeIndex:
		// never materializes a payload; only the three integers travel
		return map[string]any{
			"typ":   "range_index",
			"klass": "RangeIndex",
			"name":  obj.Name,
			"start": obj.Start,
			"stop":  obj.Stop,
			"step":  obj.Step,
		}, nil

	case *frame.PeriodIndex:
		data, err := e.convertInt64(obj.Ordinals)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "period_index",
			"klass":    "PeriodIndex",
			"name":     obj.Name,
			"freq":     strOrNil(obj.Freq),
			"dtype":    dtype.Int64.String(),
			"data":     data,
			"compress": e.compressField(),
		}, nil

	case *frame.DatetimeIndex:
		// values are already normalized to the zone-free UTC baseline; the
		// zone identifier is recorded separately and re-attached on decode
		data, err := e.convertInt64(obj.Values)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "datetime_index",
			"klass":    "DatetimeIndex",
			"name":     obj.Name,
			"dtype":    dtype.Datetime64.String(),
			"data":     data,
			"freq":     strOrNil(obj.Freq),
			"tz":       strOrNil(obj.TZ),
			"compress": e.compressField(),
		}, nil

	case *frame.MultiIndex:
		rows := make([]any, len(obj.Rows))
		for i, row := range obj.Rows {
			enc := make([]any, len(row))
			for j, el := range row {
				encoded, err := e.Encode(el)
				if err != nil {
					return nil, err
				}
				enc[j] = encoded
			}
			rows[i] = enc
		}

		return map[string]any{
			"typ":      "multi_index",
			"klass":    "MultiIndex",
			"names":    obj.Names,
			"dtype":    dtype.Object.String(),
			"data":     rows,
			"compress": e.compressField(),
		}, nil

	case *frame.CategoricalIndex:
		data, err := e.Encode(obj.Values)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "index",
			"klass":    "CategoricalIndex",
			"name":     obj.Name,
			"dtype":    dtype.Category.String(),
			"data":     data,
			"compress": e.compressField(),
		}, nil

	case *frame.PlainIndex:
		data, err := e.convert(obj.Values)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "index",
			"klass":    plainIndexClass(obj.Values.DType),
			"name":     obj.Name,
			"dtype":    obj.Values.DType.String(),
			"data":     data,
			"compress": e.compressField(),
		}, nil

	case *frame.Categorical:
		codes, err := e.Encode(obj.Codes)
		if err != nil {
			return nil, err
		}
		categories, err := e.Encode(obj.Categories)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":        "category",
			"klass":      "Categorical",
			"name":       obj.Name,
			"codes":      codes,
			"categories": categories,
			"ordered":    obj.Ordered,
			"compress":   e.compressField(),
		}, nil

	case *frame.Series:
		index, err := e.Encode(obj.Index)
		if err != nil {
			return nil, err
		}
		data, err := e.convertValues(obj.Values)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "series",
			"klass":    "Series",
			"name":     obj.Name,
			"index":    index,
			"dtype":    valuesDTypeName(obj.Values),
			"data":     data,
			"compress": e.compressField(),
		}, nil

	case *frame.Table:
		return e.encodeTable(obj)

	case frame.Timestamp:
		return map[string]any{
			"typ":   "timestamp",
			"value": obj.Value,
			"freq":  strOrNil(obj.Freq),
			"tz":    strOrNil(obj.TZ),
		}, nil

	case frame.NaTType:
		return map[string]any{"typ": "nat"}, nil

	case frame.Timedelta64:
		return map[string]any{"typ": "timedelta64", "data": int64(obj)}, nil

	case frame.Timedelta:
		return map[string]any{
			"typ":  "timedelta",
			"data": []any{obj.Days, obj.Seconds, obj.Microseconds},
		}, nil

	case frame.Datetime64:
		return map[string]any{"typ": "datetime64", "data": formatDatetime64(int64(obj))}, nil

	case time.Time:
		return map[string]any{"typ": "datetime", "data": obj.Format(time.RFC3339Nano)}, nil

	case frame.Date:
		return map[string]any{"typ": "date", "data": formatDate(obj)}, nil

	case frame.Period:
		return map[string]any{"typ": "period", "ordinal": obj.Ordinal, "freq": obj.Freq}, nil

	case *frame.Array:
		data, err := e.convert(obj)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "ndarray",
			"shape":    obj.Shape,
			"ndim":     obj.NDim(),
			"dtype":    obj.DType.String(),
			"data":     data,
			"compress": e.compressField(),
		}, nil

	case frame.Scalar:
		return encodeScalar(obj)

	case complex128:
		return map[string]any{
			"typ":  "np_complex",
			"real": strconv.FormatFloat(real(obj), 'g', -1, 64),
			"imag": strconv.FormatFloat(imag(obj), 'g', -1, 64),
		}, nil

	case complex64:
		return map[string]any{
			"typ":  "np_complex",
			"real": strconv.FormatFloat(float64(real(obj)), 'g', -1, 32),
			"imag": strconv.FormatFloat(float64(imag(obj)), 'g', -1, 32),
		}, nil

	case frame.Temporal:
		// a temporal-like value matching none of the known variants must
		// fail loudly, never fall through to a generic representation
		return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedTemporal, v)

	case frame.Index:
		return nil, fmt.Errorf("%w: unsupported index type %T", errs.ErrMalformedRecord, v)

	case map[string]any:
		out := make(map[string]any, len(obj))
		for k, child := range obj {
			enc, err := e.Encode(child)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil

	case []any:
		out := make([]any, len(obj))
		for i, child := range obj {
			enc, err := e.Encode(child)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil

	default:
		return v, nil
	}
}

// encodeTable consolidates the table's column storage into the minimal set
// of contiguous same-dtype blocks and emits one record per block plus the
// axis records.
func (e *Encoder) encodeTable(t *frame.Table) (any, error) {
	t, err := t.Consolidate()
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	axes := make([]any, len(t.Axes))
	for i, axis := range t.Axes {
		encoded, err := e.Encode(axis)
		if err != nil {
			return nil, err
		}
		axes[i] = encoded
	}

	blocks := make([]any, len(t.Blocks))
	for i, b := range t.Blocks {
		rec, err := e.encodeBlock(b)
		if err != nil {
			return nil, err
		}
		blocks[i] = rec
	}

	return map[string]any{
		"typ":    "block_manager",
		"klass":  "DataFrame",
		"axes":   axes,
		"blocks": blocks,
	}, nil
}

func (e *Encoder) encodeBlock(b *frame.Block) (any, error) {
	placement := make([]int64, len(b.Placement))
	for i, pos := range b.Placement {
		placement[i] = int64(pos)
	}
	locsArr, err := frame.Vector(dtype.Int64, placement)
	if err != nil {
		return nil, err
	}
	locs, err := e.Encode(locsArr)
	if err != nil {
		return nil, err
	}

	values, err := e.convertValues(b.Values)
	if err != nil {
		return nil, err
	}

	var shape []int
	switch v := b.Values.(type) {
	case *frame.Array:
		shape = v.Shape
	case *frame.Categorical:
		shape = []int{v.Len()}
	}

	dt := b.DType()

	return map[string]any{
		"locs":     locs,
		"values":   values,
		"shape":    shape,
		"dtype":    dt.String(),
		"klass":    blockClass(dt),
		"compress": e.compressField(),
	}, nil
}

// convertValues routes block or series values: categorical values are
// delegated to the dispatcher, arrays to the converter.
func (e *Encoder) convertValues(v any) (any, error) {
	switch val := v.(type) {
	case *frame.Categorical:
		return e.Encode(val)
	case *frame.Array:
		return e.convert(val)
	default:
		return nil, fmt.Errorf("%w: unsupported values %T", errs.ErrMalformedRecord, v)
	}
}

func encodeScalar(s frame.Scalar) (any, error) {
	if _, err := frame.NewScalar(s.DType, s.Value); err != nil {
		return nil, err
	}

	if s.DType.IsComplex() {
		c := s.Value.(complex128)
		bits := s.DType.Bits()

		return map[string]any{
			"typ":     "np_scalar",
			"sub_typ": "np_complex",
			"dtype":   s.DType.String(),
			"real":    strconv.FormatFloat(real(c), 'g', -1, bits),
			"imag":    strconv.FormatFloat(imag(c), 'g', -1, bits),
		}, nil
	}

	var text string
	switch {
	case s.DType.IsUnsigned():
		text = strconv.FormatUint(s.Value.(uint64), 10)
	case s.DType.IsInteger():
		text = strconv.FormatInt(s.Value.(int64), 10)
	default:
		text = strconv.FormatFloat(s.Value.(float64), 'g', -1, s.DType.Bits())
	}

	return map[string]any{
		"typ":   "np_scalar",
		"dtype": s.DType.String(),
		"data":  text,
	}, nil
}

func (e *Encoder) compressField() any {
	if e.compression == compress.None {
		return nil
	}

	return e.compression.String()
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func plainIndexClass(dt dtype.DType) string {
	switch dt {
	case dtype.Int64:
		return "Int64Index"
	case dtype.Uint64:
		return "UInt64Index"
	case dtype.Float64:
		return "Float64Index"
	default:
		return "Index"
	}
}

func blockClass(dt dtype.DType) string {
	switch {
	case dt == dtype.Bool:
		return "BoolBlock"
	case dt == dtype.Object:
		return "ObjectBlock"
	case dt == dtype.Category:
		return "CategoricalBlock"
	case dt == dtype.Datetime64:
		return "DatetimeBlock"
	case dt == dtype.Timedelta64:
		return "TimeDeltaBlock"
	case dt.IsComplex():
		return "ComplexBlock"
	case dt.IsFloat():
		return "FloatBlock"
	default:
		return "IntBlock"
	}
}

func valuesDTypeName(v any) string {
	switch val := v.(type) {
	case *frame.Array:
		return val.DType.String()
	case *frame.Categorical:
		return dtype.Category.String()
	default:
		return dtype.Invalid.String()
	}
}
