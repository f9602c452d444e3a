package codec

import (
	"fmt"
	"math"

	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/endian"
	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/frame"
	"github.com/clxdsjyx/pandas-msgpack/internal/pool"
)

// convert turns array storage into its wire payload: object arrays become an
// element sequence (each element dispatched through Encode), every other
// dtype is flattened to little-endian bytes, optionally compressed, and
// wrapped in the raw-bytes extension blob.
func (e *Encoder) convert(arr *frame.Array) (any, error) {
	if arr.DType == dtype.Object {
		elements := arr.Elements()
		out := make([]any, len(elements))
		for i, el := range elements {
			enc, err := e.Encode(el)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}

	if e.compression == compress.None {
		raw, err := flattenAppend(nil, e.engine, arr)
		if err != nil {
			return nil, err
		}
		return &RawBlob{Data: raw}, nil
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	raw, err := flattenAppend(buf.B[:0], e.engine, arr)
	if err != nil {
		return nil, err
	}
	buf.B = raw

	packed, err := e.codec.Compress(raw, arr.DType.ItemSize())
	if err != nil {
		return nil, fmt.Errorf("compress %s payload: %w", e.compression, err)
	}

	return &RawBlob{Data: packed}, nil
}

func (e *Encoder) convertInt64(values []int64) (any, error) {
	arr, err := frame.Vector(dtype.Int64, values)
	if err != nil {
		return nil, err
	}

	return e.convert(arr)
}

// flattenAppend appends the little-endian byte image of the array storage to
// dst. Element order is the storage order of the backing slice.
func flattenAppend(dst []byte, engine endian.EndianEngine, arr *frame.Array) ([]byte, error) {
	switch data := arr.Data.(type) {
	case []bool:
		for _, v := range data {
			if v {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
	case []int8:
		for _, v := range data {
			dst = append(dst, byte(v))
		}
	case []int16:
		for _, v := range data {
			dst = engine.AppendUint16(dst, uint16(v))
		}
	case []int32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, uint32(v))
		}
	case []int64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, uint64(v))
		}
	case []uint8:
		dst = append(dst, data...)
	case []uint16:
		for _, v := range data {
			dst = engine.AppendUint16(dst, v)
		}
	case []uint32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, v)
		}
	case []uint64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, v)
		}
	case []float32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, math.Float32bits(v))
		}
	case []float64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, math.Float64bits(v))
		}
	case []complex64:
		for _, v := range data {
			dst = engine.AppendUint32(dst, math.Float32bits(real(v)))
			dst = engine.AppendUint32(dst, math.Float32bits(imag(v)))
		}
	case []complex128:
		for _, v := range data {
			dst = engine.AppendUint64(dst, math.Float64bits(real(v)))
			dst = engine.AppendUint64(dst, math.Float64bits(imag(v)))
		}
	default:
		return nil, fmt.Errorf("%w: cannot flatten storage %T", errs.ErrUnknownDType, arr.Data)
	}

	return dst, nil
}

// unconvert is the inverse of convert: it turns a decoded payload back into
// array storage for the given dtype. comp names the backend the payload was
// compressed with; None means the blob holds the raw byte image.
func (d *Decoder) unconvert(payload any, dt dtype.DType, comp compress.Type) (any, error) {
	if dt == dtype.Category {
		// categorical payloads are nested records, already reconstructed
		return payload, nil
	}

	if dt == dtype.Object {
		elements, ok := payload.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: object payload is %T, want sequence", errs.ErrMalformedRecord, payload)
		}
		return elements, nil
	}

	blob, ok := payload.(*RawBlob)
	if !ok {
		return nil, fmt.Errorf("%w: %s payload is %T, want raw bytes", errs.ErrMalformedRecord, dt, payload)
	}

	raw := blob.Data
	if comp != compress.None {
		codec, err := d.codecFor(comp)
		if err != nil {
			return nil, err
		}
		if !codec.Available() {
			return nil, fmt.Errorf("%w: %s", errs.ErrCompressionUnavailable, comp)
		}

		raw, err = codec.Decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("decompress %s payload: %w", comp, err)
		}

		// a backend that hands back a cached buffer would let two decoded
		// arrays alias the same memory; copy out and say so
		if caching, ok := codec.(compress.BufferCaching); ok && caching.CachesDecompressed() && len(raw) > 1 {
			d.warn(fmt.Errorf("%w: %s buffer copied to keep arrays independent", errs.ErrDecompressCopy, comp))
			clone := make([]byte, len(raw))
			copy(clone, raw)
			raw = clone
		}
	}

	return unflatten(raw, dt, d.engine)
}

// unflatten rebuilds typed storage from a little-endian byte image.
func unflatten(raw []byte, dt dtype.DType, engine endian.EndianEngine) (any, error) {
	itemSize := dt.ItemSize()
	if itemSize <= 0 {
		return nil, fmt.Errorf("%w: %s has no fixed item size", errs.ErrUnknownDType, dt)
	}
	if len(raw)%itemSize != 0 {
		return nil, fmt.Errorf("%w: %d payload bytes not divisible by item size %d",
			errs.ErrShapeMismatch, len(raw), itemSize)
	}
	n := len(raw) / itemSize

	switch dt {
	case dtype.Bool:
		out := make([]bool, n)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out, nil
	case dtype.Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out, nil
	case dtype.Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(engine.Uint16(raw[i*2:]))
		}
		return out, nil
	case dtype.Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(engine.Uint32(raw[i*4:]))
		}
		return out, nil
	case dtype.Int64, dtype.Datetime64, dtype.Timedelta64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(engine.Uint64(raw[i*8:]))
		}
		return out, nil
	case dtype.Uint8:
		out := make([]uint8, n)
		copy(out, raw)
		return out, nil
	case dtype.Uint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = engine.Uint16(raw[i*2:])
		}
		return out, nil
	case dtype.Uint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = engine.Uint32(raw[i*4:])
		}
		return out, nil
	case dtype.Uint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = engine.Uint64(raw[i*8:])
		}
		return out, nil
	case dtype.Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(engine.Uint32(raw[i*4:]))
		}
		return out, nil
	case dtype.Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(engine.Uint64(raw[i*8:]))
		}
		return out, nil
	case dtype.Complex64:
		out := make([]complex64, n)
		for i := range out {
			re := math.Float32frombits(engine.Uint32(raw[i*8:]))
			im := math.Float32frombits(engine.Uint32(raw[i*8+4:]))
			out[i] = complex(re, im)
		}
		return out, nil
	case dtype.Complex128:
		out := make([]complex128, n)
		for i := range out {
			re := math.Float64frombits(engine.Uint64(raw[i*16:]))
			im := math.Float64frombits(engine.Uint64(raw[i*16+8:]))
			out[i] = complex(re, im)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot rebuild %s storage", errs.ErrUnknownDType, dt)
	}
}
