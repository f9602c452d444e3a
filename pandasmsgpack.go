// Package pandasmsgpack serializes columnar tables, series, arrays, indexes,
// and temporal scalars to a self-describing msgpack byte stream and
// reconstructs them from it.
//
// Every entity travels as a msgpack map carrying a "typ" tag plus
// type-specific fields; numeric payloads are flattened to little-endian
// bytes, optionally compressed with zlib or blosc, and carried as msgpack
// extension data. A stream holds one or more top-level messages and needs no
// out-of-band schema to read back.
//
// Basic usage:
//
//	data, err := pandasmsgpack.Marshal(table, pandasmsgpack.WithCompression(compress.Zlib))
//	...
//	obj, err := pandasmsgpack.Unmarshal(data)
package pandasmsgpack

import (
	"bytes"

	"github.com/clxdsjyx/pandas-msgpack/codec"
	"github.com/clxdsjyx/pandas-msgpack/compress"
	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/internal/options"
)

type config struct {
	compression compress.Type
	appendMode  bool
	warnFn      codec.WarningHandler
}

// Option configures the top-level marshal, unmarshal, and stream calls.
type Option = options.Option[*config]

// WithCompression selects the compression backend for numeric payloads.
// The default is no compression.
func WithCompression(t compress.Type) Option {
	return options.NoError(func(c *config) { c.compression = t })
}

// WithAppend makes WriteFile append to an existing file instead of
// replacing it.
func WithAppend(enabled bool) Option {
	return options.NoError(func(c *config) { c.appendMode = enabled })
}

// WithWarningHandler routes recoverable decode conditions to fn instead of
// the decoder's internal collector.
func WithWarningHandler(fn codec.WarningHandler) Option {
	return options.NoError(func(c *config) { c.warnFn = fn })
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{compression: compress.None}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal serializes a single object into one msgpack message.
func Marshal(obj any, opts ...Option) ([]byte, error) {
	return MarshalMulti([]any{obj}, opts...)
}

// MarshalMulti serializes each object into its own top-level message,
// concatenated in order.
func MarshalMulti(objs []any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, objs, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal reconstructs the objects serialized in data. A stream holding a
// single message yields that object directly; multiple messages yield a
// slice in stream order. Empty input is an error.
func Unmarshal(data []byte, opts ...Option) (any, error) {
	if len(data) == 0 {
		return nil, errs.ErrEmptyInput
	}

	return Read(bytes.NewReader(data), opts...)
}
