package pandasmsgpack

import (
	"errors"
	"io"
	"iter"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clxdsjyx/pandas-msgpack/codec"
	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Write serializes each object into its own top-level message on w.
func Write(w io.Writer, objs []any, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	enc, err := codec.NewEncoder(codec.WithCompression(cfg.compression))
	if err != nil {
		return err
	}

	mp := msgpack.NewEncoder(w)
	mp.SetSortMapKeys(true)
	mp.UseCompactInts(true)

	for _, obj := range objs {
		tree, err := enc.Encode(obj)
		if err != nil {
			return err
		}
		if err := mp.Encode(tree); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile serializes objects to the file at path, replacing its contents
// unless WithAppend is set.
func WriteFile(path string, objs []any, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if cfg.appendMode {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}

	if err := Write(f, objs, opts...); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Read reconstructs every message on r. A single message yields that object
// directly; multiple messages yield a slice in stream order. A stream with
// no messages is an error.
func Read(r io.Reader, opts ...Option) (any, error) {
	var out []any
	for obj, err := range Iterate(r, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}

	switch len(out) {
	case 0:
		return nil, errs.ErrEmptyInput
	case 1:
		return out[0], nil
	default:
		return out, nil
	}
}

// ReadFile reconstructs every message in the file at path, with the same
// single-versus-slice result shape as Read.
func ReadFile(path string, opts ...Option) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, opts...)
}

// Iterate yields the objects on r one message at a time, so a long stream
// never has to be materialized at once. Iteration stops at the first error,
// which is yielded with a nil object.
func Iterate(r io.Reader, opts ...Option) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		cfg, err := newConfig(opts...)
		if err != nil {
			yield(nil, err)
			return
		}

		decOpts := make([]codec.DecoderOption, 0, 1)
		if cfg.warnFn != nil {
			decOpts = append(decOpts, codec.WithWarningHandler(cfg.warnFn))
		}
		dec, err := codec.NewDecoder(decOpts...)
		if err != nil {
			yield(nil, err)
			return
		}

		mp := msgpack.NewDecoder(r)
		for {
			raw, err := mp.DecodeInterface()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}

			obj, err := dec.Decode(raw)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(obj, nil) {
				return
			}
		}
	}
}

// IterateFile is Iterate over the file at path. Each range over the
// returned sequence opens the file anew, and the file is closed on every
// exit path, early break included.
func IterateFile(path string, opts ...Option) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		for obj, err := range Iterate(f, opts...) {
			if !yield(obj, err) {
				return
			}
		}
	}
}
