// Package errs defines sentinel errors shared across the pandas-msgpack
// packages. Call sites wrap them with fmt.Errorf("%w: detail", ...) so that
// callers can match with errors.Is while still seeing context.
package errs

import "errors"

// Encode-side errors.
var (
	// ErrUnsupportedTemporal is returned when a datetime-like value matches
	// none of the known temporal variants. This path must fail loudly rather
	// than fall through to a generic representation.
	ErrUnsupportedTemporal = errors.New("cannot encode datetimelike value")

	// ErrInvalidScalar is returned when a typed scalar's value does not match
	// its declared dtype kind.
	ErrInvalidScalar = errors.New("scalar value does not match dtype")
)

// Decode-side errors.
var (
	// ErrTZBlockUnsupported is returned when a stored block's class denotes a
	// timezone-aware datetime block. Decoding one would silently drop the
	// zone, so it fails fast instead.
	ErrTZBlockUnsupported = errors.New("datetime with timezone blocks are not supported")

	// ErrMissingFreq is returned when a period index record carries no
	// resolvable frequency.
	ErrMissingFreq = errors.New("freq is not specified and cannot be inferred")

	// ErrMalformedRecord is returned when a tagged record is missing a
	// required field or a field has the wrong shape.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrBadPlacement is returned when block placements cannot be recovered
	// or do not partition the column axis.
	ErrBadPlacement = errors.New("invalid block placement")

	// ErrInvalidCodes is returned when categorical codes fall outside
	// [-1, len(categories)). Invalid codes are rejected, never repaired.
	ErrInvalidCodes = errors.New("categorical codes out of range")
)

// Data layout errors.
var (
	// ErrUnknownDType is returned for a dtype name outside the supported set.
	ErrUnknownDType = errors.New("unknown dtype")

	// ErrShapeMismatch is returned when a payload's length disagrees with the
	// declared dtype/shape.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Compression errors and warnings.
var (
	// ErrUnknownCompression is returned when a compression name is not one of
	// the supported backends.
	ErrUnknownCompression = errors.New("compress must be one of 'zlib' or 'blosc'")

	// ErrCompressionUnavailable is returned when a known backend is not
	// usable in this build. It is reported before any conversion is
	// attempted, never silently downgraded to no compression.
	ErrCompressionUnavailable = errors.New("compression backend not available")

	// ErrDecompressCopy is surfaced as a warning (not a failure) when data
	// had to be copied after decompressing because the decompressor caches
	// its result. The returned data is still correct.
	ErrDecompressCopy = errors.New("copying data after decompressing; decompressor may be caching its result")
)

// Stream boundary errors.
var (
	// ErrEmptyInput is returned when there is no data to read.
	ErrEmptyInput = errors.New("no data to read")
)
