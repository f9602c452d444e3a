// Package compress provides the pluggable byte-transform backends used for
// flattened array payloads.
//
// # Backends
//
//   - None: identity, payloads wrapped raw (compress.None)
//   - Zlib: general-purpose deflate-style compression (compress.Zlib)
//   - Blosc: byte-shuffle by element width plus an inner block codec,
//     LZ4 by default or zstd (compress.Blosc)
//
// The backend is selected per encode call and recorded alongside every
// converted payload, so the decoder only consults what was recorded. A known
// but unavailable backend fails fast via Check before any payload is
// produced; there is no silent fallback to identity.
//
// # Build tags
//
// The blosc zstd inner codec is pure Go by default
// (github.com/klauspost/compress/zstd). Building with the gozstd tag swaps in
// the cgo implementation (github.com/valyala/gozstd); the two produce and
// consume the same frame format.
package compress
