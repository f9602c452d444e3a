// Package codec implements the encode/decode type-tagging protocol and the
// value-conversion layer of the pandas-msgpack format.
//
// The Encoder turns an in-memory value (frame.Table, frame.Series, index
// flavors, categorical and temporal values, arrays, typed scalars) into a
// tree of tagged string-keyed records, flattening numeric payloads into
// extension-typed byte blobs (subtype 0), optionally compressed. The Decoder
// walks a parsed tree bottom-up and reconstructs the corresponding values by
// dispatching on each record's "typ" field.
//
// Both directions are deterministic pure functions over their inputs plus the
// encoder's compression choice, which is explicit per-encoder configuration
// rather than process-wide state. The msgpack framing itself (maps, arrays,
// scalars, extension payloads) is delegated to
// github.com/vmihailenco/msgpack/v5.
package codec
