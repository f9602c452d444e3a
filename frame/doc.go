// Package frame defines the in-memory table model the codec serializes:
// n-dimensional arrays, the closed set of axis index flavors, categorical
// values, single-column series, temporal scalars, and two-axis tables whose
// columns are grouped into contiguous same-dtype blocks.
//
// Every value is plain data constructed transiently for one encode or decode
// call; nothing in this package holds persistent identity or caches across
// calls.
package frame
