package dtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	all := []DType{
		Bool,
		Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float32, Float64,
		Complex64, Complex128,
		Datetime64, Timedelta64,
		Object, Category,
	}
	for _, dt := range all {
		parsed, err := Parse(dt.String())
		require.NoError(t, err)
		require.Equal(t, dt, parsed)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("float16")
	require.Error(t, err)

	_, err = Parse("")
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	require.Equal(t, "datetime64[ns]", Datetime64.String())
	require.Equal(t, "timedelta64[ns]", Timedelta64.String())
	require.Equal(t, "int64", Int64.String())
	require.Equal(t, "object", Object.String())
	require.Equal(t, "category", Category.String())
}

func TestItemSize(t *testing.T) {
	tests := []struct {
		dt   DType
		size int
	}{
		{Bool, 1},
		{Int8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
		{Uint64, 8},
		{Float32, 4},
		{Float64, 8},
		{Complex64, 8},
		{Complex128, 16},
		{Datetime64, 8},
		{Timedelta64, 8},
	}
	for _, tt := range tests {
		require.Equal(t, tt.size, tt.dt.ItemSize(), "dtype %s", tt.dt)
	}
	require.Zero(t, Object.ItemSize())
}

func TestKindPredicates(t *testing.T) {
	require.True(t, Int32.IsInteger())
	require.False(t, Int32.IsUnsigned())
	require.True(t, Uint16.IsInteger())
	require.True(t, Uint16.IsUnsigned())
	require.True(t, Float64.IsFloat())
	require.True(t, Complex64.IsComplex())
	require.False(t, Float64.IsComplex())
	require.True(t, Datetime64.NeedsInt64View())
	require.True(t, Timedelta64.NeedsInt64View())
	require.False(t, Int64.NeedsInt64View())
}

func TestBits(t *testing.T) {
	require.Equal(t, 64, Float64.Bits())
	require.Equal(t, 32, Float32.Bits())
	require.Equal(t, 32, Complex64.Bits())
	require.Equal(t, 64, Complex128.Bits())
	require.Equal(t, 8, Int8.Bits())
}
