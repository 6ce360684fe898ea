package value_test

import (
	"math"
	"testing"

	"github.com/mna/scratchrt/lang/value"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   value.Value
		want float64
	}{
		{value.String(""), 0},
		{value.String("10"), 10},
		{value.String("10abc"), 10},
		{value.String("abc"), 0},
		{value.String("Infinity"), math.Inf(1)},
		{value.String("-Infinity"), math.Inf(-1)},
		{value.Boolean(true), 1},
		{value.Boolean(false), 0},
		{value.Number(math.NaN()), 0},
	}
	for _, c := range cases {
		got := value.ToNumber(c.in)
		if math.IsInf(c.want, 0) {
			require.Equal(t, c.want, float64(got))
			continue
		}
		require.Equal(t, c.want, float64(got), "ToNumber(%v)", c.in)
	}
}

func TestToBoolean(t *testing.T) {
	require.False(t, bool(value.ToBoolean(value.Number(0))))
	require.False(t, bool(value.ToBoolean(value.Number(math.NaN()))))
	require.False(t, bool(value.ToBoolean(value.String(""))))
	require.False(t, bool(value.ToBoolean(value.String("false"))))
	require.False(t, bool(value.ToBoolean(value.String("0"))))
	require.True(t, bool(value.ToBoolean(value.String("0.0"))))
	require.True(t, bool(value.ToBoolean(value.String("anything"))))
	require.True(t, bool(value.ToBoolean(value.Number(1))))
}

func TestToString(t *testing.T) {
	require.Equal(t, "5", value.ToString(value.Number(5)))
	require.Equal(t, "5", value.ToString(value.Number(5.0)))
	require.Equal(t, "5.5", value.ToString(value.Number(5.5)))
	require.Equal(t, "Infinity", value.ToString(value.Number(math.Inf(1))))
	require.Equal(t, "-Infinity", value.ToString(value.Number(math.Inf(-1))))
}

func TestEquals(t *testing.T) {
	require.True(t, value.Equals(value.String("10"), value.Number(10)))
	require.True(t, value.Equals(value.String("JUMP"), value.String("jump")))
	require.False(t, value.Equals(value.String("10abc"), value.Number(10)))
	require.True(t, value.Equals(value.String("abc"), value.String("ABC")))
}

func TestCompare(t *testing.T) {
	require.True(t, value.Compare(value.Number(1), value.Number(2)) < 0)
	require.True(t, value.Compare(value.String("2"), value.String("10")) < 0)
	require.Equal(t, 0, value.Compare(value.String("apple"), value.String("APPLE")))
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []float64{0, 1, -1, 42, 3.14, -3.14, 1e10} {
		s := value.ToString(value.Number(n))
		again := value.ToNumber(value.String(s))
		require.InDelta(t, n, float64(again), 1e-9)
	}
}
