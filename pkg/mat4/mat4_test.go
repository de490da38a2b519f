package mat4

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireMatEqual(t *testing.T, want, got *[4][4]float64, tol float64) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			require.InDelta(t, want[i][j], got[i][j], tol, "element (%d, %d)", i, j)
		}
	}
}

func identity() [4][4]float64 {
	var m [4][4]float64
	for i := range m {
		m[i][i] = 1
	}
	return m
}

func mul(a, b *[4][4]float64) [4][4]float64 {
	var p [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				p[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return p
}

func TestInvertIdentity(t *testing.T) {
	m := identity()
	require.True(t, Invert(&m))
	want := identity()
	requireMatEqual(t, &want, &m, 0)
}

func TestInvertKnownMatrix(t *testing.T) {
	m := [4][4]float64{
		{2, 0, 0, 1},
		{0, 1, 3, 0},
		{0, 2, 1, 0},
		{1, 0, 0, 1},
	}
	require.True(t, Invert(&m))

	want := [4][4]float64{
		{1, 0, 0, -1},
		{0, -0.2, 0.6, 0},
		{0, 0.4, -0.2, 0},
		{-1, 0, 0, 2},
	}
	requireMatEqual(t, &want, &m, 1e-14)
}

func TestInvertRoundTrip(t *testing.T) {
	m := [4][4]float64{
		{4, 7, 2, 3},
		{0, 5, 0, 1},
		{1, 0, 6, 0},
		{2, 1, 0, 8},
	}
	inv := m
	require.True(t, Invert(&inv))

	prod := mul(&m, &inv)
	want := identity()
	requireMatEqual(t, &want, &prod, 1e-12)
}

func TestInvertSingular(t *testing.T) {
	// Rows 0 and 1 are linearly dependent.
	m := [4][4]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
	before := m
	require.False(t, Invert(&m))
	requireMatEqual(t, &before, &m, 0)

	var zero [4][4]float64
	require.False(t, Invert(&zero))
	require.False(t, math.IsNaN(zero[0][0]))
}
