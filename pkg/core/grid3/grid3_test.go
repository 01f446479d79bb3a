package grid3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry() Geometry {
	return Geometry{H: 5, W: 5, Theta: 4, CellSize: 0.1, OriginX: -0.25, OriginY: -0.25, WorldLength: 0.5}
}

func TestNewPanicsOnBadDimensions(t *testing.T) {
	assert.Panics(t, func() { New(Geometry{H: 0, W: 5, Theta: 4, CellSize: 1}) })
	assert.Panics(t, func() { New(Geometry{H: 5, W: 5, Theta: 4, CellSize: 0}) })
}

func TestFillAndSum(t *testing.T) {
	g := New(testGeometry())
	g.Fill(1)
	require.Equal(t, float32(5*5*4), g.Sum())
}

func TestNormalize(t *testing.T) {
	g := New(testGeometry())
	g.Fill(2)
	ok := g.Normalize()
	require.True(t, ok)
	assert.InDelta(t, 1.0, g.Sum(), 1e-6)
}

func TestNormalizeZeroSum(t *testing.T) {
	g := New(testGeometry())
	ok := g.Normalize()
	assert.False(t, ok)
}

func TestClampNonNegative(t *testing.T) {
	g := New(testGeometry())
	g.Set(0, 0, 0, -1)
	g.ClampNonNegative()
	assert.Equal(t, float32(0), g.At(0, 0, 0))
}

func TestMulInPlace(t *testing.T) {
	a := New(testGeometry())
	b := New(testGeometry())
	a.Fill(2)
	b.Fill(3)
	a.MulInPlace(b)
	assert.Equal(t, float32(6), a.At(1, 1, 1))
}

func TestAtIndexRoundtrip(t *testing.T) {
	g := New(testGeometry())
	g.Set(2, 3, 1, 42)
	assert.Equal(t, float32(42), g.At(2, 3, 1))
}

func TestMarginalizeYaw(t *testing.T) {
	g := New(testGeometry())
	g.Fill(1)
	m := g.MarginalizeYaw()
	require.Len(t, m, 25)
	for _, v := range m {
		assert.Equal(t, float32(4), v)
	}
}

func TestArgMax2DFirstOnTie(t *testing.T) {
	m := []float32{1, 1, 1, 1}
	iy, ix, max := ArgMax2D(m, 2, 2)
	assert.Equal(t, 0, iy)
	assert.Equal(t, 0, ix)
	assert.Equal(t, float32(1), max)
}

func TestWorldXWorldY(t *testing.T) {
	geo := testGeometry()
	assert.InDelta(t, -0.25, geo.WorldX(0), 1e-6)
	assert.InDelta(t, -0.25+0.5, geo.WorldY(0), 1e-6)
}
