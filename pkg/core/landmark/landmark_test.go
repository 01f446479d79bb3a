package landmark

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/posebayes/pkg/core/geometry"
	"github.com/itohio/posebayes/pkg/core/grid3"
)

func testGeometry() grid3.Geometry {
	return grid3.Geometry{H: 21, W: 21, Theta: 16, CellSize: 3.0 / 21, OriginX: -1.5, OriginY: -1.5, WorldLength: 3.0}
}

func testIntrinsics() geometry.Intrinsics {
	return geometry.Intrinsics{Fx: 494, Fy: 294, Cx: 160, Cy: 120}
}

func TestNewFacingXCorners(t *testing.T) {
	obj := NewFacingX("dog", geometry.Point{X: 1.5, Y: 0, Z: 0.27}, 0.11, 0.02, 0.52)
	assert.Equal(t, float32(0.11), obj.BottomLeft.Y-obj.Centre.Y)
	assert.Equal(t, float32(-0.11), obj.BottomRight.Y-obj.Centre.Y)
	assert.Equal(t, float32(0), obj.BottomLeft.X-obj.Centre.X)
	assert.Equal(t, float32(0.02), obj.BottomLeft.Z)
	assert.Equal(t, float32(0.52), obj.TopLeft.Z)
}

func TestNewFacingYCorners(t *testing.T) {
	obj := NewFacingY("cat", geometry.Point{X: 0.5, Y: -1.5, Z: 0.27}, 0.11, 0.02, 0.52)
	assert.Equal(t, float32(0.11), obj.BottomLeft.X-obj.Centre.X)
	assert.Equal(t, float32(-0.11), obj.BottomRight.X-obj.Centre.X)
	assert.Equal(t, float32(0), obj.BottomLeft.Y-obj.Centre.Y)
	assert.Equal(t, float32(0.02), obj.BottomLeft.Z)
	assert.Equal(t, float32(0.52), obj.TopLeft.Z)
}

// TestDetectabilityBounds mirrors §8 property #3: detectability must stay
// within [0.05, 1.00] at every cell, including cells behind the camera
// where projections are degenerate.
func TestDetectabilityBounds(t *testing.T) {
	geo := testGeometry()
	k := testIntrinsics()
	obj := NewFacingX("dog", geometry.Point{X: 1.5, Y: 0, Z: 0.27}, 0.11, 0.02, 0.52)

	pred := Build(geo, k, 0.24, obj)
	for _, v := range pred.Detectability.Data() {
		require.False(t, math32.IsNaN(v), "detectability must never be NaN")
		assert.GreaterOrEqual(t, v, float32(0.05))
		assert.LessOrEqual(t, v, float32(1.0))
	}
}

func TestDetectabilityFormula(t *testing.T) {
	// Fully inside the image and unclipped: clipped_area = 4*w*h, so
	// ratio = 4/5 regardless of box size, giving detectability 0.05+0.9*0.8.
	assert.InDelta(t, 0.77, detectability(0, 0, 10, 10), 1e-6)
}

func TestDetectabilityOutOfFrameSaturatesLow(t *testing.T) {
	d := detectability(1000, 0, 10, 10)
	assert.InDelta(t, 0.05, d, 1e-3)
}
