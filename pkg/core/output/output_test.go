package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/posebayes/pkg/core/grid3"
)

func testGeometry() grid3.Geometry {
	return grid3.Geometry{H: 5, W: 5, Theta: 4, CellSize: 0.1, OriginX: -0.25, OriginY: -0.25, WorldLength: 0.5}
}

func TestOccupancyRange(t *testing.T) {
	geo := testGeometry()
	belief := grid3.New(geo)
	data := belief.Data()
	for i := range data {
		data[i] = float32(i % 3)
	}
	occ := Occupancy(belief)
	require.Len(t, occ.Cells, geo.H*geo.W)
	for _, c := range occ.Cells {
		assert.GreaterOrEqual(t, c, int8(0))
		assert.LessOrEqual(t, c, int8(100))
	}
}

func TestOccupancyUniformBeliefInteriorSaturates(t *testing.T) {
	geo := testGeometry()
	belief := grid3.New(geo)
	belief.Fill(1)
	occ := Occupancy(belief)
	// Interior cells have a full 3x3 neighbourhood and no zero-padding
	// loss, so they saturate to the grid maximum.
	assert.Equal(t, int8(100), occ.Cells[2*geo.W+2])
}

func TestMLEPosePicksMaxCell(t *testing.T) {
	geo := testGeometry()
	belief := grid3.New(geo)
	belief.Set(2, 3, 1, 10)

	pose := MLEPose(belief)
	assert.InDelta(t, geo.WorldX(3), pose.X, 1e-6)
	assert.InDelta(t, geo.WorldY(2), pose.Y, 1e-6)
	assert.InDelta(t, geo.Yaw(1), pose.Yaw, 1e-6)
}

func TestMLEPoseFirstCellOnTie(t *testing.T) {
	geo := testGeometry()
	belief := grid3.New(geo)
	belief.Fill(1)
	pose := MLEPose(belief)
	assert.InDelta(t, geo.WorldX(0), pose.X, 1e-6)
	assert.InDelta(t, geo.WorldY(0), pose.Y, 1e-6)
}
