package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/posebayes/pkg/core/grid3"
)

func testGeometry() grid3.Geometry {
	return grid3.Geometry{H: 101, W: 101, Theta: 128, CellSize: 3.0 / 101, OriginX: -1.5, OriginY: -1.5, WorldLength: 3.0}
}

func testIntrinsics() Intrinsics {
	return Intrinsics{Fx: 494, Fy: 294, Cx: 160, Cy: 120}
}

// TestProjectionIdentity mirrors §8 property #2: a point directly ahead of
// the robot at yaw 0 projects to the principal point's u coordinate, and
// its v coordinate follows the pinhole height formula.
func TestProjectionIdentity(t *testing.T) {
	geo := testGeometry()
	k := testIntrinsics()
	robotZ := float32(0.24)

	ix, iy := 0, 50
	wx, wy := geo.WorldX(ix), geo.WorldY(iy)

	d := float32(1.0)
	pz := float32(0.27)
	// Directly ahead of the robot pose at cell (iy, ix), yaw index 0: same
	// y as the robot, d metres further along world +x.
	p := Point{X: wx + d, Y: wy, Z: pz}

	cam := Project(geo, k, robotZ, p)

	u := cam.U.At(iy, ix, 0)
	v := cam.V.At(iy, ix, 0)

	assert.InDelta(t, 160, u, 1e-2)
	expectedV := k.Cy - k.Fy*(pz-robotZ)/d
	assert.InDelta(t, expectedV, v, 1e-2)
}

func TestProjectProducesGridShapedOutput(t *testing.T) {
	geo := grid3.Geometry{H: 3, W: 3, Theta: 4, CellSize: 0.1, OriginX: -0.15, OriginY: -0.15, WorldLength: 0.3}
	cam := Project(geo, testIntrinsics(), 0.24, Point{X: 1, Y: 0, Z: 0.27})
	assert.Equal(t, 3*3*4, len(cam.U.Data()))
	assert.Equal(t, 3*3*4, len(cam.V.Data()))
}
