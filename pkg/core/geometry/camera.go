// Package geometry implements the pinhole camera projection of §4.1,
// evaluated vectorially over every cell of the pose grid. It is grounded
// on x/math/control/kinematics' robot-frame convention and
// x/math/grid/raycast.go's pattern of precomputing trig once per yaw index
// and reusing it across every cell of a projection, rather than
// recomputing sin/cos per cell.
package geometry

import (
	"github.com/chewxy/math32"

	"github.com/itohio/posebayes/pkg/core/grid3"
)

// Point is a 3D point in metres, world frame (z up).
type Point struct {
	X, Y, Z float32
}

// Intrinsics holds the fixed pinhole camera parameters (§3).
type Intrinsics struct {
	Fx, Fy float32
	Cx, Cy float32
}

// CameraPoint is a dense [H,W,Θ] pair of image-pixel coordinate arrays,
// one value per pose-grid cell.
type CameraPoint struct {
	U, V *grid3.Grid3
}

// trig caches cos(θ) and sin(θ) per yaw-grid index, computed once per
// Project call and reused across every cell of that projection, mirroring
// grid.RayDirections' precomputed cosAngles/sinAngles.
type trig struct {
	cos, sin []float32
}

func newTrig(geo grid3.Geometry) trig {
	cos := make([]float32, geo.Theta)
	sin := make([]float32, geo.Theta)
	for i := 0; i < geo.Theta; i++ {
		yaw := geo.Yaw(i)
		cos[i] = math32.Cos(yaw)
		sin[i] = math32.Sin(yaw)
	}
	return trig{cos: cos, sin: sin}
}

// Project computes CameraPoint(p) for every pose-grid cell: for a
// hypothesized robot pose (x, y, θ) at cell (iy, ix, ith), the image-space
// projection of the fixed world point p under the pinhole model of §4.1.
// robotZ is the known, fixed robot camera height.
func Project(geo grid3.Geometry, k Intrinsics, robotZ float32, p Point) CameraPoint {
	tr := newTrig(geo)
	u := grid3.New(geo)
	v := grid3.New(geo)
	ud, vd := u.Data(), v.Data()

	tz := p.Z - robotZ

	for iy := 0; iy < geo.H; iy++ {
		wy := geo.WorldY(iy)
		ty := p.Y - wy
		for ix := 0; ix < geo.W; ix++ {
			wx := geo.WorldX(ix)
			tx := p.X - wx
			base := (iy*geo.W + ix) * geo.Theta
			for ith := 0; ith < geo.Theta; ith++ {
				c, s := tr.cos[ith], tr.sin[ith]
				rx := s*ty + c*tx
				ry := c*ty - s*tx
				idx := base + ith
				ud[idx] = k.Cx + k.Fx*(-ry)/rx
				vd[idx] = k.Cy + k.Fy*(-tz)/rx
			}
		}
	}
	return CameraPoint{U: u, V: v}
}
