// Package motion implements the odometry-driven belief update of §4.4: a
// cubic-spline shift-and-rotate of a small position kernel, convolved
// per-yaw-slice into the belief, followed by a fractional circular shift
// of the yaw axis. The cubic-spline formula is adapted from
// x/math/interpolation.CubicSpline1D (Paul Bourke's 1D cubic
// interpolation), generalized here to a 2D shift-then-rotate of an 11×11
// kernel and to the same-size cross-correlation x/math/tensor/eager_tensor
// already performs on flat backing slices.
package motion

import (
	"github.com/chewxy/math32"

	"github.com/itohio/posebayes/pkg/core/grid3"
)

// KernelSize is the odd size of the small position kernel shifted and
// rotated once per yaw slice (§4.4).
const KernelSize = 11

// PositionTolerance and YawTolerance are the "moving" thresholds of §4.4.
const (
	PositionTolerance = 1e-3
	YawTolerance      = 1e-3
)

// Odometry is a single odometry sample: planar position and yaw (§3).
type Odometry struct {
	X, Y, Yaw float32
}

// Delta is the odometry-derived motion between two consecutive samples.
type Delta struct {
	ForwardMetres float32
	Yaw           float32
	Moving        bool
}

// ComputeDelta derives Δforward, Δyaw and the moving predicate from two
// consecutive odometry samples (§4.4).
func ComputeDelta(prev, cur Odometry) Delta {
	dx := cur.X - prev.X
	dy := cur.Y - prev.Y
	dyaw := cur.Yaw - prev.Yaw

	forward := dx*math32.Cos(cur.Yaw) + dy*math32.Sin(cur.Yaw)
	dist := math32.Hypot(dx, dy)

	return Delta{
		ForwardMetres: forward,
		Yaw:           dyaw,
		Moving:        dist > PositionTolerance || math32.Abs(dyaw) > YawTolerance,
	}
}

// cubicSpline1D is Paul Bourke's uniform cubic spline through four
// samples, evaluated at t in [0,1] between p2 and p3.
func cubicSpline1D(p1, p2, p3, p4, t float32) float32 {
	mu2 := t * t
	a0 := p4 - p3 - p1 + p2
	a1 := p1 - p2 - a0
	a2 := p3 - p1
	a3 := p2
	return (a0*t+a1)*mu2 + a2*t + a3
}

// shiftKernel1D shifts an 11x11 kernel along axis 1 (body-forward) by
// shiftCells using cubic-spline interpolation, zero-filling outside the
// kernel's original support.
func shiftKernel1D(k []float32, size int, shiftCells float32) []float32 {
	out := make([]float32, size*size)
	// out[col] samples the input at col - shiftCells.
	base := math32.Floor(-shiftCells)
	frac := -shiftCells - base
	ibase := int(base)

	sample := func(row, col int) float32 {
		if col < 0 || col >= size {
			return 0
		}
		return k[row*size+col]
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			src := col + ibase
			p1 := sample(row, src-1)
			p2 := sample(row, src)
			p3 := sample(row, src+1)
			p4 := sample(row, src+2)
			out[row*size+col] = cubicSpline1D(p1, p2, p3, p4, frac)
		}
	}
	return out
}

// rotateKernel rotates an 11x11 kernel by angleRad about its centre,
// sampling the source kernel with separable cubic-spline interpolation
// along each axis and zero-filling outside the kernel.
func rotateKernel(k []float32, size int, angleRad float32) []float32 {
	out := make([]float32, size*size)
	c := float32(size-1) / 2
	cosA, sinA := math32.Cos(-angleRad), math32.Sin(-angleRad)

	sample := func(row, col float32) float32 {
		r0 := math32.Floor(row)
		c0 := math32.Floor(col)
		tr := row - r0
		tc := col - c0
		ir, ic := int(r0), int(c0)

		at := func(rr, cc int) float32 {
			if rr < 0 || rr >= size || cc < 0 || cc >= size {
				return 0
			}
			return k[rr*size+cc]
		}
		rows := make([]float32, 4)
		for i := -1; i <= 2; i++ {
			p1 := at(ir+i, ic-1)
			p2 := at(ir+i, ic)
			p3 := at(ir+i, ic+1)
			p4 := at(ir+i, ic+2)
			rows[i+1] = cubicSpline1D(p1, p2, p3, p4, tc)
		}
		return cubicSpline1D(rows[0], rows[1], rows[2], rows[3], tr)
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			dy := float32(row) - c
			dx := float32(col) - c
			srcY := c + dy*cosA - dx*sinA
			srcX := c + dy*sinA + dx*cosA
			out[row*size+col] = sample(srcY, srcX)
		}
	}
	return out
}

// Update applies the motion model of §4.4 to belief given the delta
// derived from consecutive odometry samples, returning the predicted
// belief. The caller is responsible for the moving/stationary branching
// of §4.5; Update always performs the full shift-rotate-convolve-and-yaw-
// shift pipeline.
func Update(belief *grid3.Grid3, d Delta) *grid3.Grid3 {
	geo := belief.Geometry
	out := grid3.New(geo)

	base := make([]float32, KernelSize*KernelSize)
	centre := KernelSize / 2
	base[centre*KernelSize+centre] = 1

	shiftCells := -d.ForwardMetres / geo.CellSize
	shifted := shiftKernel1D(base, KernelSize, shiftCells)

	const twoPi = 6.283185307179586
	for ith := 0; ith < geo.Theta; ith++ {
		kernel := shifted
		if shiftCells != 0 {
			// An unshifted kernel is a unit impulse at its centre, which a
			// rotation about that centre leaves unchanged; resampling it
			// at non-right angles would only spread it.
			angle := twoPi * float32(ith) / float32(geo.Theta)
			kernel = rotateKernel(shifted, KernelSize, angle)
		}
		out.SetSlice(ith, belief.Convolve2DSameSlice(ith, kernel, KernelSize))
	}

	yawShift := d.Yaw * float32(geo.Theta) / twoPi
	return out.ShiftYawCircular(yawShift, cubicSpline1D)
}
