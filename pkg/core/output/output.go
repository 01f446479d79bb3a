// Package output implements the output projection of §4.6: marginalizing
// the belief's yaw axis into a published occupancy grid, and extracting
// the maximum-likelihood pose.
package output

import (
	"github.com/chewxy/math32"

	"github.com/itohio/posebayes/pkg/core/grid3"
)

// OccupancyGrid is the published 2D map: row-major cells in [0,100], row 0
// = world-y-minimum, column 0 = world-x-minimum (§6), with resolution and
// origin metadata.
type OccupancyGrid struct {
	H, W       int
	Cells      []int8
	Resolution float32
	OriginX    float32
	OriginY    float32
}

// smoothKernel is the literal 3x3 all-ones smoothing kernel of the
// original implementation (not a Gaussian blur), confirmed against
// original_source/nav/nav.py's torch.ones([1,1,3,3]) convolution.
var smoothKernel = []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}

// Occupancy marginalizes yaw, smooths with the 3x3 kernel, normalizes by
// the max and scales to [0,100], then flips vertically so the published
// row 0 is world-y-minimum (the belief's own row 0 is world-y-maximum,
// §3) (§4.6).
func Occupancy(belief *grid3.Grid3) OccupancyGrid {
	geo := belief.Geometry
	marg := belief.MarginalizeYaw()
	smoothed := convolve2D(marg, geo.H, geo.W, smoothKernel, 3)

	max := float32(0)
	for _, v := range smoothed {
		if v > max {
			max = v
		}
	}

	cells := make([]int8, geo.H*geo.W)
	for iy := 0; iy < geo.H; iy++ {
		srcRow := geo.H - 1 - iy // vertical flip
		for ix := 0; ix < geo.W; ix++ {
			v := float32(0)
			if max > 0 {
				v = smoothed[srcRow*geo.W+ix] / max * 100
			}
			cells[iy*geo.W+ix] = int8(math32.Round(v))
		}
	}

	return OccupancyGrid{
		H:          geo.H,
		W:          geo.W,
		Cells:      cells,
		Resolution: geo.CellSize,
		OriginX:    geo.OriginX,
		OriginY:    geo.OriginY,
	}
}

func convolve2D(src []float32, h, w int, kernel []float32, kSize int) []float32 {
	out := make([]float32, h*w)
	half := kSize / 2
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			var acc float32
			for ky := 0; ky < kSize; ky++ {
				sy := iy + ky - half
				if sy < 0 || sy >= h {
					continue
				}
				for kx := 0; kx < kSize; kx++ {
					sx := ix + kx - half
					if sx < 0 || sx >= w {
						continue
					}
					acc += src[sy*w+sx] * kernel[ky*kSize+kx]
				}
			}
			out[iy*w+ix] = acc
		}
	}
	return out
}

// Pose is a planar world pose: position and yaw.
type Pose struct {
	X, Y, Yaw float32
}

// MLEPose finds the grid cell maximizing the yaw-marginalized belief
// (first cell in row-major order on ties, matching the original's
// nonzero()[0]), then the yaw index maximizing that cell's yaw slice, and
// converts both to a world pose (§4.6).
func MLEPose(belief *grid3.Grid3) Pose {
	geo := belief.Geometry
	marg := belief.MarginalizeYaw()
	iy, ix, _ := grid3.ArgMax2D(marg, geo.H, geo.W)
	ith, _ := belief.ArgMaxYawAt(iy, ix)

	return Pose{
		X:   geo.WorldX(ix),
		Y:   geo.WorldY(iy),
		Yaw: geo.Yaw(ith),
	}
}
