package grid3

import "github.com/chewxy/math32"

// Sum returns the sum of every cell.
func (g *Grid3) Sum() float32 {
	var s float32
	for _, v := range g.Data() {
		s += v
	}
	return s
}

// ClampNonNegative zeroes every negative or non-finite cell in place.
func (g *Grid3) ClampNonNegative() {
	data := g.Data()
	for i, v := range data {
		if v < 0 || math32.IsNaN(v) || math32.IsInf(v, 0) {
			data[i] = 0
		}
	}
}

// Normalize divides every cell by the grid sum in place. Returns false
// without modifying the grid if the sum is zero (§7: the caller must
// retain the prior belief rather than divide by zero).
func (g *Grid3) Normalize() bool {
	s := g.Sum()
	if s == 0 {
		return false
	}
	inv := 1 / s
	data := g.Data()
	for i := range data {
		data[i] *= inv
	}
	return true
}

// MulInPlace multiplies g by other, cell by cell. Panics if shapes differ:
// mismatched grids are a construction bug, not a runtime condition.
func (g *Grid3) MulInPlace(other *Grid3) {
	g.requireSameShape(other)
	a, b := g.Data(), other.Data()
	for i := range a {
		a[i] *= b[i]
	}
}

// Mul returns a new grid holding the cellwise product of a and b.
func Mul(a, b *Grid3) *Grid3 {
	a.requireSameShape(b)
	out := New(a.Geometry)
	od, ad, bd := out.Data(), a.Data(), b.Data()
	for i := range od {
		od[i] = ad[i] * bd[i]
	}
	return out
}

// AddInPlace adds other into g, cell by cell.
func (g *Grid3) AddInPlace(other *Grid3) {
	g.requireSameShape(other)
	a, b := g.Data(), other.Data()
	for i := range a {
		a[i] += b[i]
	}
}

// ScaleInPlace multiplies every cell by s.
func (g *Grid3) ScaleInPlace(s float32) {
	data := g.Data()
	for i := range data {
		data[i] *= s
	}
}

func (g *Grid3) requireSameShape(other *Grid3) {
	if g.H != other.H || g.W != other.W || g.Theta != other.Theta {
		panic("grid3: shape mismatch")
	}
}

// MarginalizeYaw sums over the yaw axis, returning an H×W array in
// row-major (y, x) order, used by the occupancy-grid output projection
// and the MLE pose extraction (§4.6).
func (g *Grid3) MarginalizeYaw() []float32 {
	out := make([]float32, g.H*g.W)
	data := g.Data()
	for iy := 0; iy < g.H; iy++ {
		for ix := 0; ix < g.W; ix++ {
			base := (iy*g.W + ix) * g.Theta
			var s float32
			for ith := 0; ith < g.Theta; ith++ {
				s += data[base+ith]
			}
			out[iy*g.W+ix] = s
		}
	}
	return out
}

// ArgMax2D returns the row-major-first (iy, ix) achieving the maximum of a
// marginalized H×W array, matching the original's `nonzero()[0]`
// first-max tie-break.
func ArgMax2D(m []float32, h, w int) (iy, ix int, max float32) {
	max = math32.Inf(-1)
	for i, v := range m {
		if v > max {
			max = v
			iy, ix = i/w, i%w
		}
	}
	return
}

// ArgMaxYawAt returns the yaw index maximizing g[iy, ix, :], first-max
// tie-break.
func (g *Grid3) ArgMaxYawAt(iy, ix int) (ith int, max float32) {
	max = math32.Inf(-1)
	data := g.Data()
	base := (iy*g.W + ix) * g.Theta
	for t := 0; t < g.Theta; t++ {
		if v := data[base+t]; v > max {
			max = v
			ith = t
		}
	}
	return
}

// Convolve2DSameSlice cross-correlates (no kernel flip, matching
// torch.nn.functional.conv2d) the yaw slice g[:,:,ith] with an odd-sized
// square kernel, same-size output, zero padding outside the slice.
func (g *Grid3) Convolve2DSameSlice(ith int, kernel []float32, kSize int) []float32 {
	out := make([]float32, g.H*g.W)
	half := kSize / 2
	data := g.Data()
	for iy := 0; iy < g.H; iy++ {
		for ix := 0; ix < g.W; ix++ {
			var acc float32
			for ky := 0; ky < kSize; ky++ {
				sy := iy + ky - half
				if sy < 0 || sy >= g.H {
					continue
				}
				for kx := 0; kx < kSize; kx++ {
					sx := ix + kx - half
					if sx < 0 || sx >= g.W {
						continue
					}
					acc += data[(sy*g.W+sx)*g.Theta+ith] * kernel[ky*kSize+kx]
				}
			}
			out[iy*g.W+ix] = acc
		}
	}
	return out
}

// SetSlice overwrites the yaw slice ith with a flat H*W array.
func (g *Grid3) SetSlice(ith int, slice []float32) {
	data := g.Data()
	for iy := 0; iy < g.H; iy++ {
		for ix := 0; ix < g.W; ix++ {
			data[(iy*g.W+ix)*g.Theta+ith] = slice[iy*g.W+ix]
		}
	}
}

// ShiftYawCircular fractionally shifts the grid along the yaw axis with
// wrap-around, using cubic interpolation between the four neighbouring
// integer yaw samples (matching scipy.ndimage.shift(mode='wrap')). shift
// is in units of cells; positive shift moves content toward increasing
// yaw index.
func (g *Grid3) ShiftYawCircular(shift float32, cubic func(p1, p2, p3, p4, t float32) float32) *Grid3 {
	out := New(g.Geometry)
	data, odata := g.Data(), out.Data()
	th := g.Theta
	mod := func(i int) int {
		i %= th
		if i < 0 {
			i += th
		}
		return i
	}
	// out[ith] samples the input at ith - shift.
	base := math32.Floor(-shift)
	frac := -shift - base
	ibase := int(base)
	for iy := 0; iy < g.H; iy++ {
		for ix := 0; ix < g.W; ix++ {
			cellBase := (iy*g.W + ix) * th
			for ith := 0; ith < th; ith++ {
				src := ith + ibase
				p1 := data[cellBase+mod(src-1)]
				p2 := data[cellBase+mod(src)]
				p3 := data[cellBase+mod(src+1)]
				p4 := data[cellBase+mod(src+2)]
				odata[cellBase+ith] = cubic(p1, p2, p3, p4, frac)
			}
		}
	}
	return out
}
