// Package grid3 implements the dense [H,W,Θ] tensor value type shared by
// every stage of the pose filter: the belief itself, per-landmark
// predictions, and per-frame observation likelihoods are all Grid3 values.
//
// Storage is a single *tensor.Dense of float32, row-major over (y, x, yaw),
// matching x/math/tensor/gorgonia's use of gorgonia.org/tensor as the
// concrete backing for a dense array abstraction. All pointwise math
// operates on the flat backing slice rather than through per-cell At/Set,
// which is the convention x/math/tensor/eager_tensor uses for the same
// reason: per-cell dynamic dispatch over a 1.3M-element array is wasteful.
package grid3

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Geometry describes the fixed pose-grid layout shared by every Grid3 in
// the process: dimensions, cell size and world origin. It is immutable for
// the process lifetime (§3 invariants).
type Geometry struct {
	H, W, Theta int
	CellSize    float32
	OriginX     float32
	OriginY     float32
	WorldLength float32
}

// Grid3 is a dense [H,W,Θ] array of float32, axis 0 = y (row 0 = max
// world-y), axis 1 = x (col 0 = min world-x), axis 2 = yaw (index 0 = 0
// rad, increasing counterclockwise).
type Grid3 struct {
	Geometry
	t *tensor.Dense
}

// New allocates a zero-filled Grid3 with the given geometry. Panics if any
// dimension is non-positive or CellSize is non-positive: these are
// construction-time invariant violations, not recoverable runtime errors.
func New(g Geometry) *Grid3 {
	if g.H <= 0 || g.W <= 0 || g.Theta <= 0 {
		panic(fmt.Sprintf("grid3.New: non-positive dimension H=%d W=%d Theta=%d", g.H, g.W, g.Theta))
	}
	if g.CellSize <= 0 {
		panic(fmt.Sprintf("grid3.New: non-positive cell size %f", g.CellSize))
	}
	return &Grid3{
		Geometry: g,
		t:        tensor.New(tensor.WithShape(g.H, g.W, g.Theta), tensor.Of(tensor.Float32)),
	}
}

// Data returns the flat backing slice in row-major (y, x, yaw) order.
func (g *Grid3) Data() []float32 {
	return g.t.Data().([]float32)
}

// Index returns the flat offset of cell (iy, ix, ith).
func (g *Grid3) Index(iy, ix, ith int) int {
	return (iy*g.W+ix)*g.Theta + ith
}

// At returns the value at cell (iy, ix, ith).
func (g *Grid3) At(iy, ix, ith int) float32 {
	return g.Data()[g.Index(iy, ix, ith)]
}

// Set writes the value at cell (iy, ix, ith).
func (g *Grid3) Set(iy, ix, ith int, v float32) {
	g.Data()[g.Index(iy, ix, ith)] = v
}

// Clone returns an independent copy sharing no backing storage.
func (g *Grid3) Clone() *Grid3 {
	out := New(g.Geometry)
	copy(out.Data(), g.Data())
	return out
}

// Fill sets every cell to v.
func (g *Grid3) Fill(v float32) {
	data := g.Data()
	for i := range data {
		data[i] = v
	}
}

// WorldX converts a column index to a world x coordinate, per §4.6:
// world_x = origin_x + ix * cell_size.
func (g Geometry) WorldX(ix int) float32 {
	return g.OriginX + float32(ix)*g.CellSize
}

// WorldY converts a row index to a world y coordinate, accounting for the
// axis-0-decreasing-y convention (row 0 is max world-y), per §4.6:
// world_y = origin_y + world_grid_length - iy * cell_size.
func (g Geometry) WorldY(iy int) float32 {
	return g.OriginY + g.WorldLength - float32(iy)*g.CellSize
}

// Yaw converts a yaw-axis index to radians in [0, 2π).
func (g Geometry) Yaw(ith int) float32 {
	const twoPi = 6.283185307179586
	return twoPi * float32(ith) / float32(g.Theta)
}
