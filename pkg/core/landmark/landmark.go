// Package landmark builds per-landmark predictions (§4.2): for each known
// WorldObject, a predicted bounding box and detectability grid computed
// once at startup and shared read-only thereafter (§9 "Non-owning
// references").
package landmark

import (
	"github.com/chewxy/math32"

	"github.com/itohio/posebayes/pkg/core/geometry"
	"github.com/itohio/posebayes/pkg/core/grid3"
)

// WorldObject is a labeled vertical rectangular face: a centre point and
// four corners, in world coordinates.
type WorldObject struct {
	Label                                              string
	Centre, BottomLeft, BottomRight, TopLeft, TopRight geometry.Point
}

// NewFacingX builds a WorldObject whose face spans world Y at constant X
// (faces back along world -x), from a centre point and the face's
// half-width and bottom/top heights. This is the rectangle-from-centre
// construction original_source/nav/nav.py uses for its dog landmark,
// generalized to take the half-width and heights as parameters instead of
// hard-coding them.
func NewFacingX(label string, centre geometry.Point, halfWidth, bottomZ, topZ float32) WorldObject {
	return WorldObject{
		Label:       label,
		Centre:      centre,
		BottomLeft:  geometry.Point{X: centre.X, Y: centre.Y + halfWidth, Z: bottomZ},
		BottomRight: geometry.Point{X: centre.X, Y: centre.Y - halfWidth, Z: bottomZ},
		TopLeft:     geometry.Point{X: centre.X, Y: centre.Y + halfWidth, Z: topZ},
		TopRight:    geometry.Point{X: centre.X, Y: centre.Y - halfWidth, Z: topZ},
	}
}

// NewFacingY builds a WorldObject whose face spans world X at constant Y
// (faces along world +y), from a centre point and the face's half-width
// and bottom/top heights. This matches original_source/nav/nav.py's cat
// landmark, whose corners vary in X at a constant Y rather than the dog's
// Y-varying, X-constant face: the cat sits on the wall perpendicular to
// the dog's, not a second copy of the same facing.
func NewFacingY(label string, centre geometry.Point, halfWidth, bottomZ, topZ float32) WorldObject {
	return WorldObject{
		Label:       label,
		Centre:      centre,
		BottomLeft:  geometry.Point{X: centre.X + halfWidth, Y: centre.Y, Z: bottomZ},
		BottomRight: geometry.Point{X: centre.X - halfWidth, Y: centre.Y, Z: bottomZ},
		TopLeft:     geometry.Point{X: centre.X + halfWidth, Y: centre.Y, Z: topZ},
		TopRight:    geometry.Point{X: centre.X - halfWidth, Y: centre.Y, Z: topZ},
	}
}

// BoundingBoxGrid is the predicted per-cell detection box: three [H,W,Θ]
// arrays (centre.U, centre.V, width, height). Values are ill-defined for
// cells behind the camera; consumers must tolerate this (§4.3).
type BoundingBoxGrid struct {
	Centre        geometry.CameraPoint
	Width, Height *grid3.Grid3
}

// Prediction is the immutable per-landmark state computed once at startup:
// the predicted box plus the detectability score, both per pose-grid cell.
type Prediction struct {
	Object        WorldObject
	Boxes         BoundingBoxGrid
	Detectability *grid3.Grid3
}

// Build projects a WorldObject's five points through the camera model and
// derives the predicted bounding box and detectability grid (§4.2).
func Build(geo grid3.Geometry, k geometry.Intrinsics, robotZ float32, obj WorldObject) Prediction {
	centre := geometry.Project(geo, k, robotZ, obj.Centre)
	bl := geometry.Project(geo, k, robotZ, obj.BottomLeft)
	br := geometry.Project(geo, k, robotZ, obj.BottomRight)
	tl := geometry.Project(geo, k, robotZ, obj.TopLeft)
	tr := geometry.Project(geo, k, robotZ, obj.TopRight)

	width := grid3.New(geo)
	height := grid3.New(geo)
	wd, hd := width.Data(), height.Data()
	cu, cv := centre.U.Data(), centre.V.Data()
	blu, bru := bl.U.Data(), br.U.Data()
	tlu, tru := tl.U.Data(), tr.U.Data()
	tlv, trv := tl.V.Data(), tr.V.Data()
	blv, brv := bl.V.Data(), br.V.Data()

	detect := grid3.New(geo)
	dd := detect.Data()

	for i := range wd {
		left := (blu[i] + tlu[i]) / 2
		right := (bru[i] + tru[i]) / 2
		top := (tlv[i] + trv[i]) / 2
		bottom := (blv[i] + brv[i]) / 2

		w := right - left
		if w < 0 {
			w = 0
		}
		h := bottom - top
		if h < 0 {
			h = 0
		}
		wd[i] = w
		hd[i] = h

		dd[i] = detectability(cu[i]-k.Cx, cv[i]-k.Cy, w, h)
	}

	return Prediction{
		Object: obj,
		Boxes: BoundingBoxGrid{
			Centre: centre,
			Width:  width,
			Height: height,
		},
		Detectability: detect,
	}
}

// detectability computes the in-image fraction of the rectangle cx±w by
// cy±h (cx,cy relative to the principal point) against the image
// rectangle [-160,+160]x[-120,+120], mapped to [0.05,1.0] per §4.2. Build
// passes the predicted box's full width and height as w,h, so the tested
// rectangle is twice the predicted box in each dimension.
func detectability(cx, cy, w, h float32) float32 {
	cL := clamp(cx-w, -160, 160)
	cR := clamp(cx+w, -160, 160)
	cB := clamp(cy-h, -120, 120)
	cT := clamp(cy+h, -120, 120)

	clippedArea := (cR - cL) * (cT - cB)
	denom := w*h + clippedArea
	ratio := clippedArea / denom
	if math32.IsNaN(ratio) {
		ratio = 0
	}
	return 0.05 + 0.90*ratio
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
