// Package observation implements the detection likelihood of §4.3: a
// per-cell box likelihood per (detection, landmark) pair, marginalized
// over data association and over which subset of landmarks was
// detectable. Grounded on x/math/filter/ekalman's use of gonum for
// Gaussian computations, generalized from a single-measurement update to
// a grid-wide per-cell log-density.
package observation

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/itohio/posebayes/pkg/core/grid3"
	"github.com/itohio/posebayes/pkg/core/landmark"
)

// Sigma is the shared Gaussian standard deviation (pixels) for all four
// box parameters (§4.3).
const Sigma = 25.0

// ProbRandom is the "all detections are spurious" baseline probability
// when no landmark is currently detectable, confirmed against
// original_source/nav/nav.py's prob_dist_random = 0.05 * 0.01**4.
const ProbRandom = 5e-10

// Detection is a single 2D bounding-box observation from the external
// detector (§6).
type Detection struct {
	ClassID string
	Cx, Cy  float32
	W, H    float32
}

// BoxLikelihood computes the per-cell log-density of observing d as a
// noisy measurement of landmark j's predicted box, with d.Cx, d.Cy, d.W,
// d.H modeled as independent Gaussians of shared stddev Sigma around the
// predicted centre/width/height, normalized per-landmark by subtracting
// the log-sum-exp over the grid (§4.3's grid-normalization design
// choice). Returns a Grid3 of a proper per-cell probability (sums to 1
// over the grid), or nil if d.ClassID does not match the landmark (class
// gating).
func BoxLikelihood(pred landmark.Prediction, d Detection) *grid3.Grid3 {
	if d.ClassID != pred.Object.Label {
		return nil
	}
	geo := pred.Boxes.Width.Geometry
	out := grid3.New(geo)

	cu := pred.Boxes.Centre.U.Data()
	cv := pred.Boxes.Centre.V.Data()
	w := pred.Boxes.Width.Data()
	h := pred.Boxes.Height.Data()
	logp := out.Data()

	ncx := distuv.Normal{Mu: float64(d.Cx), Sigma: Sigma}
	ncy := distuv.Normal{Mu: float64(d.Cy), Sigma: Sigma}
	nw := distuv.Normal{Mu: float64(d.W), Sigma: Sigma}
	nh := distuv.Normal{Mu: float64(d.H), Sigma: Sigma}

	for i := range logp {
		logp[i] = float32(ncx.LogProb(float64(cu[i])) +
			ncy.LogProb(float64(cv[i])) +
			nw.LogProb(float64(w[i])) +
			nh.LogProb(float64(h[i])))
	}

	lse := logSumExp32(logp)
	prob := out.Data()
	for i := range prob {
		prob[i] = expClamped(prob[i] - lse)
	}
	return out
}

func logSumExp32(v []float32) float32 {
	f64 := make([]float64, len(v))
	for i, x := range v {
		f64[i] = float64(x)
	}
	return float32(floats.LogSumExp(f64))
}

func expClamped(x float32) float32 {
	if x < -80 {
		return 0
	}
	return math32.Exp(x)
}
