package observation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/posebayes/pkg/core/geometry"
	"github.com/itohio/posebayes/pkg/core/grid3"
	"github.com/itohio/posebayes/pkg/core/landmark"
)

func testGeometry() grid3.Geometry {
	return grid3.Geometry{H: 11, W: 11, Theta: 8, CellSize: 3.0 / 11, OriginX: -1.5, OriginY: -1.5, WorldLength: 3.0}
}

func buildPrediction(t *testing.T, label string, cx, cy, cz float32) landmark.Prediction {
	t.Helper()
	geo := testGeometry()
	k := geometry.Intrinsics{Fx: 494, Fy: 294, Cx: 160, Cy: 120}
	obj := landmark.NewFacingX(label, geometry.Point{X: cx, Y: cy, Z: cz}, 0.11, 0.02, 0.52)
	return landmark.Build(geo, k, 0.24, obj)
}

func TestBoxLikelihoodClassGating(t *testing.T) {
	pred := buildPrediction(t, "dog", 1.5, 0, 0.27)
	out := BoxLikelihood(pred, Detection{ClassID: "cat", Cx: 160, Cy: 120, W: 10, H: 10})
	assert.Nil(t, out)
}

func TestBoxLikelihoodNormalizesToOne(t *testing.T) {
	pred := buildPrediction(t, "dog", 1.5, 0, 0.27)
	out := BoxLikelihood(pred, Detection{ClassID: "dog", Cx: 160, Cy: 120, W: 84, H: 104})
	require.NotNil(t, out)
	assert.InDelta(t, 1.0, out.Sum(), 1e-3)
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
	}
}

func TestLikelihoodEmptyDetectionsMatchesNotDetectedPrior(t *testing.T) {
	pred := buildPrediction(t, "dog", 1.5, 0, 0.27)
	out := Likelihood([]landmark.Prediction{pred}, nil)
	// With zero detections, a subset A containing the landmark has no
	// detection left to explain it and contributes 0 (probmessage_cond_a's
	// `world_x * 0.0` base case); only A = ∅ survives, so the result is
	// exactly ∏_j (1 - detectability_j).
	want := pred.Detectability.Clone()
	wd := want.Data()
	for i, d := range pred.Detectability.Data() {
		wd[i] = 1 - d
	}
	got := out.Data()
	for i := range got {
		assert.InDelta(t, wd[i], got[i], 1e-4)
	}
}

func TestLikelihoodSingleLandmarkMatchingDetection(t *testing.T) {
	pred := buildPrediction(t, "dog", 1.5, 0, 0.27)
	dets := []Detection{{ClassID: "dog", Cx: 160, Cy: 120, W: 84, H: 104}}
	out := Likelihood([]landmark.Prediction{pred}, dets)
	require.NotNil(t, out)
	for _, v := range out.Data() {
		assert.False(t, v < 0)
	}
}
