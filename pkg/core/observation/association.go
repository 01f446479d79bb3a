package observation

import (
	"github.com/itohio/posebayes/pkg/core/grid3"
	"github.com/itohio/posebayes/pkg/core/landmark"
)

// Likelihood computes p(D | pose) for a frame's detections against the
// fixed landmark table, summing over every detectable-landmark subset
// (§4.3's "Subset marginal"). The result is an unnormalized per-cell
// likelihood grid with the same geometry as the landmark predictions.
func Likelihood(preds []landmark.Prediction, detections []Detection) *grid3.Grid3 {
	geo := preds[0].Boxes.Width.Geometry

	// Cache each (detection, landmark) box likelihood once per frame
	// (§9 "Lazy recursion") instead of recomputing it inside the
	// recursive association sum below.
	boxLL := make([][]*grid3.Grid3, len(preds))
	for j, p := range preds {
		boxLL[j] = make([]*grid3.Grid3, len(detections))
		for i, d := range detections {
			boxLL[j][i] = BoxLikelihood(p, d)
		}
	}

	out := grid3.New(geo)
	od := out.Data()

	n := len(preds)
	for mask := 0; mask < (1 << n); mask++ {
		subsetProb := subsetPriorAt(preds, mask)
		condGrid := assocMarginal(preds, boxLL, detections, mask, allIndices(len(detections)))
		if condGrid == nil {
			for i := range od {
				od[i] += subsetProb[i] * randomProb(len(detections))
			}
			continue
		}
		cd := condGrid.Data()
		for i := range od {
			od[i] += subsetProb[i] * cd[i]
		}
	}
	return out
}

func randomProb(nDetections int) float32 {
	p := float32(ProbRandom)
	out := float32(1)
	for i := 0; i < nDetections; i++ {
		out *= p
	}
	return out
}

// subsetPriorAt returns p(A|pose) per cell for the subset A named by mask
// (bit j set = landmark j ∈ A), per §4.3: product of detectability over
// members, times product of (1-detectability) over non-members.
func subsetPriorAt(preds []landmark.Prediction, mask int) []float32 {
	geo := preds[0].Boxes.Width.Geometry
	size := geo.H * geo.W * geo.Theta
	out := make([]float32, size)
	for i := range out {
		out[i] = 1
	}
	for j, p := range preds {
		d := p.Detectability.Data()
		in := mask&(1<<j) != 0
		for i := range out {
			if in {
				out[i] *= d[i]
			} else {
				out[i] *= 1 - d[i]
			}
		}
	}
	return out
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// assocMarginal computes p(D | A, pose) for the subset A named by mask,
// where D is restricted to the detections indexed by remaining. Returns
// nil to signal "use the random baseline" when A is empty.
//
// This fixes the source's `idx == False` comparison (an int loop index
// compared to a boolean, degenerate for every index but zero) by testing
// set membership with the obvious bitmask check.
func assocMarginal(preds []landmark.Prediction, boxLL [][]*grid3.Grid3, detections []Detection, mask int, remaining []int) *grid3.Grid3 {
	j := firstMember(mask, len(preds))
	if j < 0 {
		return nil
	}
	geo := preds[0].Boxes.Width.Geometry
	out := grid3.New(geo)
	if len(remaining) == 0 {
		// A detectable landmark with no detection left to explain it is
		// impossible: the assignment loop never runs and the
		// contribution is zero, matching probmessage_cond_a's
		// `world_x * 0.0` base case for a non-empty proposal list.
		return out
	}
	od := out.Data()
	restMask := mask &^ (1 << j)

	for pos, i := range remaining {
		rest := removeAt(remaining, pos)
		sub := assocMarginal(preds, boxLL, detections, restMask, rest)

		ll := boxLL[j][i]
		if ll == nil {
			continue
		}
		lld := ll.Data()

		if sub == nil {
			// No landmarks remain in A; the rest of the detections
			// fall back to the random baseline.
			scale := randomProb(len(rest)) / float32(len(remaining))
			for idx := range od {
				od[idx] += lld[idx] * scale
			}
			continue
		}
		subd := sub.Data()
		invN := 1 / float32(len(remaining))
		for idx := range od {
			od[idx] += lld[idx] * subd[idx] * invN
		}
	}
	return out
}

func firstMember(mask, n int) int {
	for j := 0; j < n; j++ {
		if mask&(1<<j) != 0 {
			return j
		}
	}
	return -1
}

func removeAt(s []int, pos int) []int {
	out := make([]int, 0, len(s)-1)
	out = append(out, s[:pos]...)
	out = append(out, s[pos+1:]...)
	return out
}
