// Package posefilter holds the belief and runs the event-loop state
// machine of §4.5: motion prediction and observation fusion, composed on
// each odometry tick. Modeled as a Filter value explicitly owned and
// mutated by one caller (§9 "Global process state" — the source exposes
// this as module-level mutable state; here a single Filter value is
// threaded through the event-loop adapter instead), following the shape
// of x/math/filter/slam.Filter (explicit Reset/Update rather than global
// state) without adopting its generic Filter interface, since this
// filter's inputs (odometry ticks, lazily-latest detections) don't fit
// that interface's single Update(timestep) shape.
package posefilter

import (
	"github.com/itohio/posebayes/pkg/core/grid3"
	"github.com/itohio/posebayes/pkg/core/landmark"
	"github.com/itohio/posebayes/pkg/core/motion"
	"github.com/itohio/posebayes/pkg/core/observation"
	"github.com/itohio/posebayes/pkg/logger"
)

// Mode is the filter's fusion state (§4.5).
type Mode int

const (
	// Fresh means no observation has been fused since the robot last
	// moved (or since initialization).
	Fresh Mode = iota
	// Aligned means an observation has already been fused during the
	// current stationary episode; further stationary ticks are no-ops
	// (§9 "Aligned state").
	Aligned
)

// Filter holds the belief and the bookkeeping needed to run the §4.5
// state machine. Zero value is not usable; construct with New.
type Filter struct {
	geo        grid3.Geometry
	landmarks  []landmark.Prediction
	belief     *grid3.Grid3
	lastOdom   *motion.Odometry
	lastDetect []observation.Detection
	haveDetect bool
	mode       Mode
}

// New constructs a Filter with a uniform belief over geo. Panics if
// landmarks is empty: an empty landmark table is a construction-time
// invariant violation (§3), not a recoverable runtime condition.
func New(geo grid3.Geometry, landmarks []landmark.Prediction) *Filter {
	if len(landmarks) == 0 {
		panic("posefilter.New: empty landmark table")
	}
	belief := grid3.New(geo)
	belief.Fill(1 / float32(geo.H*geo.W*geo.Theta))
	return &Filter{
		geo:       geo,
		landmarks: landmarks,
		belief:    belief,
		mode:      Fresh,
	}
}

// Belief returns the current posterior. Callers must not mutate it.
func (f *Filter) Belief() *grid3.Grid3 {
	return f.belief
}

// OnDetections records the most recently received detection list,
// consumed lazily at the next odometry tick (§5 "stale-but-latest
// semantics").
func (f *Filter) OnDetections(d []observation.Detection) {
	f.lastDetect = d
	f.haveDetect = true
}

// OnOdometry advances the filter by one odometry sample, implementing the
// state machine of §4.5. Returns false if the tick was ignored (no
// detections received yet — §7 "Missing prerequisite").
func (f *Filter) OnOdometry(cur motion.Odometry) bool {
	if !f.haveDetect {
		return false
	}

	prior := f.belief
	obsLikelihood := observation.Likelihood(f.landmarks, f.lastDetect)

	if f.lastOdom == nil {
		f.belief = obsLikelihood
		odom := cur
		f.lastOdom = &odom
		f.finish(prior)
		return true
	}

	delta := motion.ComputeDelta(*f.lastOdom, cur)
	motLikelihood := motion.Update(f.belief, delta)
	odom := cur
	f.lastOdom = &odom

	switch {
	case delta.Moving:
		f.belief = motLikelihood
		f.mode = Fresh
	case f.mode == Fresh:
		f.belief = grid3.Mul(motLikelihood, obsLikelihood)
		f.mode = Aligned
	default:
		// Aligned and not moving: the filter fuses an observation at
		// most once per stationary episode.
	}

	f.finish(prior)
	return true
}

// finish applies the clamp+renormalize step common to every branch of
// §4.5 step 8. If renormalization would divide by zero, the update is
// skipped and prior is retained (§7 "Numerical underflow").
func (f *Filter) finish(prior *grid3.Grid3) {
	f.belief.ClampNonNegative()
	if !f.belief.Normalize() {
		logger.Log.Warn().Msg("posefilter: zero-sum belief after update, retaining prior")
		f.belief = prior
	}
}
