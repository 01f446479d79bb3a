// Package transport defines the wire-level message shapes the core
// filter consumes and produces (§6). These are plain data structs with no
// transport binding: per §1, the messaging layer that actually carries
// them (pub/sub, RPC, or otherwise) is an external collaborator out of
// scope for this module. Callers translate these into the core's
// observation.Detection, motion.Odometry and output types and back.
package transport

import "github.com/chewxy/math32"

// BBox is a detector bounding box in image-pixel units, centre+size form.
type BBox struct {
	Cx, Cy float32
	W, H   float32
}

// DetectionMessage is one entry of the detector's per-frame output (§6
// "Input: detection array").
type DetectionMessage struct {
	ClassID string
	BBox    BBox
}

// Quaternion is (x, y, z, w), used only to carry odometry orientation
// across the wire boundary.
type Quaternion struct {
	X, Y, Z, W float32
}

// Yaw extracts the yaw (rotation about the world z axis) from the
// quaternion via the standard atan2 formula (§6 "yaw extracted via
// standard quaternion-to-Euler"), the same formula
// x/math/vec/quaternion.go's Quaternion.Yaw uses, restated here for a
// raw (x,y,z,w) wire quaternion rather than the package's own vec type.
func (q Quaternion) Yaw() float32 {
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return math32.Atan2(siny, cosy)
}

// OdometryMessage is the wire form of an odometry sample (§6 "Input:
// odometry"); z is carried but ignored, matching the non-goal of 3D pose.
type OdometryMessage struct {
	X, Y, Z     float32
	Orientation Quaternion
}

// OccupancyGridMessage is the wire form of the published occupancy grid
// (§6 "Output: occupancy grid").
type OccupancyGridMessage struct {
	Cells      []int8
	Width      int
	Height     int
	Resolution float32
	OriginX    float32
	OriginY    float32
	Frame      string
}

// PoseMessage is the wire form of the published MLE pose (§6 "Output:
// stamped planar pose"): world-frame position plus a yaw-only
// orientation quaternion.
type PoseMessage struct {
	X, Y        float32
	Orientation Quaternion
}

// YawQuaternion builds a yaw-only orientation quaternion for publishing
// an MLE pose.
func YawQuaternion(yaw float32) Quaternion {
	return Quaternion{Z: math32.Sin(yaw / 2), W: math32.Cos(yaw / 2)}
}
