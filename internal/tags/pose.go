package tags

import (
	"math"

	"github.com/aerolens/tagtracker/internal/pose"
)

// TagPose is the per-detection payload published over MQTT and logged
// to the detection store. Angles are radians, translation is meters in
// the camera frame.
type TagPose struct {
	ID       int     `json:"id"`
	Hamming  int     `json:"hamming"`
	Distance float64 `json:"distance_m"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	Roll     float64 `json:"roll"`
	Seq      uint32  `json:"seq"`  // frame sequence number
	Time     string  `json:"time"` // RFC3339
}

// NewTagPose assembles the published pose from a detection, its
// estimated translation and its decomposed orientation.
func NewTagPose(d Detection, translation [3]float64, e pose.Euler) TagPose {
	x, y, z := translation[0], translation[1], translation[2]
	return TagPose{
		ID:       d.ID,
		Hamming:  d.Hamming,
		Distance: math.Sqrt(x*x + y*y + z*z),
		X:        x,
		Y:        y,
		Z:        z,
		Yaw:      e.Yaw,
		Pitch:    e.Pitch,
		Roll:     e.Roll,
	}
}
