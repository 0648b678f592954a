// Copyright (c) 2026 Aerolens Robotics
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package tags

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aerolens/tagtracker/internal/pose"
)

type mockDetector struct {
	id    int
	calls int
}

// NewMockDetector creates a detector that reports one synthetic tag
// orbiting the image center. Useful for running the full pipeline
// without the real detector library linked in.
func NewMockDetector(id int) Detector {
	return &mockDetector{id: id}
}

func (m *mockDetector) Detect(gray []byte, width, height int) ([]Detection, error) {
	m.calls++
	t := float64(m.calls) * 0.1

	cx := float64(width)/2 + float64(width)/4*math.Cos(t)
	cy := float64(height)/2 + float64(height)/4*math.Sin(t)
	half := float64(height) / 16

	d := Detection{
		ID:     m.id,
		Center: [2]float64{cx, cy},
		Corners: [4][2]float64{
			{cx - half, cy - half},
			{cx + half, cy - half},
			{cx + half, cy + half},
			{cx - half, cy + half},
		},
	}
	return []Detection{d}, nil
}

type mockPoseEstimator struct{}

// NewMockPoseEstimator returns an estimator that back-projects the
// detection center through the pinhole model at a fixed 1m depth and
// derives a gentle orientation from the image position. Deterministic
// and smooth, like the real thing on a slowly moving tag.
func NewMockPoseEstimator() PoseEstimator {
	return mockPoseEstimator{}
}

func (mockPoseEstimator) EstimatePose(d Detection, in Intrinsics, tagSize float64) ([3]float64, *mat.Dense, error) {
	const depth = 1.0
	x := (d.Center[0] - in.Px) * depth / in.Fx
	y := (d.Center[1] - in.Py) * depth / in.Fy

	// Tilt the tag a little toward the optical axis.
	yaw := math.Atan2(x, depth) / 4
	pitch := math.Atan2(y, depth) / 4
	r := pose.EulerToRotation(yaw, pitch, 0)

	return [3]float64{x, y, depth}, r, nil
}
