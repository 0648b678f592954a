package tags

import (
	"gonum.org/v1/gonum/mat"
)

// Detection is one decoded tag in a single frame, as reported by the
// external detector library.
type Detection struct {
	ID      int           `json:"id"`
	Hamming int           `json:"hamming"` // bit mismatches against the nearest codeword
	Center  [2]float64    `json:"center"`  // pixel coordinates
	Corners [4][2]float64 `json:"corners"` // pixel coordinates, counter-clockwise
}

// Detector extracts tags from a grayscale image. Implementations wrap
// the external tag-decoding library; decoding itself is outside this
// repository.
type Detector interface {
	Detect(gray []byte, width, height int) ([]Detection, error)
}

// Intrinsics are the pinhole camera parameters used for relative pose
// recovery. Accurate values matter: pose quality is only as good as
// the calibration behind these numbers.
type Intrinsics struct {
	Fx float64 `json:"fx"` // focal length, pixels
	Fy float64 `json:"fy"`
	Px float64 `json:"px"` // principal point, pixels
	Py float64 `json:"py"`
}

// DefaultIntrinsics returns the nominal parameters for an uncalibrated
// camera: 600px focal length, principal point at the image center.
func DefaultIntrinsics(width, height int) Intrinsics {
	return Intrinsics{
		Fx: 600,
		Fy: 600,
		Px: float64(width) / 2,
		Py: float64(height) / 2,
	}
}

// PoseEstimator recovers the relative pose of a detected tag. The
// homography-based estimation lives in the external detector library;
// this interface is the seam the harness calls through.
type PoseEstimator interface {
	// EstimatePose returns the tag's translation in meters and its
	// rotation matrix in the camera frame. tagSize is the side length
	// of the square black frame in meters.
	EstimatePose(d Detection, in Intrinsics, tagSize float64) (translation [3]float64, rotation *mat.Dense, err error)
}
