package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Euler holds a decomposed orientation in radians, suitable for JSON
// and MQTT.
type Euler struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// StandardRad normalizes an angle to [-pi, pi). The two-branch form
// keeps math.Mod's sign-of-dividend behavior, which pins down the
// result at exact multiples of pi; callers rely on that at the
// boundary.
func StandardRad(t float64) float64 {
	if t >= 0 {
		return math.Mod(t+math.Pi, 2*math.Pi) - math.Pi
	}
	return math.Mod(t-math.Pi, -2*math.Pi) + math.Pi
}

// RotationToEuler decomposes a 3x3 rotation matrix into yaw, pitch and
// roll under the Z-Y-X convention. The matrix is assumed orthonormal
// with determinant +1; it is not validated, and NaN inputs simply
// propagate into the outputs.
func RotationToEuler(r mat.Matrix) Euler {
	yaw := StandardRad(math.Atan2(r.At(1, 0), r.At(0, 0)))
	c := math.Cos(yaw)
	s := math.Sin(yaw)
	pitch := StandardRad(math.Atan2(-r.At(2, 0), r.At(0, 0)*c+r.At(1, 0)*s))
	roll := StandardRad(math.Atan2(r.At(0, 2)*s-r.At(1, 2)*c, -r.At(0, 1)*s+r.At(1, 1)*c))
	return Euler{Yaw: yaw, Pitch: pitch, Roll: roll}
}

// EulerToRotation composes the Z-Y-X rotation matrix for the given
// angles, the inverse of RotationToEuler away from gimbal lock.
func EulerToRotation(yaw, pitch, roll float64) *mat.Dense {
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cr, sr := math.Cos(roll), math.Sin(roll)

	return mat.NewDense(3, 3, []float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	})
}

// cameraFix flips the camera y axis so that yaw/pitch/roll come out in
// the world frame the rest of the rig uses.
var cameraFix = mat.NewDense(3, 3, []float64{
	1, 0, 0,
	0, -1, 0,
	0, 0, 1,
})

// FixCameraRotation applies the fixed axis flip to a rotation obtained
// from the relative-pose estimator before Euler decomposition.
func FixCameraRotation(r mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(cameraFix, r)
	return &out
}
