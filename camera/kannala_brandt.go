package camera

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/camgeom/utils"
)

// FisheyeDistortion is the Kannala-Brandt model of an equidistant lens. A point at radius r on the
// normalized image plane is at angle θ = atan(r) from the optical axis; the lens moves it to
//
//	θd = θ * (1 + k1*θ² + k2*θ⁴ + k3*θ⁶ + k4*θ⁸)
//
// and the point is scaled by θd / r, so the distorted radius is θd.
type FisheyeDistortion struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	K3 float64 `json:"k3"`
	K4 float64 `json:"k4"`
}

// Points closer to the optical axis than this are left in place.
const fisheyeDistortionMinRadius = 1e-12

// NewFisheyeDistortion takes in a slice of floats that will be passed into the struct in order:
// k1, k2, k3, k4. Missing trailing values are 0.
func NewFisheyeDistortion(inp []float64) (*FisheyeDistortion, error) {
	params, err := padParameters(inp, 4)
	if err != nil {
		return nil, err
	}
	fd := &FisheyeDistortion{params[0], params[1], params[2], params[3]}
	if err := fd.CheckValid(); err != nil {
		return nil, err
	}
	return fd, nil
}

// CheckValid checks if the fields for FisheyeDistortion have valid inputs.
func (fd *FisheyeDistortion) CheckValid() error {
	if fd == nil {
		return InvalidDistortionError("FisheyeDistortion shaped distortion_parameters not provided")
	}
	if !utils.IsFinite(fd.Parameters()...) {
		return InvalidDistortionError(fmt.Sprintf("FisheyeDistortion parameters must be finite, got %v", fd.Parameters()))
	}
	return nil
}

// ModelType returns the type of distortion model.
func (fd *FisheyeDistortion) ModelType() DistortionType {
	return KannalaBrandtDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (fd *FisheyeDistortion) Parameters() []float64 {
	if fd == nil {
		return []float64{}
	}
	return []float64{fd.K1, fd.K2, fd.K3, fd.K4}
}

func (fd *FisheyeDistortion) distortAngle(theta float64) float64 {
	t2 := theta * theta
	t4 := t2 * t2
	t6 := t4 * t2
	t8 := t4 * t4
	return theta * (1 + fd.K1*t2 + fd.K2*t4 + fd.K3*t6 + fd.K4*t8)
}

// Transform distorts a point on the normalized image plane.
func (fd *FisheyeDistortion) Transform(x, y float64) (float64, float64) {
	if fd == nil {
		return x, y
	}
	r := math.Hypot(x, y)
	if r < fisheyeDistortionMinRadius {
		return x, y
	}
	scale := fd.distortAngle(math.Atan(r)) / r
	return x * scale, y * scale
}

// Distort returns the ray the lens produces for an ideal ray in front of the camera.
func (fd *FisheyeDistortion) Distort(ray CameraRay) (CameraRay, error) {
	return onImagePlane(ray, fd.Transform)
}

// Undistort inverts Distort by solving θd(θ) = r for θ with Newton's method.
func (fd *FisheyeDistortion) Undistort(ray CameraRay) (CameraRay, error) {
	if !ray.InFront() {
		return CameraRay{}, errors.Wrapf(ErrBehindCamera, "ray %v", ray)
	}
	xd, yd := ray.X(), ray.Y()
	rd := math.Hypot(xd, yd)
	if rd < fisheyeDistortionMinRadius {
		return ray, nil
	}
	// the distorted radius is θd itself
	theta, err := fd.undistortAngle(rd)
	if err != nil {
		return CameraRay{}, errors.Wrapf(err, "FisheyeDistortion inverse at (%v, %v)", xd, yd)
	}
	if theta < 0 || theta >= math.Pi/2 {
		return CameraRay{}, errors.Wrapf(ErrOutsideFieldOfView, "undistorted angle %v", theta)
	}
	scale := math.Tan(theta) / rd
	return NewCameraRay(xd*scale, yd*scale)
}

func (fd *FisheyeDistortion) undistortAngle(thetaD float64) (float64, error) {
	return fd.newtonUndistortAngle(thetaD, inverseIterations)
}

func (fd *FisheyeDistortion) newtonUndistortAngle(thetaD float64, iterations int) (float64, error) {
	const tolerance = 1e-12

	theta := thetaD
	for i := 0; i < iterations; i++ {
		residual := fd.distortAngle(theta) - thetaD
		if math.Abs(residual) < tolerance {
			return theta, nil
		}
		t2 := theta * theta
		t4 := t2 * t2
		t6 := t4 * t2
		t8 := t4 * t4
		slope := 1 + 3*fd.K1*t2 + 5*fd.K2*t4 + 7*fd.K3*t6 + 9*fd.K4*t8
		if slope == 0 || !utils.IsFinite(slope) {
			break
		}
		theta -= residual / slope
	}
	if math.Abs(fd.distortAngle(theta)-thetaD) < tolerance {
		return theta, nil
	}
	return 0, ErrNoConvergence
}
