// Package camera maps between pixels and camera rays. A Model composes a Projection (ray <-> pixel)
// with a Distorter (ideal ray <-> lens ray), and a Camera places a Model in the world.
package camera

import "github.com/pkg/errors"

var (
	// ErrInvalidIntrinsics is returned when focal lengths are zero or not finite.
	ErrInvalidIntrinsics = errors.New("camera intrinsic parameters are not valid")
	// ErrBehindCamera is returned when a point or ray is not in front of the camera (z <= 0).
	ErrBehindCamera = errors.New("point not in front of camera")
	// ErrOutsideFieldOfView is returned when a pixel maps to an angle the projection cannot represent.
	ErrOutsideFieldOfView = errors.New("outside of the field of view")
	// ErrInvalidPixel is returned for pixel coordinates that are negative, too large or not finite.
	ErrInvalidPixel = errors.New("invalid pixel coordinates")
	// ErrNoConvergence is returned when an iterative undistortion does not converge.
	ErrNoConvergence = errors.New("undistortion did not converge")
	// ErrInvalidDistortion is returned for unusable distortion parameters.
	ErrInvalidDistortion = errors.New("invalid distortion_parameters")
)

// NewInvalidIntrinsicsError is used when the intrinsics cannot be used for projection.
func NewInvalidIntrinsicsError(msg string) error {
	return errors.Wrap(ErrInvalidIntrinsics, msg)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(ErrInvalidDistortion, msg)
}
