package camera

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Pinhole is the perspective projection: a ray through (x, y, 1) lands on
//
//	u = fx*x + skew*y + cx
//	v = fy*y + cy
type Pinhole struct {
	intrinsics Intrinsics
}

// NewPinhole creates a pinhole projection, checking that the intrinsics can be inverted.
func NewPinhole(intrinsics Intrinsics) (*Pinhole, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	return &Pinhole{intrinsics}, nil
}

// NewPinholeFromResolutionFOV creates the pinhole projection of an image of width x height pixels
// with the given horizontal and vertical fields of view in radians. The principal point is the image
// center and there is no skew.
func NewPinholeFromResolutionFOV(width, height int, fovX, fovY float64) (*Pinhole, error) {
	if width <= 0 || height <= 0 {
		return nil, NewInvalidIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", width, height))
	}
	for _, fov := range []float64{fovX, fovY} {
		if !(fov > 0 && fov < math.Pi) {
			return nil, NewInvalidIntrinsicsError(fmt.Sprintf("field of view %v is outside (0, pi)", fov))
		}
	}
	return NewPinhole(Intrinsics{
		Fx: float64(width) / (2 * math.Tan(fovX/2)),
		Fy: float64(height) / (2 * math.Tan(fovY/2)),
		Cx: float64(width) / 2,
		Cy: float64(height) / 2,
	})
}

// ProjectionType returns the type of projection model.
func (p *Pinhole) ProjectionType() ProjectionType {
	return PinholeProjectionType
}

// CheckValid checks if the fields for Pinhole have valid inputs.
func (p *Pinhole) CheckValid() error {
	if p == nil {
		return NewInvalidIntrinsicsError("Pinhole intrinsics not provided")
	}
	return p.intrinsics.CheckValid()
}

// Intrinsics returns the linear parameters of the projection.
func (p *Pinhole) Intrinsics() Intrinsics {
	return p.intrinsics
}

// Project maps a ray to the pixel it lands on. Rays that are not in front of the camera never reach
// the image plane and return ErrBehindCamera.
func (p *Pinhole) Project(ray CameraRay) (PixelIndex, error) {
	if !ray.InFront() {
		return PixelIndex{}, errors.Wrapf(ErrBehindCamera, "ray %v", ray)
	}
	return p.intrinsics.toPixel(ray.X(), ray.Y()), nil
}

// Unproject returns the ray through px.
func (p *Pinhole) Unproject(px PixelIndex) (CameraRay, error) {
	if err := checkUnprojectable(p.intrinsics, px); err != nil {
		return CameraRay{}, err
	}
	return NewCameraRay(p.intrinsics.fromPixel(px))
}
