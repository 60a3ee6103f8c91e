package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/camgeom/spatialmath"
)

// Rays closer than this to the optical axis, in radians, are treated as lying on it. Their azimuth
// is undefined, so they map straight to the principal point.
const fisheyeAxisEpsilon = 1e-12

// Fisheye is the equidistant projection: the distance of a pixel from the principal point is
// proportional to the angle θ between its ray and the optical axis. For a ray with azimuth α,
//
//	(x, y) = (θ cos α, θ sin α)
//
// is mapped to pixels with the same linear intrinsics as Pinhole. Every direction up to θ = π is
// representable; at exactly π the azimuth, and so the pixel, is ambiguous.
type Fisheye struct {
	intrinsics Intrinsics
}

// NewFisheye creates a fisheye projection, checking that the intrinsics can be inverted.
func NewFisheye(intrinsics Intrinsics) (*Fisheye, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	return &Fisheye{intrinsics}, nil
}

// NewFisheyeFromResolutionFOV creates the fisheye projection of an image of width x height pixels
// whose edges are fovX/2 and fovY/2 radians off axis. Fields of view up to 2π are allowed.
func NewFisheyeFromResolutionFOV(width, height int, fovX, fovY float64) (*Fisheye, error) {
	if width <= 0 || height <= 0 {
		return nil, NewInvalidIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", width, height))
	}
	for _, fov := range []float64{fovX, fovY} {
		if !(fov > 0 && fov <= 2*math.Pi) {
			return nil, NewInvalidIntrinsicsError(fmt.Sprintf("field of view %v is outside (0, 2pi]", fov))
		}
	}
	return NewFisheye(Intrinsics{
		Fx: float64(width) / fovX,
		Fy: float64(height) / fovY,
		Cx: float64(width) / 2,
		Cy: float64(height) / 2,
	})
}

// ProjectionType returns the type of projection model.
func (f *Fisheye) ProjectionType() ProjectionType {
	return FisheyeProjectionType
}

// CheckValid checks if the fields for Fisheye have valid inputs.
func (f *Fisheye) CheckValid() error {
	if f == nil {
		return NewInvalidIntrinsicsError("Fisheye intrinsics not provided")
	}
	return f.intrinsics.CheckValid()
}

// Intrinsics returns the linear parameters of the projection.
func (f *Fisheye) Intrinsics() Intrinsics {
	return f.intrinsics
}

// Project maps a ray in any direction to its pixel.
func (f *Fisheye) Project(ray CameraRay) (PixelIndex, error) {
	d := ray.Direction()
	theta := math.Atan2(math.Hypot(d.X, d.Y), d.Z)
	if theta < fisheyeAxisEpsilon {
		return PixelIndex{U: f.intrinsics.Cx, V: f.intrinsics.Cy}, nil
	}
	alpha := math.Atan2(d.Y, d.X)
	return f.intrinsics.toPixel(math.Cos(alpha)*theta, math.Sin(alpha)*theta), nil
}

// Unproject returns the ray through px by rotating the optical axis by θ about z × d, the axis
// perpendicular to both the optical axis and the ray. Pixels further than π from the principal point
// return ErrOutsideFieldOfView.
func (f *Fisheye) Unproject(px PixelIndex) (CameraRay, error) {
	if err := checkUnprojectable(f.intrinsics, px); err != nil {
		return CameraRay{}, err
	}
	x, y := f.intrinsics.fromPixel(px)
	theta := math.Hypot(x, y)
	if theta < fisheyeAxisEpsilon {
		return OpticalAxis(), nil
	}
	if theta > math.Pi {
		return CameraRay{}, errors.Wrapf(ErrOutsideFieldOfView, "pixel %v is %.4f rad off axis", px, theta)
	}
	// z × (x, y, ·) lies in the image plane, perpendicular to (x, y)
	axis, err := spatialmath.NewUnitVector(r3.Vector{X: -y / theta, Y: x / theta})
	if err != nil {
		return CameraRay{}, err
	}
	dir := spatialmath.Rotate(spatialmath.NewR4AAFromAxis(theta, axis), spatialmath.ZAxis.Vector())
	return NewCameraRayFromDirection(dir)
}
