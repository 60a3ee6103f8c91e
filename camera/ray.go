package camera

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/pkg/errors"

	"go.viam.com/camgeom/spatialmath"
)

// RayAngleEpsilon is the largest angle between two rays that AlmostEqual still treats as equal.
const RayAngleEpsilon = s1.Angle(1e-9)

// CameraRay is a direction from the camera center in the camera's optical frame, where +z is the
// optical axis. It has unit length and carries no origin.
type CameraRay struct {
	dir r3.Vector
}

// OpticalAxis returns the ray along +z.
func OpticalAxis() CameraRay {
	return CameraRay{r3.Vector{Z: 1}}
}

// NewCameraRay returns the ray through (x, y, 1) on the normalized image plane.
func NewCameraRay(x, y float64) (CameraRay, error) {
	return NewCameraRayFromDirection(r3.Vector{X: x, Y: y, Z: 1})
}

// NewCameraRayFromPoint returns the ray from the camera center through p. p must be in front of the
// camera.
func NewCameraRayFromPoint(p r3.Vector) (CameraRay, error) {
	if !(p.Z > 0) {
		return CameraRay{}, errors.Wrapf(ErrBehindCamera, "point %v", p)
	}
	return NewCameraRayFromDirection(p)
}

// NewCameraRayFromDirection returns the ray along v. Unlike NewCameraRayFromPoint any non-zero
// direction is accepted, which wide fisheye lenses need.
func NewCameraRayFromDirection(v r3.Vector) (CameraRay, error) {
	u, err := spatialmath.NewUnitVector(v)
	if err != nil {
		return CameraRay{}, err
	}
	return CameraRay{u.Vector()}, nil
}

// Direction returns the unit direction of the ray.
func (r CameraRay) Direction() r3.Vector {
	if r.dir == (r3.Vector{}) {
		return r3.Vector{Z: 1}
	}
	return r.dir
}

// UnitVector returns the direction of the ray as a spatialmath.UnitVector.
func (r CameraRay) UnitVector() spatialmath.UnitVector {
	u, err := spatialmath.NewUnitVector(r.Direction())
	if err != nil {
		return spatialmath.ZAxis
	}
	return u
}

// InFront reports whether the ray points into the half space in front of the camera.
func (r CameraRay) InFront() bool {
	return r.Direction().Z > 0
}

// X returns x/z, the horizontal coordinate where the ray pierces the normalized image plane.
// Only meaningful when InFront is true.
func (r CameraRay) X() float64 {
	d := r.Direction()
	return d.X / d.Z
}

// Y returns y/z. Only meaningful when InFront is true.
func (r CameraRay) Y() float64 {
	d := r.Direction()
	return d.Y / d.Z
}

// Angle returns the angle between two rays.
func (r CameraRay) Angle(other CameraRay) s1.Angle {
	return r.Direction().Angle(other.Direction())
}

// AlmostEqual reports whether the rays are within RayAngleEpsilon of each other.
func (r CameraRay) AlmostEqual(other CameraRay) bool {
	return r.AlmostEqualWithTolerance(other, RayAngleEpsilon)
}

// AlmostEqualWithTolerance reports whether the rays are within tol of each other.
func (r CameraRay) AlmostEqualWithTolerance(other CameraRay, tol s1.Angle) bool {
	return r.Angle(other) <= tol
}

func (r CameraRay) String() string {
	d := r.Direction()
	return fmt.Sprintf("CameraRay{%.6f, %.6f, %.6f}", d.X, d.Y, d.Z)
}
