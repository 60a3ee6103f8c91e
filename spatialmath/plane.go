package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrDegeneratePlane is returned when the inputs of a plane constructor do not span a plane,
// e.g. a line and a direction that are colinear.
var ErrDegeneratePlane = errors.New("inputs do not define a unique plane")

// Plane is the infinite plane of points x with normal·x = d. The normal is a unit vector, so d is
// the signed distance of the plane from the origin.
type Plane struct {
	normal UnitVector
	d      float64
}

// NewPlane creates the plane normal·x = d. normal does not need to be unit length; d is rescaled
// along with it.
func NewPlane(normal r3.Vector, d float64) (Plane, error) {
	unit, err := NewUnitVector(normal)
	if err != nil {
		return Plane{}, errors.Wrap(err, "invalid plane normal")
	}
	return Plane{normal: unit, d: d / normal.Norm()}, nil
}

// NewPlaneFromOriginNormal creates the plane through origin perpendicular to normal. The zero
// UnitVector is rejected with ErrUndefinedDirection.
func NewPlaneFromOriginNormal(origin r3.Vector, normal UnitVector) (Plane, error) {
	if normal.IsZero() {
		return Plane{}, errors.Wrap(ErrUndefinedDirection, "plane normal")
	}
	return planeThrough(origin, normal), nil
}

// planeThrough is NewPlaneFromOriginNormal for normals known to be valid.
func planeThrough(origin r3.Vector, normal UnitVector) Plane {
	// (x - origin)·n = 0  <=>  x·n = origin·n
	return Plane{normal: normal, d: normal.Dot(origin)}
}

// NewPlaneFromLineDirection creates the plane containing line and parallel to dir.
func NewPlaneFromLineDirection(line Line, dir UnitVector) (Plane, error) {
	normal, err := NewUnitVector(line.direction.Vector().Cross(dir.Vector()))
	if err != nil {
		return Plane{}, errors.Wrapf(ErrDegeneratePlane, "direction %v is parallel to %v", dir.Vector(), line)
	}
	return planeThrough(line.origin, normal), nil
}

// NewPlaneFromLinePoint creates the plane containing line and p.
func NewPlaneFromLinePoint(line Line, p r3.Vector) (Plane, error) {
	normal, err := NewUnitVector(line.direction.Vector().Cross(p.Sub(line.origin)))
	if err != nil {
		return Plane{}, errors.Wrapf(ErrDegeneratePlane, "point %v lies on %v", p, line)
	}
	return planeThrough(line.origin, normal), nil
}

// NewPlaneFromPoints creates the plane through three points, with the normal following the right
// hand rule p0 -> p1 -> p2.
func NewPlaneFromPoints(p0, p1, p2 r3.Vector) (Plane, error) {
	normal, err := NewUnitVector(p1.Sub(p0).Cross(p2.Sub(p0)))
	if err != nil {
		return Plane{}, errors.Wrapf(ErrDegeneratePlane, "points %v, %v, %v are colinear", p0, p1, p2)
	}
	return planeThrough(p0, normal), nil
}

// Normal returns the unit normal of the plane.
func (p Plane) Normal() UnitVector {
	return p.normal
}

// D returns the signed distance of the plane from the origin along the normal.
func (p Plane) D() float64 {
	return p.d
}

// Anchor returns the point of the plane closest to the origin.
func (p Plane) Anchor() r3.Vector {
	return p.normal.Vector().Mul(p.d)
}

// SignedDistance returns how far pt is from the plane, positive on the side the normal points to.
func (p Plane) SignedDistance(pt r3.Vector) float64 {
	return p.normal.Dot(pt) - p.d
}

// Project returns the point of the plane closest to pt.
func (p Plane) Project(pt r3.Vector) r3.Vector {
	return pt.Sub(p.normal.Vector().Mul(p.SignedDistance(pt)))
}

// AlmostEqual reports whether the planes have the same normal and the same d. A plane and its
// flipped twin (-n, -d) cover the same points but are not equal; use Contains for that.
func (p Plane) AlmostEqual(other Plane, epsilon float64) bool {
	return p.normal.AlmostEqual(other.normal, epsilon) && math.Abs(p.d-other.d) < epsilon
}

// coincident reports whether the planes cover the same points, in either orientation.
func (p Plane) coincident(other Plane, epsilon float64) bool {
	return p.AlmostEqual(other, epsilon) || p.AlmostEqual(Plane{other.normal.Neg(), -other.d}, epsilon)
}

// Contains reports whether obj lies entirely in the plane.
func (p Plane) Contains(obj Object) bool {
	return p.ContainsWithTolerance(obj, DefaultEpsilon)
}

// ContainsWithTolerance is Contains with an explicit tolerance.
func (p Plane) ContainsWithTolerance(obj Object, epsilon float64) bool {
	if degenerate(p) || degenerate(obj) {
		return false
	}
	switch o := obj.(type) {
	case point:
		return math.Abs(p.SignedDistance(o.position)) < epsilon
	case Plane:
		return p.coincident(o, epsilon)
	case LineSegment:
		return math.Abs(p.SignedDistance(o.start)) < epsilon && math.Abs(p.SignedDistance(o.end)) < epsilon
	case linear:
		carrier, _, _ := o.support()
		return math.Abs(p.SignedDistance(carrier.origin)) < epsilon && math.Abs(p.normal.Dot(carrier.direction.Vector())) < epsilon
	default:
		return false
	}
}

// Transformed moves the plane by t.
func (p Plane) Transformed(t Transform) Plane {
	normal := UnitVector{t.Rotate(p.normal.Vector()).Normalize()}
	return planeThrough(t.Apply(p.Anchor()), normal)
}

func (p Plane) isObject() {}

func (p Plane) String() string {
	return fmt.Sprintf("Plane{normal: %v, d: %g}", p.normal.Vector(), p.d)
}
