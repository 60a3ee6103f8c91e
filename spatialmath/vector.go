// Package spatialmath defines the 3D primitives used by camera models: unit vectors, rotations,
// rigid transforms, lines, rays, planes and line segments, along with containment and intersection.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/camgeom/utils"
)

// DefaultEpsilon is the tolerance used by the geometric predicates when none is given explicitly.
// Distances, dot products and cross product norms below it are treated as zero. It is absolute:
// a distance of 1e-9 means the same thing at every scale, so callers working with large
// coordinates should pass a larger tolerance to the *WithTolerance variants. The one exception is
// line-to-line intersection, where the tolerance for distances and parameters is multiplied by the
// norm of the coordinates involved (when that norm exceeds 1) to absorb rounding in the solve.
const DefaultEpsilon = 1e-9

// ErrUndefinedDirection is returned when a direction is requested from a zero-length or
// non-finite vector.
var ErrUndefinedDirection = errors.New("direction undefined")

// Point is a location in 3D space.
type Point = r3.Vector

// Vector is a displacement in 3D space.
type Vector = r3.Vector

// UnitVector is a direction in 3D space. Its norm is always 1; the only way to build one is by
// normalizing a vector with NewUnitVector.
type UnitVector struct {
	v r3.Vector
}

// Common axis directions.
var (
	XAxis = UnitVector{r3.Vector{X: 1}}
	YAxis = UnitVector{r3.Vector{Y: 1}}
	ZAxis = UnitVector{r3.Vector{Z: 1}}
)

// NewUnitVector normalizes v. It fails for vectors shorter than DefaultEpsilon and for vectors
// with NaN or infinite components.
func NewUnitVector(v r3.Vector) (UnitVector, error) {
	if !utils.IsFinite(v.X, v.Y, v.Z) {
		return UnitVector{}, errors.Wrapf(ErrUndefinedDirection, "non-finite vector %v", v)
	}
	norm := v.Norm()
	if norm < DefaultEpsilon {
		return UnitVector{}, errors.Wrapf(ErrUndefinedDirection, "vector %v is too short to normalize", v)
	}
	return UnitVector{v.Mul(1 / norm)}, nil
}

// Vector returns the direction as a plain vector of length 1.
func (u UnitVector) Vector() r3.Vector {
	return u.v
}

// Neg returns the opposite direction.
func (u UnitVector) Neg() UnitVector {
	return UnitVector{u.v.Mul(-1)}
}

// Dot returns the dot product of the direction with v.
func (u UnitVector) Dot(v r3.Vector) float64 {
	return u.v.Dot(v)
}

// IsZero reports whether u is the zero value, which is not a valid direction.
func (u UnitVector) IsZero() bool {
	return u.v == r3.Vector{}
}

// AlmostEqual reports whether two directions differ by less than epsilon componentwise.
func (u UnitVector) AlmostEqual(other UnitVector, epsilon float64) bool {
	return R3VectorAlmostEqual(u.v, other.v, epsilon)
}

// Parallel reports whether two directions are parallel or anti-parallel.
func (u UnitVector) Parallel(other UnitVector, epsilon float64) bool {
	return u.v.Cross(other.v).Norm() < epsilon
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}
