package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ray is the half-infinite line origin + t*direction for t >= 0.
type Ray struct {
	origin    r3.Vector
	direction UnitVector
}

// NewRay creates the ray starting at origin and extending along direction. The zero UnitVector is
// rejected with ErrUndefinedDirection.
func NewRay(origin r3.Vector, direction UnitVector) (Ray, error) {
	if direction.IsZero() {
		return Ray{}, errors.Wrap(ErrUndefinedDirection, "ray direction")
	}
	return Ray{origin: origin, direction: direction}, nil
}

// Origin returns the start of the ray.
func (r Ray) Origin() r3.Vector {
	return r.origin
}

// Direction returns the direction of the ray.
func (r Ray) Direction() UnitVector {
	return r.direction
}

// At returns origin + t*direction. Only t >= 0 lies on the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.origin.Add(r.direction.Vector().Mul(t))
}

// Line returns the infinite line the ray lies on.
func (r Ray) Line() Line {
	return Line{origin: r.origin, direction: r.direction}
}

// AlmostEqual reports whether two rays start at the same point and point the same way.
func (r Ray) AlmostEqual(other Ray, epsilon float64) bool {
	return R3VectorAlmostEqual(r.origin, other.origin, epsilon) && r.direction.AlmostEqual(other.direction, epsilon)
}

// Contains reports whether obj lies entirely on the ray.
func (r Ray) Contains(obj Object) bool {
	return r.ContainsWithTolerance(obj, DefaultEpsilon)
}

// ContainsWithTolerance is Contains with an explicit tolerance.
func (r Ray) ContainsWithTolerance(obj Object, epsilon float64) bool {
	return linearContains(r, obj, epsilon)
}

// Transformed moves the ray by t.
func (r Ray) Transformed(t Transform) Ray {
	l := r.Line().Transformed(t)
	return Ray(l)
}

func (r Ray) support() (Line, float64, float64) {
	return r.Line(), 0, math.Inf(1)
}

func (r Ray) isObject() {}

func (r Ray) String() string {
	return fmt.Sprintf("Ray{origin: %v, direction: %v}", r.origin, r.direction.Vector())
}
