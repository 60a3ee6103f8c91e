package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Line is an infinite line through origin along direction.
type Line struct {
	origin    r3.Vector
	direction UnitVector
}

// NewLine creates the line through origin along direction. The zero UnitVector is rejected with
// ErrUndefinedDirection.
func NewLine(origin r3.Vector, direction UnitVector) (Line, error) {
	if direction.IsZero() {
		return Line{}, errors.Wrap(ErrUndefinedDirection, "line direction")
	}
	return Line{origin: origin, direction: direction}, nil
}

// NewLineFromPoints creates the line through a and b, directed from a to b.
func NewLineFromPoints(a, b r3.Vector) (Line, error) {
	dir, err := NewUnitVector(b.Sub(a))
	if err != nil {
		return Line{}, err
	}
	return Line{origin: a, direction: dir}, nil
}

// Origin returns the point the line is parameterized from.
func (l Line) Origin() r3.Vector {
	return l.origin
}

// Direction returns the direction of the line.
func (l Line) Direction() UnitVector {
	return l.direction
}

// At returns the point origin + t*direction.
func (l Line) At(t float64) r3.Vector {
	return l.origin.Add(l.direction.Vector().Mul(t))
}

// Parameter returns the t of the point on the line closest to p.
func (l Line) Parameter(p r3.Vector) float64 {
	return l.direction.Dot(p.Sub(l.origin))
}

// ClosestPoint returns the point on the line closest to p.
func (l Line) ClosestPoint(p r3.Vector) r3.Vector {
	return l.At(l.Parameter(p))
}

// DistanceToPoint returns the distance between p and the line.
func (l Line) DistanceToPoint(p r3.Vector) float64 {
	return p.Sub(l.origin).Cross(l.direction.Vector()).Norm()
}

// AlmostEqual reports whether two lines describe the same set of points, regardless of how they
// are parameterized: their directions are parallel and the offset between their origins is
// parallel to the direction.
func (l Line) AlmostEqual(other Line, epsilon float64) bool {
	return l.direction.Parallel(other.direction, epsilon) && l.DistanceToPoint(other.origin) < epsilon
}

// Contains reports whether obj lies entirely on the line.
func (l Line) Contains(obj Object) bool {
	return l.ContainsWithTolerance(obj, DefaultEpsilon)
}

// ContainsWithTolerance is Contains with an explicit tolerance.
func (l Line) ContainsWithTolerance(obj Object, epsilon float64) bool {
	return linearContains(l, obj, epsilon)
}

// Transformed moves the line by t.
func (l Line) Transformed(t Transform) Line {
	return Line{origin: t.Apply(l.origin), direction: UnitVector{t.Rotate(l.direction.Vector()).Normalize()}}
}

func (l Line) support() (Line, float64, float64) {
	return l, math.Inf(-1), math.Inf(1)
}

func (l Line) isObject() {}

func (l Line) String() string {
	return fmt.Sprintf("Line{origin: %v, direction: %v}", l.origin, l.direction.Vector())
}
