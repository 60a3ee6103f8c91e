package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Object is a geometric primitive that can take part in containment and intersection tests.
// It is implemented by Line, Ray, LineSegment, Plane and the value returned by NewPoint.
type Object interface {
	fmt.Stringer
	isObject()
}

// point wraps a location so it can be passed where an Object is expected.
type point struct {
	position r3.Vector
}

// NewPoint returns pt as an Object.
func NewPoint(pt r3.Vector) Object {
	return point{pt}
}

func (p point) isObject() {}

func (p point) String() string {
	return fmt.Sprintf("Point%v", p.position)
}

// degenerate reports whether obj lacks a direction: a zero Line, Ray or Plane, or a LineSegment
// whose endpoints coincide. Degenerate objects contain and intersect nothing.
func degenerate(obj Object) bool {
	switch o := obj.(type) {
	case Line:
		return o.direction.IsZero()
	case Ray:
		return o.direction.IsZero()
	case LineSegment:
		return o.start == o.end
	case Plane:
		return o.normal.IsZero()
	default:
		return false
	}
}

// linear is implemented by the objects that lie on a single carrier line: Line, Ray and
// LineSegment. support returns the carrier line and the closed parameter interval [lo, hi]
// of the object along it.
type linear interface {
	Object
	support() (carrier Line, lo, hi float64)
}

// linearContainsPoint reports whether p lies on the carrier of l within its parameter interval.
func linearContainsPoint(l linear, p r3.Vector, epsilon float64) bool {
	carrier, lo, hi := l.support()
	if carrier.DistanceToPoint(p) >= epsilon {
		return false
	}
	t := carrier.Parameter(p)
	return t >= lo-epsilon && t <= hi+epsilon
}

// projectInterval maps the parameter interval of other onto the carrier of base. The two carriers
// must be collinear.
func projectInterval(base Line, other linear) (float64, float64) {
	carrier, lo, hi := other.support()
	offset := base.Parameter(carrier.origin)
	sign := math.Copysign(1, base.direction.Dot(carrier.direction.Vector()))
	a, b := offset+sign*lo, offset+sign*hi
	return math.Min(a, b), math.Max(a, b)
}

// collinear reports whether the carriers of a and b are the same line.
func collinear(a, b linear, epsilon float64) bool {
	ca, _, _ := a.support()
	cb, _, _ := b.support()
	return ca.AlmostEqual(cb, epsilon)
}

// linearContainsLinear reports whether every point of inner lies on outer.
func linearContainsLinear(outer, inner linear, epsilon float64) bool {
	if !collinear(outer, inner, epsilon) {
		return false
	}
	carrier, lo, hi := outer.support()
	innerLo, innerHi := projectInterval(carrier, inner)
	return innerLo >= lo-epsilon && innerHi <= hi+epsilon
}

// linearContains is the shared Contains implementation of Line, Ray and LineSegment.
func linearContains(outer linear, obj Object, epsilon float64) bool {
	if degenerate(outer) || degenerate(obj) {
		return false
	}
	switch o := obj.(type) {
	case point:
		return linearContainsPoint(outer, o.position, epsilon)
	case linear:
		return linearContainsLinear(outer, o, epsilon)
	default:
		// an unbounded plane never fits on a line
		return false
	}
}
