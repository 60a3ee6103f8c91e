package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// IntersectionKind tells which shape an Intersection holds.
type IntersectionKind int

// The shapes an intersection can take. Whole-object results, such as a line lying in a plane,
// use the kind of that object.
const (
	IntersectionPoint IntersectionKind = iota
	IntersectionLine
	IntersectionRay
	IntersectionLineSegment
	IntersectionPlane
)

func (k IntersectionKind) String() string {
	switch k {
	case IntersectionPoint:
		return "point"
	case IntersectionLine:
		return "line"
	case IntersectionRay:
		return "ray"
	case IntersectionLineSegment:
		return "line segment"
	case IntersectionPlane:
		return "plane"
	}
	return fmt.Sprintf("IntersectionKind(%d)", int(k))
}

// Intersection is the result of intersecting two objects. It is only produced by Intersect.
type Intersection struct {
	kind   IntersectionKind
	object Object
}

func newIntersection(obj Object) Intersection {
	switch obj.(type) {
	case Line:
		return Intersection{IntersectionLine, obj}
	case Ray:
		return Intersection{IntersectionRay, obj}
	case LineSegment:
		return Intersection{IntersectionLineSegment, obj}
	case Plane:
		return Intersection{IntersectionPlane, obj}
	default:
		return Intersection{IntersectionPoint, obj}
	}
}

func pointIntersection(p r3.Vector) Intersection {
	return Intersection{IntersectionPoint, point{p}}
}

// Kind returns the shape of the intersection.
func (i Intersection) Kind() IntersectionKind {
	return i.kind
}

// Object returns the intersection as an Object.
func (i Intersection) Object() Object {
	return i.object
}

// Point returns the intersection point if the intersection is a single point.
func (i Intersection) Point() (r3.Vector, bool) {
	p, ok := i.object.(point)
	return p.position, ok
}

// Line returns the intersection if it is a whole line.
func (i Intersection) Line() (Line, bool) {
	l, ok := i.object.(Line)
	return l, ok
}

// Ray returns the intersection if it is a ray.
func (i Intersection) Ray() (Ray, bool) {
	r, ok := i.object.(Ray)
	return r, ok
}

// LineSegment returns the intersection if it is a line segment.
func (i Intersection) LineSegment() (LineSegment, bool) {
	s, ok := i.object.(LineSegment)
	return s, ok
}

// Plane returns the intersection if it is a whole plane.
func (i Intersection) Plane() (Plane, bool) {
	p, ok := i.object.(Plane)
	return p, ok
}

func (i Intersection) String() string {
	return fmt.Sprintf("Intersection{%v: %v}", i.kind, i.object)
}

// Intersect returns the set of points shared by a and b, and false if there are none.
func Intersect(a, b Object) (Intersection, bool) {
	return IntersectWithTolerance(a, b, DefaultEpsilon)
}

// IntersectWithTolerance is Intersect with an explicit tolerance. Parallel and coincident inputs
// are resolved by case analysis: they produce either a whole-object intersection or none.
func IntersectWithTolerance(a, b Object, epsilon float64) (Intersection, bool) {
	if degenerate(a) || degenerate(b) {
		return Intersection{}, false
	}
	// points first, so the remaining cases only see lines, rays, segments and planes
	if p, ok := a.(point); ok {
		return intersectPoint(p, b, epsilon)
	}
	if p, ok := b.(point); ok {
		return intersectPoint(p, a, epsilon)
	}
	switch a := a.(type) {
	case Plane:
		switch b := b.(type) {
		case Plane:
			return intersectPlanes(a, b, epsilon)
		case linear:
			return intersectLinearPlane(b, a, epsilon)
		}
	case linear:
		switch b := b.(type) {
		case Plane:
			return intersectLinearPlane(a, b, epsilon)
		case linear:
			return intersectLinear(a, b, epsilon)
		}
	}
	return Intersection{}, false
}

func intersectPoint(p point, other Object, epsilon float64) (Intersection, bool) {
	var contained bool
	switch o := other.(type) {
	case point:
		contained = R3VectorAlmostEqual(p.position, o.position, epsilon)
	case Plane:
		contained = o.ContainsWithTolerance(p, epsilon)
	case linear:
		contained = linearContainsPoint(o, p.position, epsilon)
	}
	if !contained {
		return Intersection{}, false
	}
	return pointIntersection(p.position), true
}

// intersectLinearPlane intersects a line, ray or segment with a plane.
//
// With P(t) = O + t*D on the carrier and (P - A)·N = 0 on the plane (A its anchor):
// t = (A - O)·N / (D·N).
func intersectLinearPlane(l linear, plane Plane, epsilon float64) (Intersection, bool) {
	carrier, lo, hi := l.support()
	dn := plane.normal.Dot(carrier.direction.Vector())
	don := plane.Anchor().Sub(carrier.origin).Dot(plane.normal.Vector())

	if math.Abs(dn) < epsilon {
		// parallel: either the whole object lies in the plane or nothing does
		if math.Abs(don) < epsilon {
			return newIntersection(l), true
		}
		return Intersection{}, false
	}
	if math.Abs(don) < epsilon {
		// the origin is on the plane
		return pointIntersection(carrier.origin), true
	}
	t := don / dn
	if t < lo-epsilon || t > hi+epsilon {
		return Intersection{}, false
	}
	return pointIntersection(carrier.At(t)), true
}

// intersectPlanes returns the line shared by two planes, the plane itself when they coincide,
// or nothing when they are parallel.
func intersectPlanes(a, b Plane, epsilon float64) (Intersection, bool) {
	n1, n2 := a.normal.Vector(), b.normal.Vector()
	cross := n1.Cross(n2)
	if cross.Norm() < epsilon {
		if a.coincident(b, epsilon) {
			return newIntersection(a), true
		}
		return Intersection{}, false
	}
	// the point of the line closest to the origin is a combination of both normals
	c := n1.Dot(n2)
	det := 1 - c*c
	origin := n1.Mul((a.d - b.d*c) / det).Add(n2.Mul((b.d - a.d*c) / det))
	return newIntersection(Line{origin: origin, direction: UnitVector{cross.Normalize()}}), true
}

// intersectLinear intersects any two of line, ray and segment.
func intersectLinear(a, b linear, epsilon float64) (Intersection, bool) {
	ca, loA, hiA := a.support()
	cb, loB, hiB := b.support()

	// rounding in the distances below grows with the coordinates involved
	tol := epsilon * magnitude(ca.origin, cb.origin)

	if ca.direction.Parallel(cb.direction, epsilon) {
		if ca.DistanceToPoint(cb.origin) >= tol {
			return Intersection{}, false
		}
		// collinear: overlap the parameter intervals on a's carrier
		bLo, bHi := projectInterval(ca, b)
		return fromInterval(ca, math.Max(loA, bLo), math.Min(hiA, bHi), epsilon)
	}

	t, s, err := closestParameters(ca, cb)
	if err != nil {
		return Intersection{}, false
	}
	pa, pb := ca.At(t), cb.At(s)
	tol = math.Max(tol, epsilon*magnitude(pa))
	if pa.Sub(pb).Norm() >= tol {
		// skew
		return Intersection{}, false
	}
	if t < loA-tol || t > hiA+tol || s < loB-tol || s > hiB+tol {
		return Intersection{}, false
	}
	return pointIntersection(pa.Add(pb).Mul(0.5)), true
}

// magnitude returns the largest norm among vs, and at least 1.
func magnitude(vs ...r3.Vector) float64 {
	m := 1.0
	for _, v := range vs {
		m = math.Max(m, v.Norm())
	}
	return m
}

// closestParameters solves O1 + t*D1 = O2 + s*D2 in the least squares sense, i.e.
// [D1, -D2] * [t; s] = O2 - O1, returning the parameters of the closest points of two
// non-parallel lines.
func closestParameters(a, b Line) (float64, float64, error) {
	d1, d2 := a.direction.Vector(), b.direction.Vector()
	diff := b.origin.Sub(a.origin)
	lhs := mat.NewDense(3, 2, []float64{
		d1.X, -d2.X,
		d1.Y, -d2.Y,
		d1.Z, -d2.Z,
	})
	rhs := mat.NewVecDense(3, []float64{diff.X, diff.Y, diff.Z})
	var x mat.VecDense
	if err := x.SolveVec(lhs, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, 0, err
		}
	}
	return x.AtVec(0), x.AtVec(1), nil
}

// fromInterval turns the parameter interval [lo, hi] on carrier into the matching shape.
func fromInterval(carrier Line, lo, hi, epsilon float64) (Intersection, bool) {
	if lo > hi+epsilon {
		return Intersection{}, false
	}
	loInf, hiInf := math.IsInf(lo, -1), math.IsInf(hi, 1)
	switch {
	case loInf && hiInf:
		return newIntersection(carrier), true
	case loInf:
		return newIntersection(Ray{origin: carrier.At(hi), direction: carrier.direction.Neg()}), true
	case hiInf:
		return newIntersection(Ray{origin: carrier.At(lo), direction: carrier.direction}), true
	case hi-lo < epsilon:
		return pointIntersection(carrier.At((lo + hi) / 2)), true
	default:
		return newIntersection(LineSegment{start: carrier.At(lo), end: carrier.At(hi)}), true
	}
}
