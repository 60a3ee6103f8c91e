package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrDegenerateSegment is returned when a line segment would have zero length.
var ErrDegenerateSegment = errors.New("line segment start and end coincide")

// LineSegment is the bounded part of a line between start and end.
type LineSegment struct {
	start r3.Vector
	end   r3.Vector
}

// NewLineSegment creates the segment from start to end. Its direction is derived from the two
// points, so they must be at least DefaultEpsilon apart.
func NewLineSegment(start, end r3.Vector) (LineSegment, error) {
	if end.Sub(start).Norm() < DefaultEpsilon {
		return LineSegment{}, errors.Wrapf(ErrDegenerateSegment, "start %v, end %v", start, end)
	}
	return LineSegment{start: start, end: end}, nil
}

// Start returns the first endpoint.
func (s LineSegment) Start() r3.Vector {
	return s.start
}

// End returns the second endpoint.
func (s LineSegment) End() r3.Vector {
	return s.end
}

// Direction returns the normalized end - start.
func (s LineSegment) Direction() UnitVector {
	return UnitVector{s.end.Sub(s.start).Normalize()}
}

// Length returns the distance between the endpoints.
func (s LineSegment) Length() float64 {
	return s.end.Sub(s.start).Norm()
}

// Midpoint returns the point halfway between the endpoints.
func (s LineSegment) Midpoint() r3.Vector {
	return s.start.Add(s.end).Mul(0.5)
}

// Line returns the infinite line the segment lies on, parameterized from start.
func (s LineSegment) Line() Line {
	return Line{origin: s.start, direction: s.Direction()}
}

// ClosestPoint returns the point on the segment closest to p.
func (s LineSegment) ClosestPoint(p r3.Vector) r3.Vector {
	return ClosestPointSegmentPoint(s.start, s.end, p)
}

// AlmostEqual reports whether two segments have the same endpoints in the same order.
func (s LineSegment) AlmostEqual(other LineSegment, epsilon float64) bool {
	return R3VectorAlmostEqual(s.start, other.start, epsilon) && R3VectorAlmostEqual(s.end, other.end, epsilon)
}

// Contains reports whether obj lies entirely on the segment.
func (s LineSegment) Contains(obj Object) bool {
	return s.ContainsWithTolerance(obj, DefaultEpsilon)
}

// ContainsWithTolerance is Contains with an explicit tolerance.
func (s LineSegment) ContainsWithTolerance(obj Object, epsilon float64) bool {
	return linearContains(s, obj, epsilon)
}

// Transformed moves the segment by t.
func (s LineSegment) Transformed(t Transform) LineSegment {
	return LineSegment{start: t.Apply(s.start), end: t.Apply(s.end)}
}

func (s LineSegment) support() (Line, float64, float64) {
	return s.Line(), 0, s.Length()
}

func (s LineSegment) isObject() {}

func (s LineSegment) String() string {
	return fmt.Sprintf("LineSegment{start: %v, end: %v}", s.start, s.end)
}

// ClosestPointSegmentPoint takes a line segment defined by two points and a third point,
// and returns the point on the segment closest to the third point.
func ClosestPointSegmentPoint(segStart, segEnd, pt r3.Vector) r3.Vector {
	segVec := segEnd.Sub(segStart)
	lengthSq := segVec.Norm2()
	if lengthSq == 0 {
		return segStart
	}
	t := pt.Sub(segStart).Dot(segVec) / lengthSq
	switch {
	case t <= 0:
		return segStart
	case t >= 1:
		return segEnd
	default:
		return segStart.Add(segVec.Mul(t))
	}
}
