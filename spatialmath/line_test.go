package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestNewLine(t *testing.T) {
	origin := r3.Vector{X: 1, Y: 2, Z: 3}
	line := mustLine(t, origin, XAxis)
	test.That(t, line.Origin(), test.ShouldResemble, origin)
	test.That(t, line.Direction(), test.ShouldResemble, XAxis)
	test.That(t, line.At(2), test.ShouldResemble, r3.Vector{X: 3, Y: 2, Z: 3})
	test.That(t, line.Parameter(r3.Vector{X: -4, Y: 9}), test.ShouldAlmostEqual, -5)
	test.That(t, line.ClosestPoint(r3.Vector{X: -4, Y: 9}), test.ShouldResemble, r3.Vector{X: -4, Y: 2, Z: 3})
	test.That(t, line.DistanceToPoint(r3.Vector{X: 10, Y: 2, Z: 7}), test.ShouldAlmostEqual, 4)

	fromPoints, err := NewLineFromPoints(r3.Vector{}, r3.Vector{Z: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromPoints.Direction(), test.ShouldResemble, ZAxis)

	_, err = NewLineFromPoints(origin, origin)
	test.That(t, errors.Is(err, ErrUndefinedDirection), test.ShouldBeTrue)
}

func TestLineEquality(t *testing.T) {
	a := mustLine(t, r3.Vector{}, XAxis)
	// same points, different origin and reversed direction
	b := mustLine(t, r3.Vector{X: 7}, XAxis.Neg())
	c := mustLine(t, r3.Vector{Y: 1}, XAxis)
	test.That(t, a.AlmostEqual(b, DefaultEpsilon), test.ShouldBeTrue)
	test.That(t, a.AlmostEqual(c, DefaultEpsilon), test.ShouldBeFalse)
	test.That(t, a.Contains(b), test.ShouldBeTrue)
}

func TestLineContains(t *testing.T) {
	line := mustLine(t, r3.Vector{}, XAxis)
	seg, err := NewLineSegment(r3.Vector{X: -100}, r3.Vector{X: 100})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, line.Contains(NewPoint(r3.Vector{X: -1e6})), test.ShouldBeTrue)
	test.That(t, line.Contains(NewPoint(r3.Vector{X: 1, Y: 1e-3})), test.ShouldBeFalse)
	test.That(t, line.ContainsWithTolerance(NewPoint(r3.Vector{X: 1, Y: 1e-3}), 1e-2), test.ShouldBeTrue)
	test.That(t, line.Contains(mustRay(t, r3.Vector{X: 4}, XAxis.Neg())), test.ShouldBeTrue)
	test.That(t, line.Contains(seg), test.ShouldBeTrue)
	test.That(t, line.Contains(mustLine(t, r3.Vector{}, YAxis)), test.ShouldBeFalse)
	test.That(t, line.Contains(mustPlane(t, r3.Vector{}, ZAxis)), test.ShouldBeFalse)
}

func TestRay(t *testing.T) {
	ray := mustRay(t, r3.Vector{X: 1, Y: 2, Z: 3}, XAxis)
	test.That(t, ray.Origin(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, ray.Direction(), test.ShouldResemble, XAxis)
	test.That(t, ray.Line(), test.ShouldResemble, mustLine(t, r3.Vector{X: 1, Y: 2, Z: 3}, XAxis))

	test.That(t, ray.Contains(NewPoint(r3.Vector{X: 1, Y: 2, Z: 3})), test.ShouldBeTrue)
	test.That(t, ray.Contains(NewPoint(r3.Vector{X: 50, Y: 2, Z: 3})), test.ShouldBeTrue)
	test.That(t, ray.Contains(NewPoint(r3.Vector{X: 0, Y: 2, Z: 3})), test.ShouldBeFalse)

	// a ray contains rays pointing the same way from points on it, but not the reverse
	test.That(t, ray.Contains(mustRay(t, r3.Vector{X: 2, Y: 2, Z: 3}, XAxis)), test.ShouldBeTrue)
	test.That(t, ray.Contains(mustRay(t, r3.Vector{X: 2, Y: 2, Z: 3}, XAxis.Neg())), test.ShouldBeFalse)
	test.That(t, ray.Contains(ray.Line()), test.ShouldBeFalse)

	seg, err := NewLineSegment(r3.Vector{X: 9, Y: 2, Z: 3}, r3.Vector{X: 3, Y: 2, Z: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ray.Contains(seg), test.ShouldBeTrue)

	test.That(t, ray.AlmostEqual(mustRay(t, r3.Vector{X: 1, Y: 2, Z: 3}, XAxis), DefaultEpsilon), test.ShouldBeTrue)
	test.That(t, ray.AlmostEqual(mustRay(t, r3.Vector{X: 2, Y: 2, Z: 3}, XAxis), DefaultEpsilon), test.ShouldBeFalse)
	test.That(t, ray.AlmostEqual(mustRay(t, r3.Vector{X: 1, Y: 2, Z: 3}, XAxis.Neg()), DefaultEpsilon), test.ShouldBeFalse)
}

func TestLineSegment(t *testing.T) {
	start := r3.Vector{X: 1, Y: 2, Z: 3}
	end := r3.Vector{X: 4, Y: 5, Z: 6}
	seg, err := NewLineSegment(start, end)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seg.Start(), test.ShouldResemble, start)
	test.That(t, seg.End(), test.ShouldResemble, end)
	test.That(t, seg.Direction().AlmostEqual(mustUnit(t, r3.Vector{X: 1, Y: 1, Z: 1}), 1e-9), test.ShouldBeTrue)
	test.That(t, seg.Length(), test.ShouldAlmostEqual, 3*math.Sqrt(3))
	test.That(t, seg.Midpoint(), test.ShouldResemble, r3.Vector{X: 2.5, Y: 3.5, Z: 4.5})

	test.That(t, seg.Contains(NewPoint(start)), test.ShouldBeTrue)
	test.That(t, seg.Contains(NewPoint(end)), test.ShouldBeTrue)
	test.That(t, seg.Contains(NewPoint(seg.Midpoint())), test.ShouldBeTrue)
	test.That(t, seg.Contains(NewPoint(r3.Vector{X: 5, Y: 6, Z: 7})), test.ShouldBeFalse)
	test.That(t, seg.Contains(mustRay(t, start, seg.Direction())), test.ShouldBeFalse)

	reversed, err := NewLineSegment(end, start)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seg.AlmostEqual(reversed, 1e-9), test.ShouldBeFalse)
	test.That(t, seg.Contains(reversed), test.ShouldBeTrue)

	test.That(t, seg.ClosestPoint(r3.Vector{}), test.ShouldResemble, start)
	test.That(t, seg.ClosestPoint(r3.Vector{X: 10, Y: 10, Z: 10}), test.ShouldResemble, end)

	_, err = NewLineSegment(start, start)
	test.That(t, errors.Is(err, ErrDegenerateSegment), test.ShouldBeTrue)
}

func TestTransformPrimitives(t *testing.T) {
	tf := NewTransform(NewR4AAFromAxis(math.Pi/2, ZAxis), r3.Vector{X: 1, Y: 1})
	line := ApplyTo(tf, mustLine(t, r3.Vector{X: 1}, XAxis))
	test.That(t, R3VectorAlmostEqual(line.Origin(), r3.Vector{X: 1, Y: 2}, 1e-9), test.ShouldBeTrue)
	test.That(t, line.Direction().AlmostEqual(YAxis, 1e-9), test.ShouldBeTrue)

	ray := mustRay(t, r3.Vector{X: 1}, XAxis).Transformed(tf)
	test.That(t, R3VectorAlmostEqual(ray.Origin(), r3.Vector{X: 1, Y: 2}, 1e-9), test.ShouldBeTrue)
	test.That(t, ray.Direction().AlmostEqual(YAxis, 1e-9), test.ShouldBeTrue)

	seg, err := NewLineSegment(r3.Vector{}, r3.Vector{X: 2})
	test.That(t, err, test.ShouldBeNil)
	moved := seg.Transformed(tf)
	test.That(t, R3VectorAlmostEqual(moved.Start(), r3.Vector{X: 1, Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(moved.End(), r3.Vector{X: 1, Y: 3}, 1e-9), test.ShouldBeTrue)
	test.That(t, moved.Length(), test.ShouldAlmostEqual, 2)
}

func TestZeroDirection(t *testing.T) {
	var zero UnitVector
	test.That(t, zero.IsZero(), test.ShouldBeTrue)
	test.That(t, XAxis.IsZero(), test.ShouldBeFalse)

	_, err := NewLine(r3.Vector{X: 1}, zero)
	test.That(t, errors.Is(err, ErrUndefinedDirection), test.ShouldBeTrue)
	_, err = NewRay(r3.Vector{X: 1}, zero)
	test.That(t, errors.Is(err, ErrUndefinedDirection), test.ShouldBeTrue)
	_, err = NewPlaneFromOriginNormal(r3.Vector{X: 1}, zero)
	test.That(t, errors.Is(err, ErrUndefinedDirection), test.ShouldBeTrue)

	// zero values contain and intersect nothing
	xy := mustPlane(t, r3.Vector{}, ZAxis)
	xAxis := mustLine(t, r3.Vector{}, XAxis)
	for _, obj := range []Object{Line{}, Ray{}, LineSegment{}, Plane{}} {
		_, ok := Intersect(obj, xy)
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = Intersect(xAxis, obj)
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, xy.Contains(obj), test.ShouldBeFalse)
		test.That(t, xAxis.Contains(obj), test.ShouldBeFalse)
	}
	test.That(t, Plane{}.Contains(NewPoint(r3.Vector{X: 5, Y: -3})), test.ShouldBeFalse)
	test.That(t, Line{}.Contains(NewPoint(r3.Vector{})), test.ShouldBeFalse)
	test.That(t, Ray{}.Contains(NewPoint(r3.Vector{})), test.ShouldBeFalse)
}
