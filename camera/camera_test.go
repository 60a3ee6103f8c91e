package camera

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/camgeom/spatialmath"
	"go.viam.com/camgeom/utils"
)

// downwardCamera is 5 units above the origin looking straight down at the z = 0 plane.
func downwardCamera(t *testing.T) *Camera {
	t.Helper()
	pinhole, err := NewPinholeFromResolutionFOV(640, 480, utils.DegToRad(90), utils.DegToRad(75))
	test.That(t, err, test.ShouldBeNil)
	model, err := NewModel(pinhole, nil)
	test.That(t, err, test.ShouldBeNil)
	// half a turn about x points the optical axis along -z
	pose := spatialmath.NewPose(r3.Vector{Z: 5}, spatialmath.NewR4AAFromAxis(math.Pi, spatialmath.XAxis))
	cam, err := NewCamera(model, pose)
	test.That(t, err, test.ShouldBeNil)
	return cam
}

func TestNewCamera(t *testing.T) {
	_, err := NewCamera(nil, spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldNotBeNil)

	cam := downwardCamera(t)
	test.That(t, cam.Pose().Point(), test.ShouldResemble, r3.Vector{Z: 5})
	test.That(t, cam.Model().Invertible(), test.ShouldBeTrue)
	test.That(t, cam.String(), test.ShouldContainSubstring, "pinhole/ideal")
}

func TestCameraPixelRay(t *testing.T) {
	cam := downwardCamera(t)
	ray, err := cam.PixelRay(PixelIndex{U: 320, V: 240})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ray.Origin(), test.ShouldResemble, r3.Vector{Z: 5})
	test.That(t, ray.Direction().AlmostEqual(spatialmath.ZAxis.Neg(), 1e-9), test.ShouldBeTrue)

	// the right edge of the image is 45 degrees off axis
	edge, err := cam.PixelRay(PixelIndex{U: 640, V: 240})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, edge.Direction().Dot(ray.Direction().Vector()), test.ShouldAlmostEqual, math.Sqrt2/2)

	_, err = cam.PixelRay(PixelIndex{U: math.NaN()})
	test.That(t, errors.Is(err, ErrInvalidPixel), test.ShouldBeTrue)
}

func TestCameraPixelOnPlane(t *testing.T) {
	cam := downwardCamera(t)
	ground, err := spatialmath.NewPlaneFromOriginNormal(r3.Vector{}, spatialmath.ZAxis)
	test.That(t, err, test.ShouldBeNil)

	center, err := cam.PixelOnPlane(PixelIndex{U: 320, V: 240}, ground)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(center, r3.Vector{}, 1e-9), test.ShouldBeTrue)

	// image +x stays world +x, image +y becomes world -y
	edge, err := cam.PixelOnPlane(PixelIndex{U: 640, V: 240}, ground)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(edge, r3.Vector{X: 5}, 1e-9), test.ShouldBeTrue)

	for _, px := range []PixelIndex{{0, 0}, {100, 400}, {639.5, 12.25}} {
		world, err := cam.PixelOnPlane(px, ground)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, world.Z, test.ShouldAlmostEqual, 0)
		back, err := cam.ProjectPoint(world)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, back.Distance(px), test.ShouldBeLessThan, 1e-6)
	}

	// the optical axis is parallel to a vertical wall
	wall, err := spatialmath.NewPlaneFromOriginNormal(r3.Vector{X: 100}, spatialmath.XAxis)
	test.That(t, err, test.ShouldBeNil)
	_, err = cam.PixelOnPlane(PixelIndex{U: 320, V: 240}, wall)
	test.That(t, errors.Is(err, ErrNoIntersection), test.ShouldBeTrue)

	// a plane above the camera is behind it
	ceiling, err := spatialmath.NewPlaneFromOriginNormal(r3.Vector{Z: 10}, spatialmath.ZAxis)
	test.That(t, err, test.ShouldBeNil)
	_, err = cam.PixelOnPlane(PixelIndex{U: 320, V: 240}, ceiling)
	test.That(t, errors.Is(err, ErrNoIntersection), test.ShouldBeTrue)

	_, err = cam.PixelOnPlane(PixelIndex{U: 320, V: 240}, spatialmath.Plane{})
	test.That(t, errors.Is(err, ErrNoIntersection), test.ShouldBeTrue)
}

func TestCameraProjectPoint(t *testing.T) {
	cam := downwardCamera(t)
	px, err := cam.ProjectPoint(r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, px.U, test.ShouldAlmostEqual, 320)
	test.That(t, px.V, test.ShouldAlmostEqual, 240)

	_, err = cam.ProjectPoint(r3.Vector{X: 1, Z: 8})
	test.That(t, errors.Is(err, ErrBehindCamera), test.ShouldBeTrue)

	_, err = cam.ProjectPoint(r3.Vector{Z: 5})
	test.That(t, errors.Is(err, spatialmath.ErrUndefinedDirection), test.ShouldBeTrue)
}
