package remap

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/camgeom/camera"
	"go.viam.com/camgeom/logging"
)

const (
	testWidth  = 64
	testHeight = 48
)

func testPinhole(t *testing.T) *camera.Pinhole {
	t.Helper()
	pinhole, err := camera.NewPinholeFromResolutionFOV(testWidth, testHeight, math.Pi/2, math.Pi/2.5)
	test.That(t, err, test.ShouldBeNil)
	return pinhole
}

func testModel(t *testing.T, distorter camera.Distorter) *camera.Model {
	t.Helper()
	model, err := camera.NewModel(testPinhole(t), distorter)
	test.That(t, err, test.ShouldBeNil)
	return model
}

func TestUndistortionIdentity(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m, err := Undistortion(testModel(t, nil), testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Size().X, test.ShouldEqual, testWidth)
	test.That(t, m.Size().Y, test.ShouldEqual, testHeight)
	test.That(t, m.Coverage(), test.ShouldEqual, 1.)
	test.That(t, m.Valid(), test.ShouldEqual, testWidth*testHeight)

	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			px, ok := m.Lookup(x, y)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, px, test.ShouldResemble, camera.Pixel{U: uint32(x), V: uint32(y)})
		}
	}

	_, ok := m.Lookup(-1, 0)
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = m.Lookup(testWidth, 0)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestUndistortionPincushion(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	pb, err := camera.NewPlumbBob([]float64{0.3})
	test.That(t, err, test.ShouldBeNil)
	m, err := Undistortion(testModel(t, pb), testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldBeNil)

	// corners are pushed outside the source image
	test.That(t, m.Coverage(), test.ShouldBeLessThan, 1)
	test.That(t, m.Coverage(), test.ShouldBeGreaterThan, 0.3)
	_, ok := m.Lookup(0, 0)
	test.That(t, ok, test.ShouldBeFalse)

	center, ok := m.Lookup(testWidth/2, testHeight/2)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, center, test.ShouldResemble, camera.Pixel{U: testWidth / 2, V: testHeight / 2})

	test.That(t, logs.FilterMessage("built remap table").Len(), test.ShouldEqual, 1)
	entry := logs.FilterMessage("built remap table").All()[0]
	test.That(t, entry.ContextMap()["table"], test.ShouldEqual, "undistortion")
}

func TestDistortionInvertsUndistortion(t *testing.T) {
	logger := logging.NewTestLogger(t)
	pb, err := camera.NewPlumbBob([]float64{-0.15, 0.02})
	test.That(t, err, test.ShouldBeNil)
	model := testModel(t, pb)

	undistort, err := Undistortion(model, testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldBeNil)
	distort, err := Distortion(model, testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldBeNil)
	// barrel distortion pulls every output pixel inside the input
	test.That(t, undistort.Coverage(), test.ShouldEqual, 1.)

	for y := 8; y < testHeight-8; y += 4 {
		for x := 8; x < testWidth-8; x += 4 {
			src, ok := undistort.Lookup(x, y)
			test.That(t, ok, test.ShouldBeTrue)
			back, ok := distort.Lookup(int(src.U), int(src.V))
			test.That(t, ok, test.ShouldBeTrue)
			// both lookups round to the nearest pixel
			test.That(t, math.Abs(float64(back.U)-float64(x)), test.ShouldBeLessThanOrEqualTo, 2)
			test.That(t, math.Abs(float64(back.V)-float64(y)), test.ShouldBeLessThanOrEqualTo, 2)
		}
	}
}

type shiftDistorter struct{}

func (shiftDistorter) ModelType() camera.DistortionType { return "shift" }
func (shiftDistorter) CheckValid() error { return nil }
func (shiftDistorter) Parameters() []float64 { return nil }
func (shiftDistorter) Transform(x, y float64) (float64, float64) {
	return x + 0.01, y
}

func (s shiftDistorter) Distort(ray camera.CameraRay) (camera.CameraRay, error) {
	return camera.NewCameraRay(s.Transform(ray.X(), ray.Y()))
}

func TestRemapErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	model := testModel(t, nil)

	_, err := Undistortion(nil, testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Undistortion(model, nil, testWidth, testHeight, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Undistortion(model, testPinhole(t), 0, testHeight, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Distortion(model, &camera.Pinhole{}, testWidth, testHeight, logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Distortion(testModel(t, shiftDistorter{}), testPinhole(t), testWidth, testHeight, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot be inverted")

	// a nil logger is allowed
	m, err := Undistortion(model, testPinhole(t), 4, 3, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Valid(), test.ShouldEqual, 12)
}

func TestUndistortionFailures(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	// a fisheye view wider than 180 degrees cannot be projected by a pinhole camera
	wide, err := camera.NewFisheyeFromResolutionFOV(testWidth, testHeight, math.Pi*1.5, math.Pi*1.5)
	test.That(t, err, test.ShouldBeNil)
	m, err := Undistortion(testModel(t, nil), wide, testWidth, testHeight, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Coverage(), test.ShouldBeLessThan, 1)
	test.That(t, logs.FilterLevelExact(logging.WARN.AsZap()).Len(), test.ShouldEqual, 1)
}
