package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/camgeom/camera"
	"go.viam.com/camgeom/logging"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camera.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

const barrelConfig = `{
	"projection": {"type": "pinhole", "width_px": 80, "height_px": 60, "fov_x_deg": 90, "fov_y_deg": 70},
	"distortion": {"type": "brown_conrady", "parameters": [-0.1, 0.01]}
}`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runAppWithLogger(t, logging.NewTestLogger(t), args...)
}

func runAppWithLogger(t *testing.T, logger logging.Logger, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(logger)
	app.Writer = &out
	err := app.Run(append([]string{"camgeom"}, args...))
	return out.String(), err
}

func TestRemapCommand(t *testing.T) {
	path := writeConfig(t, barrelConfig)
	out, err := runApp(t, "remap", "--config", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "coverage: 1.0000 (4800 of 4800 pixels)")

	_, err = runApp(t, "remap", "--config", path, "--fov-scale", "0")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = runApp(t, "remap", "--config", filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRoundTripCommand(t *testing.T) {
	path := writeConfig(t, barrelConfig)
	out, err := runApp(t, "roundtrip", "--config", path, "--step", "10")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "samples: 48 failed: 0")

	_, err = runApp(t, "roundtrip", "--config", path, "--step=-1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRoundTripErrors(t *testing.T) {
	conf, err := camera.DecodeConfig(map[string]interface{}{
		"projection": map[string]interface{}{
			"type": "fisheye", "width_px": 40, "height_px": 40, "fov_x_deg": 180, "fov_y_deg": 180,
		},
		"distortion": map[string]interface{}{"type": "kannala_brandt", "parameters": []float64{0.05}},
	})
	test.That(t, err, test.ShouldBeNil)
	model, err := camera.NewModelFromConfig(conf)
	test.That(t, err, test.ShouldBeNil)

	dists, failed := roundTripErrors(model, 40, 40, 5)
	test.That(t, len(dists)+failed, test.ShouldEqual, 64)
	for _, d := range dists {
		test.That(t, d, test.ShouldBeLessThan, 1e-5)
	}
}

func TestRadialDisplacement(t *testing.T) {
	path := writeConfig(t, barrelConfig)
	conf, err := camera.NewConfigFromJSONFile(path)
	test.That(t, err, test.ShouldBeNil)
	model, err := camera.NewModelFromConfig(conf)
	test.That(t, err, test.ShouldBeNil)

	maxRadius := cornerRadius(model.Projection().Intrinsics(), 80, 60)
	pts := radialDisplacement(model, maxRadius, 11)
	test.That(t, len(pts), test.ShouldEqual, 11)
	test.That(t, pts[0].X, test.ShouldEqual, 0.)
	test.That(t, pts[0].Y, test.ShouldEqual, 0.)
	test.That(t, pts[10].X, test.ShouldAlmostEqual, maxRadius)
	// barrel distortion pulls points toward the center
	test.That(t, pts[10].Y, test.ShouldBeLessThan, 0)
}

func TestPlotCommand(t *testing.T) {
	path := writeConfig(t, barrelConfig)
	out := filepath.Join(t.TempDir(), "curve.png")
	_, err := runApp(t, "plot", "--config", path, "--out", out)
	test.That(t, err, test.ShouldBeNil)
	info, err := os.Stat(out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	_, err = runApp(t, "plot", "--config", path, "--out", out, "--samples", "1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLogLevelFlag(t *testing.T) {
	path := writeConfig(t, barrelConfig)

	logger, logs := logging.NewObservedTestLogger(t)
	_, err := runAppWithLogger(t, logger, "remap", "--config", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("undistortion table").Len(), test.ShouldEqual, 1)

	logger, logs = logging.NewObservedTestLogger(t)
	_, err = runAppWithLogger(t, logger, "--log-level", "warn", "remap", "--config", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.Len(), test.ShouldEqual, 0)

	_, err = runApp(t, "--log-level", "loud", "remap", "--config", path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log level")
}
