// Package main is a command line tool for inspecting camera models described by a JSON config.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	// png and svg canvases for plot.Save.
	_ "gonum.org/v1/plot/vg/vgimg"

	"go.viam.com/camgeom/camera"
	"go.viam.com/camgeom/logging"
	"go.viam.com/camgeom/remap"
	"go.viam.com/camgeom/utils"
)

const (
	// Flags.
	flagDebug    = "debug"
	flagLogLevel = "log-level"
	flagConfig   = "config"
	flagFOVScale = "fov-scale"
	flagStep     = "step"
	flagOut      = "out"
	flagSamples  = "samples"
)

func main() {
	app := newApp(nil)
	if err := app.Run(os.Args); err != nil {
		logging.NewLogger("camgeom").Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

// newApp builds the CLI. When logger is nil one is created from the --debug flag.
func newApp(logger logging.Logger) *cli.App {
	configFlag := &cli.PathFlag{
		Name:     flagConfig,
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "path to the camera model JSON",
	}
	return &cli.App{
		Name:  "camgeom",
		Usage: "inspect camera projection and distortion models",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging, same as --log-level debug",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "minimum level to log: debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			if logger == nil {
				logger = logging.NewLogger("camgeom")
			}
			if c.Bool(flagDebug) {
				logger.SetLevel(logging.DEBUG)
			}
			if c.IsSet(flagLogLevel) {
				level, err := logging.LevelFromString(c.String(flagLogLevel))
				if err != nil {
					return err
				}
				logger.SetLevel(level)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "remap",
				Usage: "build the undistortion table and report its coverage",
				Flags: []cli.Flag{
					configFlag,
					&cli.Float64Flag{
						Name:  flagFOVScale,
						Value: 1,
						Usage: "scale the undistorted field of view relative to the camera's focal length",
					},
				},
				Action: func(c *cli.Context) error {
					return remapAction(c, logger)
				},
			},
			{
				Name:  "roundtrip",
				Usage: "measure the pixel error of unprojecting then projecting over the image",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  flagStep,
						Value: 8,
						Usage: "sample every n-th pixel in each direction",
					},
				},
				Action: func(c *cli.Context) error {
					return roundTripAction(c, logger)
				},
			},
			{
				Name:  "plot",
				Usage: "plot radial distortion displacement against normalized radius",
				Flags: []cli.Flag{
					configFlag,
					&cli.PathFlag{
						Name:     flagOut,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "output image path, the extension selects the format",
					},
					&cli.IntFlag{
						Name:  flagSamples,
						Value: 100,
						Usage: "number of radii to evaluate",
					},
				},
				Action: func(c *cli.Context) error {
					return plotAction(c, logger)
				},
			},
		},
	}
}

// loadModel reads the config named by the --config flag.
func loadModel(c *cli.Context, logger logging.Logger) (*camera.Config, *camera.Model, error) {
	conf, err := camera.NewConfigFromJSONFile(c.Path(flagConfig))
	if err != nil {
		return nil, nil, err
	}
	model, err := camera.NewModelFromConfig(conf)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugw("loaded camera model", "config", conf.String())
	return conf, model, nil
}

func remapAction(c *cli.Context, logger logging.Logger) error {
	conf, model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	scale := c.Float64(flagFOVScale)
	if !(scale > 0) {
		return errors.Errorf("--%s must be positive, got %v", flagFOVScale, scale)
	}

	in := model.Projection().Intrinsics()
	in.Fx /= scale
	in.Fy /= scale
	desired, err := camera.NewPinhole(in)
	if err != nil {
		return err
	}
	m, err := remap.Undistortion(model, desired, conf.Projection.Width, conf.Projection.Height, logger.Sublogger("remap"))
	if err != nil {
		return err
	}
	fovX := 2 * math.Atan(float64(conf.Projection.Width)/(2*in.Fx))
	logger.Infow("undistortion table",
		"valid", m.Valid(),
		"coverage", m.Coverage(),
		"fov_x_deg", utils.RadToDeg(fovX),
	)
	_, err = fmt.Fprintf(c.App.Writer, "coverage: %.4f (%d of %d pixels)\n",
		m.Coverage(), m.Valid(), m.Size().X*m.Size().Y)
	return err
}

// roundTripErrors unprojects every step-th pixel and projects it back, returning the pixel distances
// and the number of pixels that failed either way.
func roundTripErrors(model *camera.Model, width, height, step int) ([]float64, int) {
	var dists []float64
	failed := 0
	for v := 0; v < height; v += step {
		for u := 0; u < width; u += step {
			px := camera.PixelIndex{U: float64(u), V: float64(v)}
			ray, err := model.Unproject(px)
			if err != nil {
				failed++
				continue
			}
			back, err := model.Project(ray)
			if err != nil {
				failed++
				continue
			}
			dists = append(dists, px.Distance(back))
		}
	}
	return dists, failed
}

func roundTripAction(c *cli.Context, logger logging.Logger) error {
	conf, model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	step := c.Int(flagStep)
	if step <= 0 {
		return errors.Errorf("--%s must be positive, got %d", flagStep, step)
	}
	if !model.Invertible() {
		logger.Warnw("distortion cannot be inverted, errors include the distortion itself",
			"distortion", model.Distorter().ModelType())
	}

	dists, failed := roundTripErrors(model, conf.Projection.Width, conf.Projection.Height, step)
	if failed > 0 {
		logger.Warnw("pixels failed the round trip", "failed", failed)
	}
	if len(dists) == 0 {
		return errors.New("no pixel survived the round trip")
	}
	data := stats.Float64Data(dists)
	mean, err := data.Mean()
	if err != nil {
		return err
	}
	maxErr, err := data.Max()
	if err != nil {
		return err
	}
	p99, err := data.Percentile(99)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "samples: %d failed: %d mean: %.3g max: %.3g p99: %.3g\n",
		len(dists), failed, mean, maxErr, p99)
	return err
}

// radialDisplacement samples the distortion along the positive x axis of the normalized image
// plane, from the optical axis to maxRadius, and returns the displacement in pixels.
func radialDisplacement(model *camera.Model, maxRadius float64, samples int) plotter.XYs {
	fx := model.Projection().Intrinsics().Fx
	pts := make(plotter.XYs, 0, samples)
	for i := 0; i < samples; i++ {
		r := maxRadius * float64(i) / float64(samples-1)
		rd, _ := model.Distorter().Transform(r, 0)
		if math.IsNaN(rd) || math.IsInf(rd, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: r, Y: (rd - r) * fx})
	}
	return pts
}

// cornerRadius is the normalized radius of the image corner furthest from the principal point.
func cornerRadius(in camera.Intrinsics, width, height int) float64 {
	dx := math.Max(in.Cx, float64(width)-in.Cx) / in.Fx
	dy := math.Max(in.Cy, float64(height)-in.Cy) / in.Fy
	return math.Hypot(dx, dy)
}

func plotAction(c *cli.Context, logger logging.Logger) error {
	conf, model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	samples := c.Int(flagSamples)
	if samples < 2 {
		return errors.Errorf("--%s must be at least 2, got %d", flagSamples, samples)
	}

	maxRadius := cornerRadius(model.Projection().Intrinsics(), conf.Projection.Width, conf.Projection.Height)
	pts := radialDisplacement(model, maxRadius, samples)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s distortion", model.Distorter().ModelType())
	p.X.Label.Text = "normalized radius"
	p.Y.Label.Text = "displacement (px)"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "cannot plot distortion curve")
	}
	p.Add(line)

	out := c.Path(flagOut)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, out); err != nil {
		return errors.Wrapf(err, "cannot save plot to %q", out)
	}
	logger.Infow("saved distortion plot", "path", out, "max_radius", maxRadius)
	return nil
}
