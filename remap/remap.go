// Package remap builds per-pixel lookup tables between a real camera and a desired ideal one.
// A table says, for every pixel of the output image, which pixel of the input image to sample.
// Sampling itself is left to the caller.
package remap

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/camgeom/camera"
	"go.viam.com/camgeom/logging"
	"go.viam.com/camgeom/utils"
)

// Map is a lookup table from output pixels to input pixels.
type Map struct {
	width, height int
	source        []camera.Pixel
	valid         []bool
}

func newMap(width, height int) *Map {
	return &Map{
		width:  width,
		height: height,
		source: make([]camera.Pixel, width*height),
		valid:  make([]bool, width*height),
	}
}

// Size returns the dimensions of the output image.
func (m *Map) Size() image.Point {
	return image.Point{X: m.width, Y: m.height}
}

// Lookup returns the input pixel to sample for output pixel (x, y), and false when there is none:
// the output pixel is outside the input image or could not be mapped.
func (m *Map) Lookup(x, y int) (camera.Pixel, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return camera.Pixel{}, false
	}
	i := y*m.width + x
	return m.source[i], m.valid[i]
}

// Valid returns the number of output pixels with a source.
func (m *Map) Valid() int {
	n := 0
	for _, ok := range m.valid {
		if ok {
			n++
		}
	}
	return n
}

// Coverage returns the fraction of output pixels with a source.
func (m *Map) Coverage() float64 {
	if len(m.valid) == 0 {
		return 0
	}
	return float64(m.Valid()) / float64(len(m.valid))
}

// Undistortion builds the table that turns an image taken by model into the image desired would have
// taken: each output pixel is unprojected with desired and projected with model.
func Undistortion(model *camera.Model, desired camera.Projection, width, height int, logger logging.Logger) (*Map, error) {
	if err := checkInputs(model, desired, width, height); err != nil {
		return nil, err
	}
	return build("undistortion", width, height, logger, func(px camera.PixelIndex) (camera.PixelIndex, error) {
		ray, err := desired.Unproject(px)
		if err != nil {
			return camera.PixelIndex{}, err
		}
		return model.Project(ray)
	}), nil
}

// Distortion builds the inverse of Undistortion: the table that turns an image in desired's
// projection into the image model would have taken. The model's distortion must be invertible.
func Distortion(model *camera.Model, desired camera.Projection, width, height int, logger logging.Logger) (*Map, error) {
	if err := checkInputs(model, desired, width, height); err != nil {
		return nil, err
	}
	if !model.Invertible() {
		return nil, errors.Errorf("%q distortion cannot be inverted", model.Distorter().ModelType())
	}
	return build("distortion", width, height, logger, func(px camera.PixelIndex) (camera.PixelIndex, error) {
		ray, err := model.Unproject(px)
		if err != nil {
			return camera.PixelIndex{}, err
		}
		return desired.Project(ray)
	}), nil
}

func checkInputs(model *camera.Model, desired camera.Projection, width, height int) error {
	if model == nil {
		return errors.New("camera model not provided")
	}
	if desired == nil {
		return errors.New("desired projection not provided")
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid image size (%d, %d)", width, height)
	}
	return desired.CheckValid()
}

func build(
	name string,
	width, height int,
	logger logging.Logger,
	mapPixel func(px camera.PixelIndex) (camera.PixelIndex, error),
) *Map {
	start := time.Now()
	m := newMap(width, height)
	failed := atomic.NewInt64(0)
	outside := atomic.NewInt64(0)

	// every goroutine writes a disjoint set of indices
	utils.ParallelForEachPixel(image.Point{X: width, Y: height}, func(x, y int) {
		src, err := mapPixel(camera.PixelIndex{U: float64(x), V: float64(y)})
		if err != nil {
			failed.Inc()
			return
		}
		px, err := src.Nearest()
		if err != nil || !px.In(width, height) {
			outside.Inc()
			return
		}
		i := y*width + x
		m.source[i] = px
		m.valid[i] = true
	})

	if logger != nil {
		logger.Debugw("built remap table",
			"table", name,
			"width", width,
			"height", height,
			"coverage", m.Coverage(),
			"outside", outside.Load(),
			"failed", failed.Load(),
			"duration", time.Since(start),
		)
		if failed.Load() > 0 {
			logger.Warnw("pixels could not be mapped", "table", name, "failed", failed.Load(), "total", width*height)
		}
	}
	return m
}
