package camera

import (
	"math"

	"github.com/pkg/errors"
)

// Model is a complete optical model: one projection and one distortion.
//
//	Project(ray)  = projection.Project(distorter.Distort(ray))
//	Unproject(px) = distorter.Undistort(projection.Unproject(px))
//
// Unproject is only the true inverse of Project when the distorter implements Undistorter. For any
// other distorter Unproject skips distortion entirely and returns the ray in distorted space, the
// ray the lens actually delivers to px. Invertible reports which case applies.
type Model struct {
	projection Projection
	distorter  Distorter
}

// NewModel composes a projection and a distorter, validating both. A nil distorter is Ideal.
func NewModel(projection Projection, distorter Distorter) (*Model, error) {
	if projection == nil {
		return nil, NewInvalidIntrinsicsError("projection not provided")
	}
	if err := projection.CheckValid(); err != nil {
		return nil, err
	}
	if distorter == nil {
		distorter = Ideal{}
	}
	if err := distorter.CheckValid(); err != nil {
		return nil, err
	}
	return &Model{projection: projection, distorter: distorter}, nil
}

// Projection returns the projection of the model.
func (m *Model) Projection() Projection {
	return m.projection
}

// Distorter returns the distortion of the model.
func (m *Model) Distorter() Distorter {
	return m.distorter
}

// Invertible reports whether Unproject undoes distortion.
func (m *Model) Invertible() bool {
	_, ok := m.distorter.(Undistorter)
	return ok
}

// Project distorts an ideal ray and maps it to its pixel.
func (m *Model) Project(ray CameraRay) (PixelIndex, error) {
	distorted, err := m.distorter.Distort(ray)
	if err != nil {
		return PixelIndex{}, err
	}
	return m.projection.Project(distorted)
}

// Unproject returns the ray seen by px. See Model for what it returns when the distortion cannot
// be inverted.
func (m *Model) Unproject(px PixelIndex) (CameraRay, error) {
	ray, err := m.projection.Unproject(px)
	if err != nil {
		return CameraRay{}, err
	}
	undistorter, ok := m.distorter.(Undistorter)
	if !ok {
		return ray, nil
	}
	return undistorter.Undistort(ray)
}

// DistortionMap is a function that transforms the undistorted input points (u,v) to the distorted
// points (x,y) according to the distortion of the model. Pixels that cannot be mapped go to NaN.
func (m *Model) DistortionMap() func(u, v float64) (float64, float64) {
	return func(u, v float64) (float64, float64) {
		px, err := m.distortPixel(PixelIndex{U: u, V: v})
		if err != nil {
			return math.NaN(), math.NaN()
		}
		return px.U, px.V
	}
}

func (m *Model) distortPixel(px PixelIndex) (PixelIndex, error) {
	ray, err := m.projection.Unproject(px)
	if err != nil {
		return PixelIndex{}, err
	}
	distorted, err := m.distorter.Distort(ray)
	if err != nil {
		return PixelIndex{}, errors.Wrapf(err, "pixel %v", px)
	}
	return m.projection.Project(distorted)
}
