package camera

import (
	"fmt"

	"github.com/pkg/errors"
)

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// IdealDistortionType is a perfect lens: rays are not changed.
	IdealDistortionType = DistortionType("ideal")
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lense distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
)

// inverseIterations bounds the Newton steps taken when undistorting.
const inverseIterations = 20

// Distorter maps an ideal camera ray to the ray a real lens produces. Transform is the same map on
// the normalized image plane, where a ray is represented by (x/z, y/z).
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
	Distort(ray CameraRay) (CameraRay, error)
}

// Undistorter is implemented by distorters that can invert themselves. Inversion is generally not
// closed form, so a Distorter is not required to provide it.
type Undistorter interface {
	Undistort(ray CameraRay) (CameraRay, error)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case IdealDistortionType, "":
		if len(parameters) != 0 {
			return nil, InvalidDistortionError("ideal distortion takes no parameters")
		}
		return Ideal{}, nil
	case BrownConradyDistortionType:
		return NewPlumbBob(parameters)
	case KannalaBrandtDistortionType:
		return NewFisheyeDistortion(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// onImagePlane applies an image plane map to a ray. The image plane only exists in front of the
// camera.
func onImagePlane(ray CameraRay, f func(x, y float64) (float64, float64)) (CameraRay, error) {
	if !ray.InFront() {
		return CameraRay{}, errors.Wrapf(ErrBehindCamera, "ray %v", ray)
	}
	return NewCameraRay(f(ray.X(), ray.Y()))
}

// padParameters copies inp into a slice of length n, filling missing values with 0.
func padParameters(inp []float64, n int) ([]float64, error) {
	if len(inp) > n {
		return nil, InvalidDistortionError(fmt.Sprintf("list of parameters too long, expected max %d, got %d", n, len(inp)))
	}
	out := make([]float64, n)
	copy(out, inp)
	return out, nil
}
