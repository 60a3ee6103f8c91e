package camera

// Ideal is the distortion of a perfect lens. It returns every ray unchanged, including rays
// behind the camera.
type Ideal struct{}

// ModelType returns the type of distortion model.
func (Ideal) ModelType() DistortionType {
	return IdealDistortionType
}

// CheckValid always succeeds.
func (Ideal) CheckValid() error {
	return nil
}

// Parameters returns an empty list.
func (Ideal) Parameters() []float64 {
	return []float64{}
}

// Transform returns its input.
func (Ideal) Transform(x, y float64) (float64, float64) {
	return x, y
}

// Distort returns ray.
func (Ideal) Distort(ray CameraRay) (CameraRay, error) {
	return ray, nil
}

// Undistort returns ray.
func (Ideal) Undistort(ray CameraRay) (CameraRay, error) {
	return ray, nil
}
