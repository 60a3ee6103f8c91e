package camera

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/camgeom/utils"
)

// PlumbBob is the Brown-Conrady radial and tangential distortion model. On the normalized image
// plane, with r² = x² + y²,
//
//	x_d = x * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x*y + p2*(r² + 2*x²)
//	y_d = y * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x*y + p1*(r² + 2*y²)
type PlumbBob struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// NewPlumbBob takes in a slice of floats that will be passed into the struct in order:
// k1, k2, k3, p1, p2. Missing trailing values are 0.
func NewPlumbBob(inp []float64) (*PlumbBob, error) {
	params, err := padParameters(inp, 5)
	if err != nil {
		return nil, err
	}
	pb := &PlumbBob{params[0], params[1], params[2], params[3], params[4]}
	if err := pb.CheckValid(); err != nil {
		return nil, err
	}
	return pb, nil
}

// CheckValid checks if the fields for PlumbBob have valid inputs.
func (pb *PlumbBob) CheckValid() error {
	if pb == nil {
		return InvalidDistortionError("PlumbBob shaped distortion_parameters not provided")
	}
	if !utils.IsFinite(pb.Parameters()...) {
		return InvalidDistortionError(fmt.Sprintf("PlumbBob parameters must be finite, got %v", pb.Parameters()))
	}
	return nil
}

// ModelType returns the type of distortion model.
func (pb *PlumbBob) ModelType() DistortionType {
	return BrownConradyDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (pb *PlumbBob) Parameters() []float64 {
	if pb == nil {
		return []float64{}
	}
	return []float64{pb.RadialK1, pb.RadialK2, pb.RadialK3, pb.TangentialP1, pb.TangentialP2}
}

// Transform distorts a point on the normalized image plane.
func (pb *PlumbBob) Transform(x, y float64) (float64, float64) {
	if pb == nil {
		return x, y
	}
	r2 := x*x + y*y
	r4 := r2 * r2
	r6 := r4 * r2
	radial := 1.0 + pb.RadialK1*r2 + pb.RadialK2*r4 + pb.RadialK3*r6
	tanX := 2.0*pb.TangentialP1*x*y + pb.TangentialP2*(r2+2.0*x*x)
	tanY := 2.0*pb.TangentialP2*x*y + pb.TangentialP1*(r2+2.0*y*y)
	return x*radial + tanX, y*radial + tanY
}

// Distort returns the ray the lens produces for an ideal ray in front of the camera.
func (pb *PlumbBob) Distort(ray CameraRay) (CameraRay, error) {
	return onImagePlane(ray, pb.Transform)
}

// Undistort inverts Distort.
func (pb *PlumbBob) Undistort(ray CameraRay) (CameraRay, error) {
	if !ray.InFront() {
		return CameraRay{}, errors.Wrapf(ErrBehindCamera, "ray %v", ray)
	}
	x, y, err := pb.inverseTransform(ray.X(), ray.Y())
	if err != nil {
		return CameraRay{}, err
	}
	return NewCameraRay(x, y)
}

// inverseTransform finds the undistorted point that Transform maps to (xd, yd) with Newton-Raphson
// iterations, starting from the distorted point.
func (pb *PlumbBob) inverseTransform(xd, yd float64) (float64, float64, error) {
	if pb == nil {
		return xd, yd, nil
	}
	return pb.newtonInverse(xd, yd, inverseIterations)
}

// newtonInverse runs at most iterations Newton steps from (xd, yd). The residual of the last step
// is checked before giving up.
func (pb *PlumbBob) newtonInverse(xd, yd float64, iterations int) (float64, float64, error) {
	const tolerance = 1e-12

	xu, yu := xd, yd
	for i := 0; i < iterations; i++ {
		r2 := xu*xu + yu*yu
		r4 := r2 * r2
		r6 := r4 * r2

		errX, errY := pb.residual(xu, yu, xd, yd)
		if errX*errX+errY*errY < tolerance*tolerance {
			return xu, yu, nil
		}

		// J = [[dxd/dxu, dxd/dyu], [dyd/dxu, dyd/dyu]]
		radDist := 1.0 + pb.RadialK1*r2 + pb.RadialK2*r4 + pb.RadialK3*r6
		dRadDistDr2 := pb.RadialK1 + 2.0*pb.RadialK2*r2 + 3.0*pb.RadialK3*r4
		dRadDistDxu := 2.0 * xu * dRadDistDr2
		dRadDistDyu := 2.0 * yu * dRadDistDr2

		dxdDxu := radDist + xu*dRadDistDxu + 2.0*pb.TangentialP1*yu + 6.0*pb.TangentialP2*xu
		dxdDyu := xu*dRadDistDyu + 2.0*pb.TangentialP1*xu + 2.0*pb.TangentialP2*yu
		dydDxu := yu*dRadDistDxu + 2.0*pb.TangentialP2*yu + 2.0*pb.TangentialP1*xu
		dydDyu := radDist + yu*dRadDistDyu + 2.0*pb.TangentialP2*xu + 6.0*pb.TangentialP1*yu

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 || !utils.IsFinite(det) {
			break
		}

		// [xu, yu] -= J^-1 * [errX, errY]
		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}
	if errX, errY := pb.residual(xu, yu, xd, yd); errX*errX+errY*errY < tolerance*tolerance {
		return xu, yu, nil
	}
	return 0, 0, errors.Wrapf(ErrNoConvergence, "PlumbBob inverse at (%v, %v)", xd, yd)
}

func (pb *PlumbBob) residual(xu, yu, xd, yd float64) (float64, float64) {
	xdEst, ydEst := pb.Transform(xu, yu)
	return xdEst - xd, ydEst - yd
}
