package camera

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camgeom/utils"
)

// ProjectionType is the name of the projection model.
type ProjectionType string

const (
	// PinholeProjectionType is the perspective projection of narrow field lenses.
	PinholeProjectionType = ProjectionType("pinhole")
	// FisheyeProjectionType is the equidistant projection of wide-angle lenses.
	FisheyeProjectionType = ProjectionType("fisheye")
)

// Projection maps a (possibly distorted) camera ray to a pixel and back. For a fixed set of
// intrinsics Project and Unproject are exact inverses of each other.
type Projection interface {
	ProjectionType() ProjectionType
	CheckValid() error
	Intrinsics() Intrinsics
	Project(ray CameraRay) (PixelIndex, error)
	Unproject(px PixelIndex) (CameraRay, error)
}

// Intrinsics are the linear parameters shared by every projection: focal lengths and principal point
// in pixels, and the skew between the image axes.
type Intrinsics struct {
	Fx   float64 `json:"fx"`
	Fy   float64 `json:"fy"`
	Cx   float64 `json:"ppx"`
	Cy   float64 `json:"ppy"`
	Skew float64 `json:"skew"`
}

// CheckValid checks if the intrinsics can be inverted.
func (in Intrinsics) CheckValid() error {
	if !utils.IsFinite(in.Fx) || in.Fx == 0 {
		return NewInvalidIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", in.Fx))
	}
	if !utils.IsFinite(in.Fy) || in.Fy == 0 {
		return NewInvalidIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", in.Fy))
	}
	if !utils.IsFinite(in.Cx, in.Cy) {
		return NewInvalidIntrinsicsError(fmt.Sprintf("Invalid principal point (%#v, %#v)", in.Cx, in.Cy))
	}
	if !utils.IsFinite(in.Skew) {
		return NewInvalidIntrinsicsError(fmt.Sprintf("Invalid skew = %#v", in.Skew))
	}
	return nil
}

// Matrix returns the 3x3 camera matrix
//
//	[fx skew cx]
//	[ 0  fy  cy]
//	[ 0   0   1]
func (in Intrinsics) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		in.Fx, in.Skew, in.Cx,
		0, in.Fy, in.Cy,
		0, 0, 1,
	})
}

// toPixel applies the linear intrinsics map to a point on the image plane.
func (in Intrinsics) toPixel(x, y float64) PixelIndex {
	return PixelIndex{U: in.Fx*x + in.Skew*y + in.Cx, V: in.Fy*y + in.Cy}
}

// fromPixel inverts toPixel. The intrinsics must be valid.
func (in Intrinsics) fromPixel(px PixelIndex) (float64, float64) {
	y := (px.V - in.Cy) / in.Fy
	x := (px.U - in.Cx - in.Skew*y) / in.Fx
	return x, y
}

// checkUnprojectable validates everything Unproject needs before doing arithmetic.
func checkUnprojectable(in Intrinsics, px PixelIndex) error {
	if err := in.CheckValid(); err != nil {
		return err
	}
	if !px.IsFinite() {
		return errors.Wrapf(ErrInvalidPixel, "pixel %v", px)
	}
	return nil
}

// NewProjection returns a Projection given a valid ProjectionType and its intrinsics.
func NewProjection(projectionType ProjectionType, intrinsics Intrinsics) (Projection, error) {
	switch projectionType {
	case PinholeProjectionType:
		p, err := NewPinhole(intrinsics)
		if err != nil {
			return nil, err
		}
		return p, nil
	case FisheyeProjectionType:
		f, err := NewFisheye(intrinsics)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, errors.Errorf("do not know how to parse %q projection model", projectionType)
	}
}
