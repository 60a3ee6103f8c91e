package camera

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/camgeom/spatialmath"
)

// ErrNoIntersection is returned when a pixel's ray does not meet a plane at a single point.
var ErrNoIntersection = errors.New("pixel ray does not intersect the plane at a single point")

// Camera is a Model placed in the world. Its pose maps the camera's optical frame, +z forward, to
// world coordinates.
type Camera struct {
	model *Model
	pose  spatialmath.Pose
}

// NewCamera creates a camera with the given model and world pose.
func NewCamera(model *Model, pose spatialmath.Pose) (*Camera, error) {
	if model == nil {
		return nil, errors.New("camera model not provided")
	}
	return &Camera{model: model, pose: pose}, nil
}

// Model returns the optical model of the camera.
func (c *Camera) Model() *Model {
	return c.model
}

// Pose returns the world pose of the camera.
func (c *Camera) Pose() spatialmath.Pose {
	return c.pose
}

// PixelRay returns the world-frame ray from the camera center through px.
func (c *Camera) PixelRay(px PixelIndex) (spatialmath.Ray, error) {
	ray, err := c.model.Unproject(px)
	if err != nil {
		return spatialmath.Ray{}, err
	}
	dir, err := spatialmath.NewUnitVector(c.pose.Transform().Rotate(ray.Direction()))
	if err != nil {
		return spatialmath.Ray{}, err
	}
	return spatialmath.NewRay(c.pose.Point(), dir)
}

// ProjectPoint returns the pixel a world point is imaged at.
func (c *Camera) ProjectPoint(world r3.Vector) (PixelIndex, error) {
	local := c.pose.Transform().Inverse().Apply(world)
	ray, err := NewCameraRayFromDirection(local)
	if err != nil {
		return PixelIndex{}, errors.Wrapf(err, "point %v is at the camera center", world)
	}
	return c.model.Project(ray)
}

// PixelOnPlane returns the world point where the ray through px meets plane. A ray that misses the
// plane, or lies in it, returns ErrNoIntersection.
func (c *Camera) PixelOnPlane(px PixelIndex, plane spatialmath.Plane) (r3.Vector, error) {
	ray, err := c.PixelRay(px)
	if err != nil {
		return r3.Vector{}, err
	}
	hit, ok := spatialmath.Intersect(ray, plane)
	if !ok {
		return r3.Vector{}, errors.Wrapf(ErrNoIntersection, "pixel %v", px)
	}
	pt, ok := hit.Point()
	if !ok {
		return r3.Vector{}, errors.Wrapf(ErrNoIntersection, "pixel %v ray lies in %v", px, plane)
	}
	return pt, nil
}

func (c *Camera) String() string {
	return fmt.Sprintf("Camera{%s/%s at %v}", c.model.projection.ProjectionType(), c.model.distorter.ModelType(), c.pose)
}
