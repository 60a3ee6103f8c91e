package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is the position and orientation of a frame, e.g. a camera, expressed in its parent frame.
type Pose struct {
	orientation Orientation
	point       r3.Vector
}

// NewPose creates a pose from a point and orientation. A nil orientation means no rotation.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return Pose{orientation: o, point: p}
}

// NewZeroPose returns the identity pose: at the origin with no rotation.
func NewZeroPose() Pose {
	return NewPose(r3.Vector{}, nil)
}

// NewPoseFromPoint creates a pose at the given point with no rotation.
func NewPoseFromPoint(p r3.Vector) Pose {
	return NewPose(p, nil)
}

// Point returns the position of the pose.
func (p Pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the orientation of the pose.
func (p Pose) Orientation() Orientation {
	if p.orientation == nil {
		return NewZeroOrientation()
	}
	return p.orientation
}

// Transform returns the rigid transform from the pose's own frame to its parent frame.
func (p Pose) Transform() Transform {
	return NewTransform(p.Orientation(), p.point)
}

// Transformed moves the pose by t: its orientation is rotated and its position transformed.
func (p Pose) Transformed(t Transform) Pose {
	return NewPose(t.Apply(p.point), NewQuaternion(quat.Mul(t.rotation, p.Orientation().Quaternion())))
}

// AlmostEqual reports whether two poses have approximately the same position and orientation.
func (p Pose) AlmostEqual(other Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(p.point, other.point, epsilon) &&
		rotationAlmostEqual(p.Orientation().Quaternion(), other.Orientation().Quaternion(), epsilon)
}

func (p Pose) String() string {
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f %+v}", p.point.X, p.point.Y, p.point.Z, *p.Orientation().AxisAngles())
}
