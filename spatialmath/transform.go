package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid motion: a rotation followed by a translation.
type Transform struct {
	rotation    quat.Number
	translation r3.Vector
}

// Transformable is implemented by every value that can be moved by a rigid transform.
type Transformable[T any] interface {
	Transformed(t Transform) T
}

// ApplyTo moves obj by t. It is the generic form of t.Apply for anything Transformable.
func ApplyTo[T Transformable[T]](t Transform, obj T) T {
	return obj.Transformed(t)
}

// NewTransform creates a transform that rotates by o and then translates by translation.
// A nil orientation means no rotation.
func NewTransform(o Orientation, translation r3.Vector) Transform {
	if o == nil {
		o = NewZeroOrientation()
	}
	return Transform{rotation: Normalize(o.Quaternion()), translation: translation}
}

// NewIdentityTransform returns the transform that changes nothing.
func NewIdentityTransform() Transform {
	return Transform{rotation: quat.Number{Real: 1}}
}

// Orientation returns the rotation part of the transform.
func (t Transform) Orientation() Orientation {
	q := quaternion(t.rotation)
	return &q
}

// Translation returns the translation part of the transform.
func (t Transform) Translation() r3.Vector {
	return t.translation
}

// Apply transforms a point: R*p + t.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	return t.Rotate(p).Add(t.translation)
}

// Rotate applies only the rotation part of the transform, which is what directions need.
func (t Transform) Rotate(v r3.Vector) r3.Vector {
	return rotateByQuat(t.rotation, v)
}

// Compose returns the transform equivalent to applying inner first and then t.
func (t Transform) Compose(inner Transform) Transform {
	return inner.Transformed(t)
}

// Transformed returns t moved by outer, i.e. outer.Compose(t).
func (t Transform) Transformed(outer Transform) Transform {
	return Transform{
		rotation:    Normalize(quat.Mul(outer.rotation, t.rotation)),
		translation: outer.Apply(t.translation),
	}
}

// Inverse returns the transform that undoes t: (R⁻¹, R⁻¹(-t)).
func (t Transform) Inverse() Transform {
	inv := quat.Conj(t.rotation)
	return Transform{rotation: inv, translation: rotateByQuat(inv, t.translation.Mul(-1))}
}

// AlmostEqual reports whether two transforms have the same rotation and translation within epsilon.
func (t Transform) AlmostEqual(other Transform, epsilon float64) bool {
	return rotationAlmostEqual(t.rotation, other.rotation, epsilon) &&
		R3VectorAlmostEqual(t.translation, other.translation, epsilon)
}
