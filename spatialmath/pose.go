package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose is a rigid transform x' = R*x + t.
type Pose struct {
	Rotation    *RotationMatrix
	Translation r3.Vector
}

// NewPose returns the pose made of the given rotation and translation. A nil rotation is the
// identity.
func NewPose(rotation *RotationMatrix, translation r3.Vector) Pose {
	if rotation == nil {
		rotation = IdentityRotationMatrix()
	}
	return Pose{Rotation: rotation, Translation: translation}
}

// Invert returns the inverse transform (Rᵀ, -Rᵀt). It assumes the rotation is orthonormal.
func (p Pose) Invert() Pose {
	rt := p.Rotation.Transpose()
	return Pose{Rotation: rt, Translation: rt.Mul(p.Translation).Mul(-1)}
}

// Transform applies the pose to a point.
func (p Pose) Transform(pt r3.Vector) r3.Vector {
	return p.Rotation.Mul(pt).Add(p.Translation)
}

func (p Pose) String() string {
	return fmt.Sprintf("{X:%.3f, Y:%.3f, Z:%.3f, q:%v}",
		p.Translation.X, p.Translation.Y, p.Translation.Z, p.Rotation.Quaternion())
}
