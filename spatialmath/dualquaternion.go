// Package spatialmath defines the rigid transforms used to locate contact frames relative to one another.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// dualQuaternion is a unit dual quaternion: the real part holds the rotation and the dual part
// holds half the translation rotated by the real part.
type dualQuaternion struct {
	dualquat.Number
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.setTranslation(point)
	return q
}

// NewPose returns a pose at the given point with the given orientation.
func NewPose(point r3.Vector, o Orientation) Pose {
	q := newDualQuaternion()
	if o != nil {
		q.Real = NewQuaternion(o.Quaternion()).Quaternion()
	}
	q.setTranslation(point)
	return q
}

func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{Real: quat.Number{Real: 1}}}
}

func (q *dualQuaternion) setTranslation(pt r3.Vector) {
	q.Dual = quat.Scale(0.5, quat.Mul(quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}, q.Real))
}

// Point multiplies the dual part by the conjugate of the real part to recover the translation.
func (q *dualQuaternion) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

func (q *dualQuaternion) Orientation() Orientation {
	o := quaternion(q.Real)
	return &o
}

func (q *dualQuaternion) String() string {
	pt := q.Point()
	aa := q.Orientation().AxisAngles()
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f Theta:%.4f RX:%.4f RY:%.4f RZ:%.4f}",
		pt.X, pt.Y, pt.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

func toDualQuaternion(p Pose) *dualQuaternion {
	if dq, ok := p.(*dualQuaternion); ok {
		return dq
	}
	return NewPose(p.Point(), p.Orientation()).(*dualQuaternion)
}

// Compose treats a and b as transforms and returns a∘b: the pose of b expressed in the frame a is
// expressed in.
func Compose(a, b Pose) Pose {
	return &dualQuaternion{dualquat.Mul(toDualQuaternion(a).Number, toDualQuaternion(b).Number)}
}

// PoseInverse returns the inverse of a pose, such that Compose(p, PoseInverse(p)) is the zero pose.
func PoseInverse(p Pose) Pose {
	return &dualQuaternion{dualquat.ConjQuat(toDualQuaternion(p).Number)}
}

// PoseBetween returns the pose of b expressed in the frame of a.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}
