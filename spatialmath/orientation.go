package spatialmath

import "gonum.org/v1/gonum/num/quat"

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object or a frame of reference in 3D Euclidean space.
type Orientation interface {
	AxisAngles() *R4AA
	Quaternion() quat.Number
}

type quaternion quat.Number

// NewQuaternion wraps a quaternion as an Orientation. The quaternion is normalized.
func NewQuaternion(q quat.Number) Orientation {
	if n := quat.Abs(q); n != 0 && n != 1 {
		q = quat.Scale(1/n, q)
	}
	o := quaternion(q)
	return &o
}

func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

func (q *quaternion) AxisAngles() *R4AA {
	aa := QuatToR4AA(q.Quaternion())
	return &aa
}
