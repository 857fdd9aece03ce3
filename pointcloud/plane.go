// Package pointcloud fits planes to sets of 3D points.
package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Plane is a plane given by the equation [0]x + [1]y + [2]z + [3] = 0 with a unit normal, together with a
// point of the plane that is used as its center.
type Plane struct {
	equation [4]float64
	center   r3.Vector
}

// NewEmptyPlane initializes an empty plane object.
func NewEmptyPlane() *Plane {
	return &Plane{}
}

// NewPlane creates a plane from its equation. The equation is rescaled so that the normal has unit length;
// the center is the point of the plane closest to the origin.
func NewPlane(equation [4]float64) *Plane {
	n := r3.Vector{X: equation[0], Y: equation[1], Z: equation[2]}
	norm := n.Norm()
	if norm == 0 {
		return NewEmptyPlane()
	}
	for i := range equation {
		equation[i] /= norm
	}
	unit := n.Mul(1 / norm)
	return &Plane{equation: equation, center: unit.Mul(-equation[3])}
}

// NewPlaneFromPointNormal creates the plane through center with the given normal.
func NewPlaneFromPointNormal(center, normal r3.Vector) *Plane {
	unit := normal.Normalize()
	return &Plane{
		equation: [4]float64{unit.X, unit.Y, unit.Z, -unit.Dot(center)},
		center:   center,
	}
}

// HorizontalPlane is the plane z = 0.
func HorizontalPlane() *Plane {
	return NewPlane([4]float64{0, 0, 1, 0})
}

// Equation returns the plane equation [0]x + [1]y + [2]z + [3] = 0.
func (p *Plane) Equation() [4]float64 {
	return p.equation
}

// Normal returns the unit normal of the plane.
func (p *Plane) Normal() r3.Vector {
	return r3.Vector{X: p.equation[0], Y: p.equation[1], Z: p.equation[2]}
}

// Center returns a point of the plane.
func (p *Plane) Center() r3.Vector {
	return p.center
}

// Distance returns the signed distance from the plane to the point.
func (p *Plane) Distance(pt r3.Vector) float64 {
	return p.Normal().Dot(pt) + p.equation[3]
}

// Project returns the orthogonal projection of the point onto the plane.
func (p *Plane) Project(pt r3.Vector) r3.Vector {
	return pt.Sub(p.Normal().Mul(p.Distance(pt)))
}

// FitPlane returns the least squares plane through the points: it passes through their centroid and its
// normal is the direction of least variance. The normal is oriented so that its z component is not negative.
func FitPlane(points []r3.Vector) (*Plane, error) {
	if len(points) < 3 {
		return nil, errors.Errorf("need at least 3 points to fit a plane, got %d", len(points))
	}
	var center r3.Vector
	for _, pt := range points {
		center = center.Add(pt)
	}
	center = center.Mul(1 / float64(len(points)))

	centered := mat.NewDense(len(points), 3, nil)
	for i, pt := range points {
		d := pt.Sub(center)
		centered.SetRow(i, []float64{d.X, d.Y, d.Z})
	}
	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("singular value decomposition of the point set failed")
	}
	values := svd.Values(nil)
	if values[1] < 1e-12 {
		return nil, errors.New("points are collinear, plane is undefined")
	}
	var v mat.Dense
	svd.VTo(&v)
	normal := r3.Vector{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}
	if normal.Z < 0 {
		normal = normal.Mul(-1)
	}
	return NewPlaneFromPointNormal(center, normal), nil
}
