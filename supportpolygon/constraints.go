package supportpolygon

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Constraints is the halfplane form A·x ≤ b of a support polygon. Row i of A is the (a, b) of one hull
// edge and B[i] is its bound.
type Constraints struct {
	A *mat.Dense
	B *mat.VecDense
}

// Len returns the number of rows, which is the number of hull edges.
func (c *Constraints) Len() int {
	if c.B == nil {
		return 0
	}
	return c.B.Len()
}

// Row returns the i-th constraint a·x + b·y ≤ bound.
func (c *Constraints) Row(i int) (a, b, bound float64) {
	return c.A.At(i, 0), c.A.At(i, 1), c.B.AtVec(i)
}

// Violation returns max_i(A[i]·pt - B[i]). It is not positive iff pt satisfies every constraint.
func (c *Constraints) Violation(pt r2.Point) float64 {
	worst := math.Inf(-1)
	for i := 0; i < c.Len(); i++ {
		a, b, bound := c.Row(i)
		worst = math.Max(worst, a*pt.X+b*pt.Y-bound)
	}
	return worst
}

// Contains returns whether pt satisfies every constraint to within tol.
func (c *Constraints) Contains(pt r2.Point, tol float64) bool {
	return c.Violation(pt) <= tol
}

func (c *Constraints) String() string {
	var sb strings.Builder
	for i := 0; i < c.Len(); i++ {
		a, b, bound := c.Row(i)
		fmt.Fprintf(&sb, "%+.6f x %+.6f y <= %.6f\n", a, b, bound)
	}
	return sb.String()
}

// LineCoefficients returns the implicit line a·x + b·y + c = 0 through p0 and p1. (a, b) is normal to
// the segment; it points to the left of the direction p0→p1, which is outward for a clockwise ring.
func LineCoefficients(p0, p1 r2.Point) (a, b, c float64) {
	a = p0.Y - p1.Y
	b = p1.X - p0.X
	c = -b*p0.Y - a*p0.X
	return a, b, c
}

type halfplane struct {
	a, b, bound float64
	// inverted records that c was positive, i.e. the origin lies outside this edge.
	inverted bool
}

// halfplaneFromEdge converts one hull edge into a constraint. The sign of the row is chosen so that the
// origin satisfies it and the bound is not negative. A line passing within tolerance of the origin gets a
// bound of exactly zero; every other bound is reduced by the margin.
func halfplaneFromEdge(p0, p1 r2.Point, margin, tolerance float64, erosion ErosionMode) halfplane {
	a, b, c := LineCoefficients(p0, p1)
	if erosion == ErosionNormalized {
		if n := math.Hypot(a, b); n > 0 {
			a, b, c = a/n, b/n, c/n
		}
	}

	var h halfplane
	if c <= 0 {
		h = halfplane{a: a, b: b, bound: -c}
	} else {
		h = halfplane{a: -a, b: -b, bound: c, inverted: true}
	}
	if math.Abs(c) <= tolerance {
		h.bound = 0
	} else {
		h.bound -= margin
	}
	return h
}

func halfplanesFromRing(ring Ring, margin, tolerance float64, erosion ErosionMode) []halfplane {
	rows := make([]halfplane, len(ring))
	for j := range ring {
		p0, p1 := ring.Edge(j)
		rows[j] = halfplaneFromEdge(p0, p1, margin, tolerance, erosion)
	}
	return rows
}

// writeHalfplanes resizes A to len(rows)×2 and B to len(rows) and fills them.
func writeHalfplanes(rows []halfplane, aMat *mat.Dense, bVec *mat.VecDense) error {
	if aMat == nil || bVec == nil {
		return errors.New("constraint outputs must not be nil")
	}
	if !aMat.IsEmpty() {
		aMat.Reset()
	}
	if !bVec.IsEmpty() {
		bVec.Reset()
	}
	aMat.ReuseAs(len(rows), 2)
	bVec.ReuseAsVec(len(rows))
	for i, h := range rows {
		aMat.Set(i, 0, h.a)
		aMat.Set(i, 1, h.b)
		bVec.SetVec(i, h.bound)
	}
	return nil
}

// Vertices returns the corners of the region described by the constraints, assuming consecutive rows come
// from consecutive hull edges as produced by Engine. Corner j is where row j-1 meets row j.
func (c *Constraints) Vertices() ([]r2.Point, error) {
	n := c.Len()
	vertices := make([]r2.Point, 0, n)
	for j := 0; j < n; j++ {
		a0, b0, c0 := c.Row((j + n - 1) % n)
		a1, b1, c1 := c.Row(j)
		det := a0*b1 - a1*b0
		if math.Abs(det) < 1e-12 {
			return nil, errors.Errorf("constraints %d and %d are parallel", (j+n-1)%n, j)
		}
		vertices = append(vertices, r2.Point{
			X: (c0*b1 - c1*b0) / det,
			Y: (a0*c1 - a1*c0) / det,
		})
	}
	return vertices, nil
}
