package supportpolygon

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Ring is a closed polygonal boundary: vertex j is joined to vertex (j+1) mod len(ring), so the last
// vertex connects back to the first.
type Ring []r2.Point

// Edge returns the endpoints of the j-th edge of the ring.
func (r Ring) Edge(j int) (r2.Point, r2.Point) {
	return r[j], r[(j+1)%len(r)]
}

// SignedArea returns the area of the ring, positive when the vertices turn counter-clockwise.
func (r Ring) SignedArea() float64 {
	var area float64
	for j := range r {
		p0, p1 := r.Edge(j)
		area += p0.Cross(p1)
	}
	return area / 2
}

// Clockwise returns the ring with its vertices in clockwise order. It returns r itself when r already
// turns clockwise.
func (r Ring) Clockwise() Ring {
	if r.SignedArea() <= 0 {
		return r
	}
	reversed := make(Ring, len(r))
	for i, pt := range r {
		reversed[len(r)-1-i] = pt
	}
	return reversed
}

// Centroid returns the area centroid of the ring.
func (r Ring) Centroid() r2.Point {
	var c r2.Point
	var area float64
	for j := range r {
		p0, p1 := r.Edge(j)
		cross := p0.Cross(p1)
		area += cross
		c = c.Add(p0.Add(p1).Mul(cross))
	}
	if area == 0 {
		return c
	}
	return c.Mul(1 / (3 * area))
}

// hullEpsilon is the relative tolerance under which points coincide and turns count as straight.
const hullEpsilon = 1e-9

// hullScale returns the size of the axis-aligned box around pts, never less than 1 so that tolerances
// do not vanish for tightly clustered points.
func hullScale(pts []r2.Point) float64 {
	if len(pts) == 0 {
		return 1
	}
	size := r2.RectFromPoints(pts...).Size()
	return math.Max(1, math.Max(size.X, size.Y))
}

// degenerate reports whether the ring encloses no area, up to rounding relative to scale.
func (r Ring) degenerate(scale float64) bool {
	return len(r) < 3 || math.Abs(r.SignedArea()) <= hullEpsilon*scale*scale
}

// A Huller computes the boundary rings of the convex hull of a set of points.
type Huller interface {
	ConvexHull(points []r2.Point) ([]Ring, error)
}

// MonotoneChain computes the convex hull with Andrew's monotone chain algorithm in O(n log n). Collinear
// boundary points are dropped, so every returned vertex is a corner.
type MonotoneChain struct{}

// ConvexHull returns exactly one counter-clockwise ring, or ErrHullDegenerate.
func (MonotoneChain) ConvexHull(points []r2.Point) ([]Ring, error) {
	pts := append([]r2.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X == pts[j].X {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	scale := hullScale(pts)
	pts = dedupe(pts, hullEpsilon*scale)
	if len(pts) < 3 {
		return nil, newHullDegenerateError(len(pts))
	}
	straight := hullEpsilon * scale * scale

	hull := make(Ring, 0, 2*len(pts))
	// lower chain
	for _, pt := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], pt) <= straight {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	// upper chain
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		pt := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], pt) <= straight {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	// the first point was appended again to close the upper chain
	hull = hull[:len(hull)-1]

	if hull.degenerate(scale) {
		return nil, newHullDegenerateError(len(hull))
	}
	return []Ring{hull}, nil
}

// turn is positive when o, a, b make a counter-clockwise turn.
func turn(o, a, b r2.Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// dedupe removes consecutive points of a sorted slice that lie within tol of the last kept point.
func dedupe(pts []r2.Point, tol float64) []r2.Point {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, pt := range pts[1:] {
		if pt.Sub(out[len(out)-1]).Norm() > tol {
			out = append(out, pt)
		}
	}
	return out
}
