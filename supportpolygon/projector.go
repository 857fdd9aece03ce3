package supportpolygon

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/borgorg/idynutils/pointcloud"
)

// PlaneEstimator chooses the plane the contact points are projected onto and returns the projection of
// every point, in input order, expressed by its x and y coordinates.
type PlaneEstimator interface {
	Project(points []r3.Vector) []r2.Point
}

// FixedHorizontal projects orthogonally onto the plane with normal (0,0,1) and offset 0, i.e. it drops z.
type FixedHorizontal struct{}

// Project drops the z coordinate of every point.
func (FixedHorizontal) Project(points []r3.Vector) []r2.Point {
	projected := make([]r2.Point, len(points))
	for i, pt := range points {
		projected[i] = r2.Point{X: pt.X, Y: pt.Y}
	}
	return projected
}

// RansacFit fits the dominant plane of the points with RANSAC and projects every point orthogonally onto
// it before dropping z. Points farther than Threshold from the sampled plane do not vote for it but are
// still projected. When no plane can be fitted the horizontal plane is used.
type RansacFit struct {
	Threshold  float64
	Iterations int
}

// Plane returns the plane the points are projected onto.
func (rf RansacFit) Plane(points []r3.Vector) *pointcloud.Plane {
	plane, _, err := pointcloud.SegmentPlane(points, rf.Iterations, rf.Threshold)
	if err != nil || plane.IsEmpty() {
		return pointcloud.HorizontalPlane()
	}
	return plane
}

// Project projects the points onto the fitted plane and drops z.
func (rf RansacFit) Project(points []r3.Vector) []r2.Point {
	plane := rf.Plane(points)
	projected := make([]r2.Point, len(points))
	for i, pt := range points {
		p := plane.Project(pt)
		projected[i] = r2.Point{X: p.X, Y: p.Y}
	}
	return projected
}

func newPlaneEstimator(cfg *Config) PlaneEstimator {
	if cfg.PlaneEstimation == PlaneRansacFit {
		return RansacFit{Threshold: cfg.RansacDistanceThreshold, Iterations: cfg.RansacIterations}
	}
	return FixedHorizontal{}
}
