package pointcloud

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// SegmentPlane finds the plane supported by the most points with RANSAC.
// nIterations is the number of iteration for ransac
// nIter to choose? nIter = log(1-p)/log(1-(1-e)^s), where p is prob of success, e is outlier ratio, s is subset size (3 for plane).
// threshold is the maximum allowed distance to the found plane for a point to belong to it.
// The sampled plane is refined with a least squares fit over its inliers. The returned indices are the
// inliers of the final plane. The random source is seeded so results are repeatable.
func SegmentPlane(points []r3.Vector, nIterations int, threshold float64) (*Plane, []int, error) {
	if len(points) < 3 {
		return NewEmptyPlane(), nil, nil
	}
	//nolint:gosec
	r := rand.New(rand.NewSource(1))

	var best *Plane
	bestInliers := 0
	for i := 0; i < nIterations; i++ {
		// sample 3 distinct points
		n1 := r.Intn(len(points))
		n2 := r.Intn(len(points))
		n3 := r.Intn(len(points))
		if n1 == n2 || n1 == n3 || n2 == n3 {
			continue
		}
		p1, p2, p3 := points[n1], points[n2], points[n3]

		// cross product to get the normal to the plane (v1, v2)
		cross := p2.Sub(p1).Cross(p3.Sub(p1))
		if cross.Norm() < 1e-12 {
			continue
		}
		current := NewPlaneFromPointNormal(p1, cross)

		currentInliers := 0
		for _, pt := range points {
			if math.Abs(current.Distance(pt)) < threshold {
				currentInliers++
			}
		}
		if currentInliers > bestInliers {
			best = current
			bestInliers = currentInliers
		}
	}
	if best == nil {
		return NewEmptyPlane(), nil, nil
	}

	inliers := planeInliers(best, points, threshold)
	inlierPoints := make([]r3.Vector, 0, len(inliers))
	for _, idx := range inliers {
		inlierPoints = append(inlierPoints, points[idx])
	}
	refined, err := FitPlane(inlierPoints)
	if err != nil {
		// the sampled plane is still a valid answer
		return best, inliers, nil //nolint:nilerr
	}
	return refined, planeInliers(refined, points, threshold), nil
}

func planeInliers(plane *Plane, points []r3.Vector, threshold float64) []int {
	inliers := make([]int, 0, len(points))
	for i, pt := range points {
		if math.Abs(plane.Distance(pt)) < threshold {
			inliers = append(inliers, i)
		}
	}
	return inliers
}

// IsEmpty returns whether the plane is the zero plane returned when no plane could be found.
func (p *Plane) IsEmpty() bool {
	return p.equation == [4]float64{}
}
