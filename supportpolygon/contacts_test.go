package supportpolygon

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/borgorg/idynutils/referenceframe"
	"github.com/borgorg/idynutils/spatialmath"
)

// newBiped builds a frame system with both feet flat on the ground, one meter below the waist.
func newBiped(t *testing.T, com r3.Vector) *referenceframe.FrameSystem {
	t.Helper()
	fs := referenceframe.NewEmptyFrameSystem("biped")
	test.That(t, fs.AddFrame("waist", referenceframe.World, spatialmath.NewPoseFromPoint(r3.Vector{Z: 1})), test.ShouldBeNil)
	test.That(t, fs.AddFrame("com", "waist", spatialmath.NewPoseFromPoint(com)), test.ShouldBeNil)
	for _, foot := range []struct {
		side string
		y    float64
	}{{"l", 0.1}, {"r", -0.1}} {
		corners := map[string]r3.Vector{
			"lower_left":  {X: -0.1, Y: foot.y + 0.05, Z: -1},
			"lower_right": {X: -0.1, Y: foot.y - 0.05, Z: -1},
			"upper_left":  {X: 0.15, Y: foot.y + 0.05, Z: -1},
			"upper_right": {X: 0.15, Y: foot.y - 0.05, Z: -1},
		}
		for corner, pt := range corners {
			name := foot.side + "_foot_" + corner + "_link"
			test.That(t, fs.AddFrame(name, "waist", spatialmath.NewPoseFromPoint(pt)), test.ShouldBeNil)
		}
	}
	return fs
}

func TestContactPoints(t *testing.T) {
	fs := newBiped(t, r3.Vector{X: 0.02, Z: 0.1})
	points, err := ContactPoints(context.Background(), fs, "com", DefaultContactFrames)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, points, test.ShouldHaveLength, len(DefaultContactFrames))
	// l_foot_lower_left_link relative to the com
	test.That(t, points[0].X, test.ShouldAlmostEqual, -0.12)
	test.That(t, points[0].Y, test.ShouldAlmostEqual, 0.15)
	test.That(t, points[0].Z, test.ShouldAlmostEqual, -1.1)

	points, err = ContactPoints(context.Background(), fs, "com", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, points, test.ShouldHaveLength, 0)
}

var errLinkNotFound = errors.New("link not found")

type failingProvider struct {
	missing string
}

func (p failingProvider) PoseInFrame(ctx context.Context, frame, reference string) (spatialmath.Pose, error) {
	if frame == p.missing {
		return nil, errLinkNotFound
	}
	return spatialmath.NewZeroPose(), nil
}

func TestContactPointsLookupFailure(t *testing.T) {
	_, err := ContactPoints(context.Background(), failingProvider{"r_foot_upper_left_link"}, "com", DefaultContactFrames)
	test.That(t, errors.Is(err, ErrCollaboratorLookupFailed), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "r_foot_upper_left_link")
	test.That(t, err.Error(), test.ShouldContainSubstring, "link not found")
	test.That(t, errors.Is(err, errLinkNotFound), test.ShouldBeTrue)

	e := newTestEngine(t, nil)
	c, err := e.SupportPolygon(context.Background(), failingProvider{"l_foot_lower_left_link"})
	test.That(t, c, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrCollaboratorLookupFailed), test.ShouldBeTrue)
	test.That(t, errors.Is(err, ErrHullDegenerate), test.ShouldBeFalse)
}

func TestContactPointsKeepsCause(t *testing.T) {
	fs := newBiped(t, r3.Vector{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ContactPoints(ctx, fs, "com", DefaultContactFrames)
	test.That(t, errors.Is(err, ErrCollaboratorLookupFailed), test.ShouldBeTrue)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)

	_, err = ContactPoints(context.Background(), fs, "com", []string{"l_ankle"})
	test.That(t, errors.Is(err, ErrCollaboratorLookupFailed), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "l_ankle")
	test.That(t, err.Error(), test.ShouldContainSubstring, "not in frame system")
}

func TestSupportPolygonFromFrameSystem(t *testing.T) {
	ctx := context.Background()
	fs := newBiped(t, r3.Vector{X: 0.02, Z: 0.1})
	e := newTestEngine(t, nil)

	c, err := e.SupportPolygon(ctx, fs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Len(), test.ShouldEqual, 4)
	test.That(t, c.Contains(r2.Point{}, 0), test.ShouldBeTrue)

	points, err := ContactPoints(ctx, fs, DefaultReferenceFrame, DefaultContactFrames)
	test.That(t, err, test.ShouldBeNil)
	direct, err := e.Constraints(points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff(rowsOf(direct), rowsOf(c), rowOpts...), test.ShouldBeEmpty)

	// with the com past the toes the origin is outside and the rows no longer bound the feet
	test.That(t, fs.SetPose("com", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.3, Z: 0.1})), test.ShouldBeNil)
	c, err = e.SupportPolygon(ctx, fs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Contains(r2.Point{X: -0.3}, 0), test.ShouldBeFalse)
}
