package referenceframe

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	spatial "github.com/borgorg/idynutils/spatialmath"
)

func TestFrameSystemTraceback(t *testing.T) {
	fs := NewEmptyFrameSystem("test")
	test.That(t, fs.AddFrame("waist", World, spatial.NewPoseFromPoint(r3.Vector{Z: 1})), test.ShouldBeNil)
	test.That(t, fs.AddFrame("l_foot", "waist", spatial.NewPoseFromPoint(r3.Vector{Y: 0.1, Z: -1})), test.ShouldBeNil)

	chain, err := fs.traceback("l_foot")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain, test.ShouldResemble, []string{"l_foot", "waist", World})

	parent, err := fs.Parent("l_foot")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parent, test.ShouldEqual, "waist")

	_, err = fs.Parent(World)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = fs.traceback("nope")
	test.That(t, err, test.ShouldBeError, NewFrameMissingError("nope"))

	test.That(t, fs.FrameNames(), test.ShouldResemble, []string{"l_foot", "waist"})
}

func TestFrameSystemAddErrors(t *testing.T) {
	fs := NewEmptyFrameSystem("test")
	test.That(t, fs.AddFrame("a", World, nil), test.ShouldBeNil)
	test.That(t, fs.AddFrame("a", World, nil), test.ShouldBeError, NewFrameAlreadyExistsError("a"))
	test.That(t, fs.AddFrame("b", "c", nil), test.ShouldBeError, NewParentFrameMissingError("b", "c"))
	test.That(t, fs.SetPose("c", spatial.NewZeroPose()), test.ShouldBeError, NewFrameMissingError("c"))
	test.That(t, fs.SetPose(World, spatial.NewZeroPose()), test.ShouldNotBeNil)
}

func TestPoseInFrame(t *testing.T) {
	ctx := context.Background()
	fs := NewEmptyFrameSystem("test")
	// waist is rotated a quarter turn about z
	waist := spatial.NewPose(r3.Vector{X: 1, Z: 1}, &spatial.R4AA{Theta: math.Pi / 2, RZ: 1})
	test.That(t, fs.AddFrame("waist", World, waist), test.ShouldBeNil)
	test.That(t, fs.AddFrame("com", "waist", spatial.NewPoseFromPoint(r3.Vector{Z: 0.2})), test.ShouldBeNil)
	test.That(t, fs.AddFrame("toe", "waist", spatial.NewPoseFromPoint(r3.Vector{X: 0.5, Z: -1})), test.ShouldBeNil)

	pose, err := fs.PoseInFrame(ctx, "toe", World)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().X, test.ShouldAlmostEqual, 1)
	test.That(t, pose.Point().Y, test.ShouldAlmostEqual, 0.5)
	test.That(t, pose.Point().Z, test.ShouldAlmostEqual, 0)

	pose, err = fs.PoseInFrame(ctx, "toe", "com")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().X, test.ShouldAlmostEqual, 0.5)
	test.That(t, pose.Point().Y, test.ShouldAlmostEqual, 0)
	test.That(t, pose.Point().Z, test.ShouldAlmostEqual, -1.2)

	// updating the com moves every point expressed relative to it
	test.That(t, fs.SetPose("com", spatial.NewPoseFromPoint(r3.Vector{X: 0.1, Z: 0.2})), test.ShouldBeNil)
	pose, err = fs.PoseInFrame(ctx, "toe", "com")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().X, test.ShouldAlmostEqual, 0.4)

	_, err = fs.PoseInFrame(ctx, "heel", "com")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "heel")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = fs.PoseInFrame(cancelled, "toe", "com")
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestNewFrameSystemFromConfig(t *testing.T) {
	links := []LinkConfig{
		{Name: "foot", Parent: "waist", Translation: r3.Vector{Z: -1}},
		{Name: "waist", Translation: r3.Vector{Z: 1}},
	}
	fs, err := NewFrameSystemFromConfig("cfg", links)
	test.That(t, err, test.ShouldBeNil)
	pose, err := fs.PoseInFrame(context.Background(), "foot", World)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().Z, test.ShouldAlmostEqual, 0)
	test.That(t, strings.Contains(fs.String(), "waist"), test.ShouldBeTrue)

	_, err = NewFrameSystemFromConfig("cfg", []LinkConfig{{Name: "orphan", Parent: "missing"}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "missing")

	_, err = NewFrameSystemFromConfig("cfg", []LinkConfig{{Parent: World}})
	test.That(t, err, test.ShouldNotBeNil)
}
