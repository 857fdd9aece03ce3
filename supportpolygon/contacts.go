package supportpolygon

import (
	"context"

	"github.com/golang/geo/r3"

	"github.com/borgorg/idynutils/spatialmath"
)

// PoseProvider locates named frames relative to one another, e.g. a robot's kinematic model or a
// referenceframe.FrameSystem.
type PoseProvider interface {
	PoseInFrame(ctx context.Context, frame, reference string) (spatialmath.Pose, error)
}

// ContactPoints returns the position of every contact frame expressed in the reference frame, in the
// order the frames are given. The first failed lookup aborts with ErrCollaboratorLookupFailed.
func ContactPoints(ctx context.Context, provider PoseProvider, reference string, frames []string) ([]r3.Vector, error) {
	points := make([]r3.Vector, 0, len(frames))
	for _, frame := range frames {
		pose, err := provider.PoseInFrame(ctx, frame, reference)
		if err != nil {
			return nil, newLookupError(frame, reference, err)
		}
		points = append(points, pose.Point())
	}
	return points, nil
}
