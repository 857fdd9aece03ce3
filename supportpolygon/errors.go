package supportpolygon

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	// ErrHullDegenerate is returned when the projected contact points do not span an area: fewer than three
	// distinct points, or all of them collinear. It means there is no valid support region, which is not
	// the same as a region with zero constraints.
	ErrHullDegenerate = errors.New("convex hull is degenerate")

	// ErrMultiplePolygonsFound is returned when hull construction yields more than one boundary ring.
	ErrMultiplePolygonsFound = errors.New("more than one polygon found")

	// ErrCollaboratorLookupFailed is returned when the pose of a contact frame could not be obtained.
	ErrCollaboratorLookupFailed = errors.New("contact frame lookup failed")
)

func newHullDegenerateError(distinct int) error {
	return errors.Wrapf(ErrHullDegenerate, "%d distinct non-collinear hull vertices, need at least 3", distinct)
}

func newMultiplePolygonsError(rings int) error {
	return errors.Wrapf(ErrMultiplePolygonsFound, "hull has %d rings", rings)
}

// newLookupError matches both ErrCollaboratorLookupFailed and the provider's own error.
func newLookupError(frame, reference string, err error) error {
	return multierr.Combine(errors.Wrapf(ErrCollaboratorLookupFailed, "frame %q relative to %q", frame, reference), err)
}
