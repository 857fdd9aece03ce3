package referenceframe

import "github.com/pkg/errors"

// NewFrameMissingError returns an error indicating that the given frame is missing from the frame system.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in frame system", frameName)
}

// NewParentFrameMissingError returns an error indicating that the parent frame is missing from the frame system.
func NewParentFrameMissingError(frameName, parentName string) error {
	return errors.Errorf("parent frame %q of frame %q not in frame system", parentName, frameName)
}

// NewFrameAlreadyExistsError returns an error indicating that a frame of the given name already exists.
func NewFrameAlreadyExistsError(frameName string) error {
	return errors.Errorf("frame with name %q already in frame system", frameName)
}
