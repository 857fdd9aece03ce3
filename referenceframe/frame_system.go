// Package referenceframe keeps track of named frames of reference and translates poses between them.
// A robot's contact links, its waist and its center of mass each get a frame; any frame can then be
// located relative to any other.
package referenceframe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	spatial "github.com/borgorg/idynutils/spatialmath"
)

// World is the string "world", but made into an exported constant.
const World = "world"

// FrameSystem is a tree of static frames rooted at World. Each frame stores its pose relative to its
// parent. Poses may be updated while the system is in use, so all access is guarded.
type FrameSystem struct {
	name string

	mu      sync.RWMutex
	parents map[string]string
	poses   map[string]spatial.Pose
}

// NewEmptyFrameSystem creates a frame system containing only the world frame.
func NewEmptyFrameSystem(name string) *FrameSystem {
	return &FrameSystem{
		name:    name,
		parents: map[string]string{},
		poses:   map[string]spatial.Pose{},
	}
}

// Name returns the name of the frame system.
func (fs *FrameSystem) Name() string {
	return fs.name
}

func (fs *FrameSystem) frameExists(name string) bool {
	if name == World {
		return true
	}
	_, ok := fs.parents[name]
	return ok
}

// AddFrame inserts a frame with the given pose relative to its parent.
func (fs *FrameSystem) AddFrame(name, parent string, pose spatial.Pose) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.frameExists(name) {
		return NewFrameAlreadyExistsError(name)
	}
	if !fs.frameExists(parent) {
		return NewParentFrameMissingError(name, parent)
	}
	if pose == nil {
		pose = spatial.NewZeroPose()
	}
	fs.parents[name] = parent
	fs.poses[name] = pose
	return nil
}

// SetPose replaces the pose of an existing frame relative to its parent.
func (fs *FrameSystem) SetPose(name string, pose spatial.Pose) error {
	if name == World {
		return errors.New("cannot set the pose of the world frame")
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.frameExists(name) {
		return NewFrameMissingError(name)
	}
	fs.poses[name] = pose
	return nil
}

// FrameNames returns the sorted names of every frame except World.
func (fs *FrameSystem) FrameNames() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	names := make([]string, 0, len(fs.parents))
	for name := range fs.parents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parent returns the name of the parent of the given frame.
func (fs *FrameSystem) Parent(name string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if name == World {
		return "", errors.New("the world frame has no parent")
	}
	parent, ok := fs.parents[name]
	if !ok {
		return "", NewFrameMissingError(name)
	}
	return parent, nil
}

// traceback returns the chain of frame names from the query frame up to and including World.
func (fs *FrameSystem) traceback(name string) ([]string, error) {
	if !fs.frameExists(name) {
		return nil, NewFrameMissingError(name)
	}
	chain := []string{name}
	for name != World {
		name = fs.parents[name]
		chain = append(chain, name)
	}
	return chain, nil
}

// compose the poses from the given frame up to the world frame.
func (fs *FrameSystem) poseInWorld(name string) (spatial.Pose, error) {
	chain, err := fs.traceback(name)
	if err != nil {
		return nil, err
	}
	pose := spatial.NewZeroPose()
	for _, frame := range chain[:len(chain)-1] {
		pose = spatial.Compose(fs.poses[frame], pose)
	}
	return pose, nil
}

// PoseInFrame returns the pose of the src frame expressed in the dst frame.
func (fs *FrameSystem) PoseInFrame(ctx context.Context, src, dst string) (spatial.Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var errAll error
	srcToWorld, err := fs.poseInWorld(src)
	multierr.AppendInto(&errAll, err)
	dstToWorld, err := fs.poseInWorld(dst)
	multierr.AppendInto(&errAll, err)
	if errAll != nil {
		return nil, errAll
	}
	return spatial.PoseBetween(dstToWorld, srcToWorld), nil
}

// String prints out a table of each frame in the system, with columns of name, parent, translation and orientation.
func (fs *FrameSystem) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Parent", "Translation", "Orientation"})
	t.AppendRow(table.Row{"0", World, "", "", ""})
	for i, name := range fs.FrameNames() {
		fs.mu.RLock()
		parent, pose := fs.parents[name], fs.poses[name]
		fs.mu.RUnlock()
		if pose == nil {
			continue
		}
		tra := pose.Point()
		aa := pose.Orientation().AxisAngles()
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			parent,
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf("Theta:%.3f, RX:%.2f, RY:%.2f, RZ:%.2f", aa.Theta, aa.RX, aa.RY, aa.RZ),
		})
	}
	return t.Render()
}

// LinkConfig describes a single static frame in a serialized frame system.
type LinkConfig struct {
	Name        string        `json:"name"`
	Parent      string        `json:"parent"`
	Translation r3.Vector     `json:"translation"`
	Orientation *spatial.R4AA `json:"orientation,omitempty"`
}

// Pose returns the pose of the link relative to its parent.
func (cfg *LinkConfig) Pose() spatial.Pose {
	if cfg.Orientation == nil {
		return spatial.NewPoseFromPoint(cfg.Translation)
	}
	return spatial.NewPose(cfg.Translation, cfg.Orientation)
}

// NewFrameSystemFromConfig assembles a frame system from a list of links. Links may be listed in any
// order as long as every parent is eventually defined.
func NewFrameSystemFromConfig(name string, links []LinkConfig) (*FrameSystem, error) {
	fs := NewEmptyFrameSystem(name)
	pending := append([]LinkConfig(nil), links...)
	for len(pending) > 0 {
		var deferred []LinkConfig
		for _, link := range pending {
			if link.Name == "" {
				return nil, errors.New("frame config is missing a name")
			}
			parent := link.Parent
			if parent == "" {
				parent = World
			}
			if !fs.frameExists(parent) {
				deferred = append(deferred, link)
				continue
			}
			if err := fs.AddFrame(link.Name, parent, link.Pose()); err != nil {
				return nil, err
			}
		}
		if len(deferred) == len(pending) {
			var errAll error
			for _, link := range deferred {
				multierr.AppendInto(&errAll, NewParentFrameMissingError(link.Name, link.Parent))
			}
			return nil, errAll
		}
		pending = deferred
	}
	return fs, nil
}
