// Package supportpolygon turns the contact points of a legged robot into the linear constraints A·x ≤ b
// that bound the horizontal position of its center of mass.
//
// Contact points are projected onto the working plane, their convex hull is computed, and every hull
// edge becomes one halfplane eroded inward by a safety margin. The sign of each row is normalized so that
// the origin of the reference frame, normally the center of mass, satisfies it.
package supportpolygon

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/borgorg/idynutils/logging"
)

// An Option customizes an Engine.
type Option func(*Engine)

// WithPlaneEstimator overrides the plane estimation strategy chosen by the config.
func WithPlaneEstimator(estimator PlaneEstimator) Option {
	return func(e *Engine) {
		e.estimator = estimator
	}
}

// WithHuller overrides the convex hull algorithm.
func WithHuller(huller Huller) Option {
	return func(e *Engine) {
		e.huller = huller
	}
}

// Engine computes support polygon constraints. It keeps no state between calls besides its
// configuration, so it is safe for concurrent use.
type Engine struct {
	cfg       Config
	estimator PlaneEstimator
	huller    Huller
	logger    logging.Logger
}

// NewEngine validates the config and returns an engine using it. A nil logger means the global one.
func NewEngine(cfg *Config, logger logging.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate("support_polygon"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global().Sublogger("supportpolygon")
	}
	e := &Engine{
		cfg:       *cfg,
		estimator: newPlaneEstimator(cfg),
		huller:    MonotoneChain{},
		logger:    logger,
	}
	e.cfg.ContactFrames = append([]string(nil), cfg.ContactFrames...)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.ContactFrames = append([]string(nil), e.cfg.ContactFrames...)
	return cfg
}

// Project maps the points onto the working plane. The result has the same length and order as points.
func (e *Engine) Project(points []r3.Vector) []r2.Point {
	return e.estimator.Project(points)
}

// Hull returns the clockwise boundary of the convex hull of the projected points.
func (e *Engine) Hull(points []r3.Vector) (Ring, error) {
	projected := e.Project(points)
	if len(projected) < 3 {
		return nil, newHullDegenerateError(len(projected))
	}
	rings, err := e.huller.ConvexHull(projected)
	if err != nil {
		return nil, err
	}
	switch {
	case len(rings) == 0:
		return nil, newHullDegenerateError(0)
	case len(rings) > 1:
		e.logger.Errorw("more than one polygon found", "rings", len(rings))
		return nil, newMultiplePolygonsError(len(rings))
	case rings[0].degenerate(hullScale(projected)):
		return nil, newHullDegenerateError(len(rings[0]))
	}
	return rings[0].Clockwise(), nil
}

// ConstraintsInto computes the constraints of the support polygon of points and writes them into aMat
// and bVec, which are resized to (edges, 2) and (edges). On error neither output is modified.
func (e *Engine) ConstraintsInto(points []r3.Vector, aMat *mat.Dense, bVec *mat.VecDense) error {
	ring, err := e.Hull(points)
	if err != nil {
		return err
	}
	rows := halfplanesFromRing(ring, e.cfg.Margin, e.cfg.DegeneracyTolerance, e.cfg.Erosion)
	inverted := 0
	for _, h := range rows {
		if h.inverted {
			inverted++
		}
	}
	if inverted > 0 {
		e.logger.Warnw("origin lies outside the support polygon, constraint orientation inverted",
			"inverted_rows", inverted, "rows", len(rows))
	}
	if err := writeHalfplanes(rows, aMat, bVec); err != nil {
		return err
	}
	e.logger.Debugw("computed support polygon constraints",
		"points", len(points), "rows", len(rows), "erosion", e.cfg.Erosion)
	return nil
}

// Constraints computes the constraints of the support polygon of points into newly allocated outputs.
func (e *Engine) Constraints(points []r3.Vector) (*Constraints, error) {
	c := &Constraints{A: &mat.Dense{}, B: &mat.VecDense{}}
	if err := e.ConstraintsInto(points, c.A, c.B); err != nil {
		return nil, err
	}
	return c, nil
}

// SupportPolygon looks up the configured contact frames relative to the configured reference frame and
// returns the constraints of their support polygon.
func (e *Engine) SupportPolygon(ctx context.Context, provider PoseProvider) (*Constraints, error) {
	points, err := ContactPoints(ctx, provider, e.cfg.ReferenceFrame, e.cfg.ContactFrames)
	if err != nil {
		return nil, err
	}
	return e.Constraints(points)
}
