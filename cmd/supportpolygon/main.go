// Package main is a debugging tool that computes the support polygon constraints of a set of contact
// points, or of the contact links of a frame system, and prints or draws them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"github.com/borgorg/idynutils/logging"
	"github.com/borgorg/idynutils/referenceframe"
	"github.com/borgorg/idynutils/supportpolygon"
)

const (
	flagInput    = "input"
	flagConfig   = "config"
	flagDebug    = "debug"
	flagLogLevel = "log-level"
	flagOut      = "out"
	flagSize     = "size"
	flagWatch    = "watch"

	watchDebounce = 200 * time.Millisecond
)

// inputFile holds either raw contact points or a frame system whose contact links are looked up.
type inputFile struct {
	Points []r3.Vector                  `json:"points,omitempty"`
	Links  []referenceframe.LinkConfig `json:"links,omitempty"`
}

var logger = logging.NewLogger("supportpolygon")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	logging.ReplaceGlobal(logger)
	return newApp(logger).RunContext(ctx, args)
}

// runner holds what the command actions share.
type runner struct {
	logger logging.Logger
}

func newApp(logger logging.Logger) *cli.App {
	r := &runner{logger: logger}
	inputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     flagInput,
			Aliases:  []string{"i"},
			Required: true,
			Usage:    "JSON `FILE` with either \"points\" or \"links\"",
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load support polygon configuration from `FILE`",
		},
	}
	return &cli.App{
		Name:  "supportpolygon",
		Usage: "compute the support polygon constraints of a set of contacts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "info",
				Usage: "one of debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.LevelFromString(c.String(flagLogLevel))
			if err != nil {
				return err
			}
			if c.Bool(flagDebug) {
				level = logging.DEBUG
			}
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "constraints",
				Usage: "print the rows of A·x <= b",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  flagWatch,
						Usage: "recompute whenever the input or config file changes",
					},
				}, inputFlags...),
				Action: r.constraintsAction,
			},
			{
				Name:  "render",
				Usage: "draw the projected contacts, their hull and the eroded polygon to a PNG",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     flagOut,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "output PNG `FILE`",
					},
					&cli.IntFlag{
						Name:  flagSize,
						Value: 512,
						Usage: "image width and height in pixels",
					},
				}, inputFlags...),
				Action: r.renderAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the configuration file",
				Action: schemaAction,
			},
		},
	}
}

// setup loads the config and input named by the flags and returns an engine with the contact points.
func (r *runner) setup(c *cli.Context) (*supportpolygon.Engine, []r3.Vector, error) {
	logger := r.logger
	cfg := supportpolygon.NewDefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = supportpolygon.ReadConfigFile(path); err != nil {
			return nil, nil, err
		}
	}
	engine, err := supportpolygon.NewEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	points, err := loadPoints(c.Context, c.String(flagInput), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.PlaneEstimation == supportpolygon.PlaneRansacFit {
		plane := supportpolygon.RansacFit{Threshold: cfg.RansacDistanceThreshold, Iterations: cfg.RansacIterations}.Plane(points)
		logger.Infow("fitted contact plane", "equation", plane.Equation(), "center", plane.Center())
	}
	return engine, points, nil
}

func loadPoints(ctx context.Context, path string, cfg *supportpolygon.Config, logger logging.Logger) ([]r3.Vector, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read input file %q", path)
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrapf(err, "cannot parse input file %q", path)
	}
	if len(in.Links) == 0 {
		return in.Points, nil
	}
	if len(in.Points) != 0 {
		return nil, errors.Errorf("input file %q has both points and links", path)
	}
	fs, err := referenceframe.NewFrameSystemFromConfig(path, in.Links)
	if err != nil {
		return nil, err
	}
	logger.Debugf("frame system:\n%s", fs)
	return supportpolygon.ContactPoints(ctx, fs, cfg.ReferenceFrame, cfg.ContactFrames)
}

func (r *runner) constraintsAction(c *cli.Context) error {
	run := func() error {
		engine, points, err := r.setup(c)
		if err != nil {
			return err
		}
		constraints, err := engine.Constraints(points)
		if err != nil {
			return err
		}
		printConstraints(c.App.Writer, constraints)
		return nil
	}
	if !c.Bool(flagWatch) {
		return run()
	}
	paths := []string{c.String(flagInput)}
	if cfgPath := c.String(flagConfig); cfgPath != "" {
		paths = append(paths, cfgPath)
	}
	return watchFiles(c.Context, r.logger, paths, watchDebounce, run)
}

func printConstraints(w io.Writer, constraints *supportpolygon.Constraints) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "a", "b", "bound"})
	for i := 0; i < constraints.Len(); i++ {
		a, b, bound := constraints.Row(i)
		t.AppendRow(table.Row{i, fmt.Sprintf("%.6f", a), fmt.Sprintf("%.6f", b), fmt.Sprintf("%.6f", bound)})
	}
	t.Render()
}

func (r *runner) renderAction(c *cli.Context) error {
	engine, points, err := r.setup(c)
	if err != nil {
		return err
	}
	return renderPolygon(engine, points, c.Int(flagSize), c.String(flagOut))
}

func schemaAction(c *cli.Context) error {
	schema := jsonschema.Reflect(&supportpolygon.Config{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
