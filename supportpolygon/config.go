package supportpolygon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// ErosionMode selects how the safety margin is subtracted from each constraint.
type ErosionMode string

const (
	// ErosionScalar subtracts the margin from the raw bound. The inward offset of an edge is then
	// margin/‖(a,b)‖, i.e. it shrinks as the edge gets longer.
	ErosionScalar ErosionMode = "scalar"
	// ErosionNormalized scales every row to a unit normal first, so the margin is a metric distance and
	// the polygon is eroded uniformly.
	ErosionNormalized ErosionMode = "normalized"
)

// PlaneEstimation names the plane the contact points are projected onto.
type PlaneEstimation string

const (
	// PlaneFixedHorizontal projects onto z = 0.
	PlaneFixedHorizontal PlaneEstimation = "fixed_horizontal"
	// PlaneRansacFit projects onto the dominant plane of the contact points.
	PlaneRansacFit PlaneEstimation = "ransac"
)

const (
	// DefaultMargin is the inward safety margin applied to every non-degenerate constraint.
	DefaultMargin = 1e-2
	// DefaultDegeneracyTolerance is how close to the origin an edge line must pass for its bound to be
	// clamped to zero.
	DefaultDegeneracyTolerance = 1e-2
	// DefaultRansacDistanceThreshold is the maximum distance from the fitted plane for an in-plane point.
	DefaultRansacDistanceThreshold = 1e-3
	// DefaultRansacIterations is the number of RANSAC samples drawn when fitting the contact plane.
	DefaultRansacIterations = 2000
	// DefaultReferenceFrame is the frame contact points are expressed in.
	DefaultReferenceFrame = "com"
)

// DefaultContactFrames are the corner links of both feet of a biped.
var DefaultContactFrames = []string{
	"l_foot_lower_left_link",
	"l_foot_lower_right_link",
	"l_foot_upper_left_link",
	"l_foot_upper_right_link",
	"r_foot_lower_left_link",
	"r_foot_lower_right_link",
	"r_foot_upper_left_link",
	"r_foot_upper_right_link",
}

// Config describes how the support polygon is computed.
type Config struct {
	Margin                  float64         `json:"margin" jsonschema:"minimum=0"`
	DegeneracyTolerance     float64         `json:"degeneracy_tolerance" jsonschema:"minimum=0"`
	Erosion                 ErosionMode     `json:"erosion,omitempty" jsonschema:"enum=scalar,enum=normalized"`
	PlaneEstimation         PlaneEstimation `json:"plane_estimation,omitempty" jsonschema:"enum=fixed_horizontal,enum=ransac"`
	RansacDistanceThreshold float64         `json:"ransac_distance_threshold,omitempty"`
	RansacIterations        int             `json:"ransac_iterations,omitempty"`
	ContactFrames           []string        `json:"contact_frames,omitempty"`
	ReferenceFrame          string          `json:"reference_frame,omitempty"`
}

// NewDefaultConfig returns the configuration used by the walking controller: fixed horizontal plane,
// scalar erosion and a 1cm margin.
func NewDefaultConfig() *Config {
	return &Config{
		Margin:                  DefaultMargin,
		DegeneracyTolerance:     DefaultDegeneracyTolerance,
		Erosion:                 ErosionScalar,
		PlaneEstimation:         PlaneFixedHorizontal,
		RansacDistanceThreshold: DefaultRansacDistanceThreshold,
		RansacIterations:        DefaultRansacIterations,
		ContactFrames:           append([]string(nil), DefaultContactFrames...),
		ReferenceFrame:          DefaultReferenceFrame,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errAll error
	if cfg.Margin < 0 {
		multierr.AppendInto(&errAll, goutils.NewConfigValidationError(path, errors.New("margin must not be negative")))
	}
	if cfg.DegeneracyTolerance < 0 {
		multierr.AppendInto(&errAll,
			goutils.NewConfigValidationError(path, errors.New("degeneracy_tolerance must not be negative")))
	}
	switch cfg.Erosion {
	case ErosionScalar, ErosionNormalized:
	default:
		multierr.AppendInto(&errAll, goutils.NewConfigValidationError(path, errors.Errorf("unknown erosion mode %q", cfg.Erosion)))
	}
	switch cfg.PlaneEstimation {
	case PlaneFixedHorizontal:
	case PlaneRansacFit:
		if cfg.RansacDistanceThreshold <= 0 {
			multierr.AppendInto(&errAll, goutils.NewConfigValidationFieldRequiredError(path, "ransac_distance_threshold"))
		}
		if cfg.RansacIterations <= 0 {
			multierr.AppendInto(&errAll, goutils.NewConfigValidationFieldRequiredError(path, "ransac_iterations"))
		}
	default:
		multierr.AppendInto(&errAll,
			goutils.NewConfigValidationError(path, errors.Errorf("unknown plane estimation %q", cfg.PlaneEstimation)))
	}
	if cfg.ReferenceFrame == "" {
		multierr.AppendInto(&errAll, goutils.NewConfigValidationFieldRequiredError(path, "reference_frame"))
	}
	for idx, name := range cfg.ContactFrames {
		if name == "" {
			multierr.AppendInto(&errAll,
				goutils.NewConfigValidationFieldRequiredError(fmt.Sprintf("%s.%s.%d", path, "contact_frames", idx), "name"))
		}
	}
	return errAll
}

// ConfigFromAttributes decodes a loosely typed attribute map on top of the defaults. Keys use the json
// names of the Config fields; missing keys keep their default value. A list of frames may also be given as
// one string separated by commas or spaces.
func ConfigFromAttributes(attributes map[string]interface{}) (*Config, error) {
	cfg := NewDefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       splitStringListHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "error decoding support polygon attributes")
	}
	return cfg, nil
}

func splitStringListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	return cast.ToStringSliceE(strings.ReplaceAll(cast.ToString(data), ",", " "))
}

// ReadConfigFile reads a JSON config file on top of the defaults and validates it.
func ReadConfigFile(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", path)
	}
	var attributes map[string]interface{}
	if err := json.Unmarshal(data, &attributes); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config file %q", path)
	}
	cfg, err := ConfigFromAttributes(attributes)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(filepath.Base(path)); err != nil {
		return nil, err
	}
	return cfg, nil
}
