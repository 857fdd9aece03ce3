package supportpolygon

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)
	test.That(t, cfg.Margin, test.ShouldEqual, 0.01)
	test.That(t, cfg.DegeneracyTolerance, test.ShouldEqual, 0.01)
	test.That(t, cfg.ContactFrames, test.ShouldResemble, DefaultContactFrames)

	// the defaults are copied
	cfg.ContactFrames[0] = "changed"
	test.That(t, DefaultContactFrames[0], test.ShouldEqual, "l_foot_lower_left_link")
}

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{"negative margin", func(c *Config) { c.Margin = -0.1 }, "margin"},
		{"negative tolerance", func(c *Config) { c.DegeneracyTolerance = -1 }, "degeneracy_tolerance"},
		{"bad erosion", func(c *Config) { c.Erosion = "sideways" }, "sideways"},
		{"bad plane", func(c *Config) { c.PlaneEstimation = "tilted" }, "tilted"},
		{"ransac threshold", func(c *Config) {
			c.PlaneEstimation = PlaneRansacFit
			c.RansacDistanceThreshold = 0
		}, "ransac_distance_threshold"},
		{"ransac iterations", func(c *Config) {
			c.PlaneEstimation = PlaneRansacFit
			c.RansacIterations = 0
		}, "ransac_iterations"},
		{"reference frame", func(c *Config) { c.ReferenceFrame = "" }, "reference_frame"},
		{"empty contact frame", func(c *Config) { c.ContactFrames = []string{"a", ""} }, "contact_frames.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate("path")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.contains)
		})
	}

	// zero margin and tolerance are valid
	cfg := NewDefaultConfig()
	cfg.Margin = 0
	cfg.DegeneracyTolerance = 0
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)
}

func TestConfigFromAttributes(t *testing.T) {
	cfg, err := ConfigFromAttributes(map[string]interface{}{
		"margin":            0.02,
		"erosion":           "normalized",
		"plane_estimation":  "ransac",
		"ransac_iterations": 50.0,
		"contact_frames":    []interface{}{"toe", "heel"},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Margin, test.ShouldEqual, 0.02)
	test.That(t, cfg.Erosion, test.ShouldEqual, ErosionNormalized)
	test.That(t, cfg.PlaneEstimation, test.ShouldEqual, PlaneRansacFit)
	test.That(t, cfg.RansacIterations, test.ShouldEqual, 50)
	test.That(t, cfg.ContactFrames, test.ShouldResemble, []string{"toe", "heel"})
	// untouched keys keep their defaults
	test.That(t, cfg.DegeneracyTolerance, test.ShouldEqual, DefaultDegeneracyTolerance)
	test.That(t, cfg.ReferenceFrame, test.ShouldEqual, DefaultReferenceFrame)
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)

	cfg, err = ConfigFromAttributes(map[string]interface{}{
		"contact_frames":  "l_toe, l_heel r_toe,r_heel",
		"reference_frame": "pelvis",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ContactFrames, test.ShouldResemble, []string{"l_toe", "l_heel", "r_toe", "r_heel"})
	test.That(t, cfg.ReferenceFrame, test.ShouldEqual, "pelvis")

	_, err = ConfigFromAttributes(map[string]interface{}{"margn": 0.02})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "margn")
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	test.That(t, os.WriteFile(good, []byte(`{"margin": 0, "reference_frame": "pelvis"}`), 0o600), test.ShouldBeNil)
	cfg, err := ReadConfigFile(good)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Margin, test.ShouldEqual, 0)
	test.That(t, cfg.ReferenceFrame, test.ShouldEqual, "pelvis")

	bad := filepath.Join(dir, "bad.json")
	test.That(t, os.WriteFile(bad, []byte(`{"margin": -3}`), 0o600), test.ShouldBeNil)
	_, err = ReadConfigFile(bad)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadConfigFile(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
