// Package config loads hull's settings from embedded defaults overlaid with
// an optional YAML, TOML or INI file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/chazu/hull/pkg/ccd"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the CLI and its components.
type Config struct {
	Checker    CheckerConfig    `yaml:"checker" toml:"checker"`
	Engine     EngineConfig     `yaml:"engine" toml:"engine"`
	Scene      SceneConfig      `yaml:"scene" toml:"scene"`
	Tessellate TessellateConfig `yaml:"tessellate" toml:"tessellate"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
}

type CheckerConfig struct {
	Algorithm string  `yaml:"algorithm" toml:"algorithm"` // gjk or mpr
	Margin    float64 `yaml:"margin" toml:"margin"`       // default dmin
}

type EngineConfig struct {
	MaxIterations     int     `yaml:"max_iterations" toml:"max_iterations" gcfg:"max-iterations"`
	DistanceTolerance float64 `yaml:"distance_tolerance" toml:"distance_tolerance" gcfg:"distance-tolerance"`
	RelativeTolerance float64 `yaml:"relative_tolerance" toml:"relative_tolerance" gcfg:"relative-tolerance"`
	EPATolerance      float64 `yaml:"epa_tolerance" toml:"epa_tolerance" gcfg:"epa-tolerance"`
	MPRTolerance      float64 `yaml:"mpr_tolerance" toml:"mpr_tolerance" gcfg:"mpr-tolerance"`
}

type SceneConfig struct {
	TimeoutSeconds float64 `yaml:"timeout_seconds" toml:"timeout_seconds" gcfg:"timeout-seconds"`
}

type TessellateConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Cells   int  `yaml:"cells" toml:"cells"` // marching cubes cells on the longest side
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type OutputConfig struct {
	Dir string `yaml:"dir" toml:"dir"` // empty disables file output
	CSV bool   `yaml:"csv" toml:"csv"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and overlays the file at path, which is
// decoded by extension: TOML for .toml, INI for .ini and .gcfg, YAML for
// .yaml, .yml or no extension. Fields
// missing from the file keep their defaults. An empty path returns the
// defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".ini", ".gcfg":
		err = gcfg.ReadStringInto(cfg, string(data))
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Checker.ParsedAlgorithm(); err != nil {
		errs = append(errs, err)
	}
	if c.Checker.Margin < 0 {
		errs = append(errs, fmt.Errorf("checker.margin must be non-negative, got %g", c.Checker.Margin))
	}
	if err := c.Engine.Solver().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if c.Scene.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("scene.timeout_seconds must be positive, got %g", c.Scene.TimeoutSeconds))
	}
	if c.Tessellate.Cells <= 0 {
		errs = append(errs, fmt.Errorf("tessellate.cells must be positive, got %d", c.Tessellate.Cells))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// ParsedAlgorithm returns the configured collision algorithm.
func (c CheckerConfig) ParsedAlgorithm() (ccd.Algorithm, error) {
	a, err := ccd.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return 0, fmt.Errorf("checker.algorithm: %w", err)
	}
	return a, nil
}

// Solver returns the engine settings in the form ccd.New takes.
func (c EngineConfig) Solver() ccd.Config {
	return ccd.Config{
		MaxIterations:     c.MaxIterations,
		DistanceTolerance: c.DistanceTolerance,
		RelativeTolerance: c.RelativeTolerance,
		EPATolerance:      c.EPATolerance,
		MPRTolerance:      c.MPRTolerance,
	}
}

// Timeout returns the scene evaluation limit.
func (c SceneConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
