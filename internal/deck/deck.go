// Package deck models the CloverLeaf input deck and its generation.
//
// The deck grammar (*clover ... *endclover) is an external contract parsed
// by the clover_leaf binary; [RunConfig.Render] reproduces it byte for byte.
// Field values can come from defaults, a yaml config file, CLI overrides or
// seeded random draws ([RunConfig.Randomize]).
package deck

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCells          = 64
	DefaultSteps          = 500
	DefaultVisitFrequency = 1
	DefaultTestProblem    = 2
)

// StateConfig describes one material state line of the deck.
type StateConfig struct {
	Density float64 `yaml:"density"`
	Energy  float64 `yaml:"energy"`
}

// RegionConfig is an axis-aligned rectangle in domain coordinates.
type RegionConfig struct {
	Xmin float64 `yaml:"xmin"`
	Xmax float64 `yaml:"xmax"`
	Ymin float64 `yaml:"ymin"`
	Ymax float64 `yaml:"ymax"`
}

// TimestepConfig holds the timestep control parameters.
type TimestepConfig struct {
	Initial float64 `yaml:"initial"`
	Rise    float64 `yaml:"rise"`
	Max     float64 `yaml:"max"`
}

// RunConfig is the full parameter set for one simulation invocation.
type RunConfig struct {
	XCells         int            `yaml:"x_cells"`
	YCells         int            `yaml:"y_cells"`
	EndStep        int            `yaml:"end_step"`
	State1         StateConfig    `yaml:"state1"`
	State2         StateConfig    `yaml:"state2"`
	State2Region   RegionConfig   `yaml:"state2_region"`
	Domain         RegionConfig   `yaml:"domain"`
	Timestep       TimestepConfig `yaml:"timestep"`
	TestProblem    int            `yaml:"test_problem"`
	VisitFrequency int            `yaml:"visit_frequency"`
}

// DefaultConfig returns the standard shock-tube setup the original
// workflow used for every non-randomized run.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		XCells:         DefaultCells,
		YCells:         DefaultCells,
		EndStep:        DefaultSteps,
		State1:         StateConfig{Density: 0.2, Energy: 1.0},
		State2:         StateConfig{Density: 1.0, Energy: 2.5},
		State2Region:   RegionConfig{Xmin: 0.0, Xmax: 1.0, Ymin: 0.0, Ymax: 1.0},
		Domain:         RegionConfig{Xmin: 0.0, Xmax: 5.0, Ymin: 0.0, Ymax: 5.0},
		Timestep:       TimestepConfig{Initial: 0.04, Rise: 1.5, Max: 0.04},
		TestProblem:    DefaultTestProblem,
		VisitFrequency: DefaultVisitFrequency,
	}
}

// Validate checks the invariants the binary relies on.
func (c *RunConfig) Validate() error {
	if c.XCells <= 0 || c.YCells <= 0 {
		return fmt.Errorf("deck: cell counts must be positive (x=%d, y=%d)", c.XCells, c.YCells)
	}
	if c.EndStep <= 0 {
		return fmt.Errorf("deck: end_step must be positive, got %d", c.EndStep)
	}
	if c.Domain.Xmax <= c.Domain.Xmin {
		return fmt.Errorf("deck: domain xmax (%g) must exceed xmin (%g)", c.Domain.Xmax, c.Domain.Xmin)
	}
	if c.Domain.Ymax <= c.Domain.Ymin {
		return fmt.Errorf("deck: domain ymax (%g) must exceed ymin (%g)", c.Domain.Ymax, c.Domain.Ymin)
	}
	if c.VisitFrequency < 1 {
		return fmt.Errorf("deck: visit_frequency must be at least 1, got %d", c.VisitFrequency)
	}
	return nil
}

// deckTemplate is the exact block grammar clover_leaf parses. Field order,
// keyword spelling and whitespace are part of the external contract; do not
// reformat.
const deckTemplate = `*clover
 state 1 density=%s energy=%s
 state 2 density=%s energy=%s geometry=rectangle xmin=%s xmax=%s ymin=%s ymax=%s

 x_cells=%d
 y_cells=%d

 xmin=%s
 ymin=%s
 xmax=%s
 ymax=%s

 initial_timestep=%s
 timestep_rise=%s
 max_timestep=%s
 end_step=%d
 test_problem %d
 
 visit_frequency=%d

*endclover
`

// Render produces the input deck text for this configuration.
func (c *RunConfig) Render() string {
	return fmt.Sprintf(deckTemplate,
		formatFloat(c.State1.Density), formatFloat(c.State1.Energy),
		formatFloat(c.State2.Density), formatFloat(c.State2.Energy),
		formatFloat(c.State2Region.Xmin), formatFloat(c.State2Region.Xmax),
		formatFloat(c.State2Region.Ymin), formatFloat(c.State2Region.Ymax),
		c.XCells, c.YCells,
		formatFloat(c.Domain.Xmin), formatFloat(c.Domain.Ymin),
		formatFloat(c.Domain.Xmax), formatFloat(c.Domain.Ymax),
		formatFloat(c.Timestep.Initial), formatFloat(c.Timestep.Rise), formatFloat(c.Timestep.Max),
		c.EndStep, c.TestProblem, c.VisitFrequency,
	)
}

// Write renders the deck to path, overwriting any existing file.
func (c *RunConfig) Write(path string) error {
	return os.WriteFile(path, []byte(c.Render()), 0644)
}

// Load reads a RunConfig from a yaml file, starting from defaults so a
// partial file only overrides what it names.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a RunConfig as yaml.
func Save(path string, cfg *RunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// formatFloat renders a float the way the deck grammar expects: shortest
// form, but always with a decimal point (5 -> "5.0", 0.04 -> "0.04").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
