package deck

import "sort"

// Presets are named cell/step combinations for common trial sizes.
var Presets = map[string]*RunConfig{
	"smoke": {
		XCells: 32, YCells: 32, EndStep: 10,
		State1:         StateConfig{Density: 0.2, Energy: 1.0},
		State2:         StateConfig{Density: 1.0, Energy: 2.5},
		State2Region:   RegionConfig{Xmin: 0.0, Xmax: 1.0, Ymin: 0.0, Ymax: 1.0},
		Domain:         RegionConfig{Xmin: 0.0, Xmax: 5.0, Ymin: 0.0, Ymax: 5.0},
		Timestep:       TimestepConfig{Initial: 0.04, Rise: 1.5, Max: 0.04},
		TestProblem:    DefaultTestProblem,
		VisitFrequency: 1,
	},
	"standard": {
		XCells: 64, YCells: 64, EndStep: 500,
		State1:         StateConfig{Density: 0.2, Energy: 1.0},
		State2:         StateConfig{Density: 1.0, Energy: 2.5},
		State2Region:   RegionConfig{Xmin: 0.0, Xmax: 1.0, Ymin: 0.0, Ymax: 1.0},
		Domain:         RegionConfig{Xmin: 0.0, Xmax: 5.0, Ymin: 0.0, Ymax: 5.0},
		Timestep:       TimestepConfig{Initial: 0.04, Rise: 1.5, Max: 0.04},
		TestProblem:    DefaultTestProblem,
		VisitFrequency: 1,
	},
	"fine": {
		XCells: 128, YCells: 128, EndStep: 2000,
		State1:         StateConfig{Density: 0.2, Energy: 1.0},
		State2:         StateConfig{Density: 1.0, Energy: 2.5},
		State2Region:   RegionConfig{Xmin: 0.0, Xmax: 1.0, Ymin: 0.0, Ymax: 1.0},
		Domain:         RegionConfig{Xmin: 0.0, Xmax: 5.0, Ymin: 0.0, Ymax: 5.0},
		Timestep:       TimestepConfig{Initial: 0.04, Rise: 1.5, Max: 0.04},
		TestProblem:    DefaultTestProblem,
		VisitFrequency: 10,
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *RunConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
