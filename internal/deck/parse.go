package deck

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a rendered input deck back into a RunConfig. It accepts the
// same grammar Render produces and is the round-trip counterpart used to
// verify decks before a run and in provenance checks.
func Parse(data []byte) (*RunConfig, error) {
	cfg := &RunConfig{}
	var sawOpen, sawClose bool

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "*clover":
			sawOpen = true
		case line == "*endclover":
			sawClose = true
		case strings.HasPrefix(line, "state 1 "):
			if err := parseState(strings.TrimPrefix(line, "state 1 "), &cfg.State1, nil); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "state 2 "):
			if err := parseState(strings.TrimPrefix(line, "state 2 "), &cfg.State2, &cfg.State2Region); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "test_problem "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "test_problem ")))
			if err != nil {
				return nil, fmt.Errorf("deck: malformed test_problem line %q", line)
			}
			cfg.TestProblem = n
		default:
			if err := parseAssignment(line, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawOpen || !sawClose {
		return nil, fmt.Errorf("deck: missing *clover/*endclover markers")
	}
	return cfg, nil
}

func parseState(rest string, st *StateConfig, region *RegionConfig) error {
	for _, field := range strings.Fields(rest) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("deck: malformed state field %q", field)
		}
		if key == "geometry" {
			if val != "rectangle" {
				return fmt.Errorf("deck: unsupported geometry %q", val)
			}
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("deck: state field %q: %v", field, err)
		}
		switch key {
		case "density":
			st.Density = f
		case "energy":
			st.Energy = f
		case "xmin", "xmax", "ymin", "ymax":
			if region == nil {
				return fmt.Errorf("deck: unexpected region field %q on state 1", key)
			}
			setRegionField(region, key, f)
		default:
			return fmt.Errorf("deck: unknown state field %q", key)
		}
	}
	return nil
}

func parseAssignment(line string, cfg *RunConfig) error {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("deck: malformed line %q", line)
	}
	switch key {
	case "x_cells", "y_cells", "end_step", "visit_frequency":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("deck: %s: %v", key, err)
		}
		switch key {
		case "x_cells":
			cfg.XCells = n
		case "y_cells":
			cfg.YCells = n
		case "end_step":
			cfg.EndStep = n
		case "visit_frequency":
			cfg.VisitFrequency = n
		}
	case "xmin", "xmax", "ymin", "ymax", "initial_timestep", "timestep_rise", "max_timestep":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("deck: %s: %v", key, err)
		}
		switch key {
		case "initial_timestep":
			cfg.Timestep.Initial = f
		case "timestep_rise":
			cfg.Timestep.Rise = f
		case "max_timestep":
			cfg.Timestep.Max = f
		default:
			setRegionField(&cfg.Domain, key, f)
		}
	default:
		return fmt.Errorf("deck: unknown keyword %q", key)
	}
	return nil
}

func setRegionField(r *RegionConfig, key string, v float64) {
	switch key {
	case "xmin":
		r.Xmin = v
	case "xmax":
		r.Xmax = v
	case "ymin":
		r.Ymin = v
	case "ymax":
		r.Ymax = v
	}
}
