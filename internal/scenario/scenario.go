// Package scenario loads named simulation configs from YAML files.
//
//	defaults:
//	  noise_variance: 0.5
//	scenarios:
//	  - name: baseline
//	    observation_count: 100
//	  - name: large
//	    observation_count: 5000000
//
// Fields a scenario omits come from the defaults block, and fields the
// defaults block omits come from crosssim.DefaultConfig.
package scenario

import (
	"fmt"
	"os"

	"simcross/internal/crosssim"
	"simcross/internal/errors"

	"gopkg.in/yaml.v3"
)

// Scenario is a named simulation config.
type Scenario struct {
	Name                      string `yaml:"name" json:"name"`
	crosssim.SimulationConfig `yaml:",inline"`
}

// File is a parsed scenario file.
type File struct {
	Defaults  crosssim.SimulationConfig
	Scenarios []Scenario
}

type rawFile struct {
	Defaults  yaml.Node   `yaml:"defaults"`
	Scenarios []yaml.Node `yaml:"scenarios"`
}

// Load reads and parses a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario file %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario file %s", path)
	}
	return f, nil
}

// Parse decodes a scenario document and validates every scenario in it.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "parse scenarios")
	}

	f := &File{Defaults: crosssim.DefaultConfig()}
	if !raw.Defaults.IsZero() {
		if err := raw.Defaults.Decode(&f.Defaults); err != nil {
			return nil, errors.Wrap(errors.InvalidInput(err.Error()), "parse defaults")
		}
	}
	if len(raw.Scenarios) == 0 {
		return nil, errors.InvalidInput("no scenarios defined")
	}

	seen := make(map[string]bool, len(raw.Scenarios))
	for i, node := range raw.Scenarios {
		s := Scenario{SimulationConfig: f.Defaults}
		if err := node.Decode(&s); err != nil {
			return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "parse scenario %d", i+1)
		}
		if s.Name == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("scenario %d has no name", i+1))
		}
		if seen[s.Name] {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate scenario name %q", s.Name))
		}
		seen[s.Name] = true
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "scenario %q", s.Name)
		}
		f.Scenarios = append(f.Scenarios, s)
	}
	return f, nil
}

// Find returns the scenario called name.
func (f *File) Find(name string) (Scenario, error) {
	for _, s := range f.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, errors.NotFound(fmt.Sprintf("scenario %q", name))
}

// Names lists scenario names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Scenarios))
	for i, s := range f.Scenarios {
		names[i] = s.Name
	}
	return names
}
