// Package config provides experiment loading and access for the
// simulation tools.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DragonMarionette/MimSim/sim"
	"github.com/DragonMarionette/MimSim/species"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Experiment holds a full simulation definition: run parameters plus the
// prey and predator communities.
type Experiment struct {
	Title       string             `yaml:"title"`
	Encounters  int                `yaml:"encounters"`
	Generations int                `yaml:"generations"`
	Trials      int                `yaml:"trials"`
	Repopulate  bool               `yaml:"repopulate"`
	Prey        []species.Prey     `yaml:"prey"`
	Predators   []species.Predator `yaml:"predators"`
}

// Load loads an experiment from a YAML file, merging with the embedded
// defaults. If path is empty, only the embedded defaults are used, which
// describe a complete demo experiment. Species lists present in the file
// replace the default lists wholesale.
func Load(path string) (*Experiment, error) {
	e := &Experiment{}
	if err := yaml.Unmarshal(defaultsYAML, e); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading experiment file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, e); err != nil {
			return nil, fmt.Errorf("parsing experiment file: %w", err)
		}
	}

	return e, nil
}

// Default returns the embedded demo experiment.
func Default() (*Experiment, error) {
	return Load("")
}

// Config returns the run parameters.
func (e *Experiment) Config() sim.Config {
	return sim.Config{
		Title:       e.Title,
		Encounters:  e.Encounters,
		Generations: e.Generations,
		Trials:      e.Trials,
		Repopulate:  e.Repopulate,
	}
}

// Pools assembles the species pools from the experiment's lists.
func (e *Experiment) Pools() (*species.PreyPool, *species.PredPool, error) {
	prey := species.NewPreyPool()
	for _, sp := range e.Prey {
		if err := prey.Add(sp); err != nil {
			return nil, nil, err
		}
	}
	pred := species.NewPredPool()
	for _, sp := range e.Predators {
		if err := pred.Add(sp); err != nil {
			return nil, nil, err
		}
	}
	return prey, pred, nil
}

// WriteYAML writes the experiment to a YAML file, handy for scaffolding a
// new definition from the built-in one.
func (e *Experiment) WriteYAML(path string) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling experiment: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing experiment file: %w", err)
	}
	return nil
}
