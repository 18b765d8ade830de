// Package sim implements the mimicry simulation engine: stochastic
// predator and prey encounters advanced in generations over independent,
// reproducible trials.
//
// The engine performs no I/O. Experiments come in through Config and the
// species pools, results go out as a ResultSet; file formats and logging
// live in the surrounding packages.
package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/DragonMarionette/MimSim/species"
)

// Config carries the run parameters of a simulation.
type Config struct {
	Title       string // experiment name, used by exporters for file naming
	Encounters  int    // encounters per generation
	Generations int    // generations per trial
	Trials      int    // independent repetitions
	Repopulate  bool   // restore the community at every generation boundary
}

// Options tunes one Run call.
type Options struct {
	// Seed is the run seed. Each trial derives its own generator from it,
	// so equal seeds reproduce equal results at any worker count.
	Seed int64
	// Workers bounds trial parallelism. Zero or less uses GOMAXPROCS,
	// one runs trials sequentially.
	Workers int
	// Progress, when set, is called after each completed trial from the
	// collecting goroutine, never concurrently.
	Progress func(done, total int)
}

// Simulation is a validated, immutable experiment ready to run.
type Simulation struct {
	cfg       Config
	prey      []species.Prey
	pred      []species.Predator
	phenOf    []int // prey species index to interned phenotype index
	nphen     int
	preyNames []string
	predNames []string
}

// New validates the configuration and community and prepares a runnable
// simulation. The pools are copied, so mutating them afterwards does not
// affect the simulation.
func New(cfg Config, prey *species.PreyPool, pred *species.PredPool) (*Simulation, error) {
	if err := Validate(cfg, prey, pred); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:       cfg,
		prey:      prey.Species(),
		pred:      pred.Species(),
		preyNames: prey.Names(),
		predNames: pred.Names(),
	}
	s.phenOf = make([]int, len(s.prey))
	index := make(map[string]int, len(s.prey))
	for i, sp := range s.prey {
		idx, ok := index[sp.Phen]
		if !ok {
			idx = len(index)
			index[sp.Phen] = idx
		}
		s.phenOf[i] = idx
	}
	s.nphen = len(index)
	return s, nil
}

// Config returns the run parameters.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Run executes all trials and collects their results in trial order.
// Cancellation is honored at generation boundaries: trials that already
// finished stay in the returned set, and the error wraps the context's
// error. A run that completes returns exactly Trials results and a nil
// error. Run may be called repeatedly; every call re-derives all working
// state from the immutable templates.
func (s *Simulation) Run(ctx context.Context, opts Options) (*ResultSet, error) {
	trials := s.cfg.Trials
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > trials {
		workers = trials
	}

	slots := make([]*TrialResult, trials)
	if workers == 1 {
		s.runSequential(ctx, opts, slots)
	} else {
		s.runParallel(ctx, opts, workers, slots)
	}

	rs := &ResultSet{
		Title:     s.cfg.Title,
		PreyNames: append([]string(nil), s.preyNames...),
		PredNames: append([]string(nil), s.predNames...),
	}
	for _, res := range slots {
		if res != nil {
			rs.Trials = append(rs.Trials, *res)
		}
	}
	if err := ctx.Err(); err != nil && len(rs.Trials) < trials {
		return rs, fmt.Errorf("run stopped after %d of %d trials: %w", len(rs.Trials), trials, err)
	}
	return rs, nil
}

func (s *Simulation) runSequential(ctx context.Context, opts Options, slots []*TrialResult) {
	for i := range slots {
		res, err := s.runTrial(ctx, i, opts.Seed)
		if err != nil {
			return
		}
		slots[i] = &res
		if opts.Progress != nil {
			opts.Progress(i+1, len(slots))
		}
	}
}
