// Package main provides trait sweeps: it reruns an experiment across a
// grid of values for one prey trait and records how the species fares.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/DragonMarionette/MimSim/config"
	"github.com/DragonMarionette/MimSim/results"
	"github.com/DragonMarionette/MimSim/sim"
	"github.com/DragonMarionette/MimSim/simxml"
	"github.com/DragonMarionette/MimSim/species"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Experiment YAML file (empty = use defaults)")
	xmlPath := flag.String("xml", "", "Experiment .simu.xml file")
	speciesName := flag.String("species", "", "Prey species to sweep (required)")
	trait := flag.String("trait", "camo", "Trait to sweep: camo, pal, size or popu")
	from := flag.Float64("from", 0, "First grid value")
	to := flag.Float64("to", 1, "Last grid value")
	steps := flag.Int("steps", 11, "Number of grid points")
	outDir := flag.String("out", "out", "Output directory")
	seed := flag.Int64("seed", 0, "RNG seed, shared by every grid point (0 = time-based)")
	workers := flag.Int("workers", 0, "Parallel trial workers (0 = all CPUs)")
	trials := flag.Int("trials", 0, "Override trial count (0 = use experiment)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *configPath != "" && *xmlPath != "" {
		slog.Error("-config and -xml are mutually exclusive")
		os.Exit(1)
	}
	if *speciesName == "" {
		slog.Error("-species is required")
		os.Exit(1)
	}
	switch *trait {
	case "camo", "pal", "size", "popu":
	default:
		slog.Error("unknown trait", "trait", *trait)
		os.Exit(1)
	}
	if *steps < 2 {
		slog.Error("-steps must be at least 2")
		os.Exit(1)
	}

	// Load the experiment
	var (
		cfg  sim.Config
		prey *species.PreyPool
		pred *species.PredPool
	)
	if *xmlPath != "" {
		f, err := os.Open(*xmlPath)
		if err != nil {
			slog.Error("failed to open experiment", "error", err)
			os.Exit(1)
		}
		cfg, prey, pred, err = simxml.Decode(f)
		f.Close()
		if err != nil {
			slog.Error("failed to load experiment", "path", *xmlPath, "error", err)
			os.Exit(1)
		}
	} else {
		exp, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = exp.Config()
		prey, pred, err = exp.Pools()
		if err != nil {
			slog.Error("invalid experiment", "error", err)
			os.Exit(1)
		}
	}
	if *trials > 0 {
		cfg.Trials = *trials
	}

	target, ok := prey.Lookup(*speciesName)
	if !ok {
		slog.Error("species not in experiment", "species", *speciesName)
		os.Exit(1)
	}

	// Set up seed; every grid point runs with the same seed so points
	// differ only in the swept trait.
	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	// Open the sweep log
	stem := cfg.Title
	if stem == "" {
		stem = "simulation"
	}
	stem = strings.ReplaceAll(stem, string(os.PathSeparator), "-")
	logPath := filepath.Join(*outDir, stem+".sweep.csv")
	sweepLog, err := results.NewSweepLog(logPath)
	if err != nil {
		slog.Error("failed to open sweep log", "error", err)
		os.Exit(1)
	}
	defer sweepLog.Close()

	// Stop between grid points or at a generation boundary on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grid := floats.Span(make([]float64, *steps), *from, *to)
	slog.Info("starting sweep",
		"title", cfg.Title,
		"species", *speciesName,
		"trait", *trait,
		"from", *from,
		"to", *to,
		"points", len(grid),
		"trials", cfg.Trials,
		"seed", runSeed,
	)

	var best, worst *results.SweepRow
	done := 0
	for i, v := range grid {
		if ctx.Err() != nil {
			break
		}

		pool := prey.Clone()
		sp := pool.At(target)
		applied := v
		switch *trait {
		case "camo":
			sp.Camo = v
		case "pal":
			sp.Pal = v
		case "size":
			sp.Size = v
		case "popu":
			sp.Popu = int(math.Round(v))
			applied = float64(sp.Popu)
		}

		s, err := sim.New(cfg, pool, pred)
		if err != nil {
			slog.Error("grid point rejected", "value", applied, "error", err)
			sweepLog.Close()
			os.Exit(1)
		}
		rs, err := s.Run(ctx, sim.Options{Seed: runSeed, Workers: *workers})
		if err != nil {
			// Partial grid points are discarded; completed rows are already
			// on disk.
			slog.Warn("sweep interrupted", "value", applied, "error", err)
			break
		}

		finals := rs.FinalPreyPopulations(target)
		xs := make([]float64, len(finals))
		extinct := 0
		for j, p := range finals {
			xs[j] = float64(p)
			if p == 0 {
				extinct++
			}
		}
		stddev := 0.0
		if len(xs) > 1 {
			stddev = stat.StdDev(xs, nil)
		}
		row := results.SweepRow{
			Species:   *speciesName,
			Trait:     *trait,
			Value:     applied,
			MeanFinal: stat.Mean(xs, nil),
			StdDev:    stddev,
			Extinct:   float64(extinct) / float64(len(finals)),
			Trials:    len(finals),
		}
		if err := sweepLog.Append(row); err != nil {
			slog.Error("failed to write sweep row", "error", err)
			sweepLog.Close()
			os.Exit(1)
		}
		done++
		slog.Info("grid point complete",
			"point", i+1,
			"points", len(grid),
			"value", applied,
			"mean_final", row.MeanFinal,
			"extinct_fraction", row.Extinct,
		)

		r := row
		if best == nil || r.MeanFinal > best.MeanFinal {
			best = &r
		}
		if worst == nil || r.MeanFinal < worst.MeanFinal {
			worst = &r
		}
	}

	if done == 0 {
		slog.Warn("no grid points completed")
		os.Exit(1)
	}
	slog.Info("sweep complete",
		"points", done,
		"log", logPath,
		"best_value", best.Value,
		"best_mean_final", best.MeanFinal,
		"worst_value", worst.Value,
		"worst_mean_final", worst.MeanFinal,
	)
	if done < len(grid) {
		os.Exit(1)
	}
}
