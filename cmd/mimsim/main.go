// Package main provides the headless runner for mimicry simulations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	outDir := flag.String("out", "out", "Output directory (empty = no files written)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	workers := flag.Int("workers", 0, "Parallel trial workers (0 = all CPUs)")
	trials := flag.Int("trials", 0, "Override trial count (0 = use experiment)")
	generations := flag.Int("generations", 0, "Override generation count (0 = use experiment)")
	encounters := flag.Int("encounters", 0, "Override encounters per generation (0 = use experiment)")
	writeJSON := flag.Bool("json", false, "Also write results as JSON")
	quiet := flag.Bool("quiet", false, "Suppress per-trial progress logging")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *configPath != "" && *xmlPath != "" {
		slog.Error("-config and -xml are mutually exclusive")
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

	// CLI overrides
	if *trials > 0 {
		cfg.Trials = *trials
	}
	if *generations > 0 {
		cfg.Generations = *generations
	}
	if *encounters > 0 {
		cfg.Encounters = *encounters
	}

	s, err := sim.New(cfg, prey, pred)
	if err != nil {
		slog.Error("invalid experiment", "error", err)
		os.Exit(1)
	}

	// Set up seed
	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	// Stop at the next generation boundary on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := sim.Options{Seed: runSeed, Workers: *workers}
	if !*quiet {
		opts.Progress = func(done, total int) {
			slog.Info("trial finished", "done", done, "total", total)
		}
	}

	slog.Info("starting run",
		"title", cfg.Title,
		"trials", cfg.Trials,
		"generations", cfg.Generations,
		"encounters", cfg.Encounters,
		"seed", runSeed,
		"workers", *workers,
	)

	start := time.Now()
	rs, runErr := s.Run(ctx, opts)
	if runErr != nil {
		slog.Warn("run interrupted", "completed_trials", len(rs.Trials), "error", runErr)
	} else {
		slog.Info("run complete",
			"trials", len(rs.Trials),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"tally", rs.TotalTally(),
		)
	}

	// Write whatever trials completed, interrupted or not
	if len(rs.Trials) > 0 {
		exporter, err := results.NewExporter(*outDir, cfg.Title)
		if err != nil {
			slog.Error("failed to create exporter", "error", err)
			os.Exit(1)
		}
		path, err := exporter.WriteXML(cfg, prey, pred, rs)
		if err != nil {
			slog.Error("failed to write results xml", "error", err)
			os.Exit(1)
		}
		if path != "" {
			slog.Info("wrote results", "path", path)
		}
		preyPath, predPath, err := exporter.WriteCSV(rs)
		if err != nil {
			slog.Error("failed to write csv", "error", err)
			os.Exit(1)
		}
		if preyPath != "" {
			slog.Info("wrote series", "prey", preyPath, "pred", predPath)
		}
		if *writeJSON {
			jsonPath, err := exporter.WriteJSON(rs)
			if err != nil {
				slog.Error("failed to write json", "error", err)
				os.Exit(1)
			}
			if jsonPath != "" {
				slog.Info("wrote results", "path", jsonPath)
			}
		}

		// Per-species summary over final generations
		for i, name := range rs.PreyNames {
			finals := rs.FinalPreyPopulations(i)
			xs := make([]float64, len(finals))
			for j, v := range finals {
				xs[j] = float64(v)
			}
			fmt.Printf("%s: mean final popu %.1f of %d over %d trials\n",
				name, stat.Mean(xs, nil), prey.At(i).Popu, len(finals))
		}
	} else {
		slog.Warn("no trials completed, nothing to export")
	}

	if runErr != nil {
		os.Exit(1)
	}
}
