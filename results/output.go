// Package results writes finished runs to disk: the .simu.xml results
// document, long-format CSV series, and JSON.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/DragonMarionette/MimSim/sim"
	"github.com/DragonMarionette/MimSim/simxml"
	"github.com/DragonMarionette/MimSim/species"
)

// PreyRow is one prey observation in the long-format CSV export.
type PreyRow struct {
	Trial      int    `csv:"trial"`
	Generation int    `csv:"generation"`
	Species    string `csv:"species"`
	Population int    `csv:"population"`
}

// PredRow is one predator observation in the long-format CSV export.
type PredRow struct {
	Trial            int    `csv:"trial"`
	Generation       int    `csv:"generation"`
	Species          string `csv:"species"`
	PopulationHungry int    `csv:"population_hungry"`
}

// PreyRows flattens a result set to one row per trial, generation and
// prey species, in that nesting order.
func PreyRows(rs *sim.ResultSet) []PreyRow {
	var rows []PreyRow
	for _, tr := range rs.Trials {
		for _, snap := range tr.Generations {
			for s, name := range rs.PreyNames {
				rows = append(rows, PreyRow{
					Trial:      tr.Trial,
					Generation: snap.Generation,
					Species:    name,
					Population: snap.PreyPopu[s],
				})
			}
		}
	}
	return rows
}

// PredRows flattens a result set to one row per trial, generation and
// predator species, in that nesting order.
func PredRows(rs *sim.ResultSet) []PredRow {
	var rows []PredRow
	for _, tr := range rs.Trials {
		for _, snap := range tr.Generations {
			for s, name := range rs.PredNames {
				rows = append(rows, PredRow{
					Trial:            tr.Trial,
					Generation:       snap.Generation,
					Species:          name,
					PopulationHungry: snap.PredHungry[s],
				})
			}
		}
	}
	return rows
}

// Exporter writes a run's artifacts into one directory, with file names
// derived from the experiment title.
type Exporter struct {
	dir   string
	title string
}

// NewExporter creates the output directory and returns an exporter for it.
// Returns nil if dir is empty (output disabled); a nil exporter's methods
// succeed without writing anything.
func NewExporter(dir, title string) (*Exporter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Exporter{dir: dir, title: title}, nil
}

// basename returns the title as a file name stem, with path separators
// replaced so the title cannot escape the output directory.
func (e *Exporter) basename() string {
	name := e.title
	if name == "" {
		name = "simulation"
	}
	return strings.ReplaceAll(name, string(os.PathSeparator), "-")
}

// WriteXML writes the full .simu.xml results document and returns its path.
func (e *Exporter) WriteXML(cfg sim.Config, prey *species.PreyPool, pred *species.PredPool, rs *sim.ResultSet) (string, error) {
	if e == nil {
		return "", nil
	}

	path := filepath.Join(e.dir, e.basename()+simxml.Ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := simxml.EncodeResults(f, cfg, prey, pred, rs); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return path, nil
}

// WriteCSV writes the prey and predator series as two long-format CSV
// files and returns their paths.
func (e *Exporter) WriteCSV(rs *sim.ResultSet) (string, string, error) {
	if e == nil {
		return "", "", nil
	}

	preyPath := filepath.Join(e.dir, e.basename()+".prey.csv")
	f, err := os.Create(preyPath)
	if err != nil {
		return "", "", fmt.Errorf("creating prey csv: %w", err)
	}
	if err := gocsv.Marshal(PreyRows(rs), f); err != nil {
		f.Close()
		return "", "", fmt.Errorf("writing prey csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}

	predPath := filepath.Join(e.dir, e.basename()+".pred.csv")
	f, err = os.Create(predPath)
	if err != nil {
		return "", "", fmt.Errorf("creating predator csv: %w", err)
	}
	if err := gocsv.Marshal(PredRows(rs), f); err != nil {
		f.Close()
		return "", "", fmt.Errorf("writing predator csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}

	return preyPath, predPath, nil
}

// WriteJSON writes the result set as indented JSON and returns its path.
func (e *Exporter) WriteJSON(rs *sim.ResultSet) (string, error) {
	if e == nil {
		return "", nil
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling results: %w", err)
	}

	path := filepath.Join(e.dir, e.basename()+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing results json: %w", err)
	}

	return path, nil
}

// Dir returns the output directory path.
func (e *Exporter) Dir() string {
	if e == nil {
		return ""
	}
	return e.dir
}
