package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/DragonMarionette/MimSim/sim"
	"github.com/DragonMarionette/MimSim/simxml"
	"github.com/DragonMarionette/MimSim/species"
)

func testArtifacts(t *testing.T) (sim.Config, *species.PreyPool, *species.PredPool, *sim.ResultSet) {
	t.Helper()
	cfg := sim.Config{Title: "export test", Encounters: 10, Generations: 1, Trials: 2}
	prey := species.NewPreyPool()
	for _, sp := range []species.Prey{
		{Name: "mimic", Popu: 10, Phen: "banded", Size: 1, Camo: 0.1, Pal: 0.2},
		{Name: "model", Popu: 20, Phen: "banded", Size: 1, Camo: 0.1, Pal: 0.9},
	} {
		if err := prey.Add(sp); err != nil {
			t.Fatalf("add prey: %v", err)
		}
	}
	pred := species.NewPredPool()
	if err := pred.Add(species.Predator{Name: "jay", Popu: 3, App: 2, Mem: 1}); err != nil {
		t.Fatalf("add predator: %v", err)
	}
	rs := &sim.ResultSet{
		Title:     cfg.Title,
		PreyNames: prey.Names(),
		PredNames: pred.Names(),
		Trials: []sim.TrialResult{
			{Trial: 0, Generations: []sim.GenerationSnapshot{
				{Generation: 0, PreyPopu: []int{8, 19}, PredHungry: []int{1}},
			}},
			{Trial: 1, Generations: []sim.GenerationSnapshot{
				{Generation: 0, PreyPopu: []int{7, 18}, PredHungry: []int{2}},
			}},
		},
	}
	return cfg, prey, pred, rs
}

func TestPreyRows(t *testing.T) {
	_, _, _, rs := testArtifacts(t)
	got := PreyRows(rs)
	want := []PreyRow{
		{Trial: 0, Generation: 0, Species: "mimic", Population: 8},
		{Trial: 0, Generation: 0, Species: "model", Population: 19},
		{Trial: 1, Generation: 0, Species: "mimic", Population: 7},
		{Trial: 1, Generation: 0, Species: "model", Population: 18},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PreyRows = %+v, want %+v", got, want)
	}
}

func TestPredRows(t *testing.T) {
	_, _, _, rs := testArtifacts(t)
	got := PredRows(rs)
	want := []PredRow{
		{Trial: 0, Generation: 0, Species: "jay", PopulationHungry: 1},
		{Trial: 1, Generation: 0, Species: "jay", PopulationHungry: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PredRows = %+v, want %+v", got, want)
	}
}

func TestExporterDisabled(t *testing.T) {
	e, err := NewExporter("", "anything")
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	if e != nil {
		t.Fatal("empty dir should disable output")
	}

	cfg, prey, pred, rs := testArtifacts(t)
	if path, err := e.WriteXML(cfg, prey, pred, rs); err != nil || path != "" {
		t.Errorf("nil WriteXML = (%q, %v), want no-op", path, err)
	}
	if p1, p2, err := e.WriteCSV(rs); err != nil || p1 != "" || p2 != "" {
		t.Errorf("nil WriteCSV = (%q, %q, %v), want no-op", p1, p2, err)
	}
	if path, err := e.WriteJSON(rs); err != nil || path != "" {
		t.Errorf("nil WriteJSON = (%q, %v), want no-op", path, err)
	}
	if e.Dir() != "" {
		t.Errorf("nil Dir = %q, want empty", e.Dir())
	}
}

func TestExporterWritesFiles(t *testing.T) {
	cfg, prey, pred, rs := testArtifacts(t)
	dir := filepath.Join(t.TempDir(), "out")
	e, err := NewExporter(dir, cfg.Title)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	xmlPath, err := e.WriteXML(cfg, prey, pred, rs)
	if err != nil {
		t.Fatalf("WriteXML: %v", err)
	}
	if filepath.Base(xmlPath) != "export test"+simxml.Ext {
		t.Errorf("xml path = %q", xmlPath)
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		t.Fatalf("open xml: %v", err)
	}
	gotCfg, _, _, err := simxml.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decoding written xml: %v", err)
	}
	if gotCfg != cfg {
		t.Errorf("xml round trip config = %+v, want %+v", gotCfg, cfg)
	}

	preyPath, predPath, err := e.WriteCSV(rs)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(preyPath)
	if err != nil {
		t.Fatalf("read prey csv: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if lines[0] != "trial,generation,species,population" {
		t.Errorf("prey csv header = %q", lines[0])
	}
	if len(lines) != 1+4 {
		t.Errorf("prey csv has %d lines, want 5", len(lines))
	}
	data, err = os.ReadFile(predPath)
	if err != nil {
		t.Fatalf("read predator csv: %v", err)
	}
	if !strings.HasPrefix(string(data), "trial,generation,species,population_hungry\n") {
		t.Errorf("predator csv header wrong: %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	jsonPath, err := e.WriteJSON(rs)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var back sim.ResultSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshaling json: %v", err)
	}
	if back.Title != rs.Title || !reflect.DeepEqual(back.Trials, rs.Trials) {
		t.Errorf("json round trip = %+v, want %+v", back, rs)
	}
}

func TestExporterTitleSanitized(t *testing.T) {
	_, _, _, rs := testArtifacts(t)
	dir := t.TempDir()

	e, err := NewExporter(dir, "a/b")
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	path, err := e.WriteJSON(rs)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if filepath.Base(path) != "a-b.json" {
		t.Errorf("sanitized name = %q, want a-b.json", filepath.Base(path))
	}

	e, err = NewExporter(dir, "")
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	path, err = e.WriteJSON(rs)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if filepath.Base(path) != "simulation.json" {
		t.Errorf("empty title name = %q, want simulation.json", filepath.Base(path))
	}
}

func TestSweepLogHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep", "camo.csv")
	sl, err := NewSweepLog(path)
	if err != nil {
		t.Fatalf("NewSweepLog: %v", err)
	}
	rows := []SweepRow{
		{Species: "mimic", Trait: "camo", Value: 0, MeanFinal: 12.5, StdDev: 2.1, Extinct: 0, Trials: 4},
		{Species: "mimic", Trait: "camo", Value: 0.5, MeanFinal: 30, StdDev: 1.5, Extinct: 0, Trials: 4},
		{Species: "mimic", Trait: "camo", Value: 1, MeanFinal: 40, StdDev: 0, Extinct: 0, Trials: 4},
	}
	for _, row := range rows {
		if err := sl.Append(row); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sweep csv: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 1+len(rows) {
		t.Fatalf("sweep csv has %d lines, want %d", len(lines), 1+len(rows))
	}
	if lines[0] != "species,trait,value,mean_final_popu,stddev_final_popu,extinct_fraction,trials" {
		t.Errorf("sweep csv header = %q", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "mimic,camo,") {
			t.Errorf("unexpected row %q", line)
		}
	}
}
