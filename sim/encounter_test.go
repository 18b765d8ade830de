package sim

import (
	"testing"

	"github.com/DragonMarionette/MimSim/species"
)

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{EventNoEncounter, "no_encounter"},
		{EventHidden, "hidden"},
		{EventSated, "sated"},
		{EventAvoided, "avoided"},
		{EventDistasteful, "distasteful"},
		{EventEaten, "eaten"},
		{Event(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("Event(%d).String() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestEncounterFullCamouflageNeverDetected(t *testing.T) {
	s := mustSim(t, baseCfg(),
		[]species.Prey{{Name: "leafwing", Popu: 20, Phen: "leaf", Size: 1, Camo: 1, Pal: 0.5}},
		[]species.Predator{{Name: "jay", Popu: 5, Insatiable: true}},
	)
	tr := s.newTrialState(1)
	for i := 0; i < 500; i++ {
		if out := tr.encounter(); out.Event != EventHidden {
			t.Fatalf("encounter %d: event = %v, want hidden", i, out.Event)
		}
	}
	if tr.counts[0] != 20 {
		t.Errorf("population = %d after hidden encounters, want 20", tr.counts[0])
	}
}

func TestEncounterCertainKillWhenExposed(t *testing.T) {
	s := mustSim(t, baseCfg(),
		[]species.Prey{{Name: "monarch", Popu: 10, Phen: "orange", Size: 1, Camo: 0, Pal: 1}},
		[]species.Predator{{Name: "jay", Popu: 5, Insatiable: true}},
	)
	tr := s.newTrialState(3)
	for i := 0; i < 10; i++ {
		out := tr.encounter()
		if out.Event != EventDistasteful {
			t.Fatalf("encounter %d: event = %v, want distasteful", i, out.Event)
		}
		if out.Fed {
			t.Error("distasteful kill fed the predator")
		}
	}
	if tr.counts[0] != 0 || tr.livePrey != 0 {
		t.Errorf("counts = %v, livePrey = %d, want extinction", tr.counts, tr.livePrey)
	}
	out := tr.encounter()
	if out.Event != EventNoEncounter {
		t.Errorf("event after extinction = %v, want no_encounter", out.Event)
	}
	if out.Prey != -1 || out.Pred != -1 {
		t.Errorf("no-op indices = %d, %d, want -1, -1", out.Prey, out.Pred)
	}
}

func TestEncounterAversionProtectsMimicryRing(t *testing.T) {
	prey := []species.Prey{
		{Name: "mimic", Popu: 5, Phen: "orange", Size: 1, Camo: 0, Pal: 0},
		{Name: "model", Popu: 0, Phen: "orange", Size: 1, Camo: 0, Pal: 1},
	}
	pred := []species.Predator{{Name: "jay", Popu: 1, Mem: 3, Insatiable: true}}
	s := mustSim(t, baseCfg(), prey, pred)
	if s.phenOf[0] != s.phenOf[1] {
		t.Fatal("shared phenotype label interned to different indices")
	}
	tr := s.newTrialState(7)
	// An aversion learned on the model's phenotype shields the palatable
	// mimic too.
	tr.learn.record(0, s.phenOf[0], 2)
	out := tr.encounter()
	if out.Event != EventAvoided {
		t.Fatalf("event = %v, want avoided", out.Event)
	}
	if tr.counts[0] != 5 {
		t.Errorf("mimic population = %d, want 5", tr.counts[0])
	}
}

func TestEncounterSatiationGate(t *testing.T) {
	s := mustSim(t, baseCfg(),
		[]species.Prey{{Name: "moth", Popu: 50, Phen: "plain", Size: 1, Camo: 0, Pal: 0}},
		[]species.Predator{{Name: "owl", Popu: 1, App: 1}},
	)
	tr := s.newTrialState(11)
	out := tr.encounter()
	if out.Event != EventEaten || !out.Fed || !out.NewlySated {
		t.Fatalf("first encounter = %+v, want a newly sating meal", out)
	}
	for i := 0; i < 20; i++ {
		if out := tr.encounter(); out.Event != EventSated {
			t.Fatalf("encounter %d after satiation: event = %v, want sated", i, out.Event)
		}
	}
	if tr.counts[0] != 49 {
		t.Errorf("population = %d, want 49 after a single kill", tr.counts[0])
	}
}

func TestEncounterInsatiableNeverSated(t *testing.T) {
	s := mustSim(t, baseCfg(),
		[]species.Prey{{Name: "moth", Popu: 30, Phen: "plain", Size: 1, Camo: 0, Pal: 0}},
		[]species.Predator{{Name: "shrike", Popu: 2, Insatiable: true}},
	)
	tr := s.newTrialState(13)
	for i := 0; i < 30; i++ {
		out := tr.encounter()
		if out.Event != EventEaten {
			t.Fatalf("encounter %d: event = %v, want eaten", i, out.Event)
		}
		if out.NewlySated {
			t.Error("insatiable predator reported newly sated")
		}
	}
	if tr.livePrey != 0 {
		t.Errorf("livePrey = %d, want 0", tr.livePrey)
	}
}

func TestEncounterNoPredators(t *testing.T) {
	s := mustSim(t, baseCfg(),
		[]species.Prey{{Name: "moth", Popu: 5, Phen: "plain", Size: 1, Camo: 0, Pal: 0}},
		[]species.Predator{{Name: "ghost", Popu: 0}},
	)
	tr := s.newTrialState(17)
	if out := tr.encounter(); out.Event != EventNoEncounter {
		t.Errorf("event = %v, want no_encounter with an empty predator pool", out.Event)
	}
	if tr.counts[0] != 5 {
		t.Errorf("population = %d, want 5", tr.counts[0])
	}
}

func TestEncounterSelectionReachesAllSpecies(t *testing.T) {
	prey := []species.Prey{
		{Name: "alpha", Popu: 1000, Phen: "a", Size: 1, Camo: 0, Pal: 0},
		{Name: "beta", Popu: 1000, Phen: "b", Size: 1, Camo: 0, Pal: 0},
	}
	pred := []species.Predator{{Name: "jay", Popu: 10, Insatiable: true}}
	s := mustSim(t, baseCfg(), prey, pred)
	tr := s.newTrialState(19)
	for i := 0; i < 1000; i++ {
		tr.encounter()
	}
	if tr.counts[0] == 1000 || tr.counts[1] == 1000 {
		t.Errorf("counts = %v, want kills in both species", tr.counts)
	}
	if tr.counts[0]+tr.counts[1] != tr.livePrey {
		t.Errorf("livePrey = %d, inconsistent with counts %v", tr.livePrey, tr.counts)
	}
	if tr.livePrey != 1000 {
		t.Errorf("livePrey = %d after 1000 certain kills, want 1000", tr.livePrey)
	}
}
