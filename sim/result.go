package sim

import "log/slog"

// Tally counts encounter events within one generation.
type Tally struct {
	NoEncounter int `json:"no_encounter"`
	Hidden      int `json:"hidden"`
	Sated       int `json:"sated"`
	Avoided     int `json:"avoided"`
	Distasteful int `json:"distasteful"`
	Eaten       int `json:"eaten"`
}

func (t *Tally) add(e Event) {
	switch e {
	case EventNoEncounter:
		t.NoEncounter++
	case EventHidden:
		t.Hidden++
	case EventSated:
		t.Sated++
	case EventAvoided:
		t.Avoided++
	case EventDistasteful:
		t.Distasteful++
	case EventEaten:
		t.Eaten++
	}
}

// Total returns the number of encounters tallied.
func (t Tally) Total() int {
	return t.NoEncounter + t.Hidden + t.Sated + t.Avoided + t.Distasteful + t.Eaten
}

// LogValue implements slog.LogValuer for structured logging.
func (t Tally) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("no_encounter", t.NoEncounter),
		slog.Int("hidden", t.Hidden),
		slog.Int("sated", t.Sated),
		slog.Int("avoided", t.Avoided),
		slog.Int("distasteful", t.Distasteful),
		slog.Int("eaten", t.Eaten),
	)
}

// GenerationSnapshot records the observable state of one generation after
// its encounters: prey populations and hungry predator counts per
// species, in pool order.
type GenerationSnapshot struct {
	Generation int   `json:"generation"`
	PreyPopu   []int `json:"prey_popu"`
	PredHungry []int `json:"pred_hungry"`
	Tally      Tally `json:"tally"`
}

// TrialResult holds one trial's snapshots in generation order.
type TrialResult struct {
	Trial       int                  `json:"trial"`
	Generations []GenerationSnapshot `json:"generations"`
}

// ResultSet aggregates completed trials in trial order. After a cancelled
// run it holds exactly the trials that finished.
type ResultSet struct {
	Title     string        `json:"title"`
	PreyNames []string      `json:"prey_names"`
	PredNames []string      `json:"pred_names"`
	Trials    []TrialResult `json:"trials"`
}

// TotalTally sums every generation's tally across all trials.
func (rs *ResultSet) TotalTally() Tally {
	var total Tally
	for _, tr := range rs.Trials {
		for _, snap := range tr.Generations {
			total.NoEncounter += snap.Tally.NoEncounter
			total.Hidden += snap.Tally.Hidden
			total.Sated += snap.Tally.Sated
			total.Avoided += snap.Tally.Avoided
			total.Distasteful += snap.Tally.Distasteful
			total.Eaten += snap.Tally.Eaten
		}
	}
	return total
}

// TrialNumbers lists the trial numbers present, in order.
func (rs *ResultSet) TrialNumbers() []int {
	nums := make([]int, len(rs.Trials))
	for i, tr := range rs.Trials {
		nums[i] = tr.Trial
	}
	return nums
}

// PreySeries reshapes one prey species' populations to one row per trial
// and one column per generation, the layout exports nest by.
func (rs *ResultSet) PreySeries(species int) [][]int {
	rows := make([][]int, len(rs.Trials))
	for i, tr := range rs.Trials {
		row := make([]int, len(tr.Generations))
		for g, snap := range tr.Generations {
			row[g] = snap.PreyPopu[species]
		}
		rows[i] = row
	}
	return rows
}

// PredSeries reshapes one predator species' hungry counts the same way
// PreySeries reshapes populations.
func (rs *ResultSet) PredSeries(species int) [][]int {
	rows := make([][]int, len(rs.Trials))
	for i, tr := range rs.Trials {
		row := make([]int, len(tr.Generations))
		for g, snap := range tr.Generations {
			row[g] = snap.PredHungry[species]
		}
		rows[i] = row
	}
	return rows
}

// FinalPreyPopulations returns the last generation's population of one
// prey species for each completed trial.
func (rs *ResultSet) FinalPreyPopulations(species int) []int {
	finals := make([]int, len(rs.Trials))
	for i, tr := range rs.Trials {
		finals[i] = tr.Generations[len(tr.Generations)-1].PreyPopu[species]
	}
	return finals
}
