package sim

// Event classifies what happened in one encounter.
type Event uint8

const (
	EventNoEncounter Event = iota // a side had nobody left to meet
	EventHidden                   // camouflage defeated detection
	EventSated                    // predator at appetite, prey ignored
	EventAvoided                  // phenotype aversion, predator declined
	EventDistasteful              // prey killed, predator repulsed and taught
	EventEaten                    // prey killed and consumed
)

// String names the event for logs and exports.
func (e Event) String() string {
	switch e {
	case EventNoEncounter:
		return "no_encounter"
	case EventHidden:
		return "hidden"
	case EventSated:
		return "sated"
	case EventAvoided:
		return "avoided"
	case EventDistasteful:
		return "distasteful"
	case EventEaten:
		return "eaten"
	}
	return "unknown"
}

// outcome reports one resolved encounter. Prey and Pred are species
// indices, -1 when no selection took place.
type outcome struct {
	Event      Event
	Prey       int
	Pred       int
	Fed        bool
	NewlySated bool
}

// encounter resolves a single random meeting on the trial's state.
//
// The order is fixed: selection of both parties, then the detection,
// satiation and aversion gates, then attack and taste. Gates that do not
// fire consume no random draws, which pins down the draw sequence a seed
// produces.
func (t *trialState) encounter() outcome {
	if t.livePrey == 0 || t.roster.total == 0 {
		return outcome{Event: EventNoEncounter, Prey: -1, Pred: -1}
	}
	pi := t.pickPrey(t.rng.Intn(t.livePrey))
	ps, ent := t.roster.pick(t.rng.Intn(t.roster.total))
	prey := &t.sim.prey[pi]

	if t.rng.Float64() < prey.Camo {
		return outcome{Event: EventHidden, Prey: pi, Pred: ps}
	}
	pred := &t.sim.pred[ps]
	h := t.roster.hungerOf(ent)
	if !pred.Insatiable && h.Eaten >= int64(pred.App) {
		return outcome{Event: EventSated, Prey: pi, Pred: ps}
	}
	if t.learn.averse(ps, t.sim.phenOf[pi]) {
		return outcome{Event: EventAvoided, Prey: pi, Pred: ps}
	}

	// The attack kills either way; taste only decides whether the
	// predator eats or learns.
	t.counts[pi]--
	t.livePrey--
	if t.rng.Float64() < prey.Pal {
		t.learn.record(ps, t.sim.phenOf[pi], pred.Mem)
		return outcome{Event: EventDistasteful, Prey: pi, Pred: ps}
	}
	h.Eaten++
	return outcome{
		Event:      EventEaten,
		Prey:       pi,
		Pred:       ps,
		Fed:        true,
		NewlySated: !pred.Insatiable && h.Eaten == int64(pred.App),
	}
}

// pickPrey maps a uniform index over live prey to a species index.
func (t *trialState) pickPrey(k int) int {
	for i, c := range t.counts {
		if k < c {
			return i
		}
		k -= c
	}
	panic("prey index out of range")
}
