package sim

import (
	"context"
	"math/rand"
)

// trialSeedStride decorrelates the per-trial generators derived from one
// run seed.
const trialSeedStride = 1_000_003

// trialState is the mutable working state of one trial. Trait templates
// and interned phenotype indices live on the Simulation and are shared
// read-only across trials.
type trialState struct {
	sim      *Simulation
	counts   []int // live prey per species
	livePrey int
	roster   *roster
	learn    *learningState
	rng      *rand.Rand
}

func (s *Simulation) newTrialState(seed int64) *trialState {
	t := &trialState{
		sim:    s,
		counts: make([]int, len(s.prey)),
		roster: newRoster(s.pred),
		learn:  newLearningState(len(s.pred), s.nphen),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for i, sp := range s.prey {
		t.counts[i] = sp.Popu
		t.livePrey += sp.Popu
	}
	return t
}

// runGeneration resolves one generation's encounter budget, decays
// learning and captures the snapshot. With repopulation on, the community
// is restored after the snapshot so the next generation starts from the
// configured populations again.
func (t *trialState) runGeneration(gen int) GenerationSnapshot {
	var tally Tally
	for i := 0; i < t.sim.cfg.Encounters; i++ {
		tally.add(t.encounter().Event)
	}
	t.learn.decay()
	snap := GenerationSnapshot{
		Generation: gen,
		PreyPopu:   append([]int(nil), t.counts...),
		PredHungry: make([]int, len(t.sim.pred)),
		Tally:      tally,
	}
	t.roster.hungryCounts(snap.PredHungry)
	if t.sim.cfg.Repopulate {
		t.restore()
	}
	return snap
}

// restore resets populations, hunger and learning to the starting
// community.
func (t *trialState) restore() {
	t.livePrey = 0
	for i, sp := range t.sim.prey {
		t.counts[i] = sp.Popu
		t.livePrey += sp.Popu
	}
	t.roster.resetHunger()
	t.learn.reset()
}

// runTrial executes one trial. Cancellation is honored between
// generations; a cancelled trial discards its partial result so no
// half-stepped state is ever observable.
func (s *Simulation) runTrial(ctx context.Context, trial int, runSeed int64) (TrialResult, error) {
	t := s.newTrialState(runSeed + int64(trial)*trialSeedStride)
	gens := make([]GenerationSnapshot, 0, s.cfg.Generations)
	for g := 0; g < s.cfg.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return TrialResult{}, err
		}
		gens = append(gens, t.runGeneration(g))
	}
	return TrialResult{Trial: trial, Generations: gens}, nil
}
