package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/DragonMarionette/MimSim/species"
)

// hunger counts prey eaten by one predator individual in the current
// generation.
type hunger struct {
	Eaten int64
}

// membership ties a predator individual to its species index.
type membership struct {
	Species int32
}

// roster holds the predator individuals of one trial as entities in a
// trial-private world, one entity per individual. Predator populations
// never change during a run, so entities are created once and only their
// hunger counters move.
type roster struct {
	world     *ecs.World
	preds     ecs.Map2[hunger, membership]
	bySpecies [][]ecs.Entity
	specs     []species.Predator
	total     int
}

func newRoster(specs []species.Predator) *roster {
	w := ecs.NewWorld()
	r := &roster{
		world: w,
		specs: specs,
	}
	r.preds = *ecs.NewMap2[hunger, membership](r.world)
	r.bySpecies = make([][]ecs.Entity, len(specs))
	for s, sp := range specs {
		ents := make([]ecs.Entity, sp.Popu)
		for i := range ents {
			ents[i] = r.preds.NewEntity(&hunger{}, &membership{Species: int32(s)})
		}
		r.bySpecies[s] = ents
		r.total += sp.Popu
	}
	return r
}

// pick maps a uniform index in [0, total) to a species index and that
// individual's entity.
func (r *roster) pick(k int) (int, ecs.Entity) {
	for s, ents := range r.bySpecies {
		if k < len(ents) {
			return s, ents[k]
		}
		k -= len(ents)
	}
	panic("predator index out of range")
}

// hungerOf returns the individual's hunger counter for in-place update.
func (r *roster) hungerOf(e ecs.Entity) *hunger {
	h, _ := r.preds.Get(e)
	return h
}

// hungryCounts fills dst with the number of hungry individuals per
// species. Insatiable species count their whole population.
func (r *roster) hungryCounts(dst []int) {
	for i := range dst {
		dst[i] = 0
	}
	filter := ecs.NewFilter2[hunger, membership](r.world)
	query := filter.Query()
	for query.Next() {
		h, m := query.Get()
		sp := &r.specs[m.Species]
		if sp.Insatiable || h.Eaten < int64(sp.App) {
			dst[m.Species]++
		}
	}
}

// resetHunger zeroes every individual's counter.
func (r *roster) resetHunger() {
	filter := ecs.NewFilter2[hunger, membership](r.world)
	query := filter.Query()
	for query.Next() {
		h, _ := query.Get()
		h.Eaten = 0
	}
}
