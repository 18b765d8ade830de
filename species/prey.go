package species

import (
	"errors"
	"fmt"
	"sort"
)

// Prey describes one prey species and its heritable traits.
type Prey struct {
	Name string  `yaml:"name"` // unique within the pool
	Popu int     `yaml:"popu"` // starting population
	Phen string  `yaml:"phen"` // phenotype label; species sharing a label form a mimicry ring
	Size float64 `yaml:"size"` // body size, recorded and exported
	Camo float64 `yaml:"camo"` // camouflage: probability an encounter fails to detect this prey
	Pal  float64 `yaml:"pal"`  // palatability: probability a tasted individual proves distasteful
}

// Validate checks every trait against its documented bounds.
// Range checks are written so that NaN fails them.
func (p Prey) Validate() error {
	if p.Name == "" {
		return errors.New("prey species name must not be empty")
	}
	if p.Popu < 0 {
		return fmt.Errorf("prey %q: popu must be at least 0, got %d", p.Name, p.Popu)
	}
	if p.Phen == "" {
		return fmt.Errorf("prey %q: phen must not be empty", p.Name)
	}
	if !(p.Size > 0) {
		return fmt.Errorf("prey %q: size must be greater than 0, got %v", p.Name, p.Size)
	}
	if !(p.Camo >= 0 && p.Camo <= 1) {
		return fmt.Errorf("prey %q: camo must be within [0, 1], got %v", p.Name, p.Camo)
	}
	if !(p.Pal >= 0 && p.Pal <= 1) {
		return fmt.Errorf("prey %q: pal must be within [0, 1], got %v", p.Name, p.Pal)
	}
	return nil
}

// PreyPool holds prey species sorted by name. A species' position is its
// stable index for the lifetime of the pool; engine state and exports are
// keyed by these indices.
type PreyPool struct {
	list []Prey
}

// NewPreyPool returns an empty pool. The zero value is also usable.
func NewPreyPool() *PreyPool {
	return &PreyPool{}
}

// Add inserts a species, keeping the pool sorted by name.
func (pp *PreyPool) Add(sp Prey) error {
	i := sort.Search(len(pp.list), func(i int) bool { return pp.list[i].Name >= sp.Name })
	if i < len(pp.list) && pp.list[i].Name == sp.Name {
		return fmt.Errorf("%w: prey %q", ErrDuplicate, sp.Name)
	}
	pp.list = append(pp.list, Prey{})
	copy(pp.list[i+1:], pp.list[i:])
	pp.list[i] = sp
	return nil
}

// Len returns the number of species in the pool.
func (pp *PreyPool) Len() int {
	return len(pp.list)
}

// At returns the species at index i. The pointer stays valid until the
// next Add.
func (pp *PreyPool) At(i int) *Prey {
	return &pp.list[i]
}

// Lookup returns the index of the named species.
func (pp *PreyPool) Lookup(name string) (int, bool) {
	i := sort.Search(len(pp.list), func(i int) bool { return pp.list[i].Name >= name })
	if i < len(pp.list) && pp.list[i].Name == name {
		return i, true
	}
	return 0, false
}

// Names returns the species names in pool order.
func (pp *PreyPool) Names() []string {
	names := make([]string, len(pp.list))
	for i, sp := range pp.list {
		names[i] = sp.Name
	}
	return names
}

// Species returns a copy of the pool contents in pool order.
func (pp *PreyPool) Species() []Prey {
	return append([]Prey(nil), pp.list...)
}

// TotalPopu returns the combined starting population.
func (pp *PreyPool) TotalPopu() int {
	total := 0
	for _, sp := range pp.list {
		total += sp.Popu
	}
	return total
}

// Phenotypes returns the distinct phenotype labels in first-appearance
// order.
func (pp *PreyPool) Phenotypes() []string {
	seen := make(map[string]struct{}, len(pp.list))
	var phens []string
	for _, sp := range pp.list {
		if _, ok := seen[sp.Phen]; ok {
			continue
		}
		seen[sp.Phen] = struct{}{}
		phens = append(phens, sp.Phen)
	}
	return phens
}

// Clone returns an independent copy of the pool.
func (pp *PreyPool) Clone() *PreyPool {
	return &PreyPool{list: append([]Prey(nil), pp.list...)}
}
