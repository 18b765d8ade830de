package species

import (
	"errors"
	"fmt"
	"sort"
)

// Predator describes one predator species.
type Predator struct {
	Name       string `yaml:"name"`       // unique within the pool
	Popu       int    `yaml:"popu"`       // number of individuals; constant for a whole run
	App        int    `yaml:"app"`        // appetite: prey eaten in one generation before satiation
	Mem        int    `yaml:"mem"`        // memory: generation boundaries an aversion survives
	Insatiable bool   `yaml:"insatiable"` // never satiated, always counted hungry
}

// Validate checks every trait against its documented bounds.
func (p Predator) Validate() error {
	if p.Name == "" {
		return errors.New("predator species name must not be empty")
	}
	if p.Popu < 0 {
		return fmt.Errorf("predator %q: popu must be at least 0, got %d", p.Name, p.Popu)
	}
	if p.App < 0 {
		return fmt.Errorf("predator %q: app must be at least 0, got %d", p.Name, p.App)
	}
	if p.Mem < 0 {
		return fmt.Errorf("predator %q: mem must be at least 0, got %d", p.Name, p.Mem)
	}
	return nil
}

// PredPool holds predator species sorted by name, mirroring PreyPool.
type PredPool struct {
	list []Predator
}

// NewPredPool returns an empty pool. The zero value is also usable.
func NewPredPool() *PredPool {
	return &PredPool{}
}

// Add inserts a species, keeping the pool sorted by name.
func (pp *PredPool) Add(sp Predator) error {
	i := sort.Search(len(pp.list), func(i int) bool { return pp.list[i].Name >= sp.Name })
	if i < len(pp.list) && pp.list[i].Name == sp.Name {
		return fmt.Errorf("%w: predator %q", ErrDuplicate, sp.Name)
	}
	pp.list = append(pp.list, Predator{})
	copy(pp.list[i+1:], pp.list[i:])
	pp.list[i] = sp
	return nil
}

// Len returns the number of species in the pool.
func (pp *PredPool) Len() int {
	return len(pp.list)
}

// At returns the species at index i. The pointer stays valid until the
// next Add.
func (pp *PredPool) At(i int) *Predator {
	return &pp.list[i]
}

// Lookup returns the index of the named species.
func (pp *PredPool) Lookup(name string) (int, bool) {
	i := sort.Search(len(pp.list), func(i int) bool { return pp.list[i].Name >= name })
	if i < len(pp.list) && pp.list[i].Name == name {
		return i, true
	}
	return 0, false
}

// Names returns the species names in pool order.
func (pp *PredPool) Names() []string {
	names := make([]string, len(pp.list))
	for i, sp := range pp.list {
		names[i] = sp.Name
	}
	return names
}

// Species returns a copy of the pool contents in pool order.
func (pp *PredPool) Species() []Predator {
	return append([]Predator(nil), pp.list...)
}

// TotalPopu returns the combined population across species.
func (pp *PredPool) TotalPopu() int {
	total := 0
	for _, sp := range pp.list {
		total += sp.Popu
	}
	return total
}

// Clone returns an independent copy of the pool.
func (pp *PredPool) Clone() *PredPool {
	return &PredPool{list: append([]Predator(nil), pp.list...)}
}
