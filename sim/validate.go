package sim

import (
	"errors"
	"fmt"

	"github.com/DragonMarionette/MimSim/species"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid simulation")

// Validate checks the run parameters and every species trait. The first
// violation is returned, wrapping ErrInvalid. Empty pools are legal; they
// just make every encounter a no-op.
func Validate(cfg Config, prey *species.PreyPool, pred *species.PredPool) error {
	if prey == nil || pred == nil {
		return fmt.Errorf("%w: both species pools are required", ErrInvalid)
	}
	if cfg.Encounters < 1 {
		return fmt.Errorf("%w: encounters must be at least 1, got %d", ErrInvalid, cfg.Encounters)
	}
	if cfg.Generations < 1 {
		return fmt.Errorf("%w: generations must be at least 1, got %d", ErrInvalid, cfg.Generations)
	}
	if cfg.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalid, cfg.Trials)
	}
	for i := 0; i < prey.Len(); i++ {
		if err := prey.At(i).Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	for i := 0; i < pred.Len(); i++ {
		if err := pred.At(i).Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}
