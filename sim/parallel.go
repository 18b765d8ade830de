package sim

import (
	"context"
	"sync"
)

// runParallel fans trials out to a bounded worker pool. Each worker
// writes into its own result slot; the collector loop below serializes
// Progress callbacks and observes every finished trial through the done
// channel before Run reads the slots.
func (s *Simulation) runParallel(ctx context.Context, opts Options, workers int, slots []*TrialResult) {
	work := make(chan int)
	done := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range work {
				res, err := s.runTrial(ctx, trial, opts.Seed)
				if err != nil {
					continue // cancelled; partial trial discarded
				}
				slots[trial] = &res
				done <- trial
			}
		}()
	}

	go func() {
		defer close(work)
		for i := 0; i < len(slots); i++ {
			select {
			case work <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if opts.Progress != nil {
			opts.Progress(completed, len(slots))
		}
	}
}
