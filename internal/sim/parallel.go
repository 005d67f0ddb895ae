package sim

import (
	"context"
	"errors"
	"sync"
)

// Ensemble runs independent simulators concurrently. Each simulator owns its
// own body, so no state is shared between goroutines.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

func (e *Ensemble) Len() int { return len(e.sims) }

// Run returns one result per simulator in input order. Results of failed
// runs are kept; the errors are joined.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()

	return results, errors.Join(errs...)
}
