package runner

import (
	"context"
	"sync"

	"github.com/konacodes/fluidsim/internal/fluid"
)

// Ensemble runs the same configuration across several independent
// simulators concurrently. Each trial gets its own seed, so the runs
// decorrelate through jitter and splash randomness while sharing every
// other parameter.
type Ensemble struct {
	trials    int
	seedStart int64
}

func NewEnsemble(trials int, seedStart int64) *Ensemble {
	return &Ensemble{trials: trials, seedStart: seedStart}
}

// Run fans the trials out over goroutines. The build callback must
// return a fresh simulator and runner per seed; sharing either between
// trials would race. The first build or run error aborts the ensemble.
func (e *Ensemble) Run(ctx context.Context, opts Options, build func(seed int64) (*Runner, *fluid.Simulator, error)) ([]*Result, error) {
	results := make([]*Result, e.trials)
	errs := make([]error, e.trials)

	var wg sync.WaitGroup
	for i := 0; i < e.trials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			r, sim, err := build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx, sim, opts)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// MeanMetrics averages each final metric across the ensemble.
func MeanMetrics(results []*Result) map[string]float64 {
	if len(results) == 0 {
		return nil
	}
	mean := make(map[string]float64)
	for _, res := range results {
		for name, v := range res.Metrics {
			mean[name] += v
		}
	}
	for name := range mean {
		mean[name] /= float64(len(results))
	}
	return mean
}
