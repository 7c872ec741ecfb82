package sim

import (
	"context"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"skoll/internal/config"
	"skoll/internal/report"
)

const defaultRunnerWorkers = 4

// Runner executes independent simulations across seeds. Runs never
// share state, so fanning them out over a worker pool is safe; ordering
// inside each run stays strictly sequential.
type Runner struct {
	workers int
}

func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = defaultRunnerWorkers
	}
	return &Runner{workers: workers}
}

// RunSeeds runs one simulation per seed, all with the base parameter
// set, and returns results in seed order. The first fatal error tears
// the whole batch down.
func (r *Runner) RunSeeds(ctx context.Context, base config.Params, seeds []int64) ([]*report.Results, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	t, _ := tomb.WithContext(ctx)
	jobs := make(chan int)
	results := make([]*report.Results, len(seeds))

	for i := 0; i < r.workers; i++ {
		t.Go(func() error {
			for idx := range jobs {
				params := base
				params.Seed = seeds[idx]

				simulator, err := New(params)
				if err != nil {
					return err
				}
				res, err := simulator.Run()
				if err != nil {
					log.Error().Err(err).Int64("seed", params.Seed).Msg("run failed")
					return err
				}
				// Each worker writes a distinct index.
				results[idx] = res
			}
			return nil
		})
	}

	t.Go(func() error {
		defer close(jobs)
		for i := range seeds {
			select {
			case jobs <- i:
			case <-t.Dying():
				return nil
			}
		}
		return nil
	})

	if err := t.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
