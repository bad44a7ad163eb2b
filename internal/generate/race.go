package generate

import (
	"context"
	"time"
)

// RaceAttempts runs up to parallelism independent generators at once
// and returns the first success, canceling the rest. The first racer
// keeps the configured seed; the others draw fresh ones and get a
// slightly longer fill budget, so a slow search can still land while
// the fast racers recycle seeds.
func (gen *Generator) RaceAttempts(ctx context.Context, parallelism int) (*Result, error) {
	if parallelism <= 1 {
		return gen.Generate(ctx)
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	results := make(chan outcome, parallelism)

	for i := 0; i < parallelism; i++ {
		cfg := gen.cfg
		if i > 0 {
			cfg.Seed = int64(gen.rng.Intn(attemptSeedSpan))
		}
		scale := 1 + 0.1*float64(i)
		if scale > 1.2 {
			scale = 1.2
		}
		cfg.Layout.FillTimeout = time.Duration(float64(cfg.Layout.FillTimeout) * scale)

		racer := New(cfg, gen.dict, gen.themes, gen.fallbacks, gen.clues)
		racer.solver = gen.solver
		go func() {
			res, err := racer.Generate(raceCtx)
			results <- outcome{res: res, err: err}
		}()
	}

	var lastErr error
	for i := 0; i < parallelism; i++ {
		select {
		case out := <-results:
			if out.err == nil {
				return out.res, nil
			}
			lastErr = out.err
		case <-ctx.Done():
			return nil, fatal(ctx.Err())
		}
	}
	return nil, lastErr
}
