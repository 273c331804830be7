package tenner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// GenerateBatch produces count puzzles concurrently. Attempts share nothing:
// each goroutine owns its grid and its RNG, so fan-out is safe (and is the
// only concurrency in the engine; a single solve or generate call is
// synchronous). Puzzle i uses a seed derived from seed and i, keeping the
// whole batch reproducible.
func GenerateBatch(ctx context.Context, params Params, count int, seed uint64) ([]*Puzzle, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidParams, count)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	puzzles := make([]*Puzzle, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range puzzles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := GenerateSeeded(params, attemptSeed(seed, i*DefaultMaxAttempts), 0)
			if err != nil {
				return fmt.Errorf("puzzle %d: %w", i, err)
			}
			puzzles[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return puzzles, nil
}

// IsGenerationFailure reports whether err is an ordinary "random search did
// not pan out" outcome, as opposed to a precondition violation.
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}
