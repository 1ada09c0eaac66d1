package pipeline

import (
	"context"

	"github.com/couchcryptid/water-project-quality/internal/domain"
	"golang.org/x/sync/errgroup"
)

// AssessAll assesses records concurrently with at most workers in flight and
// returns the assessments in input order. A non-positive workers value means
// one worker. It stops early and returns the context error if ctx is
// cancelled.
func AssessAll(ctx context.Context, records []domain.ProjectRecord, workers int) ([]domain.Assessment, error) {
	out := make([]domain.Assessment, len(records))
	if len(records) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = domain.Assess(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
