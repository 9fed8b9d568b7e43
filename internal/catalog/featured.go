package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Featured fetches details for every key in parallel and returns them in
// input order. A key that fails to load becomes a placeholder; the batch
// itself only fails when ctx is done.
func (s *Service) Featured(ctx context.Context, keys []Key) ([]Detail, error) {
	loaded, err := s.fetchAll(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, len(keys))
	for i, d := range loaded {
		if d == nil {
			out[i] = Detail{Summary: Placeholder(keys[i]), Runtime: NotAvailable}
			continue
		}
		out[i] = *d
	}
	return out, nil
}

// fetchAll loads details with bounded concurrency. Failed keys are nil in the
// result.
func (s *Service) fetchAll(ctx context.Context, keys []Key) ([]*Detail, error) {
	out := make([]*Detail, len(keys))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, k := range keys {
		g.Go(func() error {
			if d, err := s.Details(ctx, k); err == nil {
				out[i] = d
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, d := range out {
		if d == nil {
			failed++
		}
	}
	if failed > 0 {
		s.logger.Info("batch items degraded", slog.Int("failed", failed), slog.Int("total", len(keys)))
	}
	return out, nil
}
