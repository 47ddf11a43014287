package studyset

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one user's generation in a batch.
type BatchResult struct {
	UserID int64
	Set    *StudySet
	Err    error
}

// GenerateBatch runs optimizer generations for many users with at most
// workers running at once. Per-user failures are reported in the results;
// only context cancellation aborts the batch.
func (s *Service) GenerateBatch(ctx context.Context, userIDs []int64, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(userIDs))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, uid := range userIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := s.Generate(gctx, uid, "")
			results[i] = BatchResult{UserID: uid, Set: set, Err: err}
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				s.log.Warn("batch generation failed", "user_id", uid, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	s.log.Info("batch generation finished", "users", len(userIDs), "failed", failed)
	return results, nil
}
