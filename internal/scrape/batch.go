package scrape

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	errs "opcgsearch/cardscraper/pkg/errors"
)

// BatchScheduler runs indexed tasks in fixed-size concurrent batches.
// Launches inside a batch are staggered by RequestDelay and batches are
// separated by BatchDelay, keeping the request pattern polite enough to
// stay under the remote rate limiter.
type BatchScheduler struct {
	BatchSize    int
	RequestDelay time.Duration
	BatchDelay   time.Duration
}

// Run invokes task for indexes [0, count). Tasks own their result slot
// by index, so callers get positional results regardless of completion
// order. Per-task errors are absorbed — the task is expected to degrade
// its own result — except a blocked error, which cancels the remaining
// work and aborts the whole run.
func (b *BatchScheduler) Run(ctx context.Context, count int, task func(ctx context.Context, index int) error) error {
	size := b.BatchSize
	if size <= 0 {
		size = 1
	}
	limiter := rate.NewLimiter(rate.Every(b.RequestDelay), 1)
	if b.RequestDelay <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	for start := 0; start < count; start += size {
		end := start + size
		if end > count {
			end = count
		}

		g, gctx := errgroup.WithContext(ctx)
		for index := start; index < end; index++ {
			g.Go(func() error {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				err := task(gctx, index)
				if errs.IsBlocked(err) {
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if end < count && b.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.BatchDelay):
			}
		}
	}
	return nil
}
