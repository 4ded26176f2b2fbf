package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chart-eval/internal/observability"
)

// Pruner deletes revocation entries whose tokens expired before cutoff.
type Pruner interface {
	PruneExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// RevocationSweeper periodically prunes expired entries from the denylist.
// An expired token fails decoding before the denylist is consulted, so its entry
// can be removed without changing any verification outcome.
type RevocationSweeper struct {
	pruner   Pruner
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewRevocationSweeper builds a sweeper.
func NewRevocationSweeper(pruner Pruner, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics) *RevocationSweeper {
	return &RevocationSweeper{
		pruner:   pruner,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (s *RevocationSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("revocation sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce prunes entries that expired before now and returns how many were removed.
func (s *RevocationSweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.pruner.PruneExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("prune revoked tokens", zap.Error(err))
		}
		return 0
	}
	s.metrics.RecordPruned(n)
	if n > 0 {
		s.logger.Info("pruned revoked tokens", zap.Int64("count", n))
	}
	return n
}
