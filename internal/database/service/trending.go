package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/models"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// RecomputeConcurrency bounds the number of parallel score writes per run.
const RecomputeConcurrency = 8

// TrendingService refreshes trending scores for recent ideas.
type TrendingService struct {
	ideas  *models.IdeaModel
	clock  utils.Clock
	logger *zap.Logger
}

// NewTrending creates a new trending service.
func NewTrending(ideas *models.IdeaModel, clock utils.Clock, logger *zap.Logger) *TrendingService {
	return &TrendingService{
		ideas:  ideas,
		clock:  clock,
		logger: logger.Named("trending_service"),
	}
}

// RecomputeScores refreshes the trending score of every idea created within
// the lookback window, up to the batch cap. Each write touches only the
// score field, so the pass is safe to run concurrently with live vote
// toggles. Individual failures are collected; a partially applied run
// leaves consistent (if stale) state and is retried on the next tick.
// Returns the number of ideas refreshed.
func (s *TrendingService) RecomputeScores(
	ctx context.Context, lookback time.Duration, batchSize int,
) (int, error) {
	now := s.clock.Now()
	cutoff := now.Add(-lookback)

	ideas, err := s.ideas.GetIdeasCreatedSince(ctx, cutoff, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load recompute window: %w", err)
	}

	if len(ideas) == 0 {
		return 0, nil
	}

	var failed atomic.Int64

	p := pool.New().WithMaxGoroutines(RecomputeConcurrency).WithContext(ctx)

	for _, idea := range ideas {
		p.Go(func(ctx context.Context) error {
			// Score from the currently stored count, never the ledger
			score := idea.TrendingScoreAt(now)

			if err := s.ideas.UpdateTrendingScore(ctx, idea.ID, score); err != nil {
				failed.Add(1)
				return fmt.Errorf("idea %s: %w", idea.ID, err)
			}

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		s.logger.Error("Trending recompute completed with errors",
			zap.Int("total", len(ideas)),
			zap.Int64("failed", failed.Load()),
			zap.Error(err))

		return len(ideas) - int(failed.Load()), err
	}

	s.logger.Info("Trending scores refreshed",
		zap.Int("count", len(ideas)),
		zap.Time("cutoff", cutoff))

	return len(ideas), nil
}
