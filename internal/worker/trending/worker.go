package trending

import (
	"context"
	"time"

	"github.com/alwat83/ifyoumind/internal/cache"
	"github.com/alwat83/ifyoumind/internal/database"
	"github.com/alwat83/ifyoumind/internal/setup"
	"github.com/alwat83/ifyoumind/internal/worker/core"
	"go.uber.org/zap"
)

// Worker periodically refreshes trending scores for recent ideas. It is a
// pure derived-field refresh: vote counts and the vote ledger are never
// touched, so it is safe to run concurrently with live vote toggles.
type Worker struct {
	db       database.Client
	cache    *cache.TrendingCache
	reporter *core.StatusReporter
	interval time.Duration
	lookback time.Duration
	batch    int
	logger   *zap.Logger
}

// New creates a new trending worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	reporter := core.NewStatusReporter(app.StatusClient, "trending", logger)
	cfg := app.Config.Worker.Trending

	return &Worker{
		db:       app.DB,
		cache:    cache.NewTrending(app.CacheClient, logger),
		reporter: reporter,
		interval: time.Duration(cfg.IntervalMinutes) * time.Minute,
		lookback: time.Duration(cfg.LookbackHours) * time.Hour,
		batch:    cfg.BatchSize,
		logger:   logger,
	}
}

// Start begins the trending worker's main loop. Each run is independent:
// a failed pass is simply retried on the next scheduled tick.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Trending Worker started",
		zap.String("workerID", w.reporter.GetWorkerID()),
		zap.Duration("interval", w.interval))

	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	for {
		w.reporter.SetHealthy(true)

		// Wait until the start of the next interval
		w.reporter.UpdateStatus("Waiting for next run", 0)

		next := time.Now().UTC().Truncate(w.interval).Add(w.interval)
		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			w.logger.Info("Trending Worker stopped")
			return
		}

		// Refresh scores for the lookback window
		w.reporter.UpdateStatus("Recomputing trending scores", 20)

		refreshed, err := w.db.Service().Trending().RecomputeScores(ctx, w.lookback, w.batch)
		if err != nil {
			w.logger.Error("Failed to recompute trending scores", zap.Error(err))
			w.reporter.SetHealthy(false)

			continue
		}

		// Drop cached trending lists so refreshed scores become visible
		w.reporter.UpdateStatus("Invalidating trending cache", 80)
		w.cache.Invalidate(ctx)

		w.reporter.UpdateStatus("Trending scores refreshed", 100)
		w.logger.Info("Trending recompute run finished", zap.Int("refreshed", refreshed))
	}
}
