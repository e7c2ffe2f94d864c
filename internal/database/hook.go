package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// slowQueryThreshold marks queries worth surfacing above debug level.
const slowQueryThreshold = 250 * time.Millisecond

// queryHook logs executed queries through zap, implementing bun.QueryHook.
type queryHook struct {
	logger *zap.Logger
}

// NewHook creates a bun query hook backed by the given logger.
func NewHook(logger *zap.Logger) bun.QueryHook {
	return &queryHook{logger: logger}
}

func (h *queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery logs the query with a level based on outcome and duration.
func (h *queryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.Duration("duration", duration),
	}

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.logger.Error("Query failed", append(fields,
			zap.String("query", event.Query),
			zap.Error(event.Err))...)
	case duration > slowQueryThreshold:
		h.logger.Warn("Slow query", append(fields,
			zap.String("query", event.Query))...)
	default:
		h.logger.Debug("Query executed", fields...)
	}
}
