package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/dbretry"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserStatsModel handles database operations for the per-author
// engagement projection.
type UserStatsModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUserStats creates a new user stats model.
func NewUserStats(db *bun.DB, logger *zap.Logger) *UserStatsModel {
	return &UserStatsModel{
		db:     db,
		logger: logger.Named("db_user_stats"),
	}
}

// GetUserStats retrieves the stats projection for a user. A user with no
// recorded activity yields a zero-valued projection rather than an error.
func (r *UserStatsModel) GetUserStats(ctx context.Context, userID string) (*types.UserStats, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.UserStats, error) {
		var stats types.UserStats

		err := r.db.NewSelect().
			Model(&stats).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &types.UserStats{UserID: userID}, nil
			}

			return nil, fmt.Errorf("failed to get user stats: %w", err)
		}

		return &stats, nil
	})
}

// IncrementTotalIdeas adds one to a user's authored-idea count, creating a
// minimal placeholder row if the user has no stats yet.
func (r *UserStatsModel) IncrementTotalIdeas(ctx context.Context, userID string, now time.Time) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&types.UserStats{
				UserID:     userID,
				TotalIdeas: 1,
				UpdatedAt:  now,
			}).
			On("CONFLICT (user_id) DO UPDATE").
			Set("total_ideas = user_stats.total_ideas + 1").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to increment total ideas: %w", err)
		}

		return nil
	})
}

// AdjustUpvotesReceived applies a vote delta to a user's received-upvote
// total, creating a minimal placeholder row if the user has no stats yet.
// The total is an unclamped running sum.
func (r *UserStatsModel) AdjustUpvotesReceived(ctx context.Context, userID string, delta int, now time.Time) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&types.UserStats{
				UserID:               userID,
				TotalUpvotesReceived: delta,
				UpdatedAt:            now,
			}).
			On("CONFLICT (user_id) DO UPDATE").
			Set("total_upvotes_received = user_stats.total_upvotes_received + ?", delta).
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to adjust upvotes received: %w", err)
		}

		return nil
	})
}
