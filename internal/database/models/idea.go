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

// IdeaModel handles database operations for ideas.
type IdeaModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewIdea creates a new idea model.
func NewIdea(db *bun.DB, logger *zap.Logger) *IdeaModel {
	return &IdeaModel{
		db:     db,
		logger: logger.Named("db_idea"),
	}
}

// GetIdea retrieves an idea by its ID.
func (r *IdeaModel) GetIdea(ctx context.Context, ideaID string) (*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Idea, error) {
		var idea types.Idea

		err := r.db.NewSelect().
			Model(&idea).
			Where("id = ?", ideaID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrIdeaNotFound
			}

			return nil, fmt.Errorf("failed to get idea: %w", err)
		}

		return &idea, nil
	})
}

// GetIdeaForUpdate retrieves an idea inside a transaction with a row lock,
// so that the vote ledger and count are read-modify-written as a unit.
func (r *IdeaModel) GetIdeaForUpdate(ctx context.Context, tx bun.Tx, ideaID string) (*types.Idea, error) {
	var idea types.Idea

	err := tx.NewSelect().
		Model(&idea).
		Where("id = ?", ideaID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrIdeaNotFound
		}

		return nil, fmt.Errorf("failed to lock idea row: %w", err)
	}

	return &idea, nil
}

// UpdateEngagement writes an idea's vote ledger, count, trending score and
// last-activity timestamp inside the given transaction. Only those four
// columns are touched.
func (r *IdeaModel) UpdateEngagement(ctx context.Context, tx bun.Tx, idea *types.Idea) error {
	_, err := tx.NewUpdate().
		Model(idea).
		Column("upvotes", "upvoted_by", "trending_score", "last_activity").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to write vote change: %w", err)
	}

	return nil
}

// CreateIdea inserts a new idea.
func (r *IdeaModel) CreateIdea(ctx context.Context, idea *types.Idea) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(idea).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create idea: %w", err)
		}

		return nil
	})
}

// DeleteIdea removes an idea by its ID inside the given transaction.
func (r *IdeaModel) DeleteIdea(ctx context.Context, tx bun.Tx, ideaID string) error {
	res, err := tx.NewDelete().
		Model((*types.Idea)(nil)).
		Where("id = ?", ideaID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		return types.ErrIdeaNotFound
	}

	return nil
}

// GetRecentIdeas retrieves the newest public ideas.
func (r *IdeaModel) GetRecentIdeas(ctx context.Context, limit int) ([]*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Idea, error) {
		var ideas []*types.Idea

		err := r.db.NewSelect().
			Model(&ideas).
			Where("is_public = true").
			Order("created_at DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent ideas: %w", err)
		}

		return ideas, nil
	})
}

// GetTrendingIdeas retrieves public ideas ordered by trending score.
func (r *IdeaModel) GetTrendingIdeas(ctx context.Context, limit int) ([]*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Idea, error) {
		var ideas []*types.Idea

		err := r.db.NewSelect().
			Model(&ideas).
			Where("is_public = true").
			Order("trending_score DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get trending ideas: %w", err)
		}

		return ideas, nil
	})
}

// GetIdeasByCategory retrieves public ideas in a category, newest first.
func (r *IdeaModel) GetIdeasByCategory(ctx context.Context, category string, limit int) ([]*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Idea, error) {
		var ideas []*types.Idea

		err := r.db.NewSelect().
			Model(&ideas).
			Where("is_public = true").
			Where("category = ?", category).
			Order("created_at DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get ideas by category: %w", err)
		}

		return ideas, nil
	})
}

// GetUserIdeas retrieves all ideas authored by a user, newest first.
func (r *IdeaModel) GetUserIdeas(ctx context.Context, authorID string) ([]*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Idea, error) {
		var ideas []*types.Idea

		err := r.db.NewSelect().
			Model(&ideas).
			Where("author_id = ?", authorID).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user ideas: %w", err)
		}

		return ideas, nil
	})
}

// recomputeWindowQuery builds the listing for a recompute pass. Newest
// ideas come first: their scores decay fastest, so when the window holds
// more ideas than the cap they are the ones that must not starve.
func (r *IdeaModel) recomputeWindowQuery(cutoff time.Time, limit int) *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*types.Idea)(nil)).
		Column("id", "upvotes", "trending_score", "created_at").
		Where("created_at > ?", cutoff).
		Order("created_at DESC").
		Limit(limit)
}

// GetIdeasCreatedSince retrieves ideas created after the cutoff, newest
// first, up to the given cap. Used by the trending recompute job.
func (r *IdeaModel) GetIdeasCreatedSince(ctx context.Context, cutoff time.Time, limit int) ([]*types.Idea, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Idea, error) {
		var ideas []*types.Idea

		if err := r.recomputeWindowQuery(cutoff, limit).Scan(ctx, &ideas); err != nil {
			return nil, fmt.Errorf("failed to get ideas for recompute: %w", err)
		}

		return ideas, nil
	})
}

// UpdateTrendingScore overwrites an idea's trending score and nothing else.
// The vote ledger and count are never touched outside the vote transaction.
func (r *IdeaModel) UpdateTrendingScore(ctx context.Context, ideaID string, score float64) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Idea)(nil)).
			Set("trending_score = ?", score).
			Where("id = ?", ideaID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update trending score: %w", err)
		}

		return nil
	})
}

// GetCategories returns the distinct categories in use by public ideas.
func (r *IdeaModel) GetCategories(ctx context.Context) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var categories []string

		err := r.db.NewSelect().
			Model((*types.Idea)(nil)).
			ColumnExpr("DISTINCT category").
			Where("is_public = true").
			Order("category ASC").
			Scan(ctx, &categories)
		if err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}

		return categories, nil
	})
}
