package models

import (
	"context"
	"fmt"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/dbretry"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BookmarkModel handles database operations for bookmarks.
type BookmarkModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBookmark creates a new bookmark model.
func NewBookmark(db *bun.DB, logger *zap.Logger) *BookmarkModel {
	return &BookmarkModel{
		db:     db,
		logger: logger.Named("db_bookmark"),
	}
}

// Toggle flips a user's bookmark on an idea and reports the resulting state.
// Membership test and mutation run in one transaction so that rapid repeated
// toggles from the same user serialize correctly.
func (r *BookmarkModel) Toggle(ctx context.Context, userID, ideaID string, now time.Time) (bool, error) {
	var bookmarked bool

	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*types.Bookmark)(nil)).
			Where("user_id = ?", userID).
			Where("idea_id = ?", ideaID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to remove bookmark: %w", err)
		}

		if rows, _ := res.RowsAffected(); rows > 0 {
			bookmarked = false
			return nil
		}

		_, err = tx.NewInsert().
			Model(&types.Bookmark{
				UserID:    userID,
				IdeaID:    ideaID,
				CreatedAt: now,
			}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add bookmark: %w", err)
		}

		bookmarked = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return bookmarked, nil
}

// ListIdeaIDs returns the IDs of all ideas bookmarked by a user.
func (r *BookmarkModel) ListIdeaIDs(ctx context.Context, userID string) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var ideaIDs []string

		err := r.db.NewSelect().
			Model((*types.Bookmark)(nil)).
			Column("idea_id").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Scan(ctx, &ideaIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookmarks: %w", err)
		}

		return ideaIDs, nil
	})
}

// DeleteForIdea removes all bookmarks pointing at an idea, inside the given
// transaction. Used when an idea is deleted by moderation.
func (r *BookmarkModel) DeleteForIdea(ctx context.Context, tx bun.Tx, ideaID string) error {
	_, err := tx.NewDelete().
		Model((*types.Bookmark)(nil)).
		Where("idea_id = ?", ideaID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete bookmarks for idea: %w", err)
	}

	return nil
}
