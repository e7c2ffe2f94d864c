package database

import (
	"github.com/alwat83/ifyoumind/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	idea     *models.IdeaModel
	stats    *models.UserStatsModel
	bookmark *models.BookmarkModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		idea:     models.NewIdea(db, logger),
		stats:    models.NewUserStats(db, logger),
		bookmark: models.NewBookmark(db, logger),
	}
}

// Idea returns the idea model repository.
func (r *Repository) Idea() *models.IdeaModel {
	return r.idea
}

// Stats returns the user stats model repository.
func (r *Repository) Stats() *models.UserStatsModel {
	return r.stats
}

// Bookmark returns the bookmark model repository.
func (r *Repository) Bookmark() *models.BookmarkModel {
	return r.bookmark
}
