package service

import (
	"context"

	"github.com/alwat83/ifyoumind/internal/database/models"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"go.uber.org/zap"
)

// BookmarkService handles bookmark business logic.
type BookmarkService struct {
	bookmarks *models.BookmarkModel
	clock     utils.Clock
	logger    *zap.Logger
}

// NewBookmark creates a new bookmark service.
func NewBookmark(bookmarks *models.BookmarkModel, clock utils.Clock, logger *zap.Logger) *BookmarkService {
	return &BookmarkService{
		bookmarks: bookmarks,
		clock:     clock,
		logger:    logger.Named("bookmark_service"),
	}
}

// Toggle flips a user's bookmark on an idea and reports the resulting state.
func (s *BookmarkService) Toggle(ctx context.Context, userID, ideaID string) (bool, error) {
	return s.bookmarks.Toggle(ctx, userID, ideaID, s.clock.Now())
}

// List returns the IDs of all ideas bookmarked by a user.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]string, error) {
	return s.bookmarks.ListIdeaIDs(ctx, userID)
}
