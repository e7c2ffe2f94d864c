package database

import (
	"github.com/alwat83/ifyoumind/internal/database/service"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	vote     *service.VoteService
	idea     *service.IdeaService
	trending *service.TrendingService
	bookmark *service.BookmarkService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, logger *zap.Logger) *Service {
	ideaModel := repository.Idea()
	statsModel := repository.Stats()
	bookmarkModel := repository.Bookmark()
	clock := utils.SystemClock{}

	return &Service{
		vote:     service.NewVote(db, ideaModel, statsModel, clock, logger),
		idea:     service.NewIdea(db, ideaModel, statsModel, bookmarkModel, clock, logger),
		trending: service.NewTrending(ideaModel, clock, logger),
		bookmark: service.NewBookmark(bookmarkModel, clock, logger),
	}
}

// Vote returns the vote service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Idea returns the idea service.
func (s *Service) Idea() *service.IdeaService {
	return s.idea
}

// Trending returns the trending service.
func (s *Service) Trending() *service.TrendingService {
	return s.trending
}

// Bookmark returns the bookmark service.
func (s *Service) Bookmark() *service.BookmarkService {
	return s.bookmark
}
