package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alwat83/ifyoumind/internal/database/dbretry"
	"github.com/alwat83/ifyoumind/internal/database/models"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// IdeaService handles idea lifecycle business logic.
type IdeaService struct {
	db        *bun.DB
	ideas     *models.IdeaModel
	stats     *models.UserStatsModel
	bookmarks *models.BookmarkModel
	clock     utils.Clock
	logger    *zap.Logger
}

// NewIdea creates a new idea service.
func NewIdea(
	db *bun.DB,
	ideas *models.IdeaModel,
	stats *models.UserStatsModel,
	bookmarks *models.BookmarkModel,
	clock utils.Clock,
	logger *zap.Logger,
) *IdeaService {
	return &IdeaService{
		db:        db,
		ideas:     ideas,
		stats:     stats,
		bookmarks: bookmarks,
		clock:     clock,
		logger:    logger.Named("idea_service"),
	}
}

// NewIdeaParams holds the caller-supplied fields for a new idea.
type NewIdeaParams struct {
	Problem    string
	Solution   string
	Impact     string
	Category   string
	Tags       []string
	IsPublic   bool
	AuthorID   string
	AuthorName string
}

// Create inserts a new idea with zeroed engagement fields and then
// increments the author's idea count. The stat increment runs after the
// insert is durable and is attempted at least once per created idea.
func (s *IdeaService) Create(ctx context.Context, params NewIdeaParams) (*types.Idea, error) {
	now := s.clock.Now()

	category := params.Category
	if category == "" {
		category = types.DefaultCategory
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	idea := &types.Idea{
		ID:           uuid.New().String(),
		Problem:      params.Problem,
		Solution:     params.Solution,
		Impact:       params.Impact,
		Category:     category,
		Tags:         tags,
		AuthorID:     params.AuthorID,
		AuthorName:   params.AuthorName,
		IsPublic:     params.IsPublic,
		Upvotes:      0,
		UpvotedBy:    []string{},
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := s.ideas.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}

	if err := s.stats.IncrementTotalIdeas(ctx, params.AuthorID, now); err != nil {
		s.logger.Warn("Failed to increment author idea count",
			zap.String("ideaID", idea.ID),
			zap.String("authorID", params.AuthorID),
			zap.Error(err))
	}

	return idea, nil
}

// ModerateDelete removes an idea and its bookmarks in one transaction.
// Authorization is enforced at the request boundary.
func (s *IdeaService) ModerateDelete(ctx context.Context, ideaID string) error {
	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := s.bookmarks.DeleteForIdea(ctx, tx, ideaID); err != nil {
			return err
		}

		return s.ideas.DeleteIdea(ctx, tx, ideaID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Idea deleted by moderation", zap.String("ideaID", ideaID))

	return nil
}

// Search filters recent public ideas by a case-insensitive substring match
// over problem, solution and impact. The candidate set is bounded by limit
// before filtering.
func (s *IdeaService) Search(ctx context.Context, term string, limit int) ([]*types.Idea, error) {
	ideas, err := s.ideas.GetRecentIdeas(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search ideas: %w", err)
	}

	term = strings.ToLower(term)

	matches := make([]*types.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if strings.Contains(strings.ToLower(idea.Problem), term) ||
			strings.Contains(strings.ToLower(idea.Solution), term) ||
			strings.Contains(strings.ToLower(idea.Impact), term) {
			matches = append(matches, idea)
		}
	}

	return matches, nil
}
