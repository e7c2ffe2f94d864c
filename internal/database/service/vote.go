package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/dbretry"
	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// voteStore is the storage surface of the vote transaction.
type voteStore interface {
	GetIdeaForUpdate(ctx context.Context, tx bun.Tx, ideaID string) (*types.Idea, error)
	UpdateEngagement(ctx context.Context, tx bun.Tx, idea *types.Idea) error
}

// statsAdjuster applies the post-commit author stat delta.
type statsAdjuster interface {
	AdjustUpvotesReceived(ctx context.Context, userID string, delta int, now time.Time) error
}

// VoteService executes the atomic vote toggle transaction.
type VoteService struct {
	ideas  voteStore
	stats  statsAdjuster
	clock  utils.Clock
	logger *zap.Logger
	runTx  func(context.Context, func(context.Context, bun.Tx) error) error
}

// NewVote creates a new vote service.
func NewVote(
	db *bun.DB,
	ideas voteStore,
	stats statsAdjuster,
	clock utils.Clock,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		ideas:  ideas,
		stats:  stats,
		clock:  clock,
		logger: logger.Named("vote_service"),
		runTx: func(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
			return dbretry.Transaction(ctx, db, fn)
		},
	}
}

// Toggle flips a user's upvote on an idea. The membership check, ledger
// mutation, count update and trending score recompute commit as a single
// transaction; no concurrent reader observes a partial vote change.
// Returns the resulting membership state and vote count.
//
// Returns types.ErrIdeaNotFound if the idea does not exist and
// types.ErrVoteConflict if the transaction cannot commit within its
// retry budget.
func (s *VoteService) Toggle(ctx context.Context, ideaID, userID string) (bool, int, error) {
	var (
		upvoted  bool
		newCount int
		authorID string
		now      time.Time
	)

	err := s.runTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		idea, err := s.ideas.GetIdeaForUpdate(ctx, tx, ideaID)
		if err != nil {
			return err
		}

		now = s.clock.Now()
		upvoted, newCount = applyToggle(idea, userID, now)
		authorID = idea.AuthorID

		return s.ideas.UpdateEngagement(ctx, tx, idea)
	})
	if err != nil {
		if errors.Is(err, types.ErrIdeaNotFound) {
			return false, 0, types.ErrIdeaNotFound
		}

		if dbretry.IsRetryableError(err) {
			return false, 0, fmt.Errorf("%w: %w", types.ErrVoteConflict, err)
		}

		return false, 0, fmt.Errorf("vote toggle failed: %w", err)
	}

	// Best-effort author stat adjustment outside the vote transaction.
	// The vote is already durably committed, so a failure here is logged
	// and never surfaced to the caller.
	delta := -1
	if upvoted {
		delta = 1
	}

	if err := s.stats.AdjustUpvotesReceived(ctx, authorID, delta, now); err != nil {
		s.logger.Warn("Failed to adjust author upvote stats",
			zap.String("ideaID", ideaID),
			zap.String("authorID", authorID),
			zap.Int("delta", delta),
			zap.Error(err))
	}

	return upvoted, newCount, nil
}

// applyToggle mutates the idea in place: it flips the user's ledger
// membership, updates the count with a floor clamp at zero, and recomputes
// the trending score from the new count and the idea's creation time.
func applyToggle(idea *types.Idea, userID string, now time.Time) (upvoted bool, newCount int) {
	if idea.HasUpvoted(userID) {
		idea.UpvotedBy = slices.DeleteFunc(idea.UpvotedBy, func(id string) bool {
			return id == userID
		})
		// Clamp in case ledger and counter have drifted
		newCount = max(0, idea.Upvotes-1)
		upvoted = false
	} else {
		idea.UpvotedBy = append(idea.UpvotedBy, userID)
		newCount = idea.Upvotes + 1
		upvoted = true
	}

	idea.Upvotes = newCount
	idea.TrendingScore = idea.TrendingScoreAt(now)
	idea.LastActivity = now

	return upvoted, newCount
}
