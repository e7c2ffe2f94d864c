package client

import (
	"context"
	"slices"
	"sync"
)

// IdeaStore holds locally rendered ideas and applies optimistic vote
// updates against them. A toggle is reflected immediately, then reconciled
// with the authoritative server response: on success the server values
// overwrite the optimistic ones, on failure the exact pre-toggle state is
// restored.
type IdeaStore struct {
	mu     sync.Mutex
	client *Client
	userID string
	ideas  map[string]*Idea
}

// NewIdeaStore creates a store bound to one authenticated user.
func NewIdeaStore(apiClient *Client, userID string) *IdeaStore {
	return &IdeaStore{
		client: apiClient,
		userID: userID,
		ideas:  make(map[string]*Idea),
	}
}

// Put adds or replaces an idea in the store.
func (s *IdeaStore) Put(idea *Idea) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ideas[idea.ID] = idea
}

// Get returns the stored idea, if present.
func (s *IdeaStore) Get(ideaID string) (*Idea, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[ideaID]

	return idea, ok
}

// voteSnapshot captures the engagement fields restored on rollback.
type voteSnapshot struct {
	upvotes   int
	upvotedBy []string
}

// ToggleVote optimistically flips the user's upvote on a stored idea and
// reconciles with the server. The returned result carries the
// authoritative state; on error the local idea is unchanged from before
// the call.
func (s *IdeaStore) ToggleVote(ctx context.Context, ideaID string) (*VoteResult, error) {
	s.mu.Lock()

	idea, ok := s.ideas[ideaID]
	if !ok {
		s.mu.Unlock()

		result, err := s.client.ToggleVote(ctx, ideaID)
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	snapshot := voteSnapshot{
		upvotes:   idea.Upvotes,
		upvotedBy: slices.Clone(idea.UpvotedBy),
	}

	s.applyLocalToggle(idea)
	s.mu.Unlock()

	result, err := s.client.ToggleVote(ctx, ideaID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The idea may have been replaced while the request was in flight.
	current, ok := s.ideas[ideaID]
	if !ok {
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	if err != nil {
		current.Upvotes = snapshot.upvotes
		current.UpvotedBy = snapshot.upvotedBy

		return nil, err
	}

	// Overwrite optimistic values with the authoritative ones.
	current.Upvotes = result.Upvotes
	s.setMembership(current, result.Upvoted)

	return result, nil
}

// applyLocalToggle flips membership and adjusts the count in place.
func (s *IdeaStore) applyLocalToggle(idea *Idea) {
	if slices.Contains(idea.UpvotedBy, s.userID) {
		idea.UpvotedBy = slices.DeleteFunc(idea.UpvotedBy, func(id string) bool {
			return id == s.userID
		})
		idea.Upvotes = max(0, idea.Upvotes-1)

		return
	}

	idea.UpvotedBy = append(idea.UpvotedBy, s.userID)
	idea.Upvotes++
}

// setMembership forces the user's ledger membership to the given state.
func (s *IdeaStore) setMembership(idea *Idea, upvoted bool) {
	has := slices.Contains(idea.UpvotedBy, s.userID)

	switch {
	case upvoted && !has:
		idea.UpvotedBy = append(idea.UpvotedBy, s.userID)
	case !upvoted && has:
		idea.UpvotedBy = slices.DeleteFunc(idea.UpvotedBy, func(id string) bool {
			return id == s.userID
		})
	}
}
