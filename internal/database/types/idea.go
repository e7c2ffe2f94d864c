package types

import (
	"errors"
	"slices"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrIdeaNotFound is returned when an idea does not exist.
	ErrIdeaNotFound = errors.New("idea not found")
	// ErrVoteConflict is returned when a vote toggle cannot commit within
	// its retry budget.
	ErrVoteConflict = errors.New("vote conflict")
)

// DefaultCategory is assigned to ideas created without a category.
const DefaultCategory = "general"

// Idea is a community-submitted idea with its engagement state. The
// upvoted_by ledger is the source of truth for vote membership; upvotes is
// its denormalized count and the two change together in one transaction.
type Idea struct {
	bun.BaseModel `bun:"table:ideas"`

	ID            string    `bun:",pk"                  json:"id"`
	Problem       string    `bun:",notnull"             json:"problem"`
	Solution      string    `bun:",notnull"             json:"solution"`
	Impact        string    `bun:",nullzero"            json:"impact"`
	Category      string    `bun:",notnull"             json:"category"`
	Tags          []string  `bun:",array"               json:"tags"`
	AuthorID      string    `bun:",notnull"             json:"authorId"`
	AuthorName    string    `bun:",nullzero"            json:"authorName"`
	IsPublic      bool      `bun:",notnull"             json:"isPublic"`
	Upvotes       int       `bun:",notnull,default:0"   json:"upvotes"`
	UpvotedBy     []string  `bun:"upvoted_by,array"     json:"upvotedBy"`
	TrendingScore float64   `bun:",notnull,default:0"   json:"trendingScore"`
	CreatedAt     time.Time `bun:",notnull"             json:"createdAt"`
	LastActivity  time.Time `bun:",notnull"             json:"lastActivity"`
}

// HasUpvoted reports whether the user is present in the vote ledger.
func (i *Idea) HasUpvoted(userID string) bool {
	return slices.Contains(i.UpvotedBy, userID)
}

// TrendingScoreAt computes the trending score as upvotes divided by the
// idea's age in hours plus one. A clock skew that makes the idea appear
// created in the future is clamped to zero age.
func (i *Idea) TrendingScoreAt(now time.Time) float64 {
	ageHours := now.Sub(i.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	return float64(i.Upvotes) / (ageHours + 1)
}
