package types

import (
	"time"

	"github.com/uptrace/bun"
)

// Bookmark marks an idea as saved by a user.
type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks"`

	UserID    string    `bun:",pk"      json:"userId"`
	IdeaID    string    `bun:",pk"      json:"ideaId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
