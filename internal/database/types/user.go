package types

import (
	"time"

	"github.com/uptrace/bun"
)

// UserStats is the denormalized per-author engagement projection.
// TotalUpvotesReceived is an unclamped running total: decrements are
// floor-clamped at the idea level, not here. Rows are created lazily on
// first write and never deleted.
type UserStats struct {
	bun.BaseModel `bun:"table:user_stats"`

	UserID               string    `bun:",pk"                json:"userId"`
	TotalIdeas           int       `bun:",notnull,default:0" json:"totalIdeas"`
	TotalUpvotesReceived int       `bun:",notnull,default:0" json:"totalUpvotesReceived"`
	UpdatedAt            time.Time `bun:",notnull"           json:"updatedAt"`
}
