package types_test

import (
	"testing"
	"time"

	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestHasUpvoted(t *testing.T) {
	t.Parallel()

	idea := &types.Idea{UpvotedBy: []string{"a", "b"}}

	assert.True(t, idea.HasUpvoted("a"))
	assert.False(t, idea.HasUpvoted("c"))
}

func TestTrendingScoreAt(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		upvotes int
		now     time.Time
		want    float64
	}{
		{
			name:    "new idea with no votes",
			upvotes: 0,
			now:     createdAt,
			want:    0,
		},
		{
			name:    "one vote at creation time",
			upvotes: 1,
			now:     createdAt,
			want:    1,
		},
		{
			name:    "one vote after an hour",
			upvotes: 1,
			now:     createdAt.Add(time.Hour),
			want:    0.5,
		},
		{
			name:    "ten votes after three hours",
			upvotes: 10,
			now:     createdAt.Add(3 * time.Hour),
			want:    2.5,
		},
		{
			name:    "clock skew clamps age to zero",
			upvotes: 4,
			now:     createdAt.Add(-time.Hour),
			want:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idea := &types.Idea{Upvotes: tt.upvotes, CreatedAt: createdAt}
			assert.InDelta(t, tt.want, idea.TrendingScoreAt(tt.now), 1e-9)
		})
	}
}
