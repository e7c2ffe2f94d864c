package migrations

import (
	"context"
	"fmt"

	"github.com/alwat83/ifyoumind/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Idea)(nil),
			(*types.UserStats)(nil),
			(*types.Bookmark)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		// Indexes for the list queries
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_ideas_created_at ON ideas (created_at DESC)",
			"CREATE INDEX IF NOT EXISTS idx_ideas_trending_score ON ideas (trending_score DESC)",
			"CREATE INDEX IF NOT EXISTS idx_ideas_category ON ideas (category, created_at DESC)",
			"CREATE INDEX IF NOT EXISTS idx_ideas_author_id ON ideas (author_id, created_at DESC)",
			"CREATE INDEX IF NOT EXISTS idx_bookmarks_idea_id ON bookmarks (idea_id)",
		}

		for _, index := range indexes {
			_, err := db.NewRaw(index).Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Bookmark)(nil),
			(*types.UserStats)(nil),
			(*types.Idea)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
