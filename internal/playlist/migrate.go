package playlist

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS playlists (
		id          uuid PRIMARY KEY,
		name        TEXT NOT NULL,
		short_desc  TEXT NOT NULL DEFAULT '',
		author      TEXT NOT NULL,
		poster_url  TEXT NOT NULL DEFAULT '',
		musics      TEXT[] NOT NULL DEFAULT '{}',
		likes       TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_playlists_author ON playlists(author)`,
	`CREATE INDEX IF NOT EXISTS idx_playlists_created_at ON playlists(created_at DESC)`,
}

// AutoMigrate applies the schema. Every statement is idempotent.
func AutoMigrate(ctx context.Context, db DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate playlist-service step %d: %w", i+1, err)
		}
	}
	return nil
}
