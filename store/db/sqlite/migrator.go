package sqlite

import (
	"context"

	"github.com/pkg/errors"
)

// Migrate creates the tables the service reads from. Statements are
// idempotent; existing tables are left untouched.
func (d *DB) Migrate(ctx context.Context) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS transcript_segment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			episode_title TEXT NOT NULL,
			segment_text TEXT NOT NULL,
			start_time REAL NOT NULL,
			end_time REAL NOT NULL
		)`
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create transcript_segment table")
	}

	// Embeddings are JSON text on SQLite; no native vector type exists.
	// No foreign key on transcript_id, consistent with the PostgreSQL
	// schema: the search join skips rows without a matching segment.
	stmt = `
		CREATE TABLE IF NOT EXISTS segment_embedding (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transcript_id INTEGER NOT NULL,
			embedding TEXT NOT NULL
		)`
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create segment_embedding table")
	}

	return nil
}
