package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Migrate creates the tables the service reads from. Statements are
// idempotent; existing tables are left untouched, whatever column types a
// previous ingestion version gave them.
func (d *DB) Migrate(ctx context.Context) error {
	// pgvector is required for the native embedding column type. Creating
	// the extension needs elevated privileges, so a failure here is only a
	// warning: on managed databases the extension is usually preinstalled.
	if _, err := d.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		slog.Warn("failed to create pgvector extension, assuming it already exists", "error", err)
	}

	stmt := `
		CREATE TABLE IF NOT EXISTS transcript_segment (
			id SERIAL PRIMARY KEY,
			episode_title TEXT NOT NULL,
			segment_text TEXT NOT NULL,
			start_time DOUBLE PRECISION NOT NULL,
			end_time DOUBLE PRECISION NOT NULL
		)`
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create transcript_segment table")
	}

	// No foreign key on transcript_id: ingestion writes embeddings and
	// segments from separate jobs, so embedding rows can temporarily (or
	// permanently) reference missing segments. The search join skips them.
	stmt = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS segment_embedding (
			id SERIAL PRIMARY KEY,
			transcript_id INTEGER NOT NULL,
			embedding vector(%d)
		)`, d.profile.EmbeddingDimensions)
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create segment_embedding table")
	}

	return nil
}
