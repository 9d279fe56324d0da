package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podseek/podseek/internal/profile"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	p := &profile.Profile{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "podseek_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = driver.Close()
	})

	db, ok := driver.(*DB)
	require.True(t, ok)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func seedSegment(t *testing.T, d *DB, id int32, title, text string, start, end float64) {
	t.Helper()
	_, err := d.db.ExecContext(context.Background(),
		"INSERT INTO transcript_segment (id, episode_title, segment_text, start_time, end_time) VALUES (?, ?, ?, ?, ?)",
		id, title, text, start, end)
	require.NoError(t, err)
}

func seedEmbedding(t *testing.T, d *DB, transcriptID int32, embedding string) {
	t.Helper()
	_, err := d.db.ExecContext(context.Background(),
		"INSERT INTO segment_embedding (transcript_id, embedding) VALUES (?, ?)",
		transcriptID, embedding)
	require.NoError(t, err)
}

func TestNewDBRequiresDSN(t *testing.T) {
	_, err := NewDB(&profile.Profile{Driver: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn required")
}

func TestMigrateIdempotent(t *testing.T) {
	d := newTestDB(t)
	require.NoError(t, d.Migrate(context.Background()))
}

func TestHasVectorIndex(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	has, err := d.HasVectorIndex(ctx, "segment_embedding_embedding_idx")
	require.NoError(t, err)
	assert.False(t, has)

	// A plain B-tree index under the configured name does not accelerate
	// vector search and must not flip the answer.
	_, err = d.db.ExecContext(ctx,
		"CREATE INDEX segment_embedding_embedding_idx ON segment_embedding (transcript_id)")
	require.NoError(t, err)

	has, err = d.HasVectorIndex(ctx, "segment_embedding_embedding_idx")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestVectorIndexUnsupported(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	err := d.CreateVectorIndex(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported in SQLite")

	err = d.DropVectorIndex(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported in SQLite")
}
