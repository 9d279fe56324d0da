package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/podseek/podseek/store"
)

// CountSegmentEmbeddings returns the number of stored segment embeddings.
func (d *DB) CountSegmentEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM segment_embedding").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count segment embeddings")
	}
	return count, nil
}

// HasVectorIndex reports whether an index with the given name exists in the
// catalog. The index name is the only signal available; nothing in the
// schema records whether embeddings were written in an indexable form.
func (d *DB) HasVectorIndex(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_indexes WHERE indexname = "+placeholder(1)+")",
		name,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check vector index")
	}
	return exists, nil
}

// SearchSegmentsByVector performs vector similarity search over transcript
// segments using pgvector.
//
// Each encoding maps to a distance expression over the embedding column.
// The expression is also the mismatch detector: applying <=> to a text
// column, or casting a vector column to jsonb, raises an error the caller
// treats as "this corpus does not use that encoding".
func (d *DB) SearchSegmentsByVector(ctx context.Context, opts *store.SegmentVectorSearch) ([]*store.SegmentMatch, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	var distance string
	switch opts.Encoding {
	case store.EncodingNativeVector:
		distance = "se.embedding <=> %s"
	case store.EncodingJSONObjectVector:
		distance = "((se.embedding)::jsonb ->> 'vector')::vector <=> %s"
	case store.EncodingJSONArrayVector:
		distance = "((se.embedding)::text)::vector <=> %s"
	default:
		return nil, errors.Errorf("unknown embedding encoding: %s", opts.Encoding)
	}

	vector := pgvector.NewVector(opts.Vector)

	// The <=> operator computes cosine distance (1 - cosine_similarity),
	// so ascending distance order is descending similarity order. Ordering
	// by the raw operator keeps the nearest-neighbor index usable on the
	// native encoding.
	args := []any{vector}
	query := `
		SELECT
			ts.id, ts.episode_title, ts.segment_text, ts.start_time, ts.end_time,
			1 - (` + fmt.Sprintf(distance, placeholder(1)) + `) AS similarity
		FROM segment_embedding se
		INNER JOIN transcript_segment ts ON ts.id = se.transcript_id`

	if opts.MinScore != nil {
		query += `
		WHERE 1 - (` + fmt.Sprintf(distance, placeholder(2)) + `) >= ` + placeholder(3)
		args = append(args, vector, *opts.MinScore)
	}

	query += `
		ORDER BY ` + fmt.Sprintf(distance, placeholder(len(args)+1)) + `
		LIMIT ` + placeholder(len(args)+2)
	args = append(args, vector, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search segments by vector")
	}
	defer rows.Close()

	results := []*store.SegmentMatch{}
	for rows.Next() {
		var match store.SegmentMatch
		var segment store.TranscriptSegment

		err := rows.Scan(
			&segment.ID,
			&segment.EpisodeTitle,
			&segment.SegmentText,
			&segment.StartTime,
			&segment.EndTime,
			&match.Similarity,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan segment vector search result")
		}

		match.Segment = &segment
		results = append(results, &match)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// CreateVectorIndex creates the cosine-distance index over segment
// embeddings. Requires the embedding column to be a native vector type.
func (d *DB) CreateVectorIndex(ctx context.Context) error {
	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON segment_embedding USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)",
		d.profile.VectorIndexName,
	)
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create vector index")
	}
	return nil
}

// DropVectorIndex drops the cosine-distance index over segment embeddings.
func (d *DB) DropVectorIndex(ctx context.Context) error {
	stmt := fmt.Sprintf("DROP INDEX IF EXISTS %s", d.profile.VectorIndexName)
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to drop vector index")
	}
	return nil
}
