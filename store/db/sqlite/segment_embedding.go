package sqlite

import (
	"context"
	"encoding/json"
	"math"
	"sort"

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

// SearchSegmentsByVector performs vector similarity search on transcript
// segments. SQLite has no vector operators, so embeddings are decoded and
// scored in Go (application-layer).
//
// A row that does not decode under the requested encoding fails the whole
// call. That matches PostgreSQL, where a mismatched cast fails the whole
// statement, and is what lets callers treat an error as "this corpus does
// not use that encoding".
func (d *DB) SearchSegmentsByVector(ctx context.Context, opts *store.SegmentVectorSearch) ([]*store.SegmentMatch, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	// Native vector columns do not exist in SQLite; see support policy.
	if opts.Encoding == store.EncodingNativeVector {
		return nil, errors.New("native vector encoding not supported in SQLite (use PostgreSQL with pgvector)")
	}

	query := `
		SELECT
			ts.id, ts.episode_title, ts.segment_text, ts.start_time, ts.end_time,
			se.embedding
		FROM segment_embedding se
		INNER JOIN transcript_segment ts ON ts.id = se.transcript_id`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search segments by vector")
	}
	defer rows.Close()

	results := []*store.SegmentMatch{}
	for rows.Next() {
		var segment store.TranscriptSegment
		var raw string

		err := rows.Scan(
			&segment.ID,
			&segment.EpisodeTitle,
			&segment.SegmentText,
			&segment.StartTime,
			&segment.EndTime,
			&raw,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan segment vector search result")
		}

		embedding, err := decodeEmbedding(raw, opts.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode embedding for segment %d", segment.ID)
		}

		similarity, err := cosineSimilarity(opts.Vector, embedding)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to score embedding for segment %d", segment.ID)
		}

		if opts.MinScore != nil && similarity < *opts.MinScore {
			continue
		}

		results = append(results, &store.SegmentMatch{
			Segment:    &segment,
			Similarity: similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity (descending)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// decodeEmbedding parses the raw embedding column value under the requested
// encoding. Decoding is strict: an array is not an object and vice versa.
func decodeEmbedding(raw string, encoding store.EmbeddingEncoding) ([]float32, error) {
	switch encoding {
	case store.EncodingJSONObjectVector:
		var payload struct {
			Vector []float32 `json:"vector"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, errors.Wrap(err, "embedding is not a JSON object")
		}
		if payload.Vector == nil {
			return nil, errors.New("embedding object has no vector field")
		}
		return payload.Vector, nil
	case store.EncodingJSONArrayVector:
		var vector []float32
		if err := json.Unmarshal([]byte(raw), &vector); err != nil {
			return nil, errors.Wrap(err, "embedding is not a JSON array")
		}
		if len(vector) == 0 {
			return nil, errors.New("embedding array is empty")
		}
		return vector, nil
	default:
		return nil, errors.Errorf("unknown embedding encoding: %s", encoding)
	}
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched dimensions are an error, matching the pgvector operator.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Errorf("vector dimension mismatch: %d != %d", len(a), len(b))
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
