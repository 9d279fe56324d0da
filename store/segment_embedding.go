package store

import (
	"context"

	"github.com/pkg/errors"
)

// EmbeddingEncoding identifies the on-disk representation of stored
// embedding vectors. Corpora written by different ingestion versions use
// different encodings, and nothing in the schema records which one; callers
// pick an encoding per query and treat a store rejection as a mismatch.
type EmbeddingEncoding string

const (
	// EncodingNativeVector means the embedding column is a real vector type
	// and the store's nearest-neighbor operator applies to it directly.
	EncodingNativeVector EmbeddingEncoding = "NATIVE_VECTOR"
	// EncodingJSONObjectVector means the column holds JSON text of the form
	// {"vector": [...]}.
	EncodingJSONObjectVector EmbeddingEncoding = "JSON_OBJECT_VECTOR"
	// EncodingJSONArrayVector means the column holds JSON text of the form
	// [...].
	EncodingJSONArrayVector EmbeddingEncoding = "JSON_ARRAY_VECTOR"
)

// SegmentEmbedding represents the stored embedding of a transcript segment.
// Embedding carries the raw column value; its encoding is not guaranteed.
type SegmentEmbedding struct {
	ID           int32
	TranscriptID int32
	Embedding    string
}

// SegmentMatch represents a vector search result with similarity score.
type SegmentMatch struct {
	Segment    *TranscriptSegment
	Similarity float64 // Cosine similarity (0-1, higher is more similar)
}

// SegmentVectorSearch represents the options for segment vector search.
// MinScore nil means no store-side similarity filter; the nearest-neighbor
// path leaves filtering to the caller so candidate overfetch stays intact.
type SegmentVectorSearch struct {
	Vector   []float32
	Encoding EmbeddingEncoding
	Limit    int
	MinScore *float64
}

// Validate validates the SegmentVectorSearch options.
func (o *SegmentVectorSearch) Validate() error {
	if len(o.Vector) == 0 {
		return errors.Errorf("vector cannot be empty")
	}
	switch o.Encoding {
	case EncodingNativeVector, EncodingJSONObjectVector, EncodingJSONArrayVector:
	default:
		return errors.Errorf("unknown embedding encoding: %s", o.Encoding)
	}
	if o.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", o.Limit)
	}
	if o.Limit == 0 {
		o.Limit = 10 // Default limit
	}
	if o.Limit > 1000 {
		return errors.Errorf("limit too large (max 1000): %d", o.Limit)
	}
	if o.MinScore != nil && (*o.MinScore < 0 || *o.MinScore > 1) {
		return errors.Errorf("min score out of range [0,1]: %f", *o.MinScore)
	}
	return nil
}

// CountSegmentEmbeddings returns the number of stored segment embeddings.
func (s *Store) CountSegmentEmbeddings(ctx context.Context) (int64, error) {
	return s.driver.CountSegmentEmbeddings(ctx)
}

// HasVectorIndex reports whether a nearest-neighbor index with the given
// name exists in the store's catalog.
func (s *Store) HasVectorIndex(ctx context.Context, name string) (bool, error) {
	return s.driver.HasVectorIndex(ctx, name)
}

// SearchSegmentsByVector performs vector similarity search over transcript
// segments using the given embedding encoding.
func (s *Store) SearchSegmentsByVector(ctx context.Context, opts *SegmentVectorSearch) ([]*SegmentMatch, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.driver.SearchSegmentsByVector(ctx, opts)
}

// CreateVectorIndex creates the nearest-neighbor index over segment
// embeddings.
func (s *Store) CreateVectorIndex(ctx context.Context) error {
	return s.driver.CreateVectorIndex(ctx)
}

// DropVectorIndex drops the nearest-neighbor index over segment embeddings.
func (s *Store) DropVectorIndex(ctx context.Context) error {
	return s.driver.DropVectorIndex(ctx)
}
