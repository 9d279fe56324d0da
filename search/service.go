// Package search resolves natural-language questions into ranked transcript
// segments. The pipeline per request is strictly sequential: validate the
// request, embed the question, probe the store's capability, resolve matches
// with the strategy that capability allows, assemble the response. Nothing
// is retried and nothing about the store is assumed between requests.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/podseek/podseek/store"
)

// Embedder turns question text into a query vector. A failed call must
// surface unchanged; the pipeline never retries it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SegmentStore is the slice of the store this service reads from.
type SegmentStore interface {
	CountTranscriptSegments(ctx context.Context) (int64, error)
	CountSegmentEmbeddings(ctx context.Context) (int64, error)
	HasVectorIndex(ctx context.Context, name string) (bool, error)
	ListTranscriptSegments(ctx context.Context, find *store.FindTranscriptSegment) ([]*store.TranscriptSegment, error)
	SearchSegmentsByVector(ctx context.Context, opts *store.SegmentVectorSearch) ([]*store.SegmentMatch, error)
}

// Options configures a Service.
type Options struct {
	// VectorIndexName is the catalog name the capability probe looks up.
	VectorIndexName string
}

// Service orchestrates the search pipeline.
type Service struct {
	embedder Embedder
	store    SegmentStore
	logger   *slog.Logger
	opts     Options
}

// NewService creates a search service over the given embedder and store.
func NewService(embedder Embedder, segmentStore SegmentStore, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder: embedder,
		store:    segmentStore,
		logger:   logger,
		opts:     opts,
	}
}

// Result is one transcript segment with its similarity score.
type Result struct {
	ID           int32   `json:"id"`
	EpisodeTitle string  `json:"episode_title"`
	SegmentText  string  `json:"segment_text"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	Similarity   float64 `json:"similarity"`
}

// Response carries the assembled results, ordered by similarity descending.
// Degraded is true when the corpus had no embeddings and every result
// carries the fixed placeholder similarity instead of a real ranking. An
// empty Results with Degraded false means no segment cleared the min-score
// filter (or, under CapabilityEmpty, that the segment table is empty too).
type Response struct {
	Results    []Result
	Capability Capability
	Encoding   store.EmbeddingEncoding
	Degraded   bool
}

// Search runs the full pipeline for one request.
func (s *Service) Search(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := s.logger.With("request_id", uuid.New().String())

	start := time.Now()
	vector, err := s.embedder.Embed(ctx, req.Question)
	if err != nil {
		// Provider failures pass through unchanged.
		return nil, err
	}
	logger.Debug("question embedded",
		"dimensions", len(vector),
		"elapsed", time.Since(start),
	)

	capability, err := s.ProbeCapability(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe capability: %w", err)
	}

	matches, encoding, err := s.resolve(ctx, capability, vector, *req.Limit, *req.MinScore)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Results:    assembleResults(matches),
		Capability: capability,
		Encoding:   encoding,
		Degraded:   capability == CapabilityEmpty && len(matches) > 0,
	}

	logger.Info("search resolved",
		"capability", string(capability),
		"encoding", string(encoding),
		"results", len(response.Results),
		"degraded", response.Degraded,
		"elapsed", time.Since(start),
	)

	return response, nil
}

// Status describes what a search request arriving right now would see.
type Status struct {
	Segments    int64      `json:"segments"`
	Embeddings  int64      `json:"embeddings"`
	Capability  Capability `json:"capability"`
	VectorIndex string     `json:"vector_index"`
}

// Status probes the store the same way a search request does.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	segments, err := s.store.CountTranscriptSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transcript segments: %w", err)
	}
	embeddings, err := s.store.CountSegmentEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("count segment embeddings: %w", err)
	}
	capability, err := s.ProbeCapability(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{
		Segments:    segments,
		Embeddings:  embeddings,
		Capability:  capability,
		VectorIndex: s.opts.VectorIndexName,
	}, nil
}

// assembleResults maps raw matches onto the wire shape, preserving order.
func assembleResults(matches []*store.SegmentMatch) []Result {
	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, Result{
			ID:           match.Segment.ID,
			EpisodeTitle: match.Segment.EpisodeTitle,
			SegmentText:  match.Segment.SegmentText,
			StartTime:    match.Segment.StartTime,
			EndTime:      match.Segment.EndTime,
			Similarity:   match.Similarity,
		})
	}
	return results
}
