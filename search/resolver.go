package search

import (
	"context"
	"fmt"

	"github.com/podseek/podseek/store"
)

const (
	// EmptyCorpusSimilarity is the placeholder score assigned when the
	// corpus has no embeddings and results cannot be ranked. It bypasses
	// the min-score filter; responses built from it are marked degraded.
	EmptyCorpusSimilarity = 0.95

	// indexedOverfetch is the candidate multiplier for index-assisted
	// search, giving the min-score filter something to discard.
	indexedOverfetch = 2
)

// encodingChain is the fixed attempt order for corpora without a
// nearest-neighbor index. Object extraction comes first because early
// ingestion versions wrote {"vector": [...]} wrappers; the bare-array form
// came later.
var encodingChain = []store.EmbeddingEncoding{
	store.EncodingJSONObjectVector,
	store.EncodingJSONArrayVector,
}

// resolve turns a query vector into scored matches using the strategy the
// probed capability allows. The returned encoding names the representation
// that served the request; it is empty for the no-embeddings mode.
func (s *Service) resolve(ctx context.Context, capability Capability, vector []float32, limit int, minScore float64) ([]*store.SegmentMatch, store.EmbeddingEncoding, error) {
	switch capability {
	case CapabilityEmpty:
		matches, err := s.resolveEmpty(ctx, limit)
		return matches, "", err
	case CapabilityIndexed:
		matches, err := s.resolveIndexed(ctx, vector, limit, minScore)
		return matches, store.EncodingNativeVector, err
	case CapabilityUnindexed:
		return s.resolveUnindexed(ctx, vector, limit, minScore)
	default:
		return nil, "", fmt.Errorf("unknown capability: %s", capability)
	}
}

// resolveEmpty serves corpora with no embeddings at all: up to limit
// segments in table order, each carrying EmptyCorpusSimilarity. No segments
// is a valid empty result, not an error.
func (s *Service) resolveEmpty(ctx context.Context, limit int) ([]*store.SegmentMatch, error) {
	segments, err := s.store.ListTranscriptSegments(ctx, &store.FindTranscriptSegment{Limit: &limit})
	if err != nil {
		return nil, &ResolverError{Capability: CapabilityEmpty, Err: err}
	}

	matches := make([]*store.SegmentMatch, 0, len(segments))
	for _, segment := range segments {
		matches = append(matches, &store.SegmentMatch{
			Segment:    segment,
			Similarity: EmptyCorpusSimilarity,
		})
	}
	return matches, nil
}

// resolveIndexed runs the nearest-neighbor primitive over the native
// encoding. The store has no similarity predicate on that path, so it
// returns 2x the requested limit ordered by distance and the filter and
// truncation happen here. A store failure is terminal; there is no fallback
// chain for an indexed corpus.
func (s *Service) resolveIndexed(ctx context.Context, vector []float32, limit int, minScore float64) ([]*store.SegmentMatch, error) {
	candidates, err := s.store.SearchSegmentsByVector(ctx, &store.SegmentVectorSearch{
		Vector:   vector,
		Encoding: store.EncodingNativeVector,
		Limit:    limit * indexedOverfetch,
	})
	if err != nil {
		return nil, &ResolverError{Capability: CapabilityIndexed, Err: err}
	}

	matches := make([]*store.SegmentMatch, 0, limit)
	for _, match := range candidates {
		if match.Similarity < minScore {
			continue
		}
		matches = append(matches, match)
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// resolveUnindexed tries each JSON encoding in order. Any store error means
// "not this encoding" and advances the chain; the first query that executes
// wins, whatever it returned. The chain never inspects results for semantic
// plausibility, so a corpus that happens to satisfy the wrong decode is
// served as-is. Exhaustion surfaces the last failure.
func (s *Service) resolveUnindexed(ctx context.Context, vector []float32, limit int, minScore float64) ([]*store.SegmentMatch, store.EmbeddingEncoding, error) {
	var lastErr error
	for _, encoding := range encodingChain {
		matches, err := s.store.SearchSegmentsByVector(ctx, &store.SegmentVectorSearch{
			Vector:   vector,
			Encoding: encoding,
			Limit:    limit,
			MinScore: &minScore,
		})
		if err != nil {
			s.logger.Debug("embedding encoding strategy failed",
				"encoding", string(encoding),
				"error", err,
			)
			lastErr = err
			continue
		}
		return matches, encoding, nil
	}

	return nil, "", &ResolverError{Capability: CapabilityUnindexed, Err: lastErr}
}
