package search

import (
	"context"
	"fmt"
)

// Capability describes what the segment store can do for a query right now.
type Capability string

const (
	// CapabilityEmpty means no embeddings are stored at all.
	CapabilityEmpty Capability = "EMPTY"
	// CapabilityIndexed means embeddings exist and the nearest-neighbor
	// index is present in the store catalog.
	CapabilityIndexed Capability = "INDEXED"
	// CapabilityUnindexed means embeddings exist without a nearest-neighbor
	// index, so search falls back to full-scan strategies.
	CapabilityUnindexed Capability = "UNINDEXED"
)

// ProbeCapability inspects the store fresh. Nothing is cached between
// requests: a corpus that gains embeddings or an index is picked up on the
// very next request. The row count runs first so an empty corpus skips the
// catalog lookup entirely.
func (s *Service) ProbeCapability(ctx context.Context) (Capability, error) {
	count, err := s.store.CountSegmentEmbeddings(ctx)
	if err != nil {
		return "", fmt.Errorf("count segment embeddings: %w", err)
	}
	if count == 0 {
		return CapabilityEmpty, nil
	}

	indexed, err := s.store.HasVectorIndex(ctx, s.opts.VectorIndexName)
	if err != nil {
		return "", fmt.Errorf("check vector index: %w", err)
	}
	if indexed {
		return CapabilityIndexed, nil
	}
	return CapabilityUnindexed, nil
}
