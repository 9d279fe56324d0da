package store

import (
	"context"
)

// TranscriptSegment represents a time-bounded slice of a podcast episode
// transcript. Segments are written by the ingestion pipeline and are
// read-only from this service's perspective.
type TranscriptSegment struct {
	ID           int32
	EpisodeTitle string
	SegmentText  string
	StartTime    float64 // Seconds from episode start
	EndTime      float64 // Seconds from episode start, always > StartTime
}

// FindTranscriptSegment is the find condition for transcript segments.
type FindTranscriptSegment struct {
	ID    *int32
	Limit *int
}

// ListTranscriptSegments lists transcript segments in table order.
func (s *Store) ListTranscriptSegments(ctx context.Context, find *FindTranscriptSegment) ([]*TranscriptSegment, error) {
	return s.driver.ListTranscriptSegments(ctx, find)
}

// CountTranscriptSegments returns the number of transcript segments.
func (s *Store) CountTranscriptSegments(ctx context.Context) (int64, error) {
	return s.driver.CountTranscriptSegments(ctx)
}
