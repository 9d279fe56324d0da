package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that the database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	ListTranscriptSegments(ctx context.Context, find *FindTranscriptSegment) ([]*TranscriptSegment, error)
	CountTranscriptSegments(ctx context.Context) (int64, error)

	CountSegmentEmbeddings(ctx context.Context) (int64, error)
	HasVectorIndex(ctx context.Context, name string) (bool, error)
	SearchSegmentsByVector(ctx context.Context, opts *SegmentVectorSearch) ([]*SegmentMatch, error)
	CreateVectorIndex(ctx context.Context) error
	DropVectorIndex(ctx context.Context) error
}
