package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podseek/podseek/store"
)

func TestListTranscriptSegments(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	seedSegment(t, d, 1, "Episode 1", "first", 0, 30)
	seedSegment(t, d, 2, "Episode 1", "second", 30, 60)
	seedSegment(t, d, 3, "Episode 2", "third", 0, 30)

	t.Run("all ordered by id", func(t *testing.T) {
		list, err := d.ListTranscriptSegments(ctx, &store.FindTranscriptSegment{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, int32(1), list[0].ID)
		assert.Equal(t, int32(3), list[2].ID)
		assert.Equal(t, "second", list[1].SegmentText)
	})

	t.Run("filter by id", func(t *testing.T) {
		id := int32(2)
		list, err := d.ListTranscriptSegments(ctx, &store.FindTranscriptSegment{ID: &id})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "second", list[0].SegmentText)
		assert.Equal(t, 30.0, list[0].StartTime)
		assert.Equal(t, 60.0, list[0].EndTime)
	})

	t.Run("limit", func(t *testing.T) {
		limit := 2
		list, err := d.ListTranscriptSegments(ctx, &store.FindTranscriptSegment{Limit: &limit})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int32(1), list[0].ID)
		assert.Equal(t, int32(2), list[1].ID)
	})

	t.Run("no match", func(t *testing.T) {
		id := int32(99)
		list, err := d.ListTranscriptSegments(ctx, &store.FindTranscriptSegment{ID: &id})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestCountTranscriptSegments(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	count, err := d.CountTranscriptSegments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	seedSegment(t, d, 1, "Episode 1", "first", 0, 30)
	seedSegment(t, d, 2, "Episode 1", "second", 30, 60)

	count, err = d.CountTranscriptSegments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
