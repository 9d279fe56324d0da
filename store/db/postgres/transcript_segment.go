package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/podseek/podseek/store"
)

// ListTranscriptSegments lists transcript segments.
func (d *DB) ListTranscriptSegments(ctx context.Context, find *store.FindTranscriptSegment) ([]*store.TranscriptSegment, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}

	query := `
		SELECT id, episode_title, segment_text, start_time, end_time
		FROM transcript_segment
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id`

	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transcript segments")
	}
	defer rows.Close()

	list := []*store.TranscriptSegment{}
	for rows.Next() {
		var segment store.TranscriptSegment
		err := rows.Scan(
			&segment.ID,
			&segment.EpisodeTitle,
			&segment.SegmentText,
			&segment.StartTime,
			&segment.EndTime,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan transcript segment")
		}

		list = append(list, &segment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// CountTranscriptSegments returns the number of transcript segments.
func (d *DB) CountTranscriptSegments(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcript_segment").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count transcript segments")
	}
	return count, nil
}
