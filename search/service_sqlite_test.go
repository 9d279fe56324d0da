package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podseek/podseek/internal/profile"
	"github.com/podseek/podseek/store"
	"github.com/podseek/podseek/store/db/sqlite"
)

// newSQLiteService builds a Service over a real SQLite store so the encoding
// fallback runs against genuine decode failures instead of stubbed ones.
func newSQLiteService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	p := &profile.Profile{
		Driver:          "sqlite",
		DSN:             filepath.Join(t.TempDir(), "podseek_test.db"),
		VectorIndexName: testIndexName,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = driver.Close()
	})
	require.NoError(t, driver.Migrate(context.Background()))

	st := store.New(driver, p)
	embedder := &fakeEmbedder{vector: []float32{1, 0, 0}}
	svc := NewService(embedder, st, testLogger(), Options{VectorIndexName: p.VectorIndexName})
	return svc, st
}

func seedSegment(t *testing.T, st *store.Store, id int32, title, text string) {
	t.Helper()
	_, err := st.GetDriver().GetDB().ExecContext(context.Background(),
		"INSERT INTO transcript_segment (id, episode_title, segment_text, start_time, end_time) VALUES (?, ?, ?, ?, ?)",
		id, title, text, float64(id-1)*30, float64(id)*30)
	require.NoError(t, err)
}

func seedEmbedding(t *testing.T, st *store.Store, transcriptID int32, embedding string) {
	t.Helper()
	_, err := st.GetDriver().GetDB().ExecContext(context.Background(),
		"INSERT INTO segment_embedding (transcript_id, embedding) VALUES (?, ?)",
		transcriptID, embedding)
	require.NoError(t, err)
}

func TestSearchSQLiteObjectCorpus(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "aligned with the query")
	seedSegment(t, st, 2, "Episode 2", "partially related")
	seedSegment(t, st, 3, "Episode 3", "orthogonal")
	seedEmbedding(t, st, 1, `{"vector": [1, 0, 0]}`)
	seedEmbedding(t, st, 2, `{"vector": [1, 1, 0]}`)
	seedEmbedding(t, st, 3, `{"vector": [0, 1, 0]}`)

	resp, err := svc.Search(context.Background(), &Request{Question: "q", MinScore: floatPtr(0.5)})
	require.NoError(t, err)

	assert.Equal(t, CapabilityUnindexed, resp.Capability)
	assert.Equal(t, store.EncodingJSONObjectVector, resp.Encoding)
	assert.False(t, resp.Degraded)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Episode 1", resp.Results[0].EpisodeTitle)
	assert.InDelta(t, 1.0, resp.Results[0].Similarity, 1e-6)
	assert.Equal(t, "Episode 2", resp.Results[1].EpisodeTitle)
	assert.InDelta(t, 0.7071, resp.Results[1].Similarity, 1e-3)
}

func TestSearchSQLiteArrayCorpus(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "aligned with the query")
	seedSegment(t, st, 2, "Episode 2", "orthogonal")
	seedEmbedding(t, st, 1, `[1, 0, 0]`)
	seedEmbedding(t, st, 2, `[0, 1, 0]`)

	resp, err := svc.Search(context.Background(), &Request{Question: "q"})
	require.NoError(t, err)

	// The object strategy cannot decode bare arrays; the array strategy
	// serves the request.
	assert.Equal(t, store.EncodingJSONArrayVector, resp.Encoding)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Episode 1", resp.Results[0].EpisodeTitle)
	assert.InDelta(t, 1.0, resp.Results[0].Similarity, 1e-6)
}

func TestSearchSQLiteUndecodableCorpus(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "text")
	seedEmbedding(t, st, 1, `not json at all`)

	_, err := svc.Search(context.Background(), &Request{Question: "q"})
	require.Error(t, err)

	var rErr *ResolverError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, CapabilityUnindexed, rErr.Capability)
}

func TestSearchSQLiteDimensionMismatch(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "text")
	seedEmbedding(t, st, 1, `{"vector": [1, 0]}`)

	// Object decoding succeeds but scoring a 2-dimensional vector against a
	// 3-dimensional query fails, and the array strategy cannot decode the
	// object either: the chain is exhausted.
	_, err := svc.Search(context.Background(), &Request{Question: "q"})
	require.Error(t, err)

	var rErr *ResolverError
	require.ErrorAs(t, err, &rErr)
	assert.Contains(t, rErr.Error(), "unindexed")
}

func TestSearchSQLiteEmptyCorpus(t *testing.T) {
	svc, st := newSQLiteService(t)
	for i := int32(1); i <= 4; i++ {
		seedSegment(t, st, i, "Episode", "text")
	}

	resp, err := svc.Search(context.Background(), &Request{Question: "q", Limit: intPtr(2)})
	require.NoError(t, err)

	assert.Equal(t, CapabilityEmpty, resp.Capability)
	assert.True(t, resp.Degraded)
	require.Len(t, resp.Results, 2)
	for _, result := range resp.Results {
		assert.Equal(t, EmptyCorpusSimilarity, result.Similarity)
	}
}

func TestSearchSQLiteOrphanEmbedding(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "text")
	seedEmbedding(t, st, 1, `{"vector": [1, 0, 0]}`)
	// No transcript_segment row 999 exists; the join drops the orphan before
	// decoding, so its malformed payload never fails the strategy.
	seedEmbedding(t, st, 999, `broken payload`)

	resp, err := svc.Search(context.Background(), &Request{Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, store.EncodingJSONObjectVector, resp.Encoding)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int32(1), resp.Results[0].ID)
}

func TestStatusSQLite(t *testing.T) {
	svc, st := newSQLiteService(t)
	seedSegment(t, st, 1, "Episode 1", "text")
	seedSegment(t, st, 2, "Episode 2", "text")
	seedEmbedding(t, st, 1, `{"vector": [1, 0, 0]}`)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), status.Segments)
	assert.Equal(t, int64(1), status.Embeddings)
	assert.Equal(t, CapabilityUnindexed, status.Capability)
}
