// ABOUTME: Tests for vector encoding and FT.SEARCH reply parsing
// ABOUTME: Pure-function coverage; no live Redis needed
package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeVectorRoundTrip(t *testing.T) {
	vec := []float64{0.125, -1.5, 0, 3.25}
	decoded := decodeVector(encodeVector(vec))
	require.Len(t, decoded, len(vec))
	for i := range vec {
		assert.InDelta(t, vec[i], decoded[i], 1e-6)
	}
}

func TestEncodeVectorLength(t *testing.T) {
	assert.Len(t, encodeVector(make([]float64, 1024)), 1024*4)
	assert.Empty(t, encodeVector(nil))
}

func TestParseSearchReply(t *testing.T) {
	reply := []interface{}{
		int64(2),
		"chunk:ch1_0",
		[]interface{}{
			"vector_score", "0.08",
			"content", "Photosynthesis converts light to energy.",
			"document_id", "ch1",
			"chunk_index", "0",
			"title", "Photosynthesis",
			"url", "/chapter-1",
		},
		"chunk:ch2_3",
		[]interface{}{
			"vector_score", "0.35",
			"content", "The Calvin cycle fixes carbon.",
			"document_id", "ch2",
			"chunk_index", "3",
			"title", "Calvin Cycle",
			"url", "/chapter-2",
		},
	}

	chunks, err := parseSearchReply(reply)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	first := chunks[0]
	assert.Equal(t, "ch1_0", first.ID, "key prefix is stripped")
	assert.Equal(t, "Photosynthesis converts light to energy.", first.Content)
	assert.Equal(t, "ch1", first.DocumentID)
	assert.Equal(t, 0, first.ChunkIndex)
	assert.Equal(t, "Photosynthesis", first.Title)
	assert.Equal(t, "/chapter-1", first.URL)
	assert.InDelta(t, 0.92, first.Score, 1e-9, "distance converts to similarity")
	assert.InDelta(t, 0.92, first.VectorScore, 1e-9)

	assert.Equal(t, "ch2_3", chunks[1].ID)
	assert.Equal(t, 3, chunks[1].ChunkIndex)
	assert.InDelta(t, 0.65, chunks[1].Score, 1e-9)
}

func TestParseSearchReplyEmpty(t *testing.T) {
	chunks, err := parseSearchReply([]interface{}{int64(0)})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestParseSearchReplyBadType(t *testing.T) {
	_, err := parseSearchReply("OK")
	require.Error(t, err)
}

func TestDistanceToSimilarity(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"identical vectors", 0, 1},
		{"partial match", 0.25, 0.75},
		{"orthogonal", 1, 0},
		{"distance beyond one clamps to zero", 1.7, 0},
		{"negative distance clamps to one", -0.2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, distanceToSimilarity(tt.dist), 1e-9)
		})
	}
}

func TestParseRedisInt(t *testing.T) {
	n, err := parseRedisInt(int64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = parseRedisInt("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	_, err = parseRedisInt(3.14)
	require.Error(t, err)
}
