package corpus

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestQdrantPayloadRoundTrip(t *testing.T) {
	c := Chunk{
		ID:         "doc#3",
		DocumentID: "doc",
		Index:      3,
		Text:       "The budget must be itemized.",
		Title:      "Guide",
		Section:    "Budget",
		SourceURI:  "file:///guide.md",
		URL:        "https://example.com/guide",
		Vector:     []float32{1, 2},
	}

	got := payloadChunk(chunkPayload(c))
	c.Vector = nil
	assert.Equal(t, c, got)
}

func TestQdrantPayloadMissingKeys(t *testing.T) {
	assert.Equal(t, Chunk{}, payloadChunk(nil))
}

func TestPointIDIsStableUUID(t *testing.T) {
	a := pointID("doc#1")
	assert.Equal(t, a, pointID("doc#1"))
	assert.NotEqual(t, a, pointID("doc#2"))

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
