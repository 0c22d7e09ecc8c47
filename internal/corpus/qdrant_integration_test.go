//go:build integration

package corpus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/moolen/rfpagents/internal/agent/retrieval"
)

func startQdrant(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "qdrant/qdrant:v1.15.1",
			ExposedPorts: []string{"6334/tcp"},
			WaitingFor:   wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate qdrant container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6334")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestQdrantStore_IngestAndSearch(t *testing.T) {
	addr := startQdrant(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := NewQdrantStore(ctx, addr, "rfp_guidelines_test")
	require.NoError(t, err)
	defer store.Close()

	embedder := &bagEmbedder{dims: 64}
	in := NewIngester(embedder, store, 2)
	in.Chunker = Chunker{Size: 500, Overlap: 50}

	stats, err := in.Ingest(ctx, []Document{{ID: "guide", Text: guideMarkdown}})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Chunks)

	// Re-ingesting replaces points instead of duplicating them.
	_, err = in.Ingest(ctx, []Document{{ID: "guide", Text: guideMarkdown}})
	require.NoError(t, err)

	frags, err := NewSearcher(embedder, store).Retrieve(ctx, retrieval.Query{Text: "budget itemized by phase", TopK: 5})
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.Equal(t, "Budget", frags[0].Section)
	assert.Equal(t, "Digital Projects RFPs", frags[0].Title)

	// A second store on the same collection picks up the existing vector size.
	reopened, err := NewQdrantStore(ctx, addr, "rfp_guidelines_test")
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, uint64(64), reopened.vectorSize)
}
