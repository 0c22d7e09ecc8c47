// Package corpus provides the local document corpora that back retrieval
// tools when the managed Vertex AI RAG corpus is not used: chunking,
// embedding, vector storage and similarity search.
package corpus

import (
	"context"
	"fmt"
)

// Document is a source file loaded for ingestion.
type Document struct {
	ID        string
	Title     string
	SourceURI string
	URL       string
	Text      string
}

// Chunk is a slice of a document stored in a vector store.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Text       string
	Title      string
	Section    string
	SourceURI  string
	URL        string
	Vector     []float32
}

// Match is a stored chunk with its cosine similarity to a query vector.
type Match struct {
	Chunk Chunk
	Score float64
}

// Store persists chunk vectors and answers nearest-neighbour queries.
type Store interface {
	// Upsert inserts or replaces chunks keyed by Chunk.ID.
	Upsert(ctx context.Context, chunks []Chunk) error

	// Search returns up to limit chunks ordered by descending similarity.
	Search(ctx context.Context, vector []float32, limit int) ([]Match, error)

	Close() error
}

// Embedder turns texts into vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

func chunkID(documentID string, index int) string {
	return fmt.Sprintf("%s#%d", documentID, index)
}
