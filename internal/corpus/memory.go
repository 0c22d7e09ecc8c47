package corpus

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore keeps vectors in process and searches them exhaustively.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]Chunk
	order  []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]Chunk)}
}

// Upsert stores chunks, replacing any with the same id. The batch is
// validated first, so an invalid chunk leaves the store unchanged.
func (s *MemoryStore) Upsert(_ context.Context, chunks []Chunk) error {
	for _, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("chunk of %s at index %d has no id", c.DocumentID, c.Index)
		}
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s has no vector", c.ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if _, exists := s.chunks[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.chunks[c.ID] = c
	}
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(s.order))
	for _, id := range s.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := s.chunks[id]
		if len(c.Vector) != len(vector) {
			continue
		}
		matches = append(matches, Match{Chunk: c, Score: cosine(vector, c.Vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Len returns the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *MemoryStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
