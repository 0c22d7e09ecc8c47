package corpus

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
)

// bagEmbedder hashes lower-cased words into a fixed number of buckets so that
// texts sharing words end up close together.
type bagEmbedder struct {
	dims int

	mu    sync.Mutex
	calls int
}

func (e *bagEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, e.dims)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,:;!?()#")
			if w == "" {
				continue
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(w))
			v[int(h.Sum32())%e.dims]++
		}
		out[i] = v
	}
	return out, nil
}
