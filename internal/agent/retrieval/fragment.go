// Package retrieval exposes document-corpus retrieval to agents as ADK tools.
package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrEmptyQuery is returned when a retrieval is attempted without query text.
var ErrEmptyQuery = errors.New("retrieval query is empty")

// Fragment is one ranked piece of text returned by a corpus.
type Fragment struct {
	Text string `json:"text"`

	// Score is the similarity to the query; higher is better.
	Score float64 `json:"score"`

	// Distance is the vector distance to the query; lower is better.
	Distance float64 `json:"distance"`

	Title     string `json:"title,omitempty"`
	Section   string `json:"section,omitempty"`
	URL       string `json:"url,omitempty"`
	SourceURI string `json:"source_uri,omitempty"`
}

// Citation renders the fragment's source as "Title: Section (URL)", leaving
// out any part that is missing. Falls back to SourceURI.
func (f Fragment) Citation() string {
	var b strings.Builder
	b.WriteString(f.Title)
	if f.Section != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(f.Section)
	}

	url := f.URL
	if url == "" && b.Len() == 0 {
		return f.SourceURI
	}
	if url != "" {
		if b.Len() > 0 {
			b.WriteString(" (")
			b.WriteString(url)
			b.WriteString(")")
		} else {
			b.WriteString(url)
		}
	}
	return b.String()
}

// Query is a single retrieval request.
type Query struct {
	Text              string
	TopK              int
	DistanceThreshold float64
}

// Retriever looks up fragments relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, q Query) ([]Fragment, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, q Query) ([]Fragment, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, q Query) ([]Fragment, error) {
	return f(ctx, q)
}

// Filter drops fragments farther than threshold, orders the rest by
// descending score and keeps at most topK. A non-positive threshold or topK
// disables that limit. The input slice is not modified.
func Filter(fragments []Fragment, topK int, threshold float64) []Fragment {
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if threshold > 0 && f.Distance > threshold {
			continue
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// Citations returns one citation per distinct source, in first-seen order.
func Citations(fragments []Fragment) []string {
	seen := make(map[string]bool, len(fragments))
	var out []string
	for _, f := range fragments {
		c := f.Citation()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
