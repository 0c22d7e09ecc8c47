package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/moolen/rfpagents/internal/logging"
)

// Supported source file extensions.
var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// IngestStats summarizes an ingestion run.
type IngestStats struct {
	Documents int
	Chunks    int
}

// Ingester chunks, embeds and stores documents.
type Ingester struct {
	Chunker     Chunker
	Embedder    Embedder
	Store       Store
	BatchSize   int
	Concurrency int

	logger *logging.Logger
}

// NewIngester returns an ingester with the default chunker.
func NewIngester(embedder Embedder, store Store, batchSize int) *Ingester {
	return &Ingester{
		Chunker:     DefaultChunker(),
		Embedder:    embedder,
		Store:       store,
		BatchSize:   batchSize,
		Concurrency: 4,
		logger:      logging.GetLogger("corpus.ingest"),
	}
}

// IngestPaths loads every supported file under paths. Directories are walked
// recursively.
func (in *Ingester) IngestPaths(ctx context.Context, paths ...string) (IngestStats, error) {
	docs, err := LoadDocuments(paths...)
	if err != nil {
		return IngestStats{}, err
	}
	return in.Ingest(ctx, docs)
}

// Ingest chunks docs and writes them to the store in batches. Batches are
// embedded concurrently, bounded by Concurrency.
func (in *Ingester) Ingest(ctx context.Context, docs []Document) (IngestStats, error) {
	if in.BatchSize <= 0 {
		return IngestStats{}, fmt.Errorf("batch size must be positive, got %d", in.BatchSize)
	}
	logger := in.logger
	if logger == nil {
		logger = logging.GetLogger("corpus.ingest")
	}

	var chunks []Chunk
	for _, d := range docs {
		cs, err := in.Chunker.Chunk(d)
		if err != nil {
			return IngestStats{}, fmt.Errorf("chunk %s: %w", d.ID, err)
		}
		chunks = append(chunks, cs...)
	}

	g, gctx := errgroup.WithContext(ctx)
	if in.Concurrency > 0 {
		g.SetLimit(in.Concurrency)
	}

	var stored int64
	for start := 0; start < len(chunks); start += in.BatchSize {
		end := start + in.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Text
			}
			vectors, err := in.Embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
			}

			out := make([]Chunk, len(batch))
			for i, c := range batch {
				c.Vector = vectors[i]
				out[i] = c
			}
			if err := in.Store.Upsert(gctx, out); err != nil {
				return err
			}
			atomic.AddInt64(&stored, int64(len(out)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return IngestStats{}, fmt.Errorf("ingest: %w", err)
	}

	stats := IngestStats{Documents: len(docs), Chunks: int(stored)}
	logger.InfoWithFields("Ingested documents",
		logging.Field("documents", stats.Documents),
		logging.Field("chunks", stats.Chunks))
	return stats, nil
}

// LoadDocuments reads supported files from paths.
func LoadDocuments(paths ...string) ([]Document, error) {
	var docs []Document
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			d, err := loadDocument(root)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !textExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			d, err := loadDocument(path)
			if err != nil {
				return err
			}
			docs = append(docs, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return docs, nil
}

func loadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc := Document{
		ID:        filepath.ToSlash(abs),
		SourceURI: "file://" + filepath.ToSlash(abs),
		Text:      string(data),
	}

	// Title falls back to the file name when the text has no level-one heading.
	title := ""
	splitBlocks(doc.Text, &title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	doc.Title = title
	return doc, nil
}
