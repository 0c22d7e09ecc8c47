package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moolen/rfpagents/internal/config"
	"github.com/moolen/rfpagents/internal/corpus"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest PATH...",
	Short: "Load documents into the local corpus",
	Long: `Chunk, embed and store Markdown and text files for the qdrant backend.
With the memory backend the documents are processed and discarded, which is
useful to check chunking and embedding credentials.

Examples:
  RFP_BACKEND=qdrant RAG_CORPUS=rfp-guidelines rfpagents ingest ./docs
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestConcurrency int

func init() {
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 4,
		"Embedding batches processed in parallel")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendVertex {
		return fmt.Errorf("the vertex backend is managed in Vertex AI; set RFP_BACKEND=qdrant or memory to ingest locally")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ingester := corpus.NewIngester(embedder, store, cfg.Embedding.BatchSize)
	if ingestConcurrency > 0 {
		ingester.Concurrency = ingestConcurrency
	}

	stats, err := ingester.IngestPaths(ctx, args...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ingested %d documents (%d chunks) into %s\n",
		stats.Documents, stats.Chunks, cfg.QdrantCollection())
	return nil
}
