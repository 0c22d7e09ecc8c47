package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/moolen/rfpagents/internal/agent/catalog"
	"github.com/moolen/rfpagents/internal/agent/registry"
	"github.com/moolen/rfpagents/internal/agent/runner"
	"github.com/moolen/rfpagents/internal/logging"
	"github.com/moolen/rfpagents/internal/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Talk to one of the registered agents",
	Long: `Run an agent by identifier. With --prompt the agent answers once and
exits; otherwise a line-based session reads questions from stdin until EOF
or "exit".

Examples:
  # Ask a general question about the RFP corpus
  rfpagents run --agent rag --prompt "What does a statement of work contain?"

  # Review a draft interactively
  rfpagents run --agent rfp_validation

  # Scripted model against local documents
  rfpagents run --agent rfp_orchestrator --model mock:./scenario.yaml \
    --log-level warn --docs ./guidelines
`,
	RunE: runAgent,
}

var (
	runAgentID     string
	runPrompt      string
	runModel       string
	runAuditLog    string
	runSessionID   string
	runDocs        []string
	runMetricsAddr string
)

func init() {
	runCmd.Flags().StringVar(&runAgentID, "agent", "rag",
		"Identifier of the agent to run (see 'rfpagents agents')")
	runCmd.Flags().StringVar(&runPrompt, "prompt", "",
		"Ask a single question and exit")
	runCmd.Flags().StringVar(&runModel, "model", "",
		"Model override (defaults to the configured model; mock:<scenario.yaml> for a scripted model)")
	runCmd.Flags().StringVar(&runAuditLog, "audit-log", "",
		"Path to write the agent audit log (JSONL). Disabled when empty.")
	runCmd.Flags().StringVar(&runSessionID, "session-id", "",
		"Session identifier (random when empty)")
	runCmd.Flags().StringSliceVar(&runDocs, "docs", nil,
		"Files or directories to load into the memory backend")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9090)")
}

func runAgent(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	logger := logging.GetLogger("commands")

	modelName := cfg.Model
	if runModel != "" {
		modelName = runModel
	}

	// Resolve the identifier before any model or backend is contacted.
	listing, err := registry.New(catalog.Configs(catalog.Dependencies{Corpus: cfg.Corpus, Model: modelName})...)
	if err != nil {
		return err
	}
	if _, err := listing.Get(runAgentID); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewProvider(cfg.Tracing, Version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	var reg *prometheus.Registry
	if runMetricsAddr != "" {
		reg = prometheus.NewRegistry()
		srv := serveMetrics(runMetricsAddr, reg)
		defer srv.Close()
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	st, err := newStack(ctx, cfg, modelName, runDocs, registerer)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.cache != nil {
		defer func() {
			stats := st.cache.Stats()
			logger.Debug("Retrieval cache: %d items, %d hits, %d misses, %d expired",
				stats.Items, stats.Hits, stats.Misses, stats.Expired)
		}()
	}

	agents, err := catalog.NewRegistry(st.deps)
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Config{
		Registry:     agents,
		AgentID:      runAgentID,
		SessionID:    runSessionID,
		AuditLogPath: runAuditLog,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Debug("Session %s started with agent %s", r.SessionID(), runAgentID)

	p := newPrinter()
	out := cmd.OutOrStdout()
	if runPrompt != "" {
		return ask(ctx, r, runPrompt, out, p)
	}
	return repl(ctx, r, cmd.InOrStdin(), out, p)
}

func ask(ctx context.Context, r *runner.Runner, question string, out io.Writer, p *printer) error {
	reply, err := r.Ask(ctx, question)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, p.answer(reply.Text))
	return err
}

// repl answers one question per input line.
func repl(ctx context.Context, r *runner.Runner, in io.Reader, out io.Writer, p *printer) error {
	d := r.Descriptor()
	fmt.Fprintf(out, "%s %s\n", p.style(idStyle, d.ID.String()), p.style(mutedStyle, d.Description))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, p.style(promptStyle, "> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := ask(ctx, r, line, out, p); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintln(out, p.style(errorStyle, "error: "+err.Error()))
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	logger := logging.GetLogger("commands")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed: %v", err)
		}
	}()
	return srv
}
