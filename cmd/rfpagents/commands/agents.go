package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/moolen/rfpagents/internal/agent/catalog"
	"github.com/moolen/rfpagents/internal/agent/registry"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered agents",
	Long: `List every agent identifier with its description, model and retrieval
settings. No model is contacted.`,
	RunE: runAgents,
}

func runAgents(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	reg, err := registry.New(catalog.Configs(catalog.Dependencies{Corpus: cfg.Corpus, Model: cfg.Model})...)
	if err != nil {
		return err
	}
	return printAgents(cmd.OutOrStdout(), reg, newPrinter())
}

func printAgents(w io.Writer, reg *registry.Registry, p *printer) error {
	for _, id := range reg.ListIdentifiers() {
		d, err := reg.Get(id.String())
		if err != nil {
			return err
		}
		r := d.Config.Retrieval
		if _, err := fmt.Fprintf(w, "%s\n  %s\n  %s\n",
			p.style(idStyle, id.String()),
			d.Description,
			p.style(mutedStyle, fmt.Sprintf("model=%s tool=%s top_k=%d threshold=%g",
				d.Config.Model, r.ToolName, r.SimilarityTopK, r.VectorDistanceThreshold)),
		); err != nil {
			return err
		}
	}
	return nil
}
