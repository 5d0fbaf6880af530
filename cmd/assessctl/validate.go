package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every scoring table and schema, then print the band tables",
		Long: `validate builds each assessment engine, which rejects tables whose bands
do not partition 0-100, whose maximum raw score is wrong or whose rules point
at unknown questions. It also compiles the submission schemas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := assessment.NewService()
			if err != nil {
				return err
			}
			if _, err := schema.NewValidator(); err != nil {
				return err
			}
			printBandTables(cmd.OutOrStdout(), svc)
			return nil
		},
	}
}

func printBandTables(w io.Writer, svc *assessment.Service) {
	styles := newPrintStyles()
	for _, kind := range assessment.Kinds() {
		engine, ok := svc.Engine(kind)
		if !ok {
			continue
		}
		cfg := engine.Config()

		direction := "higher is better"
		if cfg.Polarity == scoring.HigherIsWorse {
			direction = "higher is worse"
		}
		fmt.Fprintln(w, styles.header.Render(fmt.Sprintf("%s (%s)", kind.Title(), kind)))
		fmt.Fprintln(w, styles.dim.Render(fmt.Sprintf("  %d questions, max raw %d, %s", len(cfg.Questions), cfg.MaxRawScore, direction)))
		for i, b := range cfg.Bands {
			label := styles.band(i, len(cfg.Bands), cfg.Polarity).Render(fmt.Sprintf("%-14s", b.Label))
			fmt.Fprintf(w, "  %3d-%-3d  %s %s\n", b.Min, b.Max, label, styles.dim.Render(truncate(b.Narrative, 60)))
		}
		if cfg.Escalation != nil {
			fmt.Fprintf(w, "  escalates one band at %d unknown answers\n", cfg.Escalation.Threshold)
		}
		for _, t := range cfg.Tiers {
			fmt.Fprintf(w, "  tier %q from %s × %s (%d combinations)\n", t.Name, t.First, t.Second, len(t.Tiers))
		}
		fmt.Fprintln(w, styles.good.Render("  ✓ configuration valid"))
		fmt.Fprintln(w)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
