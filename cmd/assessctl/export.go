package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/config"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

type exportOptions struct {
	out    string
	kind   string
	status string
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the lead log as CSV",
		Long: `export reads every stored submission (newest first) from the database named
by DB_DRIVER and DATABASE_URL and writes it as the lead log spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			driver, err := store.ParseDriver(cfg.DBDriver)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			st, err := store.Open(ctx, driver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			w := cmd.OutOrStdout()
			if opts.out != "" && opts.out != "-" {
				f, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := runExport(ctx, st, w, opts)
			if err != nil {
				return err
			}
			if opts.out != "" && opts.out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d submissions to %s\n", n, opts.out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "only this assessment kind")
	cmd.Flags().StringVar(&opts.status, "status", "", "only this delivery status (pending|processing|delivered|failed)")
	return cmd
}

func runExport(ctx context.Context, st *store.Store, w io.Writer, opts exportOptions) (int, error) {
	params := store.ListParams{Status: store.Status(opts.status)}
	if opts.kind != "" {
		kind, err := assessment.ParseKind(opts.kind)
		if err != nil {
			return 0, fmt.Errorf("--kind: %w", err)
		}
		params.Kind = string(kind)
	}
	switch params.Status {
	case "", store.StatusPending, store.StatusProcessing, store.StatusDelivered, store.StatusFailed:
	default:
		return 0, fmt.Errorf("--status: unknown status %q", opts.status)
	}

	subs, err := st.List(ctx, params)
	if err != nil {
		return 0, err
	}
	if err := store.WriteCSV(w, subs); err != nil {
		return 0, err
	}
	return len(subs), nil
}
