// Command assessctl is the operator CLI for the assessment service: it checks
// the scoring tables, scores submission files offline, exports the lead log
// and issues admin tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assessctl",
		Short: "Operate the AI assessment scoring service",
		Long: `assessctl works with the same scoring tables, schemas and database as the
API server. Configuration comes from the environment or a .env file in the
working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newValidateCmd(),
		newScoreCmd(),
		newExportCmd(),
		newTokenCmd(),
	)
	return root
}
