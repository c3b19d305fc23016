// Command femto runs femtoscopic pair analyses over an event stream and
// manages the SQLite run history.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/monitoring"
	"github.com/banshee-data/femto/internal/version"
)

var (
	verbose bool
	trace   bool
	quiet   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "femto",
		Short:         "Two-particle correlation analysis with event mixing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable diagnostic logging")
	root.PersistentFlags().BoolVar(&trace, "trace", false, "Enable per-event trace logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable all logging")

	root.AddCommand(newRunCmd(), newMigrateCmd(), newRunsCmd(), newVersionCmd())
	return root
}

func configureLogging(w io.Writer) {
	if quiet {
		femto.SetLogWriters(femto.LogWriters{})
		monitoring.SetLogger(nil)
		return
	}
	lw := femto.LogWriters{Ops: w}
	if verbose || trace {
		lw.Diag = w
	}
	if trace {
		lw.Trace = w
	}
	femto.SetLogWriters(lw)
	if !verbose {
		monitoring.SetLogger(nil)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetFlags(0)
		log.Printf("femto: %v", err)
		os.Exit(1)
	}
}
