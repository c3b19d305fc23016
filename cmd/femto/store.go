package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/femto/internal/db"
	"github.com/banshee-data/femto/internal/femto/storage/sqlite"
)

const defaultDBPath = "femto.db"

func newMigrateCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run database schema",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "SQLite database path")

	withDB := func(fn func(d *db.DB, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			d, err := db.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer d.Close()
			return fn(d, cmd.OutOrStdout(), args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDB(func(d *db.DB, out io.Writer, _ []string) error {
				if err := d.MigrateUp(db.Migrations()); err != nil {
					return err
				}
				return printVersion(d, out)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withDB(func(d *db.DB, out io.Writer, _ []string) error {
				if err := d.MigrateDown(db.Migrations()); err != nil {
					return err
				}
				return printVersion(d, out)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: withDB(func(d *db.DB, out io.Writer, _ []string) error {
				return printVersion(d, out)
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withDB(func(d *db.DB, out io.Writer, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				if err := d.MigrateForce(db.Migrations(), v); err != nil {
					return err
				}
				return printVersion(d, out)
			}),
		},
	)
	return cmd
}

func printVersion(d *db.DB, out io.Writer) error {
	v, dirty, err := d.MigrateVersion(db.Migrations())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d", v)
	if dirty {
		fmt.Fprint(out, " (dirty)")
	}
	fmt.Fprintln(out)
	return nil
}

func newRunsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "SQLite database path")

	withStore := func(fn func(runs *sqlite.RunStore, hists *sqlite.HistogramStore, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			d, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer d.Close()
			return fn(sqlite.NewRunStore(d.DB), sqlite.NewHistogramStore(d.DB), cmd.OutOrStdout(), args)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: withStore(func(runs *sqlite.RunStore, _ *sqlite.HistogramStore, out io.Writer, _ []string) error {
			rs, err := runs.List(limit)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(out).Encode(rs)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tSTARTED\tSTATUS\tREADER\tEVENTS")
			for _, r := range rs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.RunID,
					time.Unix(0, r.StartedAt).Format(time.RFC3339), r.Status, r.Reader, r.EventsRead)
			}
			return tw.Flush()
		}),
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	list.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its analysis counters and histograms",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(runs *sqlite.RunStore, hists *sqlite.HistogramStore, out io.Writer, args []string) error {
			r, err := runs.Get(args[0])
			if err != nil {
				return err
			}
			stats, err := runs.Stats(r.RunID)
			if err != nil {
				return err
			}
			hs, err := hists.List(r.RunID)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(out).Encode(struct {
					Run        *sqlite.Run            `json:"run"`
					Stats      []sqlite.AnalysisStats `json:"stats"`
					Histograms []sqlite.Histogram     `json:"histograms"`
				}{r, stats, hs})
			}
			fmt.Fprintf(out, "Run %s: %s, %d events from %s\n", r.RunID, r.Status, r.EventsRead, r.Reader)
			if r.ErrorMessage != "" {
				fmt.Fprintf(out, "Error: %s\n", r.ErrorMessage)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ANALYSIS\tEVENTS\tPASSED\tREAL PAIRS\tMIXED PAIRS")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d/%d\t%d/%d\n", s.Analysis, s.EventsProcessed, s.EventsPassed,
					s.RealPairsPassed, s.RealPairs, s.MixedPairsPassed, s.MixedPairs)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d histograms\n", len(hs))
			for _, h := range hs {
				fmt.Fprintf(out, "  %s/%s (%dD, %d bins)\n", h.Analysis, h.Name, h.Dims, h.Bins)
			}
			return nil
		}),
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	del := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run with its counters and histograms",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(runs *sqlite.RunStore, _ *sqlite.HistogramStore, out io.Writer, args []string) error {
			if err := runs.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted run %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
