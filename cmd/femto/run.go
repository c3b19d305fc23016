package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/db"
	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/femto/analysis"
	"github.com/banshee-data/femto/internal/femto/manager"
	"github.com/banshee-data/femto/internal/femto/reader"
	"github.com/banshee-data/femto/internal/femto/report"
	"github.com/banshee-data/femto/internal/femto/storage/sqlite"
	"github.com/banshee-data/femto/internal/monitoring"
	"github.com/banshee-data/femto/internal/security"
)

type runOptions struct {
	configPath  string
	readerType  string
	input       string
	maxEvents   int
	dbPath      string
	plotsDir    string
	plotFormat  string
	htmlPath    string
	metricsPath string
	writeEvents string
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process an event stream through the configured analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runAnalyses(ctx, o, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultConfigPath, "Analysis configuration (JSON or YAML)")
	f.StringVar(&o.readerType, "reader", "", "Override the reader type (synthetic, jsonl, lcio)")
	f.StringVarP(&o.input, "input", "i", "", "Override the reader input path")
	f.IntVarP(&o.maxEvents, "max-events", "n", -1, "Stop after this many events (0 for no limit, -1 to use the config)")
	f.StringVar(&o.dbPath, "db", "", "Record the run and its histograms in this SQLite database")
	f.StringVar(&o.plotsDir, "plots", "", "Write one plot per histogram under this directory")
	f.StringVar(&o.plotFormat, "plot-format", "png", "Plot image format (png, svg, pdf)")
	f.StringVar(&o.htmlPath, "html", "", "Write an HTML report to this file")
	f.StringVar(&o.metricsPath, "metrics", "", "Write Prometheus metrics in text format to this file")
	f.StringVar(&o.writeEvents, "write-events", "", "Copy every event read to this JSONL file")
	return cmd
}

func loadConfig(o runOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Reader == nil {
		cfg.Reader = &config.ReaderConfig{}
	}
	if o.readerType != "" {
		cfg.Reader.Type = &o.readerType
	}
	if o.input != "" {
		cfg.Reader.Path = &o.input
	}
	if o.maxEvents >= 0 {
		cfg.Reader.MaxEvents = &o.maxEvents
	}
	return cfg, nil
}

// runAnalyses builds the pipeline described by o, runs it to completion and
// writes the requested outputs. The run summary goes to out.
func runAnalyses(ctx context.Context, o runOptions, out io.Writer) (err error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	var metrics *monitoring.Metrics
	var opts []analysis.Option
	if o.metricsPath != "" {
		metrics = monitoring.NewMetrics()
		opts = append(opts, analysis.WithMetrics(metrics))
	}

	analyses := make([]*analysis.Analysis, len(cfg.Analyses))
	for i := range cfg.Analyses {
		a, err := analysis.FromConfig(&cfg.Analyses[i], i, opts...)
		if err != nil {
			return err
		}
		analyses[i] = a
	}

	rd, err := reader.FromConfig(cfg.Reader)
	if err != nil {
		return err
	}
	mgr := manager.New(rd, cfg.Reader.GetMaxEvents())
	defer func() {
		if cerr := mgr.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	for _, a := range analyses {
		mgr.AddAnalysis(a)
	}
	if o.writeEvents != "" {
		w, err := reader.CreateJSONL(o.writeEvents)
		if err != nil {
			return err
		}
		mgr.AddWriter(w)
	}

	var rec *recorder
	if o.dbPath != "" {
		rec, err = startRecording(o.dbPath, cfg, analyses)
		if err != nil {
			return err
		}
		defer rec.close()
		femto.Opsf("[Run] recording run %s in %s", rec.runID, o.dbPath)
	}

	runErr := mgr.Run(ctx)
	fmt.Fprint(out, mgr.Report())

	if rec != nil {
		if err := rec.finish(mgr.EventsRead(), runErr, analyses); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := writeOutputs(o, analyses, metrics); err != nil {
		return err
	}
	return runErr
}

func writeOutputs(o runOptions, analyses []*analysis.Analysis, metrics *monitoring.Metrics) error {
	if o.plotsDir != "" {
		for _, a := range analyses {
			paths, err := report.WritePlots(filepath.Join(o.plotsDir, security.SanitizeFilename(a.Name())), o.plotFormat, a.OutputList())
			if err != nil && !errors.Is(err, report.ErrNoOutputs) {
				return fmt.Errorf("plots for %s: %w", a.Name(), err)
			}
			femto.Diagf("[Run] %s: wrote %d plots", a.Name(), len(paths))
		}
	}
	if o.htmlPath != "" {
		if err := writeHTML(o.htmlPath, analyses); err != nil {
			return err
		}
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(o.metricsPath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func writeHTML(path string, analyses []*analysis.Analysis) error {
	sections := make([]report.Section, len(analyses))
	for i, a := range analyses {
		sections[i] = report.Section{Analysis: a.Name(), Outputs: a.OutputList()}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	if err := report.WriteHTML(f, "femto report", sections); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// recorder stores one run in the database.
type recorder struct {
	db    *db.DB
	runs  *sqlite.RunStore
	hists *sqlite.HistogramStore
	runID string
}

func startRecording(path string, cfg *config.Config, analyses []*analysis.Analysis) (*recorder, error) {
	d, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("encode config: %w", err)
	}
	run := &sqlite.Run{
		Reader:     cfg.Reader.GetType(),
		ConfigJSON: cfgJSON,
	}
	for _, a := range analyses {
		run.Settings = append(run.Settings, a.Settings()...)
	}
	runs := sqlite.NewRunStore(d.DB)
	if err := runs.Start(run); err != nil {
		d.Close()
		return nil, err
	}
	return &recorder{db: d, runs: runs, hists: sqlite.NewHistogramStore(d.DB), runID: run.RunID}, nil
}

func (r *recorder) finish(events int64, runErr error, analyses []*analysis.Analysis) error {
	status, msg := sqlite.StatusCompleted, ""
	switch {
	case errors.Is(runErr, context.Canceled):
		status = sqlite.StatusCancelled
	case runErr != nil:
		status, msg = sqlite.StatusFailed, runErr.Error()
	}
	var errs []error
	for _, a := range analyses {
		if err := r.runs.SaveStats(r.runID, a.Name(), a.Stats()); err != nil {
			errs = append(errs, err)
		}
		if err := r.hists.Save(r.runID, a.Name(), a.OutputList()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.runs.Finish(r.runID, status, events, msg); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *recorder) close() {
	if err := r.db.Close(); err != nil {
		femto.Opsf("[Run] failed to close database: %v", err)
	}
}
