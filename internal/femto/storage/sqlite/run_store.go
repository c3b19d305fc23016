package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/femto/internal/femto/analysis"
	"github.com/banshee-data/femto/internal/timeutil"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of `femto run`.
type Run struct {
	RunID        string          `json:"run_id"`
	StartedAt    int64           `json:"started_at"`
	FinishedAt   *int64          `json:"finished_at,omitempty"`
	Status       string          `json:"status"`
	Reader       string          `json:"reader"`
	ConfigJSON   json.RawMessage `json:"config_json,omitempty"`
	Settings     []string        `json:"settings,omitempty"`
	EventsRead   int64           `json:"events_read"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// AnalysisStats are the counters of one analysis in one run.
type AnalysisStats struct {
	Analysis string `json:"analysis"`
	analysis.Stats
}

// RunStore persists runs and their per-analysis counters.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used for start and finish timestamps.
func (s *RunStore) SetClock(c timeutil.Clock) { s.clock = c }

// Start inserts run with status running. A missing RunID or StartedAt is
// filled in.
func (s *RunStore) Start(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = s.clock.Now().UnixNano()
	}
	run.Status = StatusRunning

	var cfg any
	if len(run.ConfigJSON) > 0 {
		cfg = string(run.ConfigJSON)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO femto_runs (run_id, started_at, status, reader, config_json, settings)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, run.StartedAt, run.Status, run.Reader, cfg, strings.Join(run.Settings, "\n"))
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// Finish records the final status of a run. errMsg is stored only when
// non-empty.
func (s *RunStore) Finish(runID, status string, eventsRead int64, errMsg string) error {
	var msg any
	if errMsg != "" {
		msg = errMsg
	}
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE femto_runs SET status = ?, finished_at = ?, events_read = ?, error_message = ?
			WHERE run_id = ?`,
			status, s.clock.Now().UnixNano(), eventsRead, msg, runID)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}

// SaveStats stores or replaces the counters of one analysis.
func (s *RunStore) SaveStats(runID, name string, st analysis.Stats) error {
	var under, over int64
	for i := range st.Underflow {
		under += st.Underflow[i]
		over += st.Overflow[i]
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT OR REPLACE INTO femto_analysis_stats (
				run_id, analysis, events_processed, events_passed, events_failed,
				real_pairs, real_pairs_passed, mixed_pairs, mixed_pairs_passed,
				no_event_plane, underflow, overflow
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, name, st.EventsProcessed, st.EventsPassed, st.EventsFailed,
			st.RealPairs, st.RealPairsPassed, st.MixedPairs, st.MixedPairsPassed,
			st.NoEventPlane, under, over)
		if err != nil {
			return fmt.Errorf("insert stats: %w", err)
		}
		return nil
	})
}

const runColumns = `run_id, started_at, finished_at, status, reader, config_json, settings, events_read, error_message`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var finished sql.NullInt64
	var cfg, settings, msg sql.NullString
	if err := row.Scan(&r.RunID, &r.StartedAt, &finished, &r.Status, &r.Reader,
		&cfg, &settings, &r.EventsRead, &msg); err != nil {
		return nil, err
	}
	if finished.Valid {
		r.FinishedAt = &finished.Int64
	}
	if cfg.Valid {
		r.ConfigJSON = json.RawMessage(cfg.String)
	}
	if settings.Valid && settings.String != "" {
		r.Settings = strings.Split(settings.String, "\n")
	}
	r.ErrorMessage = msg.String
	return &r, nil
}

// Get returns one run.
func (s *RunStore) Get(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM femto_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// List returns the most recent runs first. limit <= 0 returns all.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM femto_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns the per-analysis counters of a run ordered by analysis name.
// Per-axis under/overflow are folded into the first axis.
func (s *RunStore) Stats(runID string) ([]AnalysisStats, error) {
	rows, err := s.db.Query(`
		SELECT analysis, events_processed, events_passed, events_failed,
		       real_pairs, real_pairs_passed, mixed_pairs, mixed_pairs_passed,
		       no_event_plane, underflow, overflow
		FROM femto_analysis_stats WHERE run_id = ? ORDER BY analysis`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var out []AnalysisStats
	for rows.Next() {
		var a AnalysisStats
		if err := rows.Scan(&a.Analysis, &a.EventsProcessed, &a.EventsPassed, &a.EventsFailed,
			&a.RealPairs, &a.RealPairsPassed, &a.MixedPairs, &a.MixedPairsPassed,
			&a.NoEventPlane, &a.Underflow[0], &a.Overflow[0]); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes a run with its stats and histograms.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`DELETE FROM femto_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}
