package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/monitoring"
)

// Histogram describes one stored output.
type Histogram struct {
	HistogramID string `json:"histogram_id"`
	RunID       string `json:"run_id"`
	Analysis    string `json:"analysis"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Dims        int    `json:"dims"`
	Bins        int    `json:"bins"`
}

// HistogramStore persists output histograms bin by bin.
type HistogramStore struct {
	db *sql.DB
}

func NewHistogramStore(db *sql.DB) *HistogramStore {
	return &HistogramStore{db: db}
}

// Save writes every output of one analysis in a single transaction.
// Outputs already stored under the same name are replaced.
func (s *HistogramStore) Save(runID, analysisName string, outs []hist.Output) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		bins, err := tx.Prepare(`
			INSERT INTO femto_histogram_bins (histogram_id, bin, x, y, z, value, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare bins: %w", err)
		}
		defer bins.Close()

		for _, o := range outs {
			if _, err := tx.Exec(`DELETE FROM femto_histograms WHERE run_id = ? AND analysis = ? AND name = ?`,
				runID, analysisName, o.Name()); err != nil {
				return fmt.Errorf("replace histogram %s: %w", o.Name(), err)
			}
			id := uuid.New().String()
			if _, err := tx.Exec(`
				INSERT INTO femto_histograms (histogram_id, run_id, analysis, name, title, dims)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, runID, analysisName, o.Name(), o.Title(), o.Dims()); err != nil {
				return fmt.Errorf("insert histogram %s: %w", o.Name(), err)
			}
			for _, p := range o.Points() {
				if _, err := bins.Exec(id, p.Index, p.X, p.Y, p.Z, p.Value, p.Err); err != nil {
					return fmt.Errorf("insert bin %d of %s: %w", p.Index, o.Name(), err)
				}
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		monitoring.Logf("stored %d histograms for %s/%s", len(outs), runID, analysisName)
		return nil
	})
}

// List returns the histograms of a run ordered by analysis and name.
func (s *HistogramStore) List(runID string) ([]Histogram, error) {
	rows, err := s.db.Query(`
		SELECT h.histogram_id, h.run_id, h.analysis, h.name, h.title, h.dims, COUNT(b.bin)
		FROM femto_histograms h
		LEFT JOIN femto_histogram_bins b ON b.histogram_id = h.histogram_id
		WHERE h.run_id = ?
		GROUP BY h.histogram_id
		ORDER BY h.analysis, h.name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query histograms: %w", err)
	}
	defer rows.Close()

	var out []Histogram
	for rows.Next() {
		var h Histogram
		if err := rows.Scan(&h.HistogramID, &h.RunID, &h.Analysis, &h.Name, &h.Title, &h.Dims, &h.Bins); err != nil {
			return nil, fmt.Errorf("scan histogram: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Points returns the bins of one histogram in index order.
func (s *HistogramStore) Points(histogramID string) ([]hist.Point, error) {
	rows, err := s.db.Query(`
		SELECT bin, x, y, z, value, error FROM femto_histogram_bins
		WHERE histogram_id = ? ORDER BY bin`, histogramID)
	if err != nil {
		return nil, fmt.Errorf("query bins: %w", err)
	}
	defer rows.Close()

	var pts []hist.Point
	for rows.Next() {
		var p hist.Point
		if err := rows.Scan(&p.Index, &p.X, &p.Y, &p.Z, &p.Value, &p.Err); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}
