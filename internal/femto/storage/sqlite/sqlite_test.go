package sqlite

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/femto/internal/femto/analysis"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/timeutil"
)

func TestRunLifecycle(t *testing.T) {
	db := setupTestDB(t)
	s := NewRunStore(db)

	run := &Run{
		Reader:     "synthetic",
		ConfigJSON: json.RawMessage(`{"analyses":[{}]}`),
		Settings:   []string{"analysis.name=pions", "analysis.driver=vertex"},
	}
	require.NoError(t, s.Start(run))
	require.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.StartedAt)

	got, err := s.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Nil(t, got.FinishedAt)
	assert.Equal(t, run.Settings, got.Settings)
	assert.JSONEq(t, `{"analyses":[{}]}`, string(got.ConfigJSON))

	st := analysis.Stats{EventsProcessed: 10, EventsPassed: 8, EventsFailed: 2, RealPairs: 40, RealPairsPassed: 35}
	st.Overflow[0], st.Overflow[1] = 1, 2
	require.NoError(t, s.SaveStats(run.RunID, "pions", st))
	require.NoError(t, s.SaveStats(run.RunID, "kaons", analysis.Stats{EventsProcessed: 3}))
	require.NoError(t, s.Finish(run.RunID, StatusCompleted, 12, ""))

	got, err = s.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, int64(12), got.EventsRead)
	require.NotNil(t, got.FinishedAt)
	assert.Empty(t, got.ErrorMessage)

	stats, err := s.Stats(run.RunID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "kaons", stats[0].Analysis)
	assert.Equal(t, int64(35), stats[1].RealPairsPassed)
	assert.Equal(t, int64(3), stats[1].Overflow[0])
}

func TestRunListAndErrors(t *testing.T) {
	db := setupTestDB(t)
	s := NewRunStore(db)

	for i := range 3 {
		require.NoError(t, s.Start(&Run{StartedAt: int64(100 + i)}))
	}
	runs, err := s.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(102), runs[0].StartedAt)

	all, err := s.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.Get("missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.ErrorIs(t, s.Finish("missing", StatusFailed, 0, "boom"), ErrRunNotFound)

	require.NoError(t, s.Finish(all[0].RunID, StatusFailed, 0, "reader: corrupt"))
	got, err := s.Get(all[0].RunID)
	require.NoError(t, err)
	assert.Equal(t, "reader: corrupt", got.ErrorMessage)

	require.NoError(t, s.Delete(all[0].RunID))
	assert.ErrorIs(t, s.Delete(all[0].RunID), ErrRunNotFound)
}

func TestHistogramStore(t *testing.T) {
	db := setupTestDB(t)
	runs := NewRunStore(db)
	run := &Run{}
	require.NoError(t, runs.Start(run))

	num := hist.NewH1("num_q", "q_{inv}", 4, 0, 0.4)
	num.Fill(0.05, 1)
	num.Fill(0.15, 2)
	den := hist.NewH1("den_q", "q_{inv}", 4, 0, 0.4)
	den.Fill(0.15, 4)
	h3 := hist.NewH3("num_bp", "", 2, -1, 1)
	h3.Fill(0.5, 0.5, 0.5, 1)

	hs := NewHistogramStore(db)
	require.NoError(t, hs.Save(run.RunID, "pions", []hist.Output{num, den, h3}))
	// Saving again replaces rather than duplicates.
	require.NoError(t, hs.Save(run.RunID, "pions", []hist.Output{num}))

	list, err := hs.List(run.RunID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "den_q", list[0].Name)
	assert.Equal(t, "num_bp", list[1].Name)
	assert.Equal(t, 3, list[1].Dims)
	assert.Equal(t, 8, list[1].Bins)
	assert.Equal(t, "num_q", list[2].Name)
	assert.Equal(t, 4, list[2].Bins)

	pts, err := hs.Points(list[2].HistogramID)
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assert.Equal(t, 1.0, pts[0].Value)
	assert.Equal(t, 2.0, pts[1].Value)
	assert.InDelta(t, 0.15, pts[1].X, 1e-12)

	// Deleting the run cascades to its histograms.
	require.NoError(t, runs.Delete(run.RunID))
	list, err = hs.List(run.RunID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunTimestampsFromClock(t *testing.T) {
	s := NewRunStore(setupTestDB(t))
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	s.SetClock(clock)

	run := &Run{Reader: "lcio"}
	require.NoError(t, s.Start(run))
	assert.Equal(t, start.UnixNano(), run.StartedAt)

	clock.Advance(time.Minute)
	require.NoError(t, s.Finish(run.RunID, StatusFailed, 7, "reader: short read"))

	got, err := s.Get(run.RunID)
	require.NoError(t, err)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, start.Add(time.Minute).UnixNano(), *got.FinishedAt)
	assert.Equal(t, "reader: short read", got.ErrorMessage)
}
