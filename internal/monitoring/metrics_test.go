package monitoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.EventProcessed("pions")
	m.EventProcessed("pions")
	m.EventAccepted("pions")
	m.EventRejected("pions", "size")
	m.PairsAccepted("pions", "real", 15)
	m.PairsAccepted("pions", "real", 5)
	m.BinMiss("pions", "vertex_z", "overflow")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsProcessed.WithLabelValues("pions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsAccepted.WithLabelValues("pions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsRejected.WithLabelValues("pions", "size")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.Pairs.WithLabelValues("pions", "real")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BinMisses.WithLabelValues("pions", "vertex_z", "overflow")))

	// Each instance has its own registry.
	other := NewMetrics()
	assert.Zero(t, testutil.ToFloat64(other.EventsProcessed.WithLabelValues("pions")))
}

func TestWriteTextfile(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()
	SetLogger(nil)

	m := NewMetrics()
	m.PairsAccepted("kk", "mixed", 3)
	path := filepath.Join(t.TempDir(), "femto.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `femto_analysis_pairs_accepted_total{analysis="kk",kind="mixed"} 3`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "femto.prom"))
	assert.Error(t, err)
}
