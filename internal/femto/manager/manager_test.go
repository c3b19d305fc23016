package manager

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/analysis"
	"github.com/banshee-data/femto/internal/femto/corrfctn"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/particle"
	"github.com/banshee-data/femto/internal/timeutil"
)

type sliceReader struct {
	events []*event.Event
	err    error // returned once the events run out; io.EOF when nil
	closed bool
}

func (r *sliceReader) Next(context.Context) (*event.Event, error) {
	if len(r.events) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev, nil
}

func (r *sliceReader) Report() string { return "slice reader\n" }
func (r *sliceReader) Close() error   { r.closed = true; return nil }

type countingAnalysis struct {
	events   []int
	finished int
}

func (a *countingAnalysis) Name() string                 { return "counting" }
func (a *countingAnalysis) ProcessEvent(ev *event.Event) { a.events = append(a.events, ev.EventID) }
func (a *countingAnalysis) Finish()                      { a.finished++ }
func (a *countingAnalysis) Report() string               { return "counting report\n" }

type failingWriter struct {
	n      int
	failAt int
}

func (w *failingWriter) WriteEvent(*event.Event) error {
	w.n++
	if w.n == w.failAt {
		return errors.New("disk full")
	}
	return nil
}
func (w *failingWriter) Report() string { return "failing writer\n" }
func (w *failingWriter) Close() error   { return errors.New("close failed") }

func events(n int) []*event.Event {
	out := make([]*event.Event, n)
	for i := range out {
		out[i] = &event.Event{EventID: i}
	}
	return out
}

func TestRunToEndOfStream(t *testing.T) {
	t.Parallel()
	r := &sliceReader{events: events(5)}
	m := New(r, 0)
	a, b := &countingAnalysis{}, &countingAnalysis{}
	m.AddAnalysis(a)
	m.AddAnalysis(b)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, a.events)
	assert.Equal(t, a.events, b.events)
	assert.Equal(t, 1, a.finished)
	assert.Equal(t, int64(5), m.EventsRead())

	require.NoError(t, m.Close())
	assert.True(t, r.closed)

	rep := m.Report()
	assert.Contains(t, rep, "Manager: 5 events")
	assert.Contains(t, rep, "slice reader")
	assert.Contains(t, rep, "Analysis 1 (counting)")
}

func TestRunMaxEvents(t *testing.T) {
	t.Parallel()
	m := New(&sliceReader{events: events(10)}, 3)
	a := &countingAnalysis{}
	m.AddAnalysis(a)
	require.NoError(t, m.Run(context.Background()))
	assert.Len(t, a.events, 3)
}

func TestRunReaderError(t *testing.T) {
	t.Parallel()
	boom := errors.New("corrupt record")
	m := New(&sliceReader{events: events(2), err: boom}, 0)
	a := &countingAnalysis{}
	m.AddAnalysis(a)

	err := m.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.events, 2)
	assert.Equal(t, 1, a.finished, "analyses are finished after a reader failure")
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(&sliceReader{events: events(3)}, 0)
	a := &countingAnalysis{}
	m.AddAnalysis(a)

	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.Empty(t, a.events)
	assert.Equal(t, 1, a.finished)
}

func TestRunWriterError(t *testing.T) {
	t.Parallel()
	m := New(&sliceReader{events: events(4)}, 0)
	w := &failingWriter{failAt: 2}
	m.AddWriter(w)
	a := &countingAnalysis{}
	m.AddAnalysis(a)

	err := m.Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []int{0}, a.events)
	assert.ErrorContains(t, m.Close(), "close failed")
}

func TestRunWithAnalysis(t *testing.T) {
	t.Parallel()
	life := &particle.LifecycleCounter{}
	a, err := analysis.New(analysis.Config{
		Name:        "pions",
		Species:     analysis.IdenticalSpecies,
		EventCut:    cut.NewBasicEventCut(),
		FirstCut:    cut.NewMomentumCut(particle.KindTrack, 0.13957),
		PairCut:     &cut.AcceptAllPairs{},
		MixingDepth: 3,
	}, analysis.WithLifecycle(life))
	require.NoError(t, err)
	cf := corrfctn.NewQInv("q", 40, 0, 0.4)
	a.AddCorrFctn(cf)

	evs := events(6)
	for i, ev := range evs {
		for j := range 3 {
			ev.Tracks = append(ev.Tracks, event.Track{
				ID: j, Charge: 1, Primary: true,
				PMom: r3.Vec{X: 0.2 + 0.02*float64(j), Y: 0.05 * float64(i%2), Z: 0.01 * float64(j)},
			})
		}
	}
	m := New(&sliceReader{events: evs}, 0)
	m.AddAnalysis(a)
	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, int64(6*3), a.Stats().RealPairs)
	assert.Equal(t, int64(9*(1+2+3+3+3)), a.Stats().MixedPairs)
	assert.Zero(t, life.Live())
	assert.Len(t, cf.OutputList(), 3)
	assert.Contains(t, m.Report(), "Hbt Analysis Report: pions")
}

type tickingReader struct {
	sliceReader
	clock *timeutil.MockClock
}

func (r *tickingReader) Next(ctx context.Context) (*event.Event, error) {
	r.clock.Advance(time.Second)
	return r.sliceReader.Next(ctx)
}

func TestRunElapsedFromClock(t *testing.T) {
	t.Parallel()
	clock := timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	m := New(&tickingReader{sliceReader: sliceReader{events: events(3)}, clock: clock}, 0)
	m.SetClock(clock)

	require.NoError(t, m.Run(context.Background()))
	// Three events plus the read that hits the end of the stream.
	assert.Contains(t, m.Report(), "Manager: 3 events in 4s")
}
